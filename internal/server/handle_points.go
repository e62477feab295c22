package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/playperu/arcade/internal/ledger"
)

const (
	historyLimit        = 20
	defaultLeaderboard  = 10
	maxLeaderboardLimit = 100
)

// PointsResponse is the caller's balance and latest credits.
type PointsResponse struct {
	UserID  string               `json:"userId"`
	Balance int64                `json:"balance"`
	History []ledger.Transaction `json:"history"`
}

func handleMyPoints(logger *slog.Logger, points *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userFrom(r)
		balance, err := points.Balance(r.Context(), userID)
		if err != nil {
			writeFailure(w, logger, err)
			return
		}
		history, err := points.History(r.Context(), userID, historyLimit)
		if err != nil {
			writeFailure(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, PointsResponse{UserID: userID, Balance: balance, History: history})
	}
}

func handleLeaderboard(logger *slog.Logger, points *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultLeaderboard
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > maxLeaderboardLimit {
				writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
				return
			}
			limit = n
		}

		standings, err := points.Top(r.Context(), limit)
		if err != nil {
			writeFailure(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, standings)
	}
}
