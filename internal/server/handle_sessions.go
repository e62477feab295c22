package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/arcade/internal/arcade"
	"github.com/playperu/arcade/internal/catalog"
)

func handleCreateSession(logger *slog.Logger, games *catalog.Store, sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		def, err := games.GetActive(r.Context(), chi.URLParam(r, "gameID"))
		if err != nil {
			writeFailure(w, logger, err)
			return
		}

		s, err := sessions.Create(def, userFrom(r))
		if err != nil {
			writeFailure(w, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, s.Snapshot())
	}
}

func handleGetSession(logger *slog.Logger, sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessions.Get(chi.URLParam(r, "sessionID"), userFrom(r))
		if err != nil {
			writeFailure(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, s.Snapshot())
	}
}

// handleCommand applies one player input. Rejected inputs leave the session
// unchanged; the error body says why.
func handleCommand(logger *slog.Logger, sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessions.Get(chi.URLParam(r, "sessionID"), userFrom(r))
		if err != nil {
			writeFailure(w, logger, err)
			return
		}

		var cmd Command
		if err := readValid(r, &cmd); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		res, err := applyCommand(s, cmd)
		if err != nil {
			if errors.Is(err, arcade.ErrTimelineOutOfOrder) {
				// The failed validation is itself a state change.
				sessions.Changed(s)
			}
			writeFailure(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, res.response(sessions.Changed(s)))
	}
}

func handleRetryReward(logger *slog.Logger, sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessions.Get(chi.URLParam(r, "sessionID"), userFrom(r))
		if err != nil {
			writeFailure(w, logger, err)
			return
		}
		if err := s.RetryReward(); err != nil {
			writeFailure(w, logger, err)
			return
		}
		writeJSON(w, http.StatusAccepted, sessions.Changed(s))
	}
}

func handleCloseSession(logger *slog.Logger, sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sessions.Close(chi.URLParam(r, "sessionID"), userFrom(r)); err != nil {
			writeFailure(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
