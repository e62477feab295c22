package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/arcade/internal/arcade"
	"github.com/playperu/arcade/internal/catalog"
)

// GameSummary is a catalog entry as players see it.
type GameSummary struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Variant      arcade.Variant `json:"variant"`
	RewardPoints int            `json:"rewardPoints"`
}

// GameDetail adds what a player may know before starting: how much content
// there is, never the content itself.
type GameDetail struct {
	GameSummary
	Questions       int    `json:"questions,omitempty"`
	Pairs           int    `json:"pairs,omitempty"`
	TimelineItems   int    `json:"timelineItems,omitempty"`
	HiddenObjects   int    `json:"hiddenObjects,omitempty"`
	BackgroundImage string `json:"backgroundImage,omitempty"`
}

func summaryOf(def arcade.Definition) GameSummary {
	return GameSummary{
		ID:           def.ID,
		Title:        def.Title,
		Description:  def.Description,
		Variant:      def.Variant,
		RewardPoints: def.RewardPoints,
	}
}

func handleListGames(logger *slog.Logger, games *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defs, err := games.ListActive(r.Context())
		if err != nil {
			writeFailure(w, logger, err)
			return
		}
		out := make([]GameSummary, 0, len(defs))
		for _, def := range defs {
			out = append(out, summaryOf(def))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleGetGame(logger *slog.Logger, games *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		def, err := games.GetActive(r.Context(), chi.URLParam(r, "gameID"))
		if err != nil {
			writeFailure(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, GameDetail{
			GameSummary:     summaryOf(def),
			Questions:       len(def.Questions),
			Pairs:           len(def.MemoryItems),
			TimelineItems:   len(def.TimelineItems),
			HiddenObjects:   len(def.HiddenObjects),
			BackgroundImage: def.BackgroundImage,
		})
	}
}
