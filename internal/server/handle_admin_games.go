package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/arcade/internal/arcade"
	"github.com/playperu/arcade/internal/catalog"
)

// AdminGame is the full definition as administrators edit it, answers
// included. Field checks here catch malformed requests; playability is
// decided by the engine's definition validation.
type AdminGame struct {
	ID              string              `json:"id"`
	Title           string              `json:"title" validate:"required,max=200"`
	Description     string              `json:"description" validate:"max=2000"`
	RewardPoints    int                 `json:"rewardPoints" validate:"min=0"`
	Variant         string              `json:"variant" validate:"required"`
	Active          bool                `json:"active"`
	Questions       []AdminQuestion     `json:"questions,omitempty" validate:"dive"`
	MemoryItems     []string            `json:"memoryItems,omitempty" validate:"dive,required"`
	TimelineItems   []AdminTimelineItem `json:"timelineItems,omitempty" validate:"dive"`
	BackgroundImage string              `json:"backgroundImage,omitempty"`
	HiddenObjects   []AdminHiddenObject `json:"hiddenObjects,omitempty" validate:"dive"`
}

type AdminQuestion struct {
	ID             string   `json:"id" validate:"required"`
	Kind           string   `json:"kind" validate:"required,oneof=single_choice multi_choice true_false"`
	Prompt         string   `json:"prompt" validate:"required"`
	Options        []string `json:"options" validate:"required,dive,required"`
	CorrectOptions []int    `json:"correctOptions" validate:"required"`
	Category       string   `json:"category,omitempty"`
}

type AdminTimelineItem struct {
	ID   string `json:"id" validate:"required"`
	Text string `json:"text" validate:"required"`
	Year int    `json:"year"`
}

type AdminHiddenObject struct {
	ID       string  `json:"id" validate:"required"`
	Label    string  `json:"label" validate:"required"`
	Question string  `json:"question"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Radius   float64 `json:"radius"`
}

// AdminStatusRequest is the body of PUT /api/admin/games/{gameID}/status.
type AdminStatusRequest struct {
	Active *bool `json:"active" validate:"required"`
}

func (g AdminGame) definition() arcade.Definition {
	def := arcade.Definition{
		ID:              g.ID,
		Title:           g.Title,
		Description:     g.Description,
		RewardPoints:    g.RewardPoints,
		Variant:         arcade.Variant(g.Variant),
		Active:          g.Active,
		MemoryItems:     g.MemoryItems,
		BackgroundImage: g.BackgroundImage,
	}
	for _, q := range g.Questions {
		def.Questions = append(def.Questions, arcade.Question{
			ID:             q.ID,
			Kind:           arcade.QuestionKind(q.Kind),
			Prompt:         q.Prompt,
			Options:        q.Options,
			CorrectOptions: q.CorrectOptions,
			Category:       arcade.Category(q.Category),
		})
	}
	for _, it := range g.TimelineItems {
		def.TimelineItems = append(def.TimelineItems, arcade.TimelineItem(it))
	}
	for _, o := range g.HiddenObjects {
		def.HiddenObjects = append(def.HiddenObjects, arcade.HiddenObject(o))
	}
	return def
}

func adminGameFrom(def arcade.Definition) AdminGame {
	g := AdminGame{
		ID:              def.ID,
		Title:           def.Title,
		Description:     def.Description,
		RewardPoints:    def.RewardPoints,
		Variant:         string(def.Variant),
		Active:          def.Active,
		MemoryItems:     def.MemoryItems,
		BackgroundImage: def.BackgroundImage,
	}
	for _, q := range def.Questions {
		g.Questions = append(g.Questions, AdminQuestion{
			ID:             q.ID,
			Kind:           string(q.Kind),
			Prompt:         q.Prompt,
			Options:        q.Options,
			CorrectOptions: q.CorrectOptions,
			Category:       string(q.Category),
		})
	}
	for _, it := range def.TimelineItems {
		g.TimelineItems = append(g.TimelineItems, AdminTimelineItem(it))
	}
	for _, o := range def.HiddenObjects {
		g.HiddenObjects = append(g.HiddenObjects, AdminHiddenObject(o))
	}
	return g
}

func handleAdminListGames(logger *slog.Logger, games *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defs, err := games.List(r.Context())
		if err != nil {
			writeFailure(w, logger, err)
			return
		}
		out := make([]AdminGame, 0, len(defs))
		for _, def := range defs {
			out = append(out, adminGameFrom(def))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleAdminGetGame(logger *slog.Logger, games *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		def, err := games.Get(r.Context(), chi.URLParam(r, "gameID"))
		if err != nil {
			writeFailure(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, adminGameFrom(def))
	}
}

// handleAdminPutGame creates or replaces a definition. Unplayable
// definitions are rejected with 422 and never reach the catalog.
func handleAdminPutGame(logger *slog.Logger, games *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminGame
		if err := readValid(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.ID = chi.URLParam(r, "gameID")

		def := req.definition()
		if err := games.Put(r.Context(), def); err != nil {
			writeFailure(w, logger, err)
			return
		}
		logger.Info("game saved", "game_id", def.ID, "variant", string(def.Variant), "admin_id", adminFrom(r).AdminID)
		writeJSON(w, http.StatusOK, adminGameFrom(def))
	}
}

func handleAdminSetStatus(logger *slog.Logger, games *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminStatusRequest
		if err := readValid(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		def, err := games.SetActive(r.Context(), chi.URLParam(r, "gameID"), *req.Active)
		if err != nil {
			writeFailure(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, adminGameFrom(def))
	}
}

func handleAdminDeleteGame(logger *slog.Logger, games *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := games.Delete(r.Context(), chi.URLParam(r, "gameID")); err != nil {
			writeFailure(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
