// Package catalog stores game definitions and serves the active ones to
// players.
package catalog

import (
	"fmt"

	"github.com/playperu/arcade/internal/arcade"
)

const (
	StatusActive = "active"
	StatusDraft  = "draft"
)

// Stored documents use the data store's snake_case field names. The pair of
// mapping functions below is the only place where they are translated to
// and from the engine's model.

type definitionRecord struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	RewardPoints    int                  `json:"reward_points"`
	Variant         string               `json:"variant"`
	Status          string               `json:"status"`
	Questions       []questionRecord     `json:"questions,omitempty"`
	MemoryItems     []string             `json:"memory_items,omitempty"`
	TimelineItems   []timelineItemRecord `json:"timeline_items,omitempty"`
	BackgroundImage string               `json:"background_image,omitempty"`
	HiddenObjects   []hiddenObjectRecord `json:"hidden_objects,omitempty"`
	UpdatedAt       string               `json:"updated_at,omitempty"`
}

type questionRecord struct {
	ID                   string   `json:"id"`
	Kind                 string   `json:"kind"`
	Prompt               string   `json:"prompt"`
	Options              []string `json:"options"`
	CorrectOptionIndices []int    `json:"correct_option_indices"`
	TrivialCategory      string   `json:"trivial_category,omitempty"`
}

type timelineItemRecord struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Year int    `json:"year"`
}

type hiddenObjectRecord struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Question string  `json:"question"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Radius   float64 `json:"radius"`
}

// toDefinition maps a stored record to the engine model. An unknown variant
// or status fails the load.
func toDefinition(rec definitionRecord) (arcade.Definition, error) {
	variant, err := arcade.ParseVariant(rec.Variant)
	if err != nil {
		return arcade.Definition{}, fmt.Errorf("game %q: %w", rec.ID, err)
	}
	if rec.Status != StatusActive && rec.Status != StatusDraft {
		return arcade.Definition{}, fmt.Errorf("game %q: unknown status %q", rec.ID, rec.Status)
	}

	def := arcade.Definition{
		ID:              rec.ID,
		Title:           rec.Title,
		Description:     rec.Description,
		RewardPoints:    rec.RewardPoints,
		Variant:         variant,
		Active:          rec.Status == StatusActive,
		MemoryItems:     append([]string(nil), rec.MemoryItems...),
		BackgroundImage: rec.BackgroundImage,
	}
	for _, q := range rec.Questions {
		def.Questions = append(def.Questions, arcade.Question{
			ID:             q.ID,
			Kind:           arcade.QuestionKind(q.Kind),
			Prompt:         q.Prompt,
			Options:        append([]string(nil), q.Options...),
			CorrectOptions: append([]int(nil), q.CorrectOptionIndices...),
			Category:       arcade.Category(q.TrivialCategory),
		})
	}
	for _, it := range rec.TimelineItems {
		def.TimelineItems = append(def.TimelineItems, arcade.TimelineItem{ID: it.ID, Text: it.Text, Year: it.Year})
	}
	for _, o := range rec.HiddenObjects {
		def.HiddenObjects = append(def.HiddenObjects, arcade.HiddenObject{
			ID:       o.ID,
			Label:    o.Label,
			Question: o.Question,
			X:        o.X,
			Y:        o.Y,
			Radius:   o.Radius,
		})
	}
	return def, nil
}

func fromDefinition(def arcade.Definition) definitionRecord {
	rec := definitionRecord{
		ID:              def.ID,
		Title:           def.Title,
		Description:     def.Description,
		RewardPoints:    def.RewardPoints,
		Variant:         string(def.Variant),
		Status:          StatusDraft,
		MemoryItems:     append([]string(nil), def.MemoryItems...),
		BackgroundImage: def.BackgroundImage,
	}
	if def.Active {
		rec.Status = StatusActive
	}
	for _, q := range def.Questions {
		rec.Questions = append(rec.Questions, questionRecord{
			ID:                   q.ID,
			Kind:                 string(q.Kind),
			Prompt:               q.Prompt,
			Options:              append([]string(nil), q.Options...),
			CorrectOptionIndices: append([]int(nil), q.CorrectOptions...),
			TrivialCategory:      string(q.Category),
		})
	}
	for _, it := range def.TimelineItems {
		rec.TimelineItems = append(rec.TimelineItems, timelineItemRecord{ID: it.ID, Text: it.Text, Year: it.Year})
	}
	for _, o := range def.HiddenObjects {
		rec.HiddenObjects = append(rec.HiddenObjects, hiddenObjectRecord{
			ID:       o.ID,
			Label:    o.Label,
			Question: o.Question,
			X:        o.X,
			Y:        o.Y,
			Radius:   o.Radius,
		})
	}
	return rec
}
