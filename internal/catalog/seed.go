package catalog

import (
	"context"
	"log/slog"

	"github.com/playperu/arcade/internal/arcade"
)

// SeedDemo stores one active game per variant when the catalog is empty.
// Does nothing if any definition already exists.
func SeedDemo(ctx context.Context, logger *slog.Logger, store *Store) error {
	n, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	for _, def := range DemoDefinitions() {
		if err := store.Put(ctx, def); err != nil {
			return err
		}
	}
	logger.Info("demo catalog seeded", "games", len(DemoDefinitions()))
	return nil
}

func DemoDefinitions() []arcade.Definition {
	return []arcade.Definition{
		{
			ID:           "welcome-quiz",
			Title:        "Welcome aboard",
			Description:  "How well do you know the handbook?",
			RewardPoints: 100,
			Variant:      arcade.VariantQuiz,
			Active:       true,
			Questions: []arcade.Question{
				{
					ID:             "q-vacation",
					Kind:           arcade.KindSingleChoice,
					Prompt:         "Where do you request vacation days?",
					Options:        []string{"HR portal", "By email to your manager", "At reception"},
					CorrectOptions: []int{0},
				},
				{
					ID:             "q-values",
					Kind:           arcade.KindMultiChoice,
					Prompt:         "Which of these are company values?",
					Options:        []string{"Curiosity", "Secrecy", "Care", "Haste"},
					CorrectOptions: []int{0, 2},
				},
				{
					ID:             "q-badge",
					Kind:           arcade.KindTrueFalse,
					Prompt:         "You must wear your badge inside the office.",
					Options:        []string{"True", "False"},
					CorrectOptions: []int{0},
				},
			},
		},
		{
			ID:           "friday-trivia",
			Title:        "Friday trivia",
			Description:  "Win a wedge in every category.",
			RewardPoints: 150,
			Variant:      arcade.VariantTrivial,
			Active:       true,
			Questions: []arcade.Question{
				trivia("geo-1", arcade.CategoryGeography, "What is the capital of Peru?", "Lima", "Cusco", "Arequipa"),
				trivia("geo-2", arcade.CategoryGeography, "Which ocean borders Peru?", "Pacific", "Atlantic", "Indian"),
				trivia("ent-1", arcade.CategoryEntertainment, "Which studio made Toy Story?", "Pixar", "DreamWorks", "Ghibli"),
				trivia("his-1", arcade.CategoryHistory, "Machu Picchu was built by the...", "Inca", "Maya", "Aztecs"),
				trivia("art-1", arcade.CategoryArts, "Who painted the Mona Lisa?", "Leonardo da Vinci", "Picasso", "Van Gogh"),
				trivia("sci-1", arcade.CategoryScience, "What is H2O?", "Water", "Salt", "Hydrogen peroxide"),
				trivia("spo-1", arcade.CategorySports, "How many players does a football team field?", "11", "9", "7"),
			},
		},
		{
			ID:           "team-memory",
			Title:        "Team memory",
			Description:  "Match the office icons.",
			RewardPoints: 50,
			Variant:      arcade.VariantMemory,
			Active:       true,
			MemoryItems:  []string{"☕", "💻", "📎", "🌱", "📅", "🎧"},
		},
		{
			ID:           "company-timeline",
			Title:        "Our story",
			Description:  "Put the milestones in order.",
			RewardPoints: 80,
			Variant:      arcade.VariantTimeline,
			Active:       true,
			TimelineItems: []arcade.TimelineItem{
				{ID: "founded", Text: "Company founded", Year: 2004},
				{ID: "first-client", Text: "First enterprise client", Year: 2007},
				{ID: "lima-office", Text: "Lima office opens", Year: 2012},
				{ID: "intranet", Text: "Intranet launched", Year: 2019},
			},
		},
		{
			ID:              "desk-hunt",
			Title:           "Desk hunt",
			Description:     "Find the objects on the desk.",
			RewardPoints:    60,
			Variant:         arcade.VariantHiddenObjects,
			Active:          true,
			BackgroundImage: "/static/desk.jpg",
			HiddenObjects: []arcade.HiddenObject{
				{ID: "mug", Label: "Mug", Question: "Where does the coffee go?", X: 18, Y: 62, Radius: 6},
				{ID: "stapler", Label: "Stapler", Question: "What keeps the reports together?", X: 55, Y: 40, Radius: 5},
				{ID: "plant", Label: "Plant", Question: "What needs watering on Mondays?", X: 84, Y: 22, Radius: 7},
			},
		},
	}
}

func trivia(id string, c arcade.Category, prompt, right string, wrong ...string) arcade.Question {
	return arcade.Question{
		ID:             id,
		Kind:           arcade.KindSingleChoice,
		Prompt:         prompt,
		Options:        append([]string{right}, wrong...),
		CorrectOptions: []int{0},
		Category:       c,
	}
}
