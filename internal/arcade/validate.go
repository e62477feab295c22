package arcade

import "fmt"

const (
	minMemoryItems   = 2
	minTimelineItems = 2
	minOptions       = 2
)

// Validate checks that def can be played. It returns a *DefinitionError for
// the first problem found.
func Validate(def Definition) error {
	if def.RewardPoints < 0 {
		return invalid("rewardPoints", "must be >= 0, got %d", def.RewardPoints)
	}
	if _, err := ParseVariant(string(def.Variant)); err != nil {
		return err
	}

	switch def.Variant {
	case VariantQuiz:
		return validateQuestions(def.Questions, false)
	case VariantTrivial:
		return validateQuestions(def.Questions, true)
	case VariantMemory:
		if len(def.MemoryItems) < minMemoryItems {
			return missing("memoryItems", "need at least %d items, got %d", minMemoryItems, len(def.MemoryItems))
		}
		for i, item := range def.MemoryItems {
			if item == "" {
				return invalid(fmt.Sprintf("memoryItems[%d]", i), "empty item")
			}
		}
	case VariantTimeline:
		if len(def.TimelineItems) < minTimelineItems {
			return missing("timelineItems", "need at least %d items, got %d", minTimelineItems, len(def.TimelineItems))
		}
		seen := make(map[string]bool, len(def.TimelineItems))
		for i, it := range def.TimelineItems {
			if it.ID == "" || seen[it.ID] {
				return invalid(fmt.Sprintf("timelineItems[%d].id", i), "ids must be unique and non-empty")
			}
			seen[it.ID] = true
		}
	case VariantHiddenObjects:
		if def.BackgroundImage == "" {
			return missing("backgroundImage", "required")
		}
		if len(def.HiddenObjects) == 0 {
			return missing("hiddenObjects", "need at least 1 object")
		}
		seen := make(map[string]bool, len(def.HiddenObjects))
		for i, o := range def.HiddenObjects {
			field := fmt.Sprintf("hiddenObjects[%d]", i)
			if o.ID == "" || seen[o.ID] {
				return invalid(field+".id", "ids must be unique and non-empty")
			}
			seen[o.ID] = true
			if !inPercent(o.X) || !inPercent(o.Y) {
				return invalid(field, "position (%g, %g) outside 0-100", o.X, o.Y)
			}
			if o.Radius <= 0 || o.Radius > 100 {
				return invalid(field+".radius", "must be in (0, 100], got %g", o.Radius)
			}
		}
	}
	return nil
}

func validateQuestions(qs []Question, trivial bool) error {
	if len(qs) == 0 {
		return missing("questions", "need at least 1 question")
	}
	for i, q := range qs {
		field := fmt.Sprintf("questions[%d]", i)
		if len(q.Options) < minOptions {
			return invalid(field+".options", "need at least %d options, got %d", minOptions, len(q.Options))
		}
		if len(q.CorrectOptions) == 0 {
			return invalid(field+".correctOptions", "must not be empty")
		}
		seen := make(map[int]bool, len(q.CorrectOptions))
		for _, idx := range q.CorrectOptions {
			if idx < 0 || idx >= len(q.Options) {
				return invalid(field+".correctOptions", "index %d out of range [0, %d)", idx, len(q.Options))
			}
			if seen[idx] {
				return invalid(field+".correctOptions", "duplicate index %d", idx)
			}
			seen[idx] = true
		}

		switch q.Kind {
		case KindSingleChoice:
			if len(q.CorrectOptions) != 1 {
				return invalid(field+".correctOptions", "single choice needs exactly one correct option")
			}
		case KindTrueFalse:
			if len(q.Options) != 2 || len(q.CorrectOptions) != 1 {
				return invalid(field, "true/false needs two options and one correct option")
			}
		case KindMultiChoice:
		default:
			return invalid(field+".kind", "unknown kind %q", q.Kind)
		}

		if trivial && !isTrivialCategory(q.Category) {
			return invalid(field+".category", "unknown trivial category %q", q.Category)
		}
	}
	return nil
}

func inPercent(v float64) bool { return v >= 0 && v <= 100 }
