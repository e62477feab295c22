// Package arcade is the game session engine: declarative game definitions,
// the per-variant session state machines that play them, scoring, the
// session timer and the one-shot reward dispatcher.
// It has no external dependencies.
package arcade

import "fmt"

type Variant string

const (
	VariantQuiz          Variant = "quiz"
	VariantTrivial       Variant = "trivial"
	VariantMemory        Variant = "memory"
	VariantTimeline      Variant = "timeline"
	VariantHiddenObjects Variant = "hidden_objects"
)

// Variants lists every playable variant in display order.
var Variants = []Variant{
	VariantQuiz,
	VariantTrivial,
	VariantMemory,
	VariantTimeline,
	VariantHiddenObjects,
}

// ParseVariant maps a stored variant name to a Variant. Anything outside the
// closed set is a definition error.
func ParseVariant(s string) (Variant, error) {
	for _, v := range Variants {
		if string(v) == s {
			return v, nil
		}
	}
	return "", &DefinitionError{Field: "variant", Err: ErrUnknownVariant, Detail: fmt.Sprintf("%q", s)}
}

type QuestionKind string

const (
	KindSingleChoice QuestionKind = "single_choice"
	KindMultiChoice  QuestionKind = "multi_choice"
	KindTrueFalse    QuestionKind = "true_false"
)

type Category string

const (
	CategoryGeography     Category = "geography"
	CategoryEntertainment Category = "entertainment"
	CategoryHistory       Category = "history"
	CategoryArts          Category = "arts"
	CategoryScience       Category = "science"
	CategorySports        Category = "sports"
)

// TrivialCategories is the fixed board of a Trivial game. Earning all of
// them finishes the session.
var TrivialCategories = []Category{
	CategoryGeography,
	CategoryEntertainment,
	CategoryHistory,
	CategoryArts,
	CategoryScience,
	CategorySports,
}

func isTrivialCategory(c Category) bool {
	for _, tc := range TrivialCategories {
		if tc == c {
			return true
		}
	}
	return false
}

type Question struct {
	ID             string
	Kind           QuestionKind
	Prompt         string
	Options        []string
	CorrectOptions []int
	Category       Category
}

type TimelineItem struct {
	ID   string
	Text string
	Year int
}

// HiddenObject is positioned in percentages of the background image, so
// X, Y and Radius are all in the 0–100 range.
type HiddenObject struct {
	ID       string
	Label    string
	Question string
	X        float64
	Y        float64
	Radius   float64
}

// Definition is one playable game instance. It is treated as immutable once
// a session has been created from it.
type Definition struct {
	ID           string
	Title        string
	Description  string
	RewardPoints int
	Variant      Variant
	Active       bool

	Questions       []Question
	MemoryItems     []string
	TimelineItems   []TimelineItem
	BackgroundImage string
	HiddenObjects   []HiddenObject
}

// clone copies the payload slices so a session never shares backing arrays
// with the catalog's copy.
func (d Definition) clone() Definition {
	c := d
	c.Questions = make([]Question, len(d.Questions))
	for i, q := range d.Questions {
		q.Options = append([]string(nil), q.Options...)
		q.CorrectOptions = append([]int(nil), q.CorrectOptions...)
		c.Questions[i] = q
	}
	c.MemoryItems = append([]string(nil), d.MemoryItems...)
	c.TimelineItems = append([]TimelineItem(nil), d.TimelineItems...)
	c.HiddenObjects = append([]HiddenObject(nil), d.HiddenObjects...)
	return c
}
