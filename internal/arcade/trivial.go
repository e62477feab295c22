package arcade

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

type trivialRound struct {
	questions  []Question
	rng        *rand.Rand
	earned     map[Category]bool
	stage      TrivialStage
	current    int
	lastResult *bool
}

func newTrivialRound(def Definition) *trivialRound {
	return &trivialRound{questions: def.Questions}
}

func (r *trivialRound) start(rng *rand.Rand) {
	r.rng = rng
	r.earned = make(map[Category]bool, len(TrivialCategories))
	r.stage = TrivialBoard
	r.current = -1
	r.lastResult = nil
}

func (r *trivialRound) outcome(def Definition) Outcome {
	return ScoreTrivial(def, len(r.earned))
}

func (r *trivialRound) reason(_ Outcome, elapsed int) string {
	return fmt.Sprintf("Grand Slam Trivia in %s", FormatElapsed(elapsed))
}

func (r *trivialRound) view(snap *Snapshot, _ Phase) {
	v := &TrivialView{
		Stage:      r.stage,
		Categories: slices.Clone(TrivialCategories),
		Earned:     []Category{},
	}
	for _, c := range TrivialCategories {
		if r.earned[c] {
			v.Earned = append(v.Earned, c)
		}
	}
	if r.stage == TrivialQuestion {
		qv := questionView(r.questions[r.current])
		v.Question = &qv
	}
	if r.lastResult != nil {
		res := *r.lastResult
		v.LastResult = &res
	}
	snap.Trivial = v
}

// ChooseCategory draws a random question of category c from the board.
// Choosing an already earned category does nothing.
func (s *Session) ChooseCategory(c Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := roundFor[*trivialRound](s)
	if err != nil {
		return err
	}
	if r.stage != TrivialBoard {
		return fmt.Errorf("%w: answer the open question first", ErrInvalidInput)
	}
	if !isTrivialCategory(c) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, c)
	}
	if r.earned[c] {
		return nil
	}

	var candidates []int
	for i, q := range r.questions {
		if q.Category == c {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return fmt.Errorf("%w: %s", ErrNoQuestionAvailable, c)
	}

	r.current = candidates[r.rng.IntN(len(candidates))]
	r.stage = TrivialQuestion
	r.lastResult = nil
	return nil
}

// AnswerTrivia answers the open question. A correct answer earns its
// category; a wrong one discards the question and leaves the category open.
// Either way play returns to the board unless every category is earned.
func (s *Session) AnswerTrivia(option int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := roundFor[*trivialRound](s)
	if err != nil {
		return false, err
	}
	if r.stage != TrivialQuestion {
		return false, fmt.Errorf("%w: choose a category first", ErrInvalidInput)
	}
	q := r.questions[r.current]
	if option < 0 || option >= len(q.Options) {
		return false, fmt.Errorf("%w: option %d out of range", ErrInvalidInput, option)
	}

	correct := slices.Contains(q.CorrectOptions, option)
	if correct {
		r.earned[q.Category] = true
	}
	r.lastResult = &correct
	r.stage = TrivialBoard
	r.current = -1

	if len(r.earned) == len(TrivialCategories) {
		s.finish()
	}
	return correct, nil
}
