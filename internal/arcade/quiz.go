package arcade

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

type quizRound struct {
	questions []Question
	current   int
	answers   [][]int
	// advancing is set once a single-answer question is answered and the
	// auto-advance is pending; the question takes no more input.
	advancing bool
}

func newQuizRound(def Definition) *quizRound {
	return &quizRound{questions: def.Questions}
}

func (r *quizRound) start(*rand.Rand) {
	r.current = 0
	r.answers = make([][]int, len(r.questions))
	r.advancing = false
}

func (r *quizRound) outcome(def Definition) Outcome {
	return ScoreQuiz(def, r.answers)
}

func (r *quizRound) reason(o Outcome, _ int) string {
	return fmt.Sprintf("Quiz score: %d/%d", o.CorrectCount, o.TotalCount)
}

func (r *quizRound) view(snap *Snapshot, phase Phase) {
	if phase != PhasePlaying {
		return
	}
	q := r.questions[r.current]
	snap.Quiz = &QuizView{
		Index:      r.current,
		Total:      len(r.questions),
		Question:   questionView(q),
		Selected:   slices.Clone(r.answers[r.current]),
		Advancing:  r.advancing,
		CanAdvance: q.Kind == KindMultiChoice && len(r.answers[r.current]) > 0,
	}
	if snap.Quiz.Selected == nil {
		snap.Quiz.Selected = []int{}
	}
}

// SelectOption answers the current quiz question. Single-choice and
// true/false answers are recorded once and advance after a short delay;
// multi-choice clicks toggle the option in the selection.
func (s *Session) SelectOption(option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := roundFor[*quizRound](s)
	if err != nil {
		return err
	}
	if r.advancing {
		return nil
	}
	q := r.questions[r.current]
	if option < 0 || option >= len(q.Options) {
		return fmt.Errorf("%w: option %d out of range", ErrInvalidInput, option)
	}

	if q.Kind == KindMultiChoice {
		sel := r.answers[r.current]
		if i := slices.Index(sel, option); i >= 0 {
			r.answers[r.current] = slices.Delete(sel, i, i+1)
		} else {
			r.answers[r.current] = append(sel, option)
		}
		return nil
	}

	r.answers[r.current] = []int{option}
	r.advancing = true
	idx := r.current
	s.after(s.delays.QuizAdvance, func() {
		if s.phase == PhasePlaying && r.current == idx {
			r.advance(s)
		}
	})
	return nil
}

// NextQuestion confirms a multi-choice selection and moves on.
func (s *Session) NextQuestion() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := roundFor[*quizRound](s)
	if err != nil {
		return err
	}
	q := r.questions[r.current]
	if q.Kind != KindMultiChoice {
		return fmt.Errorf("%w: question advances automatically", ErrInvalidInput)
	}
	if len(r.answers[r.current]) == 0 {
		return fmt.Errorf("%w: select at least one option", ErrInvalidInput)
	}
	r.advance(s)
	return nil
}

func (r *quizRound) advance(s *Session) {
	r.advancing = false
	if r.current == len(r.questions)-1 {
		s.finish()
		return
	}
	r.current++
}
