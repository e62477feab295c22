package arcade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// earn picks category c and answers its question correctly or not. In
// trivialDef option 0 is always right and option 1 always wrong.
func earn(t *testing.T, s *Session, c Category, right bool) {
	t.Helper()
	require.NoError(t, s.ChooseCategory(c))
	snap := s.Snapshot()
	require.Equal(t, TrivialQuestion, snap.Trivial.Stage)
	require.Equal(t, c, snap.Trivial.Question.Category)

	option := 1
	if right {
		option = 0
	}
	correct, err := s.AnswerTrivia(option)
	require.NoError(t, err)
	require.Equal(t, right, correct)
}

func TestTrivialAllCategoriesFinish(t *testing.T) {
	h := newHarness()
	s := h.started(t, trivialDef())

	order := []Category{CategorySports, CategoryArts, CategoryGeography, CategoryScience, CategoryHistory, CategoryEntertainment}
	for _, c := range order {
		require.Equal(t, PhasePlaying, s.Phase())
		earn(t, s, c, true)
	}

	snap := s.Snapshot()
	assert.Equal(t, PhaseFinished, snap.Phase)
	assert.Equal(t, Outcome{CorrectCount: 6, TotalCount: 6, PointsAwarded: 60}, *snap.Outcome)

	s.WaitReward()
	events := h.ledger.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, "Grand Slam Trivia in 00:00", events[0].Reason)
}

func TestTrivialWrongAnswerKeepsCategoryOpen(t *testing.T) {
	h := newHarness()
	s := h.started(t, trivialDef())

	for _, c := range TrivialCategories[:5] {
		earn(t, s, c, true)
	}
	last := TrivialCategories[5]
	earn(t, s, last, false)

	snap := s.Snapshot()
	assert.Equal(t, PhasePlaying, snap.Phase)
	assert.Len(t, snap.Trivial.Earned, 5)
	assert.NotContains(t, snap.Trivial.Earned, last)
	assert.Equal(t, TrivialBoard, snap.Trivial.Stage)
	require.NotNil(t, snap.Trivial.LastResult)
	assert.False(t, *snap.Trivial.LastResult)

	earn(t, s, last, true)
	assert.Equal(t, PhaseFinished, s.Phase())
}

func TestTrivialCategoryRules(t *testing.T) {
	def := trivialDef()
	var kept []Question
	for _, q := range def.Questions {
		if q.Category != CategoryScience {
			kept = append(kept, q)
		}
	}
	def.Questions = kept

	h := newHarness()
	s := h.started(t, def)

	require.ErrorIs(t, s.ChooseCategory(CategoryScience), ErrNoQuestionAvailable)
	assert.Equal(t, TrivialBoard, s.Snapshot().Trivial.Stage)

	require.ErrorIs(t, s.ChooseCategory("cooking"), ErrInvalidInput)

	_, err := s.AnswerTrivia(0)
	require.ErrorIs(t, err, ErrInvalidInput, "no open question")

	earn(t, s, CategoryHistory, true)
	require.NoError(t, s.ChooseCategory(CategoryHistory), "earned category is a no-op")
	assert.Equal(t, TrivialBoard, s.Snapshot().Trivial.Stage)

	require.NoError(t, s.ChooseCategory(CategoryArts))
	require.ErrorIs(t, s.ChooseCategory(CategorySports), ErrInvalidInput)
}
