package arcade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizSingleChoiceLocksUntilAdvance(t *testing.T) {
	h := newHarness()
	s := h.started(t, quizDef())

	require.NoError(t, s.SelectOption(1))
	require.NoError(t, s.SelectOption(0), "clicks while advancing are ignored")

	snap := s.Snapshot()
	assert.Equal(t, []int{1}, snap.Quiz.Selected)
	assert.True(t, snap.Quiz.Advancing)
	assert.Equal(t, 1, h.sched.pending())
	assert.Equal(t, DefaultDelays.QuizAdvance, h.sched.queue[0].delay)

	h.sched.runAll()
	snap = s.Snapshot()
	assert.Equal(t, 1, snap.Quiz.Index)
	assert.False(t, snap.Quiz.Advancing)
}

func TestQuizMultiChoiceToggles(t *testing.T) {
	def := quizDef()
	def.Questions = def.Questions[1:]

	h := newHarness()
	s := h.started(t, def)

	require.ErrorIs(t, s.NextQuestion(), ErrInvalidInput, "empty selection cannot advance")
	assert.False(t, s.Snapshot().Quiz.CanAdvance)

	require.NoError(t, s.SelectOption(1))
	require.NoError(t, s.SelectOption(3))
	require.NoError(t, s.SelectOption(2))
	require.NoError(t, s.SelectOption(3))
	assert.Equal(t, []int{1, 2}, s.Snapshot().Quiz.Selected)
	assert.True(t, s.Snapshot().Quiz.CanAdvance)
	assert.Equal(t, 0, h.sched.pending(), "multi choice never auto-advances")

	require.ErrorIs(t, s.SelectOption(4), ErrInvalidInput)

	require.NoError(t, s.NextQuestion())
	snap := s.Snapshot()
	assert.Equal(t, PhaseFinished, snap.Phase)
	assert.Equal(t, Outcome{CorrectCount: 1, TotalCount: 1, PointsAwarded: 100}, *snap.Outcome)
}

func TestQuizViewHidesAnswers(t *testing.T) {
	h := newHarness()
	s := h.started(t, quizDef())

	q := s.Snapshot().Quiz.Question
	assert.Equal(t, "q1", q.ID)
	assert.Equal(t, []string{"Lima", "Cusco", "Arequipa"}, q.Options)
}
