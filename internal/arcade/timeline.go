package arcade

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
)

type timelineRound struct {
	items  []TimelineItem
	order  []TimelineItem
	failed bool
}

func newTimelineRound(def Definition) *timelineRound {
	return &timelineRound{items: def.TimelineItems}
}

func (r *timelineRound) start(rng *rand.Rand) {
	r.order = slices.Clone(r.items)
	rng.Shuffle(len(r.order), func(i, j int) {
		r.order[i], r.order[j] = r.order[j], r.order[i]
	})
	r.failed = false
}

func (r *timelineRound) outcome(def Definition) Outcome {
	return ScoreCompletion(def, len(r.items))
}

func (r *timelineRound) reason(_ Outcome, elapsed int) string {
	return fmt.Sprintf("Timeline solved in %s", FormatElapsed(elapsed))
}

func (r *timelineRound) view(snap *Snapshot, phase Phase) {
	v := &TimelineView{
		Order:            make([]TimelineEntry, len(r.order)),
		ValidationFailed: r.failed,
	}
	for i, it := range r.order {
		e := TimelineEntry{ID: it.ID, Text: it.Text}
		if phase == PhaseFinished {
			year := it.Year
			e.Year = &year
		}
		v.Order[i] = e
	}
	snap.Timeline = v
}

// Chronological reports whether items are ordered by non-decreasing year.
func Chronological(items []TimelineItem) bool {
	return slices.IsSortedFunc(items, func(a, b TimelineItem) int {
		return cmp.Compare(a.Year, b.Year)
	})
}

// MoveTimelineItem moves the item at position from to position to. Any
// permutation is allowed while playing.
func (s *Session) MoveTimelineItem(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := roundFor[*timelineRound](s)
	if err != nil {
		return err
	}
	n := len(r.order)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: move %d -> %d outside [0, %d)", ErrInvalidInput, from, to, n)
	}
	it := r.order[from]
	r.order = slices.Delete(r.order, from, from+1)
	r.order = slices.Insert(r.order, to, it)
	r.failed = false
	return nil
}

// ReorderTimeline replaces the current order. ids must be a permutation of
// the item ids.
func (s *Session) ReorderTimeline(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := roundFor[*timelineRound](s)
	if err != nil {
		return err
	}
	if len(ids) != len(r.items) {
		return fmt.Errorf("%w: expected %d ids, got %d", ErrInvalidInput, len(r.items), len(ids))
	}
	byID := make(map[string]TimelineItem, len(r.items))
	for _, it := range r.items {
		byID[it.ID] = it
	}
	order := make([]TimelineItem, 0, len(ids))
	for _, id := range ids {
		it, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: unknown or repeated id %q", ErrInvalidInput, id)
		}
		delete(byID, id)
		order = append(order, it)
	}
	r.order = order
	r.failed = false
	return nil
}

// ValidateTimeline finishes the session when the order is chronological.
// Otherwise it returns ErrTimelineOutOfOrder and play continues unchanged.
func (s *Session) ValidateTimeline() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := roundFor[*timelineRound](s)
	if err != nil {
		return err
	}
	if !Chronological(r.order) {
		r.failed = true
		return ErrTimelineOutOfOrder
	}
	r.failed = false
	s.finish()
	return nil
}
