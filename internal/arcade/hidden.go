package arcade

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// HitTolerance widens every object's radius, in percentage points of the
// image, to make clicks forgiving.
const HitTolerance = 2.0

type hiddenRound struct {
	background string
	objects    []HiddenObject
	found      int
}

func newHiddenRound(def Definition) *hiddenRound {
	return &hiddenRound{background: def.BackgroundImage, objects: def.HiddenObjects}
}

func (r *hiddenRound) start(*rand.Rand) { r.found = 0 }

func (r *hiddenRound) outcome(def Definition) Outcome {
	return ScoreCompletion(def, len(r.objects))
}

func (r *hiddenRound) reason(_ Outcome, elapsed int) string {
	return fmt.Sprintf("Hidden objects found in %s", FormatElapsed(elapsed))
}

func (r *hiddenRound) view(snap *Snapshot, _ Phase) {
	v := &HiddenObjectsView{
		BackgroundImage: r.background,
		Found:           make([]FoundObject, 0, r.found),
		Total:           len(r.objects),
	}
	for _, o := range r.objects[:r.found] {
		v.Found = append(v.Found, FoundObject{ID: o.ID, Label: o.Label, X: o.X, Y: o.Y, Radius: o.Radius})
	}
	if r.found < len(r.objects) {
		p := r.objects[r.found]
		v.Pending = &HiddenTarget{ID: p.ID, Label: p.Label, Question: p.Question}
	}
	snap.HiddenObjects = v
}

// Hit reports whether (x, y) lands on o, tolerance included.
func Hit(o HiddenObject, x, y float64) bool {
	return math.Hypot(x-o.X, y-o.Y) <= o.Radius+HitTolerance
}

// ClickImage scores a click at image-relative (x, y) against the pending
// object only. Objects are found strictly in definition order, so a click on
// a later object does not count.
func (s *Session) ClickImage(x, y float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := roundFor[*hiddenRound](s)
	if err != nil {
		return false, err
	}
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return false, fmt.Errorf("%w: click coordinates must be finite", ErrInvalidInput)
	}
	if !Hit(r.objects[r.found], x, y) {
		return false, nil
	}
	r.found++
	if r.found == len(r.objects) {
		s.finish()
	}
	return true, nil
}
