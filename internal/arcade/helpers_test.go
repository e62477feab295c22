package arcade

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// manualScheduler queues deferred callbacks until the test runs them.
type manualScheduler struct {
	mu    sync.Mutex
	queue []*scheduledFunc
}

type scheduledFunc struct {
	delay     time.Duration
	f         func()
	fired     bool
	cancelled bool
}

func (m *manualScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	sf := &scheduledFunc{delay: d, f: f}
	m.queue = append(m.queue, sf)
	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		if sf.fired || sf.cancelled {
			return false
		}
		sf.cancelled = true
		return true
	}
}

// runAll fires every queued callback, including ones queued while running.
func (m *manualScheduler) runAll() int {
	n := 0
	for {
		m.mu.Lock()
		q := m.queue
		m.queue = nil
		m.mu.Unlock()
		if len(q) == 0 {
			return n
		}
		for _, sf := range q {
			m.mu.Lock()
			skip := sf.cancelled
			sf.fired = true
			m.mu.Unlock()
			if skip {
				continue
			}
			sf.f()
			n++
		}
	}
}

func (m *manualScheduler) pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, sf := range m.queue {
		if !sf.cancelled {
			n++
		}
	}
	return n
}

type recordingLedger struct {
	mu     sync.Mutex
	events []RewardEvent
	err    error
}

func (l *recordingLedger) Award(_ context.Context, ev RewardEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
	return l.err
}

func (l *recordingLedger) setErr(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = err
}

func (l *recordingLedger) recorded() []RewardEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]RewardEvent(nil), l.events...)
}

type harness struct {
	sched  *manualScheduler
	ledger *recordingLedger
}

func newHarness() *harness {
	return &harness{sched: &manualScheduler{}, ledger: &recordingLedger{}}
}

func (h *harness) session(t *testing.T, def Definition) *Session {
	t.Helper()
	s, err := NewSession(def, Options{
		ID:        "sess-1",
		UserID:    "user-1",
		Ledger:    h.ledger,
		Scheduler: h.sched,
		Rand:      rand.New(rand.NewPCG(7, 11)),
	})
	require.NoError(t, err)
	return s
}

func (h *harness) started(t *testing.T, def Definition) *Session {
	t.Helper()
	s := h.session(t, def)
	require.NoError(t, s.Start())
	return s
}

func quizDef() Definition {
	return Definition{
		ID:           "quiz-1",
		Title:        "Onboarding quiz",
		RewardPoints: 100,
		Variant:      VariantQuiz,
		Questions: []Question{
			{ID: "q1", Kind: KindSingleChoice, Prompt: "Where is HQ?", Options: []string{"Lima", "Cusco", "Arequipa"}, CorrectOptions: []int{0}},
			{ID: "q2", Kind: KindMultiChoice, Prompt: "Pick our values", Options: []string{"Speed", "Care", "Craft", "Noise"}, CorrectOptions: []int{1, 2}},
		},
	}
}

func trivialDef() Definition {
	def := Definition{
		ID:           "trivial-1",
		Title:        "Grand Slam",
		RewardPoints: 60,
		Variant:      VariantTrivial,
	}
	for _, c := range TrivialCategories {
		for i := range 2 {
			def.Questions = append(def.Questions, Question{
				ID:             string(c) + "-" + string(rune('a'+i)),
				Kind:           KindSingleChoice,
				Prompt:         "Question about " + string(c),
				Options:        []string{"right", "wrong"},
				CorrectOptions: []int{0},
				Category:       c,
			})
		}
	}
	return def
}

func memoryDef() Definition {
	return Definition{
		ID:           "memory-1",
		Title:        "Team faces",
		RewardPoints: 30,
		Variant:      VariantMemory,
		MemoryItems:  []string{"🦙", "🌽", "🏔️"},
	}
}

func timelineDef() Definition {
	return Definition{
		ID:           "timeline-1",
		Title:        "Company history",
		RewardPoints: 40,
		Variant:      VariantTimeline,
		TimelineItems: []TimelineItem{
			{ID: "founded", Text: "Company founded", Year: 1998},
			{ID: "ipo", Text: "IPO", Year: 2008},
			{ID: "office", Text: "New office", Year: 2008},
			{ID: "intranet", Text: "Intranet launch", Year: 2021},
		},
	}
}

func hiddenDef() Definition {
	return Definition{
		ID:              "hidden-1",
		Title:           "Find it in the office",
		RewardPoints:    25,
		Variant:         VariantHiddenObjects,
		BackgroundImage: "office.png",
		HiddenObjects: []HiddenObject{
			{ID: "mug", Label: "Mug", Question: "Where is the mug?", X: 20, Y: 20, Radius: 5},
			{ID: "plant", Label: "Plant", Question: "Where is the plant?", X: 80, Y: 80, Radius: 5},
		},
	}
}
