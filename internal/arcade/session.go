package arcade

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"
)

type Phase string

const (
	PhaseIntro    Phase = "intro"
	PhasePlaying  Phase = "playing"
	PhaseFinished Phase = "finished"
)

// Delays are the fixed pauses used for animations between states.
type Delays struct {
	QuizAdvance    time.Duration
	MemoryMatch    time.Duration
	MemoryMismatch time.Duration
}

var DefaultDelays = Delays{
	QuizAdvance:    800 * time.Millisecond,
	MemoryMatch:    500 * time.Millisecond,
	MemoryMismatch: 1000 * time.Millisecond,
}

type Options struct {
	ID     string
	UserID string

	Ledger        Ledger
	RewardTimeout time.Duration

	Scheduler Scheduler
	Rand      *rand.Rand
	Delays    Delays
	Logger    *slog.Logger

	// OnChange receives a snapshot whenever the session changes without a
	// direct call: deferred callbacks firing and reward sends completing.
	OnChange func(Snapshot)
}

// round is the variant-specific part of a session.
type round interface {
	start(rng *rand.Rand)
	outcome(def Definition) Outcome
	reason(o Outcome, elapsed int) string
	view(snap *Snapshot, phase Phase)
}

// Session runs one play-through of one Definition. Every transition happens
// under mu, so inputs, ticks and deferred callbacks never interleave.
type Session struct {
	id       string
	userID   string
	def      Definition
	sched    Scheduler
	rng      *rand.Rand
	delays   Delays
	logger   *slog.Logger
	onChange func(Snapshot)
	reward   *Dispatcher

	mu          sync.Mutex
	phase       Phase
	timer       Timer
	outcome     *Outcome
	round       round
	pending     map[int]func() bool
	nextPending int
	closed      bool
}

// NewSession validates def and returns a session in the Intro phase.
func NewSession(def Definition, opts Options) (*Session, error) {
	if err := Validate(def); err != nil {
		return nil, err
	}
	def = def.clone()

	if opts.Scheduler == nil {
		opts.Scheduler = SystemScheduler
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Delays == (Delays{}) {
		opts.Delays = DefaultDelays
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Session{
		id:       opts.ID,
		userID:   opts.UserID,
		def:      def,
		sched:    opts.Scheduler,
		rng:      opts.Rand,
		delays:   opts.Delays,
		logger:   opts.Logger.With("session_id", opts.ID, "game_id", def.ID, "variant", string(def.Variant)),
		onChange: opts.OnChange,
		phase:    PhaseIntro,
		pending:  make(map[int]func() bool),
	}
	s.reward = NewDispatcher(opts.Ledger, opts.RewardTimeout, s.logger)
	s.reward.onDone = func(RewardState) {
		if s.onChange != nil {
			s.onChange(s.Snapshot())
		}
	}

	switch def.Variant {
	case VariantQuiz:
		s.round = newQuizRound(def)
	case VariantTrivial:
		s.round = newTrivialRound(def)
	case VariantMemory:
		s.round = newMemoryRound(def)
	case VariantTimeline:
		s.round = newTimelineRound(def)
	case VariantHiddenObjects:
		s.round = newHiddenRound(def)
	}
	return s, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) UserID() string { return s.userID }

func (s *Session) Definition() Definition { return s.def.clone() }

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Start moves Intro→Playing with fresh progress and a zeroed timer.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.phase != PhaseIntro {
		return ErrAlreadyStarted
	}
	s.round.start(s.rng)
	s.timer.Reset()
	s.timer.Start()
	s.phase = PhasePlaying
	s.logger.Info("session started", "user_id", s.userID)
	return nil
}

// Tick advances the elapsed-time counter by one second. It does nothing
// outside Playing.
func (s *Session) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.phase != PhasePlaying {
		return false
	}
	return s.timer.Tick()
}

// Close discards the session and cancels any deferred callbacks. A session
// closed before Finished never issues a reward.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for id, cancel := range s.pending {
		cancel()
		delete(s.pending, id)
	}
	s.timer.Stop()
	s.closed = true
	if s.phase != PhaseFinished {
		s.logger.Info("session abandoned", "user_id", s.userID, "phase", string(s.phase))
	}
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) Reward() RewardState { return s.reward.State() }

// RetryReward re-sends a reward whose first send failed.
func (s *Session) RetryReward() error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrSessionClosed
	}
	return s.reward.Retry()
}

// WaitReward blocks until in-flight reward sends complete.
func (s *Session) WaitReward() { s.reward.Wait() }

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID:      s.id,
		GameID:         s.def.ID,
		UserID:         s.userID,
		Title:          s.def.Title,
		Variant:        s.def.Variant,
		Phase:          s.phase,
		ElapsedSeconds: s.timer.Elapsed(),
		Elapsed:        FormatElapsed(s.timer.Elapsed()),
		RewardPoints:   s.def.RewardPoints,
		Reward:         s.reward.State(),
		Closed:         s.closed,
	}
	if s.outcome != nil {
		o := *s.outcome
		snap.Outcome = &o
	}
	if s.phase != PhaseIntro {
		s.round.view(&snap, s.phase)
	}
	return snap
}

func (s *Session) playing() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.phase != PhasePlaying {
		return ErrNotPlaying
	}
	return nil
}

// finish enters Finished, scores the round and hands the reward to the
// dispatcher. Must be called with mu held.
func (s *Session) finish() {
	if s.phase != PhasePlaying {
		return
	}
	s.phase = PhaseFinished
	s.timer.Stop()

	o := s.round.outcome(s.def)
	s.outcome = &o
	s.logger.Info("session finished",
		"user_id", s.userID,
		"correct", o.CorrectCount,
		"total", o.TotalCount,
		"points", o.PointsAwarded,
		"elapsed", s.timer.Elapsed(),
	)

	if o.PointsAwarded > 0 {
		s.reward.Dispatch(RewardEvent{
			UserID:    s.userID,
			Amount:    o.PointsAwarded,
			Reason:    s.round.reason(o, s.timer.Elapsed()),
			SessionID: s.id,
			GameID:    s.def.ID,
			Variant:   string(s.def.Variant),
		})
	}
}

// after schedules f to run under mu after d, unless the session is closed
// first. Must be called with mu held.
func (s *Session) after(d time.Duration, f func()) {
	id := s.nextPending
	s.nextPending++
	s.pending[id] = s.sched.AfterFunc(d, func() {
		s.mu.Lock()
		if _, ok := s.pending[id]; !ok || s.closed {
			s.mu.Unlock()
			return
		}
		delete(s.pending, id)
		f()
		snap := s.snapshotLocked()
		s.mu.Unlock()

		if s.onChange != nil {
			s.onChange(snap)
		}
	})
}

// roundFor returns the session's round as T when the session is playing
// that variant.
func roundFor[T round](s *Session) (T, error) {
	var zero T
	if err := s.playing(); err != nil {
		return zero, err
	}
	r, ok := s.round.(T)
	if !ok {
		return zero, ErrWrongVariant
	}
	return r, nil
}
