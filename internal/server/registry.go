package server

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/arcade/internal/arcade"
	"github.com/playperu/arcade/internal/metrics"
)

// RegistryOptions configures how hosted sessions are built. Zero values fall
// back to the engine defaults.
type RegistryOptions struct {
	Ledger        arcade.Ledger
	RewardTimeout time.Duration
	IdleTimeout   time.Duration
	Scheduler     arcade.Scheduler
	Delays        arcade.Delays
	NewRand       func() *rand.Rand
	Metrics       *metrics.Metrics
}

// hosted tracks what the registry has already observed about a session so
// lifecycle metrics are counted once.
type hosted struct {
	session *arcade.Session

	mu         sync.Mutex
	lastActive time.Time
	started    bool
	finished   bool
	reward     arcade.RewardStatus
}

func (h *hosted) touch(now time.Time) {
	h.mu.Lock()
	h.lastActive = now
	h.mu.Unlock()
}

// Registry hosts the live play sessions of this process and drives their
// clock.
type Registry struct {
	opts   RegistryOptions
	broker *Broker
	logger *slog.Logger
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*hosted
}

func NewRegistry(opts RegistryOptions, broker *Broker, logger *slog.Logger) *Registry {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 30 * time.Minute
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	return &Registry{
		opts:     opts,
		broker:   broker,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*hosted),
	}
}

// Create builds a new Intro-phase session of def owned by userID.
func (r *Registry) Create(def arcade.Definition, userID string) (*arcade.Session, error) {
	h := &hosted{lastActive: r.now(), reward: arcade.RewardNone}
	opts := arcade.Options{
		ID:            uuid.NewString(),
		UserID:        userID,
		Ledger:        r.opts.Ledger,
		RewardTimeout: r.opts.RewardTimeout,
		Scheduler:     r.opts.Scheduler,
		Delays:        r.opts.Delays,
		Logger:        r.logger,
		OnChange:      func(snap arcade.Snapshot) { r.publish(h, snap) },
	}
	if r.opts.NewRand != nil {
		opts.Rand = r.opts.NewRand()
	}

	s, err := arcade.NewSession(def, opts)
	if err != nil {
		return nil, err
	}
	h.session = s

	r.mu.Lock()
	r.sessions[s.ID()] = h
	r.mu.Unlock()
	r.opts.Metrics.SessionsActive.Inc()
	return s, nil
}

// Get returns the session only to its owner. Anyone else sees it as missing.
func (r *Registry) Get(sessionID, userID string) (*arcade.Session, error) {
	r.mu.RLock()
	h, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok || h.session.UserID() != userID {
		return nil, errSessionNotFound
	}
	h.touch(r.now())
	return h.session, nil
}

// Changed publishes the session's current state after a command. A command
// counts as activity for the idle sweep.
func (r *Registry) Changed(s *arcade.Session) arcade.Snapshot {
	snap := s.Snapshot()
	r.mu.RLock()
	h, ok := r.sessions[s.ID()]
	r.mu.RUnlock()
	if ok {
		h.touch(r.now())
		r.publish(h, snap)
	}
	return snap
}

// Close ends and forgets the session.
func (r *Registry) Close(sessionID, userID string) error {
	r.mu.Lock()
	h, ok := r.sessions[sessionID]
	if !ok || h.session.UserID() != userID {
		r.mu.Unlock()
		return errSessionNotFound
	}
	delete(r.sessions, sessionID)
	r.mu.Unlock()

	r.closeHosted(h)
	return nil
}

func (r *Registry) closeHosted(h *hosted) {
	h.session.Close()
	if h.session.Phase() != arcade.PhaseFinished {
		r.opts.Metrics.SessionsAbandoned.WithLabelValues(string(h.session.Definition().Variant)).Inc()
	}
	r.opts.Metrics.SessionsActive.Dec()
	r.broker.Publish(h.session.Snapshot())
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Run ticks every session once per second until ctx is cancelled.
func (r *Registry) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return nil
		case <-ticker.C:
			r.tick()
		}
	}
}

// tick advances running timers and closes sessions that have been idle
// longer than the idle timeout.
func (r *Registry) tick() {
	now := r.now()

	r.mu.Lock()
	var idle []*hosted
	live := make([]*hosted, 0, len(r.sessions))
	for id, h := range r.sessions {
		h.mu.Lock()
		expired := now.Sub(h.lastActive) > r.opts.IdleTimeout
		h.mu.Unlock()
		if expired {
			delete(r.sessions, id)
			idle = append(idle, h)
			continue
		}
		live = append(live, h)
	}
	r.mu.Unlock()

	for _, h := range idle {
		r.logger.Info("closing idle session", "session_id", h.session.ID())
		r.closeHosted(h)
	}
	for _, h := range live {
		if h.session.Tick() {
			r.publish(h, h.session.Snapshot())
		}
	}
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	all := make([]*hosted, 0, len(r.sessions))
	for id, h := range r.sessions {
		all = append(all, h)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, h := range all {
		r.closeHosted(h)
	}
	// Rewards already on their way must land before the database closes.
	for _, h := range all {
		h.session.WaitReward()
	}
}

// publish forwards snap to subscribers and counts lifecycle transitions the
// first time they are seen.
func (r *Registry) publish(h *hosted, snap arcade.Snapshot) {
	variant := string(snap.Variant)
	m := r.opts.Metrics

	h.mu.Lock()
	if !h.started && snap.Phase != arcade.PhaseIntro {
		h.started = true
		m.SessionsStarted.WithLabelValues(variant).Inc()
	}
	if !h.finished && snap.Phase == arcade.PhaseFinished {
		h.finished = true
		m.SessionsFinished.WithLabelValues(variant).Inc()
	}
	if snap.Reward.Status != h.reward {
		h.reward = snap.Reward.Status
		if h.reward == arcade.RewardSent || h.reward == arcade.RewardFailed {
			m.Rewards.WithLabelValues(string(h.reward)).Inc()
		}
	}
	h.mu.Unlock()

	r.broker.Publish(snap)
}
