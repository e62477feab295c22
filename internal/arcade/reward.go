package arcade

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RewardEvent asks the points ledger to credit a user. SessionID identifies
// the play-through and lets the ledger drop duplicates.
type RewardEvent struct {
	UserID    string `json:"userId"`
	Amount    int    `json:"amount"`
	Reason    string `json:"reason"`
	SessionID string `json:"sessionId"`
	GameID    string `json:"gameId"`
	Variant   string `json:"variant"`
}

// Ledger is the external points ledger.
type Ledger interface {
	Award(ctx context.Context, ev RewardEvent) error
}

type RewardStatus string

const (
	RewardNone    RewardStatus = "none"
	RewardPending RewardStatus = "pending"
	RewardSent    RewardStatus = "sent"
	RewardFailed  RewardStatus = "failed"
)

type RewardState struct {
	Status RewardStatus `json:"status"`
	Amount int          `json:"amount,omitempty"`
	Reason string       `json:"reason,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// Dispatcher sends at most one RewardEvent per session. Sending happens in
// the background; the session never waits for the ledger. A failed send can
// be retried explicitly, a sent one never goes out again.
type Dispatcher struct {
	ledger  Ledger
	timeout time.Duration
	logger  *slog.Logger
	onDone  func(RewardState)

	mu    sync.Mutex
	fired bool
	event RewardEvent
	state RewardState
	wg    sync.WaitGroup
}

// NewDispatcher sends through ledger. logger should already carry the
// session's identifying attributes.
func NewDispatcher(ledger Ledger, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		ledger:  ledger,
		timeout: timeout,
		logger:  logger,
		state:   RewardState{Status: RewardNone},
	}
}

// Dispatch emits ev unless something was already dispatched. It reports
// whether ev was accepted.
func (d *Dispatcher) Dispatch(ev RewardEvent) bool {
	d.mu.Lock()
	if d.fired {
		d.mu.Unlock()
		return false
	}
	d.fired = true
	d.event = ev
	d.state = RewardState{Status: RewardPending, Amount: ev.Amount, Reason: ev.Reason}
	d.mu.Unlock()

	d.send(ev)
	return true
}

// Retry re-sends the event after a failed attempt.
func (d *Dispatcher) Retry() error {
	d.mu.Lock()
	if !d.fired || d.state.Status != RewardFailed {
		d.mu.Unlock()
		return ErrNoRewardToRetry
	}
	ev := d.event
	d.state = RewardState{Status: RewardPending, Amount: ev.Amount, Reason: ev.Reason}
	d.mu.Unlock()

	d.send(ev)
	return nil
}

// send always completes on its own goroutine because callers hold the
// session lock and onDone takes it again.
func (d *Dispatcher) send(ev RewardEvent) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if d.ledger == nil {
			d.complete(ev, nil)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		d.complete(ev, d.ledger.Award(ctx, ev))
	}()
}

func (d *Dispatcher) complete(ev RewardEvent, err error) {
	d.mu.Lock()
	if err != nil {
		d.state = RewardState{Status: RewardFailed, Amount: ev.Amount, Reason: ev.Reason, Error: err.Error()}
		d.logger.Error("reward dispatch failed",
			"user_id", ev.UserID,
			"amount", ev.Amount,
			"error", err,
		)
	} else {
		d.state = RewardState{Status: RewardSent, Amount: ev.Amount, Reason: ev.Reason}
		d.logger.Info("reward dispatched",
			"user_id", ev.UserID,
			"amount", ev.Amount,
		)
	}
	st := d.state
	onDone := d.onDone
	d.mu.Unlock()

	if onDone != nil {
		onDone(st)
	}
}

func (d *Dispatcher) State() RewardState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Wait blocks until in-flight sends have completed.
func (d *Dispatcher) Wait() { d.wg.Wait() }
