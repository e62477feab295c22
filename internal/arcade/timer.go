package arcade

import (
	"fmt"
	"time"
)

// Timer counts elapsed play seconds. It only advances while running; the
// owning session starts it on Intro→Playing and stops it on Finished.
type Timer struct {
	elapsed int
	running bool
}

func (t *Timer) Reset() {
	t.elapsed = 0
	t.running = false
}

func (t *Timer) Start() { t.running = true }

func (t *Timer) Stop() { t.running = false }

// Tick advances the timer by one second if it is running.
func (t *Timer) Tick() bool {
	if !t.running {
		return false
	}
	t.elapsed++
	return true
}

func (t *Timer) Elapsed() int { return t.elapsed }

// FormatElapsed renders seconds as zero-padded MM:SS. Minutes are not capped.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Scheduler runs deferred callbacks, like the auto-advance after a quiz
// answer or the flip-back of a mismatched memory pair. The returned func
// cancels the callback if it has not fired yet.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (cancel func() bool)
}

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// SystemScheduler fires callbacks on real time.
var SystemScheduler Scheduler = systemScheduler{}
