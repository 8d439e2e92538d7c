package genai

import (
	"sync"
	"time"
)

// DefaultMinInterval is the minimum wall-clock spacing between
// consecutive upstream calls. The quota is per API key, not per
// session, so one Throttle is shared process-wide.
const DefaultMinInterval = 1500 * time.Millisecond

// Throttle enforces a minimum interval between upstream calls. The
// clock and sleep functions are injectable so the window is testable
// without real waiting.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// NewThrottle creates a throttle with the given minimum interval.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{
		interval: interval,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Wait blocks the caller until the throttle window since the last
// recorded call has elapsed, then claims the window by advancing the
// timestamp. The claim happens under the lock, so concurrent waiters
// each get a distinct window; only the sleep itself runs unlocked, and
// the elapsed check is repeated after it.
func (t *Throttle) Wait() {
	for {
		t.mu.Lock()
		remaining := t.interval - t.now().Sub(t.last)
		if remaining <= 0 {
			t.last = t.now()
			t.mu.Unlock()
			return
		}
		t.mu.Unlock()

		t.sleep(remaining)
	}
}

// Touch records that a call was just attempted. Called after every
// attempt, success or failure, so the window keeps advancing.
func (t *Throttle) Touch() {
	t.mu.Lock()
	t.last = t.now()
	t.mu.Unlock()
}
