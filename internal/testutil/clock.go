package testutil

import (
	"sync"
	"time"
)

// DefaultEpoch is where a FixedClock starts when none is given.
var DefaultEpoch = time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

// FixedClock is a deterministic stand-in for the wall clock.
//
// Each call to Now returns the current instant and then advances it by Step,
// so records created in sequence get distinct, predictable timestamps.
// With Step zero the clock is frozen.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu    sync.Mutex
	start time.Time
	now   time.Time
	step  time.Duration
}

// NewFixedClock creates a clock at start advancing by step per reading.
// A zero start uses DefaultEpoch.
func NewFixedClock(start time.Time, step time.Duration) *FixedClock {
	if start.IsZero() {
		start = DefaultEpoch
	}
	start = start.UTC()
	return &FixedClock{start: start, now: start, step: step}
}

// Now returns the current instant, then advances the clock by its step.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Peek returns the instant the next Now call will return.
func (c *FixedClock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Reset rewinds the clock to its start.
func (c *FixedClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.start
}
