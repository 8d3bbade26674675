package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClock_DefaultsToEpoch(t *testing.T) {
	clock := NewFixedClock(time.Time{}, 0)
	assert.Equal(t, DefaultEpoch, clock.Now())
	assert.Equal(t, DefaultEpoch, clock.Now())
}

func TestFixedClock_AdvancesByStep(t *testing.T) {
	start := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	clock := NewFixedClock(start, time.Minute)

	assert.Equal(t, start, clock.Now())
	assert.Equal(t, start.Add(time.Minute), clock.Now())
	assert.Equal(t, start.Add(2*time.Minute), clock.Peek())
	assert.Equal(t, start.Add(2*time.Minute), clock.Now())
}

func TestFixedClock_Reset(t *testing.T) {
	clock := NewFixedClock(time.Time{}, time.Second)
	clock.Now()
	clock.Now()

	clock.Reset()
	assert.Equal(t, DefaultEpoch, clock.Now())
}

func TestFixedClock_ConcurrentReadsAreDistinct(t *testing.T) {
	clock := NewFixedClock(time.Time{}, time.Millisecond)
	const n = 100

	var mu sync.Mutex
	seen := make(map[time.Time]bool)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ts := clock.Now()
			mu.Lock()
			seen[ts] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
}

func TestSequenceIDs(t *testing.T) {
	gen := NewSequenceIDs("mood")
	assert.Equal(t, "mood-0001", gen.NewID())
	assert.Equal(t, "mood-0002", gen.NewID())

	gen.Reset()
	assert.Equal(t, "mood-0001", gen.NewID())

	assert.Equal(t, "id-0001", NewSequenceIDs("").NewID())
}
