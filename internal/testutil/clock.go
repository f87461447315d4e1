// Package testutil provides deterministic helpers for recorder and
// CLI tests: a resettable logical clock and a fixed run-ID generator.
// Both exist so repeated test runs produce byte-identical snapshots.
package testutil

import "sync"

// DeterministicClock is a thread-safe monotonic logical clock.
//
// Unlike the wall-clock sequence the recorder uses in production, it
// can be reset, so the same test can run repeatedly with identical
// seq values.
type DeterministicClock struct {
	mu  sync.Mutex
	seq int64
}

// NewDeterministicClock creates a clock starting at 0.
// The first call to Next returns 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next increments and returns the next sequence number.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the current sequence number without incrementing.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset resets the clock to 0. After Reset, the next call to Next
// returns 1.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}
