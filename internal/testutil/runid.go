package testutil

import "sync"

// FixedRunIDGenerator returns predetermined run IDs in order.
//
// The recorder stamps every snapshot with a run ID; tests that compare
// snapshot output need those IDs to be stable, so they substitute this
// generator for the production UUIDv7 one.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedRunIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedRunIDGenerator creates a generator that returns ids in order.
//
//	gen := testutil.NewFixedRunIDGenerator("run-1", "run-2")
//	gen.Generate() // "run-1"
//	gen.Generate() // "run-2"
//	gen.Generate() // panic: all run IDs exhausted
func NewFixedRunIDGenerator(ids ...string) *FixedRunIDGenerator {
	return &FixedRunIDGenerator{ids: ids}
}

// Generate returns the next predetermined run ID.
//
// Panics once all IDs are consumed. Fail-fast on purpose: a test that
// records more runs than it configured IDs for is misconfigured.
func (g *FixedRunIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedRunIDGenerator: all run IDs exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
