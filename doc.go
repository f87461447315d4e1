// Package caseweave generates exhaustive combinatorial test cases.
//
// A test author describes a base input value and a list of axes. Each
// axis contributes an ordered set of candidate values and a function
// that applies one candidate onto a working copy of the input. The
// engine expands the full Cartesian product of all axes into a
// deduplicated set of combinations, pairs each with a human-readable
// description, and lets the author mark an arbitrary subset of them as
// expected successes, either by exact value or by predicate.
//
// The intended consumer is a test-registration loop:
//
//	m := caseweave.New(config{}, []caseweave.Axis[config]{
//		caseweave.NewAxis(func(c config, mode string) config {
//			c.Mode = mode
//			return c
//		}, "tcp", "udp"),
//		caseweave.NewAxis(func(c config, retries int) config {
//			c.Retries = retries
//			return c
//		}, 0, 1, 5),
//	})
//	m.MarkSuccessfulWhere(func(c config) bool { return c.Retries > 0 })
//
//	for _, tc := range m.TestCases() {
//		t.Run(tc.Description, func(t *testing.T) {
//			assert.Equal(t, tc.IsSuccessful, dial(tc.Input))
//		})
//	}
//
// The engine is a single-threaded authoring helper. It performs no
// I/O, executes no assertions, and attaches no meaning to "success"
// beyond what the caller declares. Concurrent mutation of the same
// Matrix is not supported.
package caseweave
