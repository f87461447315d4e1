package caseweave

// Axis is one independent dimension of variation in a matrix.
//
// Values holds the ordered candidate values for this dimension. The
// engine treats them as opaque except for rendering each with
// fmt.Sprint when building descriptions, so candidate types should
// have a meaningful textual form.
//
// Apply substitutes one candidate into a working copy of the input and
// returns the new input. It must be pure: no mutation of either
// argument, same output for same inputs. It is called once per
// candidate value per branch of the expansion.
type Axis[T any] struct {
	Values []any
	Apply  func(current T, candidate any) T
}

// NewAxis builds an Axis from a typed apply function and its candidate
// values, hiding the any-typed plumbing the engine needs.
//
//	caseweave.NewAxis(func(c config, mode string) config {
//		c.Mode = mode
//		return c
//	}, "tcp", "udp")
//
// The returned axis asserts candidates back to V before calling apply;
// since only the values passed here ever reach it, the assertion
// cannot fail in practice.
func NewAxis[T any, V any](apply func(T, V) T, values ...V) Axis[T] {
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return Axis[T]{
		Values: vals,
		Apply: func(current T, candidate any) T {
			return apply(current, candidate.(V))
		},
	}
}
