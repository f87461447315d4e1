package caseweave

import (
	"fmt"
	"strings"
)

// DescriptionDelimiter separates per-axis value fragments in a
// combination's description.
const DescriptionDelimiter = " | "

// TestCase is the caller-facing view of one generated combination.
//
// Input and Description are fixed at construction; IsSuccessful
// reflects the success set at the time TestCases was called.
type TestCase[T comparable] struct {
	// Input is the fully-assembled input value after all axes have
	// been applied in declaration order.
	Input T

	// Description joins the textual form of each axis's chosen
	// candidate value, in axis-declaration order, separated by
	// DescriptionDelimiter.
	Description string

	// IsSuccessful is true iff Input was marked as an expected
	// success before the view was read.
	IsSuccessful bool
}

// Matrix owns the expanded combination set and the success set.
//
// The combination set is computed eagerly by New and is immutable
// thereafter. The success set starts empty and only grows, via
// MarkSuccessful and MarkSuccessfulWhere.
//
// Combination identity is value equality: T must be comparable, and
// two candidate tuples that assemble structurally equal inputs
// collapse into a single combination. The first tuple encountered in
// expansion order supplies the surviving description.
//
// Matrix is not safe for concurrent use.
type Matrix[T comparable] struct {
	combos  map[T]string // input value -> description, fixed after New
	success map[T]struct{}
}

// New expands the full Cartesian product of axes over initial and
// returns the resulting matrix.
//
// The combination count equals the product of the axes' value counts,
// minus any collapse from value-equal results. Degenerate inputs are
// valid, not errors: an empty axis list yields exactly one combination
// with an empty description, and any axis with zero values empties the
// whole product.
//
// Apply functions must not mutate their arguments; a panic raised by
// an Apply function propagates to the caller uncaught.
func New[T comparable](initial T, axes []Axis[T]) *Matrix[T] {
	m := &Matrix[T]{
		combos:  make(map[T]string),
		success: make(map[T]struct{}),
	}
	m.expand(initial, axes, nil)
	return m
}

// expand walks the axes depth-first, the last axis varying fastest.
//
// fragments is used as a backtracking stack: each depth appends its
// own fragment and the append is dead by the time a sibling reuses the
// slot, because descriptions are joined at the leaves before the walk
// returns. Sharing the backing array across siblings is therefore
// safe.
func (m *Matrix[T]) expand(current T, axes []Axis[T], fragments []string) {
	if len(axes) == 0 {
		if _, ok := m.combos[current]; !ok {
			m.combos[current] = strings.Join(fragments, DescriptionDelimiter)
		}
		return
	}

	axis := axes[0]
	for _, candidate := range axis.Values {
		next := axis.Apply(current, candidate)
		m.expand(next, axes[1:], append(fragments, fmt.Sprint(candidate)))
	}
}

// Len returns the number of distinct combinations in the matrix.
func (m *Matrix[T]) Len() int {
	return len(m.combos)
}

// MarkSuccessful adds v to the success set.
//
// Marking is idempotent. Marking a value that was never generated is
// inert: the entry is stored but TestCases only reports success for
// inputs that exist as combinations.
func (m *Matrix[T]) MarkSuccessful(v T) {
	m.success[v] = struct{}{}
}

// MarkSuccessfulWhere adds every generated combination value
// satisfying pred to the success set.
//
// Repeated calls are purely additive: a later predicate cannot un-mark
// a value marked by an earlier call. The resulting success set is the
// union across all calls. A panic raised by pred propagates to the
// caller uncaught.
func (m *Matrix[T]) MarkSuccessfulWhere(pred func(T) bool) {
	for v := range m.combos {
		if pred(v) {
			m.success[v] = struct{}{}
		}
	}
}

// TestCases produces the current view of the matrix, one TestCase per
// stored combination.
//
// The view is recomputed on every call from the fixed combination set
// and the current success set, so repeated reads observe success-set
// mutations made in between. The slice length never changes across
// reads. Element order is unspecified and may differ between calls.
func (m *Matrix[T]) TestCases() []TestCase[T] {
	cases := make([]TestCase[T], 0, len(m.combos))
	for v, desc := range m.combos {
		_, ok := m.success[v]
		cases = append(cases, TestCase[T]{
			Input:        v,
			Description:  desc,
			IsSuccessful: ok,
		})
	}
	return cases
}
