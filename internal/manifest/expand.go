package manifest

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/caseweave/caseweave"
	"github.com/caseweave/caseweave/internal/canon"
)

// Case is one expanded combination of a manifest matrix.
type Case struct {
	// ID is the content-addressed identity of Fields. Structurally
	// equal field maps share an ID.
	ID string `json:"id"`

	// Fields is the fully-assembled field map: base fields with one
	// axis value substituted per axis.
	Fields map[string]any `json:"fields"`

	// Description joins the chosen axis values in declaration order.
	Description string `json:"description"`

	// Expected is true iff an expect rule matched this case.
	Expected bool `json:"expected"`
}

// Expand computes the full Cartesian product of the manifest's axes
// and returns one Case per distinct combination, sorted by
// description.
//
// Field maps are not comparable, so the combinator engine runs over
// canonical case-ID strings; the expansion keeps an ID-to-fields side
// table and joins the two when building the result. Expect rules are
// applied as success-marking predicates over that table.
func (m *Manifest) Expand() ([]Case, error) {
	if err := validateManifest(m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	base := make(map[string]any, len(m.Base))
	maps.Copy(base, m.Base)

	baseID, err := canon.CaseID(base)
	if err != nil {
		return nil, fmt.Errorf("base: %w", err)
	}
	byID := map[string]map[string]any{baseID: base}

	axes := make([]caseweave.Axis[string], len(m.Axes))
	for i, spec := range m.Axes {
		field := spec.targetField()
		axes[i] = caseweave.Axis[string]{
			Values: slices.Clone(spec.Values),
			Apply: func(current string, candidate any) string {
				next := maps.Clone(byID[current])
				next[field] = candidate
				// Values were vetted by validateManifest, so the ID
				// computation cannot fail here.
				id := canon.MustCaseID(next)
				byID[id] = next
				return id
			},
		}
	}

	matrix := caseweave.New(baseID, axes)

	for _, rule := range m.Expect {
		where := rule.Where
		matrix.MarkSuccessfulWhere(func(id string) bool {
			return fieldsMatch(byID[id], where)
		})
	}

	cases := make([]Case, 0, matrix.Len())
	for _, tc := range matrix.TestCases() {
		cases = append(cases, Case{
			ID:          tc.Input,
			Fields:      byID[tc.Input],
			Description: tc.Description,
			Expected:    tc.IsSuccessful,
		})
	}

	// The engine's iteration order is unspecified; sort for stable
	// rendering. Descriptions can collide after value-equal collapse,
	// so the ID breaks ties.
	slices.SortFunc(cases, func(a, b Case) int {
		if c := strings.Compare(a.Description, b.Description); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	return cases, nil
}

// fieldsMatch reports whether fields contains every where entry with a
// canonically equal value. Fields absent from where are ignored.
func fieldsMatch(fields, where map[string]any) bool {
	for k, want := range where {
		got, ok := fields[k]
		if !ok {
			return false
		}
		if !canonEqual(got, want) {
			return false
		}
	}
	return true
}

// canonEqual compares two field values by canonical encoding, which
// absorbs YAML's int/int64 representation drift.
func canonEqual(a, b any) bool {
	ab, err := canon.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := canon.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}

// Snapshot renders an expansion as canonical JSON for golden
// comparison and machine consumption. Cases keep the order they were
// given, which Expand makes deterministic.
func Snapshot(name string, cases []Case) ([]byte, error) {
	rendered := make([]any, len(cases))
	for i, c := range cases {
		rendered[i] = map[string]any{
			"id":          c.ID,
			"fields":      c.Fields,
			"description": c.Description,
			"expected":    c.Expected,
		}
	}

	return canon.Marshal(map[string]any{
		"matrix_name": name,
		"cases":       rendered,
	})
}
