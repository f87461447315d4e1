// Package manifest loads declarative matrix definitions and expands
// them into concrete test cases.
//
// A manifest is a YAML file naming a base field map and a list of
// axes; each axis sets one field from a list of candidate values. The
// expansion is the full Cartesian product of all axes, computed by the
// combinator engine over canonical case identities. Optional expect
// rules mark subsets of the product as expected successes.
package manifest

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/caseweave/caseweave/internal/canon"
)

// Manifest is one declarative matrix definition.
type Manifest struct {
	// Name uniquely identifies the matrix.
	Name string `yaml:"name"`

	// Description explains what the matrix varies.
	Description string `yaml:"description"`

	// Base holds the field values every case starts from. Fields not
	// touched by any axis pass through unchanged. May be empty.
	Base map[string]any `yaml:"base,omitempty"`

	// Axes are the dimensions of variation, applied in declaration
	// order. At least one axis is required in a manifest; an axis
	// with an empty values list empties the whole product.
	Axes []AxisSpec `yaml:"axes"`

	// Expect marks cases as expected successes. Each rule is a subset
	// match over case fields; the marked set is the union across all
	// rules.
	Expect []ExpectRule `yaml:"expect,omitempty"`
}

// AxisSpec is one axis of a manifest matrix.
type AxisSpec struct {
	// Name labels the axis.
	Name string `yaml:"name"`

	// Field is the case field this axis sets. Defaults to Name.
	Field string `yaml:"field,omitempty"`

	// Values are the ordered candidate values. Scalars only: strings,
	// integers, and booleans.
	Values []any `yaml:"values"`
}

// ExpectRule marks the cases whose fields contain Where as expected
// successes.
type ExpectRule struct {
	// Where maps field names to required values. All listed fields
	// must match; fields not listed are ignored.
	Where map[string]any `yaml:"where"`
}

// targetField returns the case field this axis sets.
func (a AxisSpec) targetField() string {
	if a.Field != "" {
		return a.Field
	}
	return a.Name
}

// Load reads and parses a manifest YAML file.
// Returns an error if the file is missing, malformed, contains
// unknown fields (typos), fails schema validation, or is missing
// required fields.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}
	return Parse(data)
}

// Parse parses manifest YAML bytes. See Load.
func Parse(data []byte) (*Manifest, error) {
	// Schema validation runs against the raw document so CUE errors
	// carry field paths the author recognizes.
	if err := validateSchema(data); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateManifest(&m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	return &m, nil
}

// validateManifest checks the constraints the CUE schema cannot
// express: required fields, duplicate axis targets, and field values
// the canonical encoder would reject.
func validateManifest(m *Manifest) error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(m.Axes) == 0 {
		return fmt.Errorf("axes list is required and must be non-empty")
	}

	if _, err := canon.FromFields(m.Base); err != nil {
		return fmt.Errorf("base: %w", err)
	}

	targets := make(map[string]string, len(m.Axes))
	for i, axis := range m.Axes {
		if axis.Name == "" {
			return fmt.Errorf("axes[%d]: name is required", i)
		}
		field := axis.targetField()
		if prev, dup := targets[field]; dup {
			return fmt.Errorf("axes[%d] (%s): field %q already set by axis %q", i, axis.Name, field, prev)
		}
		targets[field] = axis.Name

		for j, v := range axis.Values {
			if _, err := canon.FromGo(v); err != nil {
				return fmt.Errorf("axes[%d] (%s): values[%d]: %w", i, axis.Name, j, err)
			}
		}
	}

	for i, rule := range m.Expect {
		if len(rule.Where) == 0 {
			return fmt.Errorf("expect[%d]: where is required and must be non-empty", i)
		}
		for k, v := range rule.Where {
			if _, err := canon.FromGo(v); err != nil {
				return fmt.Errorf("expect[%d]: where[%q]: %w", i, k, err)
			}
		}
	}

	return nil
}
