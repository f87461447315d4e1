package canon

import (
	"fmt"
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface over the field-value types a manifest
// case may carry. Only String, Int, Bool, Array, and Object implement
// it. Floats and nulls are excluded: they break deterministic
// canonical serialization, so manifests that carry them are rejected
// at conversion time.
type Value interface {
	value() // sealed
}

// String is a string field value.
type String string

func (String) value() {}

// Int is an integer field value. Always int64, never float64.
type Int int64

func (Int) value() {}

// Bool is a boolean field value.
type Bool bool

func (Bool) value() {}

// Array is an ordered list of field values.
type Array []Value

func (Array) value() {}

// Object maps field names to values. Use SortedKeys for deterministic
// iteration.
type Object map[string]Value

func (Object) value() {}

// FromGo converts a decoded YAML/JSON value into a Value tree.
// Rejects nulls, floats, and any type outside the constrained set.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null values are not allowed in case fields")
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case int:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case bool:
		return Bool(val), nil
	case float64:
		// yaml.v3 decodes integral scalars as int, so a float64 here
		// really carries a fractional part.
		return nil, fmt.Errorf("float values are not allowed in case fields: %v", val)
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			converted, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = converted
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			converted, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("%q: %w", k, err)
			}
			obj[k] = converted
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported field value type %T", v)
	}
}

// FromFields converts a field map into an Object.
func FromFields(fields map[string]any) (Object, error) {
	obj := make(Object, len(fields))
	for k, v := range fields {
		converted, err := FromGo(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		obj[k] = converted
	}
	return obj, nil
}

// SortedKeys returns keys in RFC 8785 canonical order, which compares
// UTF-16 code units, not UTF-8 bytes. The two orders differ for
// strings containing characters above the BMP.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

// compareUTF16 compares strings by UTF-16 code units as RFC 8785
// requires. utf16.Encode handles surrogate pairs; Go's native string
// comparison works on UTF-8 bytes and can produce a different order.
func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	n := min(len(a16), len(b16))
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	default:
		return 0
	}
}
