package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_SortsKeys(t *testing.T) {
	out, err := Marshal(map[string]any{
		"zebra": 1,
		"alpha": 2,
		"mango": 3,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"mango":3,"zebra":1}`, string(out))
}

func TestMarshal_NoHTMLEscaping(t *testing.T) {
	out, err := Marshal(map[string]any{"cmp": "a < b && c > d"})
	require.NoError(t, err)
	assert.Equal(t, `{"cmp":"a < b && c > d"}`, string(out))
}

func TestMarshal_NFCNormalization(t *testing.T) {
	// "é" as combining sequence (e + U+0301) vs precomposed U+00E9.
	composed, err := Marshal("é")
	require.NoError(t, err)
	precomposed, err := Marshal("é")
	require.NoError(t, err)
	assert.Equal(t, string(precomposed), string(composed))
}

func TestMarshal_LineSeparatorsStayLiteral(t *testing.T) {
	out, err := Marshal("a b c")
	require.NoError(t, err)
	assert.Equal(t, "\"a b c\"", string(out))
}

func TestMarshal_EscapedBackslashBeforeU2028Text(t *testing.T) {
	// A literal backslash followed by the text "u2028" must keep its
	// escaping; only real U+2028 characters are unescaped.
	out, err := Marshal("\\u2028")
	require.NoError(t, err)
	assert.Equal(t, `"\\u2028"`, string(out))
}

func TestMarshal_MixedSeparatorAndEscapedText(t *testing.T) {
	out, err := Marshal("\u2028 then \\u2028")
	require.NoError(t, err)
	assert.Equal(t, "\"\u2028 then \\\\u2028\"", string(out))
}

func TestMarshal_NestedValues(t *testing.T) {
	out, err := Marshal(map[string]any{
		"list": []any{1, "two", true},
		"obj":  map[string]any{"b": 2, "a": 1},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"list":[1,"two",true],"obj":{"a":1,"b":2}}`, string(out))
}

func TestMarshal_RejectsFloats(t *testing.T) {
	_, err := Marshal(map[string]any{"ratio": 0.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "float")
}

func TestMarshal_RejectsNulls(t *testing.T) {
	_, err := Marshal(map[string]any{"gone": nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null")
}

func TestCaseID_StableAcrossKeyOrder(t *testing.T) {
	a, err := CaseID(map[string]any{"mode": "tcp", "retries": 3})
	require.NoError(t, err)
	b, err := CaseID(map[string]any{"retries": 3, "mode": "tcp"})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCaseID_DistinctForDistinctFields(t *testing.T) {
	a := MustCaseID(map[string]any{"mode": "tcp"})
	b := MustCaseID(map[string]any{"mode": "udp"})
	assert.NotEqual(t, a, b)
}

func TestCaseID_RejectsFloatFields(t *testing.T) {
	_, err := CaseID(map[string]any{"ratio": 1.5})
	require.Error(t, err)
}

func TestSortedKeys_UTF16Order(t *testing.T) {
	// U+1D306 (surrogate pair in UTF-16) sorts before U+FF01 under
	// UTF-16 code-unit order, although its UTF-8 encoding is larger.
	obj := Object{
		"\U0001d306": Int(1),
		"！":     Int(2),
	}
	assert.Equal(t, []string{"\U0001d306", "！"}, obj.SortedKeys())
}
