package jsoncompact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/hardiff-mcp/pkg/jsonvalue"
)

func compactJSON(t *testing.T, input string, opts *Options) any {
	t.Helper()
	v, err := jsonvalue.ParseString(input)
	require.NoError(t, err)
	return Compact(v, opts).ToAny()
}

func TestCompact_BasicArrayTrimming(t *testing.T) {
	got := compactJSON(t, `{"items": [1, 2, 3, 4, 5, 6, 7, 8, 9, 10]}`, &Options{MaxArrayItems: 3})

	items := got.(map[string]any)["items"].([]any)
	assert.Equal(t, []any{1, 2, 3, "... (7 more items)"}, items)
}

func TestCompact_ArrayWithinLimit(t *testing.T) {
	got := compactJSON(t, `{"items": [1, 2, 3]}`, &Options{MaxArrayItems: 5})
	assert.Equal(t, map[string]any{"items": []any{1, 2, 3}}, got)
}

func TestCompact_NestedArrays(t *testing.T) {
	input := `{
		"users": [
			{"name": "Alice", "tags": ["a", "b", "c", "d", "e"]},
			{"name": "Bob", "tags": ["x", "y", "z", "w"]},
			{"name": "Charlie", "tags": ["1", "2"]},
			{"name": "Dave", "tags": []},
			{"name": "Eve", "tags": ["only"]}
		]
	}`
	got := compactJSON(t, input, &Options{MaxArrayItems: 3})

	users := got.(map[string]any)["users"].([]any)
	require.Len(t, users, 4) // 3 users + indicator
	assert.Equal(t, "... (2 more items)", users[3])

	alice := users[0].(map[string]any)
	assert.Equal(t, []any{"a", "b", "c", "... (2 more items)"}, alice["tags"])

	charlie := users[2].(map[string]any)
	assert.Equal(t, []any{"1", "2"}, charlie["tags"])
}

func TestCompact_EmptyArray(t *testing.T) {
	got := compactJSON(t, `{"items": []}`, &Options{MaxArrayItems: 3})
	assert.Equal(t, map[string]any{"items": []any{}}, got)
}

func TestCompact_NilOptions(t *testing.T) {
	got := compactJSON(t, `[1, 2, 3, 4]`, nil)
	assert.Equal(t, []any{1, 2, 3, "... (1 more items)"}, got)
}

func TestCompact_MaxDepth(t *testing.T) {
	got := compactJSON(t, `{"a": {"b": {"c": 1}}, "x": 1}`, &Options{MaxDepth: 2})
	assert.Equal(t, map[string]any{
		"a": map[string]any{"b": "[max depth]"},
		"x": 1,
	}, got)
}

func TestCompact_DisabledArrayCompaction(t *testing.T) {
	got := compactJSON(t, `[1, 2, 3, 4, 5]`, &Options{})
	assert.Equal(t, []any{1, 2, 3, 4, 5}, got)
}

func TestCompact_PreservesNonArrayTypes(t *testing.T) {
	got := compactJSON(t, `{"s": "x", "n": 1.5, "b": true, "z": null}`, DefaultOptions())
	assert.Equal(t, map[string]any{"s": "x", "n": 1.5, "b": true, "z": nil}, got)
}

func TestCompact_StringTruncation(t *testing.T) {
	long := strings.Repeat("a", 20)
	got := compactJSON(t, `{"s": "`+long+`"}`, &Options{MaxStringLen: 5})
	assert.Equal(t, "aaaaa... (15 more chars)", got.(map[string]any)["s"])
}

func TestCompact_StringTruncationKeepsRunesWhole(t *testing.T) {
	// "é" is two bytes; a 3-byte cut would split the second one.
	assert.Equal(t, "é... (4 more chars)", compactString("ééé", &Options{MaxStringLen: 3}))
}

func TestCompact_StringWithinLimit(t *testing.T) {
	assert.Equal(t, "short", compactString("short", &Options{MaxStringLen: 10}))
	assert.Equal(t, "unbounded", compactString("unbounded", &Options{}))
}

func TestCompactBody(t *testing.T) {
	out, isJSON := CompactBody(`{"b": [1, 2], "a": "x"}`, &Options{MaxArrayItems: 1})
	assert.True(t, isJSON)
	assert.Equal(t, "{\n  \"a\": \"x\",\n  \"b\": [\n    1,\n    \"... (1 more items)\"\n  ]\n}", out)

	out, isJSON = CompactBody("plain text body", &Options{MaxStringLen: 5})
	assert.False(t, isJSON)
	assert.Equal(t, "plain... (10 more chars)", out)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, DefaultMaxArrayItems, opts.MaxArrayItems)
	assert.Equal(t, DefaultMaxStringLen, opts.MaxStringLen)
	assert.Equal(t, DefaultMaxDepth, opts.MaxDepth)
}
