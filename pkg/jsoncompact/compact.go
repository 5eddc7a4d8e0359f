// Package jsoncompact shrinks JSON bodies for tool output by trimming arrays,
// long strings and deep nesting.
package jsoncompact

import (
	"fmt"
	"unicode/utf8"

	"github.com/usestring/hardiff-mcp/pkg/jsonvalue"
)

// Options controls JSON compaction behavior.
type Options struct {
	MaxArrayItems int // Trim arrays to N items (0 = no limit)
	MaxStringLen  int // Truncate strings longer than N bytes (0 = no limit)
	MaxDepth      int // Max recursion depth (0 = unlimited)
}

// Default values for compaction options.
const (
	DefaultMaxArrayItems = 3
	DefaultMaxStringLen  = 500
	DefaultMaxDepth      = 0 // unlimited
)

// DefaultOptions returns the default compaction settings.
func DefaultOptions() *Options {
	return &Options{
		MaxArrayItems: DefaultMaxArrayItems,
		MaxStringLen:  DefaultMaxStringLen,
		MaxDepth:      DefaultMaxDepth,
	}
}

// Compact returns a compacted copy of v. Trimmed arrays end with a
// "... (N more items)" marker string.
// If opts is nil, DefaultOptions() is used.
func Compact(v jsonvalue.Value, opts *Options) jsonvalue.Value {
	if opts == nil {
		opts = DefaultOptions()
	}
	return compactRecursive(v, opts, 0)
}

// CompactBody compacts a raw body. JSON bodies are compacted and rendered
// canonically; anything else is treated as one string. The second result
// reports whether the body was JSON.
func CompactBody(body string, opts *Options) (string, bool) {
	if opts == nil {
		opts = DefaultOptions()
	}
	v, err := jsonvalue.ParseString(body)
	if err != nil {
		return compactString(body, opts), false
	}
	return jsonvalue.Canonical(Compact(v, opts)), true
}

func compactRecursive(v jsonvalue.Value, opts *Options, depth int) jsonvalue.Value {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		return jsonvalue.StringValue("[max depth]")
	}

	switch v.Kind() {
	case jsonvalue.Array:
		return compactArray(v.Items(), opts, depth)
	case jsonvalue.Object:
		return compactObject(v, opts, depth)
	case jsonvalue.String:
		return jsonvalue.StringValue(compactString(v.Str(), opts))
	default:
		return v
	}
}

// compactString cuts s to at most MaxStringLen bytes without splitting a
// UTF-8 sequence.
func compactString(s string, opts *Options) string {
	if opts.MaxStringLen <= 0 || len(s) <= opts.MaxStringLen {
		return s
	}
	cut := opts.MaxStringLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + fmt.Sprintf("... (%d more chars)", len(s)-cut)
}

func compactArray(arr []jsonvalue.Value, opts *Options, depth int) jsonvalue.Value {
	n := len(arr)
	if opts.MaxArrayItems > 0 && n > opts.MaxArrayItems {
		n = opts.MaxArrayItems
	}

	result := make([]jsonvalue.Value, 0, n+1)
	for _, item := range arr[:n] {
		result = append(result, compactRecursive(item, opts, depth+1))
	}
	if remaining := len(arr) - n; remaining > 0 {
		result = append(result, jsonvalue.StringValue(fmt.Sprintf("... (%d more items)", remaining)))
	}
	return jsonvalue.ArrayValue(result...)
}

func compactObject(obj jsonvalue.Value, opts *Options, depth int) jsonvalue.Value {
	result := make(map[string]jsonvalue.Value, obj.Len())
	for _, k := range obj.Keys() {
		v, _ := obj.Get(k)
		result[k] = compactRecursive(v, opts, depth+1)
	}
	return jsonvalue.ObjectValue(result)
}
