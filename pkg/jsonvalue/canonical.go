package jsonvalue

import (
	"bytes"
	"encoding/json"
	"strings"
)

// indentUnit is the per-level indentation of canonical output.
const indentUnit = "  "

// Canonical renders v with object keys sorted lexicographically at every depth,
// one member or item per line, indented by two spaces. Empty arrays and objects
// render as [] and {}. Canonical output parses back to an equal Value and
// re-renders identically.
func Canonical(v Value) string {
	var sb strings.Builder
	writeCanonical(&sb, v, 0)
	return sb.String()
}

// FormatString renders s canonically if it parses as JSON; otherwise s is returned verbatim.
func FormatString(s string) string {
	v, err := ParseString(s)
	if err != nil {
		return s
	}
	return Canonical(v)
}

func writeCanonical(sb *strings.Builder, v Value, depth int) {
	switch v.kind {
	case Null:
		sb.WriteString("null")
	case Bool:
		if v.b {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case Number:
		sb.WriteString(v.s)
	case String:
		writeString(sb, v.s)
	case Array:
		if len(v.arr) == 0 {
			sb.WriteString("[]")
			return
		}
		sb.WriteString("[\n")
		for i, item := range v.arr {
			writeIndent(sb, depth+1)
			writeCanonical(sb, item, depth+1)
			if i < len(v.arr)-1 {
				sb.WriteByte(',')
			}
			sb.WriteByte('\n')
		}
		writeIndent(sb, depth)
		sb.WriteByte(']')
	case Object:
		if len(v.obj) == 0 {
			sb.WriteString("{}")
			return
		}
		sb.WriteString("{\n")
		keys := v.Keys()
		for i, k := range keys {
			writeIndent(sb, depth+1)
			writeString(sb, k)
			sb.WriteString(": ")
			writeCanonical(sb, v.obj[k], depth+1)
			if i < len(keys)-1 {
				sb.WriteByte(',')
			}
			sb.WriteByte('\n')
		}
		writeIndent(sb, depth)
		sb.WriteByte('}')
	}
}

func writeIndent(sb *strings.Builder, depth int) {
	for range depth {
		sb.WriteString(indentUnit)
	}
}

// writeString emits a JSON string literal without HTML escaping.
func writeString(sb *strings.Builder, s string) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		// Encoding a Go string cannot fail.
		sb.WriteString(`""`)
		return
	}
	sb.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}
