// Package jsonvalue provides a closed JSON value type with structural equality
// and canonical (key-sorted, indented) rendering.
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is an immutable JSON value. The zero Value is null.
// Numbers keep their literal text so that rendering never changes precision.
type Value struct {
	kind Kind
	b    bool
	s    string // string contents, or number literal
	arr  []Value
	obj  map[string]Value
}

// Constructors.

func NullValue() Value             { return Value{} }
func BoolValue(b bool) Value       { return Value{kind: Bool, b: b} }
func StringValue(s string) Value   { return Value{kind: String, s: s} }
func NumberValue(lit string) Value { return Value{kind: Number, s: lit} }
func ArrayValue(items ...Value) Value {
	return Value{kind: Array, arr: items}
}

// ObjectValue builds an object value. The map is not copied.
func ObjectValue(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: Object, obj: m}
}

// ErrTrailingData is returned by Parse when the input holds more than one JSON value.
var ErrTrailingData = errors.New("trailing data after JSON value")

// Parse decodes exactly one JSON document. Duplicate object keys keep the last value.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, ErrTrailingData
	}
	return FromAny(raw)
}

// ParseString is Parse for string input.
func ParseString(s string) (Value, error) {
	return Parse([]byte(s))
}

// FromAny converts the output of encoding/json (decoded with or without UseNumber)
// into a Value.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(val), nil
	case string:
		return StringValue(val), nil
	case json.Number:
		return NumberValue(val.String()), nil
	case float64:
		b, err := json.Marshal(val)
		if err != nil {
			return Value{}, err
		}
		return NumberValue(string(b)), nil
	case int:
		return NumberValue(fmt.Sprint(val)), nil
	case []any:
		items := make([]Value, len(val))
		for i, item := range val {
			iv, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = iv
		}
		return ArrayValue(items...), nil
	case map[string]any:
		obj := make(map[string]Value, len(val))
		for k, item := range val {
			iv, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			obj[k] = iv
		}
		return ObjectValue(obj), nil
	default:
		return Value{}, fmt.Errorf("unsupported JSON type %T", v)
	}
}

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// Bool returns the boolean payload; false for non-bool values.
func (v Value) Bool() bool { return v.b }

// Str returns the string payload, or the literal text of a number.
func (v Value) Str() string { return v.s }

// Len returns the number of array items or object members.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.arr)
	case Object:
		return len(v.obj)
	default:
		return 0
	}
}

// Items returns the array items. The slice must not be modified.
func (v Value) Items() []Value { return v.arr }

// Get returns the member stored under key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	m, ok := v.obj[key]
	return m, ok
}

// Keys returns the object's member names in lexicographic order.
func (v Value) Keys() []string {
	if v.kind != Object {
		return nil
	}
	return slices.Sorted(maps.Keys(v.obj))
}

// Equal reports structural equality. Numbers compare by literal text.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Bool:
		return v.b == o.b
	case Number, String:
		return v.s == o.s
	case Array:
		return slices.EqualFunc(v.arr, o.arr, Value.Equal)
	case Object:
		return maps.EqualFunc(v.obj, o.obj, Value.Equal)
	}
	return false
}

// CollectKeys returns every object member name found anywhere in v, sorted and deduplicated.
func (v Value) CollectKeys() []string {
	seen := make(map[string]struct{})
	v.walkKeys(seen)
	return slices.Sorted(maps.Keys(seen))
}

func (v Value) walkKeys(seen map[string]struct{}) {
	switch v.kind {
	case Array:
		for _, item := range v.arr {
			item.walkKeys(seen)
		}
	case Object:
		for k, item := range v.obj {
			seen[k] = struct{}{}
			item.walkKeys(seen)
		}
	}
}

// ToAny converts v into plain Go values (map[string]any, []any, float64, int,
// string, bool, nil) suitable for gojq and encoding/json.
func (v Value) ToAny() any {
	switch v.kind {
	case Bool:
		return v.b
	case Number:
		n := json.Number(v.s)
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return v.s
	case String:
		return v.s
	case Array:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.ToAny()
		}
		return out
	case Object:
		out := make(map[string]any, len(v.obj))
		for k, item := range v.obj {
			out[k] = item.ToAny()
		}
		return out
	default:
		return nil
	}
}
