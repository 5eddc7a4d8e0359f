package tools

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddTool registers a tool with the server after checking that the output
// type's zero value passes the SDK's inferred JSON schema.
//
// Panics if the output type cannot be serialized in a schema-conforming way.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	CheckOutputSchema[Out](t.Name)
	sdkmcp.AddTool(srv, t, h)
}

// CheckOutputSchema panics if OutputSchemaProblem reports a problem for T.
func CheckOutputSchema[T any](toolName string) {
	if msg := OutputSchemaProblem[T](); msg != "" {
		panic(fmt.Sprintf("AddTool %q: %s", toolName, msg))
	}
}

// OutputSchemaProblem returns a description of why T would produce tool
// output that fails the schema the SDK infers for it, or "" if it would not.
//
// Two mismatches are detected:
//   - nil slices and maps serialize as null while the schema says array or
//     object; fields need omitzero/omitempty or a non-nil value.
//   - json.RawMessage serializes as transparent JSON while the schema says
//     array of integers; fields need to be any.
//
// The untyped "any" output and types whose schema cannot be inferred are
// reported as fine (the SDK reports the latter itself).
func OutputSchemaProblem[T any]() string {
	rt := reflect.TypeFor[T]()
	if rt == reflect.TypeFor[any]() {
		return ""
	}
	elem := rt
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}

	if paths := findRawMessageFields(elem, nil, make(map[reflect.Type]bool)); len(paths) > 0 {
		return fmt.Sprintf(
			"output type %s contains json.RawMessage at %s\n"+
				"  json.RawMessage serializes as transparent JSON but schema generator infers []byte (array of ints)\n"+
				"  Fix: change the field type to any, then convert with types.ToAny",
			elem, strings.Join(paths, ", "),
		)
	}

	schema, err := jsonschema.ForType(elem, &jsonschema.ForOptions{})
	if err != nil {
		return ""
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return ""
	}

	data, err := json.Marshal(reflect.Zero(elem).Interface())
	if err != nil {
		return ""
	}
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return ""
	}

	if err := resolved.Validate(&v); err != nil {
		return fmt.Sprintf(
			"zero value of output type %s fails schema validation: %v\n"+
				"  JSON: %s\n"+
				"  Fix: add omitzero to nil-defaulting slice and map fields, or put them behind a pointer",
			elem, err, data,
		)
	}
	return ""
}

// rawMessageType is the reflect.Type for json.RawMessage.
var rawMessageType = reflect.TypeFor[json.RawMessage]()

// findRawMessageFields walks t and returns the field paths that hold a
// json.RawMessage.
func findRawMessageFields(t reflect.Type, path []string, visited map[reflect.Type]bool) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == rawMessageType {
		return []string{strings.Join(path, ".")}
	}
	if visited[t] {
		return nil
	}
	visited[t] = true
	defer delete(visited, t)

	var found []string
	switch t.Kind() {
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			found = append(found, findRawMessageFields(f.Type, append(path, f.Name), visited)...)
		}
	case reflect.Slice, reflect.Array:
		found = append(found, findRawMessageFields(t.Elem(), append(path, "[]"), visited)...)
	case reflect.Map:
		found = append(found, findRawMessageFields(t.Elem(), append(path, "[value]"), visited)...)
	}
	return found
}
