package whitelist

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Schema returns the JSON Schema describing whitelist documents.
func Schema() *invopop.Schema {
	r := &invopop.Reflector{
		Anonymous:                 true,
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}
	return r.Reflect(&Config{})
}

const schemaURL = "whitelist.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	raw, err := json.Marshal(Schema())
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	compiled, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return compiled, nil
})

// validate checks a decoded document against the schema and returns
// human-readable problems, sorted.
func validate(doc any) []string {
	schema, err := compiledSchema()
	if err != nil {
		return []string{err.Error()}
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []string{err.Error()}
	}

	seen := make(map[string]struct{})
	collectErrors(verr, seen)
	if len(seen) == 0 {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(seen))
	for msg := range seen {
		out = append(out, msg)
	}
	slices.Sort(out)
	return out
}

// printer renders validation messages in English.
var printer = message.NewPrinter(language.English)

// collectErrors gathers leaf validation errors as "path: message" strings.
func collectErrors(err *jsonschema.ValidationError, seen map[string]struct{}) {
	if err.ErrorKind != nil && len(err.Causes) == 0 {
		msg := err.ErrorKind.LocalizedString(printer)
		if !strings.HasPrefix(msg, "$ref ") {
			path := "/" + strings.Join(err.InstanceLocation, "/")
			seen[path+": "+msg] = struct{}{}
		}
	}
	for _, cause := range err.Causes {
		collectErrors(cause, seen)
	}
}
