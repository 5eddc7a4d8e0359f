// Package query extracts values from exchange bodies with jq, CSS selectors,
// XPath, regular expressions, or form keys.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/usestring/hardiff-mcp/pkg/jsonvalue"
)

// Engine executes queries against exchange bodies.
type Engine struct{}

// NewEngine creates a new query engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Input is one body to query. A nil Body means the exchange has none.
type Input struct {
	Label string
	Body  *string
}

// Options controls how the expression is read and how results are collected.
type Options struct {
	Mode        string // expression language, one of the Mode constants; "" means jq
	Deduplicate bool   // drop values already produced by any earlier input
	MaxResults  int    // total value cap across inputs; 0 means unlimited
}

// InputResult holds the values one input produced.
type InputResult struct {
	Label  string `json:"label"`
	Values []any  `json:"values"`
	Error  string `json:"error,omitempty"` // body missing or unparseable in this mode
}

// Result contains the results of a query over several inputs.
type Result struct {
	Mode      string        `json:"mode"`
	Inputs    []InputResult `json:"inputs"`
	Errors    []string      `json:"errors,omitempty"` // per-input runtime errors, deduplicated
	RawCount  int           `json:"raw_count"`        // count before deduplication
	Total     int           `json:"total"`            // values returned
	Truncated bool          `json:"truncated,omitempty"`
}

// runner evaluates a compiled expression against one body, passing each value
// to yield until yield returns false. Runtime errors that should not abort the
// body are yielded as error values. A returned error means the body could not
// be read in this mode.
type runner func(body string, yield func(any) bool) error

// Query runs expression against every input in order. Inputs whose body is
// missing or cannot be parsed are reported, not treated as failures.
func (e *Engine) Query(inputs []Input, expression string, opts Options) (*Result, error) {
	mode := opts.Mode
	if mode == "" {
		mode = ModeJQ
	}
	run, err := compileMode(mode, expression)
	if err != nil {
		return nil, err
	}

	result := &Result{Mode: mode, Inputs: make([]InputResult, 0, len(inputs))}
	seen := make(map[string]bool)
	seenErrors := make(map[string]bool)

	for i, in := range inputs {
		label := in.Label
		if label == "" {
			label = fmt.Sprintf("body[%d]", i)
		}
		ir := InputResult{Label: label, Values: make([]any, 0)}

		if in.Body == nil {
			ir.Error = "no body"
			result.Inputs = append(result.Inputs, ir)
			continue
		}
		if result.Truncated {
			result.Inputs = append(result.Inputs, ir)
			continue
		}

		err := run(*in.Body, func(v any) bool {
			if err, isErr := v.(error); isErr {
				msg := formatJQError(label, err)
				if !seenErrors[msg] {
					result.Errors = append(result.Errors, msg)
					seenErrors[msg] = true
				}
				return true
			}

			// Skip nil values
			if v == nil {
				return true
			}
			result.RawCount++

			if opts.Deduplicate {
				key := valueKey(v)
				if seen[key] {
					return true
				}
				seen[key] = true
			}

			ir.Values = append(ir.Values, v)
			result.Total++
			if opts.MaxResults > 0 && result.Total >= opts.MaxResults {
				result.Truncated = true
				return false
			}
			return true
		})
		if err != nil {
			ir.Error = err.Error()
		}
		result.Inputs = append(result.Inputs, ir)
	}

	return result, nil
}

// ValidateExpression checks that expression is valid in mode without
// running it. An empty mode means jq.
func (e *Engine) ValidateExpression(expression, mode string) error {
	if mode == "" {
		mode = ModeJQ
	}
	_, err := compileMode(mode, expression)
	return err
}

func runJQ(code *gojq.Code) runner {
	return func(body string, yield func(any) bool) error {
		v, err := jsonvalue.ParseString(body)
		if err != nil {
			return fmt.Errorf("body is not JSON: %w", err)
		}
		iter := code.Run(v.ToAny())
		for {
			out, ok := iter.Next()
			if !ok || !yield(out) {
				return nil
			}
		}
	}
}

func compile(expression string) (*gojq.Code, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return code, nil
}

// formatJQError creates a helpful error message for JQ execution errors.
// It adds contextual hints to help users fix common issues.
//
// Runtime errors like "cannot iterate over: null" are plain errors without
// typed wrappers in gojq, so hints are chosen by string matching. Only the
// display message depends on it.
func formatJQError(label string, err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return fmt.Sprintf("%s: query halted", label)
		}
		return fmt.Sprintf("%s: query halted with: %v", label, haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this body)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "object") && strings.Contains(errStr, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array, try adding '[]')"
	}

	return fmt.Sprintf("%s: %s%s", label, errStr, hint)
}

// valueKey creates a string key for deduplication.
func valueKey(v any) string {
	switch val := v.(type) {
	case string:
		return "s:" + val
	case int, float64:
		return fmt.Sprintf("n:%v", val)
	case bool:
		return fmt.Sprintf("b:%v", val)
	default:
		// For complex types, marshal to JSON
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("?:%v", val)
		}
		return "j:" + string(b)
	}
}
