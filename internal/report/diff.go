package report

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/usestring/hardiff-mcp/pkg/types"
)

// DefaultContext is the number of unchanged lines kept around each hunk.
const DefaultContext = 3

// UnifiedDiff returns a unified line diff of a section's two sides, or "" when
// they are identical.
func UnifiedDiff(s types.Section, fromName, toName string, context int) (string, error) {
	if s.Content1 == s.Content2 {
		return "", nil
	}
	out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(s.Content1),
		B:        difflib.SplitLines(s.Content2),
		FromFile: fromName,
		ToFile:   toName,
		Context:  context,
	})
	if err != nil {
		return "", fmt.Errorf("diffing section: %w", err)
	}
	return out, nil
}

// SectionDiffs returns the unified diff of every differing section, keyed by
// section name.
func SectionDiffs(dc *types.DetailedComparison, fromName, toName string, context int) (map[string]string, error) {
	sections := map[string]*types.Section{
		"general":     &dc.General,
		"raw_request": &dc.RawRequest,
		"headers":     &dc.Headers,
		"params":      &dc.Params,
		"response":    &dc.Response,
	}
	if dc.Payloads != nil {
		sections["payloads"] = dc.Payloads
	}
	if dc.ResponseBody != nil {
		sections["response_body"] = dc.ResponseBody
	}

	out := make(map[string]string)
	for name, s := range sections {
		d, err := UnifiedDiff(*s, fromName, toName, context)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if d != "" {
			out[name] = d
		}
	}
	return out, nil
}
