// Package compare classifies pairs of exchanges as matching, whitelisted,
// partially differing, or different.
package compare

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/usestring/hardiff-mcp/pkg/jsonvalue"
	"github.com/usestring/hardiff-mcp/pkg/types"
	"github.com/usestring/hardiff-mcp/pkg/whitelist"
)

// Options controls comparison behavior.
type Options struct {
	// KeysOnly compares header names and (for non-GET requests) query
	// parameter names, ignoring values, method and bodies.
	KeysOnly bool
}

// Body comparison modes reported in BodyDiff.Mode.
const (
	BodyNone     = "none"     // neither side has a body
	BodyPresence = "presence" // exactly one side has a body
	BodyJSON     = "json"     // both bodies parsed as JSON
	BodyText     = "text"     // compared as raw strings
	BodySkipped  = "skipped"  // keys-only mode
)

// Analysis is the full breakdown behind a ComparisonResult.
type Analysis struct {
	Result           types.ComparisonResult `json:"result"`
	PathsDiffer      bool                   `json:"paths_differ,omitempty"`
	MethodDiffers    bool                   `json:"method_differs,omitempty"`
	HeadersDiffering []string               `json:"headers_differing,omitempty"`
	HeadersExempt    []string               `json:"headers_exempt,omitempty"`
	ParamsDiffer     bool                   `json:"params_differ,omitempty"`
	Body             BodyDiff               `json:"body"`
}

// BodyDiff describes how the request bodies compared.
type BodyDiff struct {
	Mode        string   `json:"mode"`
	Different   bool     `json:"different,omitempty"`
	Whitelisted bool     `json:"whitelisted,omitempty"`
	Differing   []string `json:"differing,omitempty"` // key paths of non-exempt differences
	Exempt      []string `json:"exempt,omitempty"`    // key paths of exempt differences
}

// Compare compares two exchanges with full value comparison.
// A nil whitelist exempts nothing.
func Compare(a, b *types.Exchange, wl *whitelist.Config) types.ComparisonResult {
	return Analyze(a, b, wl, Options{}).Result
}

// Analyze compares two exchanges and returns the classification together with
// the fields that produced it.
func Analyze(a, b *types.Exchange, wl *whitelist.Config, opts Options) *Analysis {
	if pathKey(a) != pathKey(b) {
		return &Analysis{
			Result:      types.ComparisonResult{Status: types.StatusDifferent, Details: "Different paths"},
			PathsDiffer: true,
			Body:        BodyDiff{Mode: BodySkipped},
		}
	}

	if opts.KeysOnly {
		return analyzeKeys(a, b, wl)
	}

	an := &Analysis{}
	an.HeadersDiffering, an.HeadersExempt = diffHeaders(a.Headers, b.Headers, a.URL, wl)
	an.ParamsDiffer = !a.IsGet() && !paramsEqual(a.QueryParams, b.QueryParams)
	an.Body = diffBodies(a.PostData, b.PostData, a.URL, wl)
	an.MethodDiffers = a.Method != b.Method

	var differing, exempt []string
	if an.MethodDiffers {
		differing = append(differing, "method")
	}
	switch {
	case len(an.HeadersDiffering) > 0:
		differing = append(differing, "headers")
	case len(an.HeadersExempt) > 0:
		exempt = append(exempt, "headers")
	}
	if an.ParamsDiffer {
		differing = append(differing, "params")
	}
	switch {
	case an.Body.Different:
		differing = append(differing, "body")
	case an.Body.Whitelisted:
		exempt = append(exempt, "body")
	}

	an.Result = classify(differing, exempt, "Full match")
	return an
}

func analyzeKeys(a, b *types.Exchange, wl *whitelist.Config) *Analysis {
	an := &Analysis{Body: BodyDiff{Mode: BodySkipped}}

	for _, name := range unionKeys(a.Headers, b.Headers) {
		_, inA := a.Headers[name]
		_, inB := b.Headers[name]
		if inA == inB {
			continue
		}
		if wl.IsHeaderWhitelisted(name, a.URL) {
			an.HeadersExempt = append(an.HeadersExempt, name)
		} else {
			an.HeadersDiffering = append(an.HeadersDiffering, name)
		}
	}
	if !a.IsGet() {
		an.ParamsDiffer = !slices.Equal(
			slices.Sorted(maps.Keys(a.QueryParams)),
			slices.Sorted(maps.Keys(b.QueryParams)),
		)
	}

	var differing, exempt []string
	switch {
	case len(an.HeadersDiffering) > 0:
		differing = append(differing, "header names")
	case len(an.HeadersExempt) > 0:
		exempt = append(exempt, "header names")
	}
	if an.ParamsDiffer {
		differing = append(differing, "param names")
	}

	switch {
	case len(differing) > 0:
		an.Result = types.ComparisonResult{Status: types.StatusPartial, Details: "Keys differ"}
	case len(exempt) > 0:
		an.Result = types.ComparisonResult{Status: types.StatusWhitelisted, Details: "Only whitelisted keys differ"}
	default:
		an.Result = types.ComparisonResult{Status: types.StatusMatch, Details: "Keys match"}
	}
	return an
}

// classify applies the status rule: any non-exempt difference is partial,
// only exempt differences is whitelisted, nothing is a match.
func classify(differing, exempt []string, matchDetail string) types.ComparisonResult {
	switch {
	case len(differing) > 0:
		return types.ComparisonResult{
			Status:  types.StatusPartial,
			Details: fmt.Sprintf("Partial match: %s differ", strings.Join(differing, ", ")),
		}
	case len(exempt) > 0:
		return types.ComparisonResult{
			Status:  types.StatusWhitelisted,
			Details: fmt.Sprintf("Only whitelisted fields differ: %s", strings.Join(exempt, ", ")),
		}
	default:
		return types.ComparisonResult{Status: types.StatusMatch, Details: matchDetail}
	}
}

// pathKey is the path used by the path gate: GET requests ignore the query.
func pathKey(e *types.Exchange) string {
	if e.IsGet() {
		return e.BarePath()
	}
	return e.Path
}

// diffHeaders returns differing and exempt header names, sorted.
// A name present on one side only counts as differing.
func diffHeaders(a, b map[string]string, rawURL string, wl *whitelist.Config) (differing, exempt []string) {
	for _, name := range unionKeys(a, b) {
		va, inA := a[name]
		vb, inB := b[name]
		if inA && inB && va == vb {
			continue
		}
		if wl.IsHeaderWhitelisted(name, rawURL) {
			exempt = append(exempt, name)
		} else {
			differing = append(differing, name)
		}
	}
	return differing, exempt
}

func paramsEqual(a, b map[string][]string) bool {
	return maps.EqualFunc(a, b, func(x, y []string) bool {
		return slices.Equal(x, y)
	})
}

// diffBodies compares request bodies. JSON bodies use the whitelist-aware diff;
// anything else falls back to string equality, which is never exempt.
func diffBodies(a, b *string, rawURL string, wl *whitelist.Config) BodyDiff {
	switch {
	case a == nil && b == nil:
		return BodyDiff{Mode: BodyNone}
	case a == nil || b == nil:
		return BodyDiff{Mode: BodyPresence, Different: true}
	}

	va, errA := jsonvalue.ParseString(*a)
	vb, errB := jsonvalue.ParseString(*b)
	if errA != nil || errB != nil {
		return BodyDiff{Mode: BodyText, Different: *a != *b}
	}

	jd := DiffJSON(va, vb, rawURL, wl)
	return BodyDiff{
		Mode:        BodyJSON,
		Different:   len(jd.Differing) > 0,
		Whitelisted: len(jd.Exempt) > 0,
		Differing:   jd.Differing,
		Exempt:      jd.Exempt,
	}
}

func unionKeys[V any](a, b map[string]V) []string {
	keys := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}
	return slices.Sorted(maps.Keys(keys))
}
