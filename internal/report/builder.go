// Package report renders the per-aspect text of a detailed comparison.
//
// Every content string is deterministic so that a display layer can diff the
// two sides line by line. The builder itself does no line diffing; UnifiedDiff
// is a separate helper for text-only consumers.
package report

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/usestring/hardiff-mcp/pkg/jsonvalue"
	"github.com/usestring/hardiff-mcp/pkg/types"
	"github.com/usestring/hardiff-mcp/pkg/whitelist"
)

// Sentinels used when a section has nothing to show.
const (
	NoHeaders      = "No headers"
	NoParameters   = "No parameters"
	NoPayload      = "No payload"
	EmptyPayload   = "Empty payload"
	NoBody         = "No body"
	NoResponseBody = "No response body"
)

// Build renders the detailed comparison of a and b. Whitelisted names are
// resolved against a's URL and limited to names that occur on either side.
func Build(a, b *types.Exchange, wl *whitelist.Config) *types.DetailedComparison {
	ex := exemptions{
		headers: wl.ExemptHeaders(a.URL),
		keys:    wl.ExemptPayloadKeys(a.URL),
	}

	reqHeaders := ex.presentHeaders(a.Headers, b.Headers)
	reqKeys := ex.presentKeys(a.PostData, b.PostData)
	respHeaders := ex.presentHeaders(a.ResponseHeaders, b.ResponseHeaders)
	respKeys := ex.presentKeys(a.ResponseBody, b.ResponseBody)

	dc := &types.DetailedComparison{
		General: types.Section{
			Content1:    formatGeneral(a),
			Content2:    formatGeneral(b),
			Whitelisted: []string{},
		},
		RawRequest: types.Section{
			Content1:    formatRawRequest(a),
			Content2:    formatRawRequest(b),
			Whitelisted: union(reqHeaders, reqKeys),
		},
		Headers: types.Section{
			Content1:    formatHeaders(a.Headers),
			Content2:    formatHeaders(b.Headers),
			Whitelisted: reqHeaders,
		},
		Params: types.Section{
			Content1:    formatParams(a.QueryParams),
			Content2:    formatParams(b.QueryParams),
			Whitelisted: []string{},
		},
		Response: types.Section{
			Content1:    formatResponse(a),
			Content2:    formatResponse(b),
			Whitelisted: union(respHeaders, respKeys),
		},
	}

	if a.PostData != nil || b.PostData != nil {
		dc.Payloads = &types.Section{
			Content1:    formatPayload(a.PostData),
			Content2:    formatPayload(b.PostData),
			Whitelisted: reqKeys,
		}
	}
	if a.ResponseBody != nil || b.ResponseBody != nil {
		dc.ResponseBody = &types.Section{
			Content1:    formatBody(a.ResponseBody, NoResponseBody),
			Content2:    formatBody(b.ResponseBody, NoResponseBody),
			Whitelisted: respKeys,
		}
	}
	return dc
}

func formatGeneral(e *types.Exchange) string {
	return fmt.Sprintf("Index: %d\nMethod: %s\nURL: %s\nPath: %s\nResponse Status: %d",
		e.Index, e.Method, e.URL, e.Path, e.ResponseStatus)
}

// formatRawRequest reconstructs an HTTP/1.1 request. When query parameters are
// known the request target is rebuilt from them so the query is not repeated.
func formatRawRequest(e *types.Exchange) string {
	var sb strings.Builder

	target := e.Path
	if q := encodeQuery(e.QueryParams); q != "" {
		target = e.BarePath() + "?" + q
	}
	fmt.Fprintf(&sb, "%s %s HTTP/1.1\n", e.Method, target)

	names := slices.Collect(maps.Keys(e.Headers))
	slices.SortFunc(names, func(x, y string) int {
		if c := strings.Compare(strings.ToLower(x), strings.ToLower(y)); c != 0 {
			return c
		}
		return strings.Compare(x, y)
	})
	for _, name := range names {
		fmt.Fprintf(&sb, "%s: %s\n", name, e.Headers[name])
	}
	sb.WriteByte('\n')

	if e.PostData != nil && *e.PostData != "" {
		sb.WriteString(jsonvalue.FormatString(*e.PostData))
	}
	return sb.String()
}

// encodeQuery percent-encodes every name/value pair, names sorted, values in
// capture order. Spaces are encoded as %20.
func encodeQuery(params map[string][]string) string {
	var parts []string
	for _, name := range slices.Sorted(maps.Keys(params)) {
		for _, v := range params[name] {
			parts = append(parts, percentEncode(name)+"="+percentEncode(v))
		}
	}
	return strings.Join(parts, "&")
}

func percentEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func formatHeaders(headers map[string]string) string {
	if len(headers) == 0 {
		return NoHeaders
	}
	lines := make([]string, 0, len(headers))
	for k, v := range headers {
		lines = append(lines, k+": "+v)
	}
	slices.Sort(lines)
	return strings.Join(lines, "\n")
}

func formatParams(params map[string][]string) string {
	if len(params) == 0 {
		return NoParameters
	}
	lines := make([]string, 0, len(params))
	for k, vs := range params {
		lines = append(lines, k+": "+strings.Join(vs, ", "))
	}
	slices.Sort(lines)
	return strings.Join(lines, "\n")
}

func formatPayload(body *string) string {
	switch {
	case body == nil:
		return NoPayload
	case strings.TrimSpace(*body) == "":
		return EmptyPayload
	default:
		return jsonvalue.FormatString(*body)
	}
}

func formatBody(body *string, absent string) string {
	if body == nil {
		return absent
	}
	return jsonvalue.FormatString(*body)
}

func formatResponse(e *types.Exchange) string {
	return fmt.Sprintf("Status: %d\n\nHeaders:\n%s\n\nBody:\n%s",
		e.ResponseStatus, formatHeaders(e.ResponseHeaders), formatBody(e.ResponseBody, NoBody))
}

// exemptions holds the names the whitelist exempts for one URL.
type exemptions struct {
	headers []string // lower-cased
	keys    []string
}

// presentHeaders returns the exempt header names that occur in either map.
func (ex exemptions) presentHeaders(a, b map[string]string) []string {
	present := make(map[string]struct{}, len(a)+len(b))
	for name := range a {
		present[strings.ToLower(name)] = struct{}{}
	}
	for name := range b {
		present[strings.ToLower(name)] = struct{}{}
	}

	out := []string{}
	for _, name := range ex.headers {
		if _, ok := present[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// presentKeys returns the exempt payload keys, lower-cased, that occur at any
// depth of either body. Bodies that are not JSON contribute nothing.
func (ex exemptions) presentKeys(a, b *string) []string {
	present := make(map[string]struct{})
	for _, body := range []*string{a, b} {
		if body == nil {
			continue
		}
		v, err := jsonvalue.ParseString(*body)
		if err != nil {
			continue
		}
		for _, k := range v.CollectKeys() {
			present[k] = struct{}{}
		}
	}

	seen := make(map[string]struct{})
	for _, key := range ex.keys {
		if _, ok := present[key]; ok {
			seen[strings.ToLower(key)] = struct{}{}
		}
	}
	return sortedNames(seen)
}

func union(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		set[s] = struct{}{}
	}
	return sortedNames(set)
}

// sortedNames never returns nil; sections always serialize a list.
func sortedNames(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
