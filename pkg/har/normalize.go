package har

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/usestring/hardiff-mcp/pkg/types"
)

// ErrMalformedCapture is returned when the capture document as a whole cannot be
// read. No partial result accompanies it.
var ErrMalformedCapture = errors.New("malformed capture document")

// EntryWarning describes an entry that was skipped during normalization.
type EntryWarning struct {
	Entry int    `json:"entry"` // 0-based position in log.entries
	Error string `json:"error"`
}

// Result is the output of Normalize.
type Result struct {
	Exchanges []*types.Exchange
	Warnings  []EntryWarning
}

// Normalize parses a HAR document into exchanges in source order.
// Entries that cannot be parsed are skipped, logged, and reported as warnings;
// indexes are assigned 1-based over the entries that survive.
func Normalize(data []byte) (*Result, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCapture, err)
	}
	if doc.Log == nil {
		return nil, fmt.Errorf("%w: missing log object", ErrMalformedCapture)
	}
	if doc.Log.Entries == nil {
		return nil, fmt.Errorf("%w: missing log.entries", ErrMalformedCapture)
	}

	res := &Result{
		Exchanges: make([]*types.Exchange, 0, len(doc.Log.Entries)),
	}
	for i, raw := range doc.Log.Entries {
		ex, err := normalizeEntry(raw, len(res.Exchanges)+1)
		if err != nil {
			slog.Warn("skipping malformed capture entry",
				slog.Int("entry", i),
				slog.String("error", err.Error()),
			)
			res.Warnings = append(res.Warnings, EntryWarning{Entry: i, Error: err.Error()})
			continue
		}
		res.Exchanges = append(res.Exchanges, ex)
	}

	return res, nil
}

func normalizeEntry(raw json.RawMessage, index int) (*types.Exchange, error) {
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("decoding entry: %w", err)
	}

	req := entry.Request
	path, err := pathOf(req.URL)
	if err != nil {
		return nil, err
	}

	ex := &types.Exchange{
		Method:          req.Method,
		URL:             req.URL,
		Path:            path,
		Headers:         headerMap(req.Headers),
		QueryParams:     make(map[string][]string, len(req.QueryString)),
		ResponseStatus:  entry.Response.Status,
		ResponseHeaders: headerMap(entry.Response.Headers),
		Index:           index,
	}

	for _, p := range req.QueryString {
		ex.QueryParams[p.Name] = append(ex.QueryParams[p.Name], p.Value)
	}
	if req.PostData != nil && req.PostData.Text != nil {
		body := *req.PostData.Text
		ex.PostData = &body
	}
	if c := entry.Response.Content; c != nil && c.Text != nil {
		body := *c.Text
		ex.ResponseBody = &body
	}

	return ex, nil
}

// pathOf returns the escaped path of an absolute URL, followed by "?" and the
// raw query when the URL carries one. URLs without an authority (data:,
// about:, blob:) use their opaque part as the path.
func pathOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing url: %w", err)
	}
	if u.Scheme == "" {
		return "", fmt.Errorf("parsing url %q: relative URL without a base", rawURL)
	}

	path := u.EscapedPath()
	if u.Opaque != "" {
		path = u.Opaque
	}
	if path == "" && u.Host != "" {
		path = "/"
	}
	if u.RawQuery != "" || u.ForceQuery {
		path += "?" + u.RawQuery
	}
	return path, nil
}

// headerMap flattens header pairs; later duplicates overwrite earlier ones.
func headerMap(pairs []NameValuePair) map[string]string {
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		m[p.Name] = p.Value
	}
	return m
}
