package types

import "strings"

// Exchange is one normalized HTTP request/response pair extracted from a capture.
// Exchanges are treated as immutable once built by the normalizer.
type Exchange struct {
	Method          string              `json:"method"`
	URL             string              `json:"url"`
	Path            string              `json:"path"` // includes "?query" when the URL has one
	Headers         map[string]string   `json:"headers"`
	QueryParams     map[string][]string `json:"query_params"`
	PostData        *string             `json:"post_data,omitempty"`
	ResponseStatus  int                 `json:"response_status"`
	ResponseHeaders map[string]string   `json:"response_headers"`
	ResponseBody    *string             `json:"response_body,omitempty"`
	Index           int                 `json:"index"` // 1-based position among successfully parsed entries
}

// IsGet reports whether the request method is GET, ignoring case.
func (e *Exchange) IsGet() bool {
	return strings.EqualFold(e.Method, "GET")
}

// BarePath returns the path with any query component removed.
func (e *Exchange) BarePath() string {
	if i := strings.IndexByte(e.Path, '?'); i >= 0 {
		return e.Path[:i]
	}
	return e.Path
}

// ExchangeSummary is a compact exchange representation for listings.
type ExchangeSummary struct {
	Position       int    `json:"position"` // 0-based position in the capture, used by align/compare tools
	Index          int    `json:"index"`
	Method         string `json:"method"`
	Path           string `json:"path"`
	ResponseStatus int    `json:"response_status"`
	HasPostData    bool   `json:"has_post_data,omitempty"`
	HasRespBody    bool   `json:"has_response_body,omitempty"`
}

// Summarize builds an ExchangeSummary for the exchange at the given position.
func Summarize(position int, e *Exchange) ExchangeSummary {
	return ExchangeSummary{
		Position:       position,
		Index:          e.Index,
		Method:         e.Method,
		Path:           e.Path,
		ResponseStatus: e.ResponseStatus,
		HasPostData:    e.PostData != nil,
		HasRespBody:    e.ResponseBody != nil,
	}
}
