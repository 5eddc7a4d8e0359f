package tools

import (
	"github.com/usestring/hardiff-mcp/pkg/jsoncompact"
	"github.com/usestring/hardiff-mcp/pkg/jsonvalue"
	"github.com/usestring/hardiff-mcp/pkg/types"
)

// Body display modes for hardiff_get_exchange.
const (
	BodyModeCompact = "compact"
	BodyModeFull    = "full"
	BodyModeNone    = "none"
)

// ExchangeView is an exchange prepared for tool output.
type ExchangeView struct {
	Position        int                 `json:"position"`
	Index           int                 `json:"index"`
	Method          string              `json:"method"`
	URL             string              `json:"url"`
	Path            string              `json:"path"`
	Headers         map[string]string   `json:"headers,omitzero"`
	QueryParams     map[string][]string `json:"query_params,omitzero"`
	PostData        *string             `json:"post_data,omitempty"`
	ResponseStatus  int                 `json:"response_status"`
	ResponseHeaders map[string]string   `json:"response_headers,omitzero"`
	ResponseBody    *string             `json:"response_body,omitempty"`
}

// ViewOptions controls how an exchange is rendered.
type ViewOptions struct {
	BodyMode       string
	IncludeHeaders bool
	CompactOptions *jsoncompact.Options // nil uses defaults
}

// BodyStats reports the size of bodies before display transformation.
type BodyStats struct {
	PostDataBytes     int  `json:"post_data_bytes,omitempty"`
	PostDataJSON      bool `json:"post_data_json,omitempty"`
	ResponseBodyBytes int  `json:"response_body_bytes,omitempty"`
	ResponseBodyJSON  bool `json:"response_body_json,omitempty"`
}

// ToExchangeView renders the exchange at position for display.
func ToExchangeView(position int, e *types.Exchange, opts ViewOptions) (*ExchangeView, BodyStats) {
	view := &ExchangeView{
		Position:       position,
		Index:          e.Index,
		Method:         e.Method,
		URL:            e.URL,
		Path:           e.Path,
		QueryParams:    e.QueryParams,
		ResponseStatus: e.ResponseStatus,
	}
	if opts.IncludeHeaders {
		view.Headers = e.Headers
		view.ResponseHeaders = e.ResponseHeaders
	}

	var stats BodyStats
	view.PostData, stats.PostDataBytes, stats.PostDataJSON = transformBody(e.PostData, opts)
	view.ResponseBody, stats.ResponseBodyBytes, stats.ResponseBodyJSON = transformBody(e.ResponseBody, opts)
	return view, stats
}

func transformBody(body *string, opts ViewOptions) (*string, int, bool) {
	if body == nil {
		return nil, 0, false
	}
	size := len(*body)
	switch opts.BodyMode {
	case BodyModeNone:
		return nil, size, false
	case BodyModeFull:
		_, err := jsonvalue.ParseString(*body)
		return body, size, err == nil
	default:
		out, isJSON := jsoncompact.CompactBody(*body, opts.CompactOptions)
		return &out, size, isJSON
	}
}
