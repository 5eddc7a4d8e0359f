package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/hardiff-mcp/internal/capture"
	"github.com/usestring/hardiff-mcp/pkg/har"
	"github.com/usestring/hardiff-mcp/pkg/types"
)

// LoadCaptureInput is the input for hardiff_load_capture.
type LoadCaptureInput struct {
	Path  string `json:"path" jsonschema:"required,Path to a HAR capture file"`
	PathB string `json:"path_b,omitempty" jsonschema:"Optional second capture to load alongside the first"`
}

// LoadCaptureOutput is the output for hardiff_load_capture.
type LoadCaptureOutput struct {
	Captures []CaptureInfo `json:"captures,omitzero"`
	Hint     string        `json:"hint,omitempty"`
}

// CaptureInfo describes a loaded capture.
type CaptureInfo struct {
	CaptureID     string             `json:"capture_id"`
	Name          string             `json:"name"`
	Source        string             `json:"source,omitempty"`
	ExchangeCount int                `json:"exchange_count"`
	Skipped       int                `json:"skipped,omitempty"`
	Warnings      []har.EntryWarning `json:"warnings,omitempty"`
}

// maxReportedWarnings caps the entry warnings echoed back per capture.
const maxReportedWarnings = 20

// ToolLoadCapture loads one or two capture files.
func ToolLoadCapture(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input LoadCaptureInput) (*sdkmcp.CallToolResult, LoadCaptureOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input LoadCaptureInput) (*sdkmcp.CallToolResult, LoadCaptureOutput, error) {
		if input.Path == "" {
			return nil, LoadCaptureOutput{}, ErrInvalidInput("path is required")
		}

		opts := capture.Options{
			MaxBytes: d.Config.MaxCaptureBytes,
			Workers:  d.Config.LoadWorkers,
		}

		var loaded []*capture.Capture
		if input.PathB == "" {
			c, err := capture.LoadFile(ctx, input.Path, opts)
			if err != nil {
				return nil, LoadCaptureOutput{}, WrapLoadError(input.Path, err)
			}
			loaded = append(loaded, c)
		} else {
			a, b, err := capture.LoadPair(ctx, input.Path, input.PathB, opts)
			if err != nil {
				return nil, LoadCaptureOutput{}, WrapLoadError(input.Path+", "+input.PathB, err)
			}
			loaded = append(loaded, a, b)
		}

		output := LoadCaptureOutput{Captures: make([]CaptureInfo, 0, len(loaded))}
		for _, c := range loaded {
			d.Captures.Add(c)
			output.Captures = append(output.Captures, captureInfo(c))
		}

		if len(output.Captures) == 2 {
			output.Hint = fmt.Sprintf("Use hardiff_align(capture_a=%q, capture_b=%q) to pair the exchanges.",
				output.Captures[0].CaptureID, output.Captures[1].CaptureID)
		} else {
			output.Hint = fmt.Sprintf("Use hardiff_list_exchanges(capture_id=%q) to browse, or load a second capture to compare.",
				output.Captures[0].CaptureID)
		}
		return nil, output, nil
	}
}

func captureInfo(c *capture.Capture) CaptureInfo {
	info := CaptureInfo{
		CaptureID:     c.ID,
		Name:          c.Name,
		Source:        c.Source,
		ExchangeCount: len(c.Exchanges),
		Skipped:       len(c.Warnings),
	}
	if len(c.Warnings) > 0 {
		info.Warnings = c.Warnings[:min(len(c.Warnings), maxReportedWarnings)]
	}
	return info
}

// ListExchangesInput is the input for hardiff_list_exchanges.
type ListExchangesInput struct {
	CaptureID    string `json:"capture_id" jsonschema:"required,Capture ID from hardiff_load_capture"`
	Method       string `json:"method,omitempty" jsonschema:"Only exchanges with this method (case-insensitive)"`
	PathContains string `json:"path_contains,omitempty" jsonschema:"Only exchanges whose path contains this substring"`
	Status       int    `json:"status,omitempty" jsonschema:"Only exchanges with this response status"`
	Offset       int    `json:"offset,omitempty" jsonschema:"Skip this many matching exchanges"`
	Limit        int    `json:"limit,omitempty" jsonschema:"Max exchanges to return (default from server config)"`
}

// ListExchangesOutput is the output for hardiff_list_exchanges.
type ListExchangesOutput struct {
	CaptureID string                  `json:"capture_id"`
	Total     int                     `json:"total"`
	Exchanges []types.ExchangeSummary `json:"exchanges,omitzero"`
	Hint      string                  `json:"hint,omitempty"`
}

// ToolListExchanges lists the exchanges of a loaded capture.
func ToolListExchanges(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListExchangesInput) (*sdkmcp.CallToolResult, ListExchangesOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListExchangesInput) (*sdkmcp.CallToolResult, ListExchangesOutput, error) {
		c, err := d.Capture(input.CaptureID)
		if err != nil {
			return nil, ListExchangesOutput{}, err
		}

		var matches []types.ExchangeSummary
		for pos, e := range c.Exchanges {
			if input.Method != "" && !strings.EqualFold(e.Method, input.Method) {
				continue
			}
			if input.PathContains != "" && !strings.Contains(e.Path, input.PathContains) {
				continue
			}
			if input.Status != 0 && e.ResponseStatus != input.Status {
				continue
			}
			matches = append(matches, types.Summarize(pos, e))
		}

		start, end := window(len(matches), input.Offset, input.Limit, d.Config.DefaultListLimit)
		output := ListExchangesOutput{
			CaptureID: c.ID,
			Total:     len(matches),
			Exchanges: make([]types.ExchangeSummary, 0, end-start),
		}
		output.Exchanges = append(output.Exchanges, matches[start:end]...)

		switch {
		case len(matches) == 0:
			output.Hint = "No exchanges matched. Loosen the filters."
		case end < len(matches):
			output.Hint = fmt.Sprintf("Showing %d-%d of %d. Use offset=%d for the next page.", start, end, len(matches), end)
		default:
			output.Hint = "Use hardiff_get_exchange with a position for details."
		}
		return nil, output, nil
	}
}

// GetExchangeInput is the input for hardiff_get_exchange.
type GetExchangeInput struct {
	CaptureID      string `json:"capture_id" jsonschema:"required,Capture ID from hardiff_load_capture"`
	Position       int    `json:"position" jsonschema:"required,0-based position of the exchange in the capture"`
	BodyMode       string `json:"body_mode,omitempty" jsonschema:"Body display mode: compact (default - arrays and strings trimmed), full (complete body), none"`
	IncludeHeaders *bool  `json:"include_headers,omitempty" jsonschema:"Include request/response headers (default: true)"`
}

// GetExchangeOutput is the output for hardiff_get_exchange.
type GetExchangeOutput struct {
	Exchange *ExchangeView `json:"exchange,omitempty"`
	Bodies   BodyStats     `json:"bodies"`
	BodyMode string        `json:"body_mode"`
}

// ToolGetExchange returns one exchange of a loaded capture.
func ToolGetExchange(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetExchangeInput) (*sdkmcp.CallToolResult, GetExchangeOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetExchangeInput) (*sdkmcp.CallToolResult, GetExchangeOutput, error) {
		mode := input.BodyMode
		if mode == "" {
			mode = BodyModeCompact
		}
		if mode != BodyModeCompact && mode != BodyModeFull && mode != BodyModeNone {
			return nil, GetExchangeOutput{}, ErrInvalidInput("body_mode must be 'compact', 'full', or 'none'")
		}

		e, err := d.Exchange(input.CaptureID, input.Position)
		if err != nil {
			return nil, GetExchangeOutput{}, err
		}

		view, stats := ToExchangeView(input.Position, e, ViewOptions{
			BodyMode:       mode,
			IncludeHeaders: input.IncludeHeaders == nil || *input.IncludeHeaders,
			CompactOptions: d.Config.CompactOptions(),
		})
		return nil, GetExchangeOutput{Exchange: view, Bodies: stats, BodyMode: mode}, nil
	}
}
