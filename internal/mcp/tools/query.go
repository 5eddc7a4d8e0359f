package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/hardiff-mcp/internal/query"
)

// maxQueryExchanges caps how many exchanges one hardiff_query_body call reads.
const maxQueryExchanges = 200

// Body targets for hardiff_query_body.
const (
	TargetRequest  = "request"
	TargetResponse = "response"
)

// QueryBodyInput is the input for hardiff_query_body.
type QueryBodyInput struct {
	CaptureID   string `json:"capture_id" jsonschema:"required,Capture ID from hardiff_load_capture"`
	Positions   []int  `json:"positions,omitempty" jsonschema:"0-based exchange positions to query (default: every exchange, up to 200)"`
	Expression  string `json:"expression" jsonschema:"required,Expression evaluated against each body in the chosen mode"`
	Mode        string `json:"mode,omitempty" jsonschema:"Expression language: jq (JSON bodies, default), css (HTML), xpath (HTML or XML), regex, or form (form key, * for all)"`
	Target      string `json:"target,omitempty" jsonschema:"Which body to query: request (post data) or response (default: response)"`
	Deduplicate bool   `json:"deduplicate,omitempty" jsonschema:"Remove duplicate values (default: false)"`
	MaxResults  int    `json:"max_results,omitempty" jsonschema:"Max values to return (default and ceiling from server config)"`
}

// QueryBodyOutput is the output for hardiff_query_body.
type QueryBodyOutput struct {
	Result           *query.Result `json:"result,omitempty"`
	ExchangesQueried int           `json:"exchanges_queried"`
	Hint             string        `json:"hint,omitempty"`
}

// ToolQueryBody runs an expression over request or response bodies of a capture.
func ToolQueryBody(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryBodyInput) (*sdkmcp.CallToolResult, QueryBodyOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryBodyInput) (*sdkmcp.CallToolResult, QueryBodyOutput, error) {
		if input.Expression == "" {
			return nil, QueryBodyOutput{}, ErrInvalidInput("expression is required")
		}
		if !query.ValidMode(input.Mode) {
			return nil, QueryBodyOutput{}, ErrInvalidInput(fmt.Sprintf("mode must be one of %v", query.Modes))
		}
		if err := d.Query.ValidateExpression(input.Expression, input.Mode); err != nil {
			return nil, QueryBodyOutput{}, ErrInvalidInput(err.Error())
		}

		target := input.Target
		if target == "" {
			target = TargetResponse
		}
		if target != TargetRequest && target != TargetResponse {
			return nil, QueryBodyOutput{}, ErrInvalidInput("target must be 'request' or 'response'")
		}

		c, err := d.Capture(input.CaptureID)
		if err != nil {
			return nil, QueryBodyOutput{}, err
		}

		positions := input.Positions
		capped := false
		if len(positions) == 0 {
			n := min(len(c.Exchanges), maxQueryExchanges)
			capped = n < len(c.Exchanges)
			positions = make([]int, n)
			for i := range positions {
				positions[i] = i
			}
		}
		if len(positions) > maxQueryExchanges {
			return nil, QueryBodyOutput{}, ErrInvalidInput(fmt.Sprintf("at most %d positions per call", maxQueryExchanges))
		}

		inputs := make([]query.Input, 0, len(positions))
		for _, pos := range positions {
			e, ok := c.Exchange(pos)
			if !ok {
				return nil, QueryBodyOutput{}, ErrNotFound("exchange", fmt.Sprintf("%s[%d]", c.ID, pos))
			}
			in := query.Input{Label: fmt.Sprintf("%d %s %s", pos, e.Method, e.Path), Body: e.ResponseBody}
			if target == TargetRequest {
				in.Body = e.PostData
			}
			inputs = append(inputs, in)
		}

		maxResults := d.Config.MaxQueryResults
		if input.MaxResults > 0 && (maxResults <= 0 || input.MaxResults < maxResults) {
			maxResults = input.MaxResults
		}

		result, err := d.Query.Query(inputs, input.Expression, query.Options{
			Mode:        input.Mode,
			Deduplicate: input.Deduplicate,
			MaxResults:  maxResults,
		})
		if err != nil {
			return nil, QueryBodyOutput{}, ErrInvalidInput(err.Error())
		}

		output := QueryBodyOutput{Result: result, ExchangesQueried: len(inputs)}
		switch {
		case result.Truncated:
			output.Hint = fmt.Sprintf("Stopped after %d values. Narrow the expression or pass fewer positions.", result.Total)
		case capped:
			output.Hint = fmt.Sprintf("Queried the first %d of %d exchanges. Pass positions to choose others.", len(inputs), len(c.Exchanges))
		case result.Total == 0:
			output.Hint = fmt.Sprintf("No values. Check the target bodies suit %s mode with hardiff_get_exchange.", result.Mode)
		}
		return nil, output, nil
	}
}
