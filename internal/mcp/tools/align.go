package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/hardiff-mcp/internal/align"
	"github.com/usestring/hardiff-mcp/pkg/types"
)

// AlignInput is the input for hardiff_align.
type AlignInput struct {
	CaptureA        string `json:"capture_a" jsonschema:"required,First capture ID (the baseline)"`
	CaptureB        string `json:"capture_b" jsonschema:"required,Second capture ID"`
	Strategy        string `json:"strategy,omitempty" jsonschema:"Alignment strategy: greedy, lookahead or lcs (default from server config)"`
	OnlyDifferences bool   `json:"only_differences,omitempty" jsonschema:"Omit rows whose comparison is match or whitelisted"`
	GroupByPath     bool   `json:"group_by_path,omitempty" jsonschema:"Also return per-path occurrence counts for paths present in both captures"`
	Offset          int    `json:"offset,omitempty" jsonschema:"Skip this many rows"`
	Limit           int    `json:"limit,omitempty" jsonschema:"Max rows to return (default from server config)"`
}

// AlignOutput is the output for hardiff_align.
type AlignOutput struct {
	Strategy  types.Strategy         `json:"strategy"`
	Summary   types.AlignmentSummary `json:"summary"`
	TotalRows int                    `json:"total_rows"`
	Rows      []AlignRow             `json:"rows,omitzero"`
	Groups    []PathGroupSummary     `json:"groups,omitzero"`
	Hint      string                 `json:"hint,omitempty"`
}

// AlignRow is one aligned pair with enough context to read it without
// fetching the exchanges.
type AlignRow struct {
	Row     int          `json:"row"`
	Index1  *int         `json:"index1"`
	Index2  *int         `json:"index2"`
	Method  string       `json:"method"`
	Path    string       `json:"path"`
	Status  types.Status `json:"status,omitempty"` // empty for one-sided rows
	Details string       `json:"details,omitempty"`
}

// PathGroupSummary counts how the occurrences of one shared path compared.
type PathGroupSummary struct {
	Path        string `json:"path"`
	Occurrences int    `json:"occurrences"`
	Match       int    `json:"match"`
	Whitelisted int    `json:"whitelisted"`
	Differing   int    `json:"differing"`
	OneSided    int    `json:"one_sided"`
}

// ToolAlign aligns the exchanges of two loaded captures.
func ToolAlign(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input AlignInput) (*sdkmcp.CallToolResult, AlignOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input AlignInput) (*sdkmcp.CallToolResult, AlignOutput, error) {
		strategy, err := d.Strategy(input.Strategy)
		if err != nil {
			return nil, AlignOutput{}, err
		}
		a, err := d.Capture(input.CaptureA)
		if err != nil {
			return nil, AlignOutput{}, err
		}
		b, err := d.Capture(input.CaptureB)
		if err != nil {
			return nil, AlignOutput{}, err
		}

		wl := d.Whitelist.Snapshot()
		pairs, err := align.Align(a.Exchanges, b.Exchanges, wl, strategy)
		if err != nil {
			return nil, AlignOutput{}, ErrInvalidInput(err.Error())
		}
		if err := align.Validate(pairs, len(a.Exchanges), len(b.Exchanges)); err != nil {
			return nil, AlignOutput{}, fmt.Errorf("alignment check failed: %w", err)
		}

		var rows []AlignRow
		for k, p := range pairs {
			if input.OnlyDifferences && p.Comparison != nil &&
				(p.Comparison.Status == types.StatusMatch || p.Comparison.Status == types.StatusWhitelisted) {
				continue
			}
			rows = append(rows, alignRow(k, p, a.Exchanges, b.Exchanges))
		}

		start, end := window(len(rows), input.Offset, input.Limit, d.Config.DefaultListLimit)
		output := AlignOutput{
			Strategy:  strategy,
			Summary:   types.SummarizeAlignment(pairs),
			TotalRows: len(rows),
			Rows:      make([]AlignRow, 0, end-start),
		}
		output.Rows = append(output.Rows, rows[start:end]...)

		if input.GroupByPath {
			output.Groups = summarizeGroups(align.GroupByPath(a.Exchanges, b.Exchanges, wl))
		}

		switch {
		case end < len(rows):
			output.Hint = fmt.Sprintf("Showing rows %d-%d of %d. Use offset=%d for the next page.", start, end, len(rows), end)
		case output.Summary.Partial+output.Summary.Different > 0:
			output.Hint = "Use hardiff_detailed_comparison with index1/index2 of a partial row to see what differs."
		}
		return nil, output, nil
	}
}

func alignRow(k int, p types.AlignedPair, a, b []*types.Exchange) AlignRow {
	row := AlignRow{Row: k, Index1: p.Index1, Index2: p.Index2}

	e := a
	pos := p.Index1
	if pos == nil {
		e, pos = b, p.Index2
	}
	row.Method = e[*pos].Method
	row.Path = e[*pos].Path

	if p.Comparison != nil {
		row.Status = p.Comparison.Status
		row.Details = p.Comparison.Details
	}
	return row
}

func summarizeGroups(groups []align.PathGroup) []PathGroupSummary {
	out := make([]PathGroupSummary, 0, len(groups))
	for _, g := range groups {
		s := PathGroupSummary{Path: g.Path, Occurrences: len(g.Pairs)}
		for _, p := range g.Pairs {
			switch {
			case p.Comparison == nil:
				s.OneSided++
			case p.Comparison.Status == types.StatusMatch:
				s.Match++
			case p.Comparison.Status == types.StatusWhitelisted:
				s.Whitelisted++
			default:
				s.Differing++
			}
		}
		out = append(out, s)
	}
	return out
}
