package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/hardiff-mcp/internal/capture"
	"github.com/usestring/hardiff-mcp/internal/compare"
	"github.com/usestring/hardiff-mcp/internal/report"
	"github.com/usestring/hardiff-mcp/pkg/types"
)

func (d *Deps) pair(captureA string, index1 int, captureB string, index2 int) (*types.Exchange, *types.Exchange, error) {
	a, err := d.Exchange(captureA, index1)
	if err != nil {
		return nil, nil, err
	}
	b, err := d.Exchange(captureB, index2)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// CompareInput is the input for hardiff_compare.
type CompareInput struct {
	CaptureA string `json:"capture_a" jsonschema:"required,First capture ID"`
	Index1   int    `json:"index1" jsonschema:"required,0-based position in the first capture"`
	CaptureB string `json:"capture_b" jsonschema:"required,Second capture ID"`
	Index2   int    `json:"index2" jsonschema:"required,0-based position in the second capture"`
	KeysOnly bool   `json:"keys_only,omitempty" jsonschema:"Compare header names and query parameter names only, ignoring values, method and bodies"`
}

// CompareOutput is the output for hardiff_compare.
type CompareOutput struct {
	Analysis *compare.Analysis `json:"analysis,omitempty"`
	Hint     string            `json:"hint,omitempty"`
}

// ToolCompare compares two exchanges under the active whitelist.
func ToolCompare(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input CompareInput) (*sdkmcp.CallToolResult, CompareOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input CompareInput) (*sdkmcp.CallToolResult, CompareOutput, error) {
		a, b, err := d.pair(input.CaptureA, input.Index1, input.CaptureB, input.Index2)
		if err != nil {
			return nil, CompareOutput{}, err
		}

		analysis := compare.Analyze(a, b, d.Whitelist.Snapshot(), compare.Options{KeysOnly: input.KeysOnly})
		output := CompareOutput{Analysis: analysis}
		if analysis.Result.Status == types.StatusPartial {
			output.Hint = "Use hardiff_detailed_comparison for a side-by-side view, or hardiff_whitelist_load to exempt noisy fields."
		}
		return nil, output, nil
	}
}

// DetailedComparisonInput is the input for hardiff_detailed_comparison.
type DetailedComparisonInput struct {
	CaptureA     string `json:"capture_a" jsonschema:"required,First capture ID"`
	Index1       int    `json:"index1" jsonschema:"required,0-based position in the first capture"`
	CaptureB     string `json:"capture_b" jsonschema:"required,Second capture ID"`
	Index2       int    `json:"index2" jsonschema:"required,0-based position in the second capture"`
	IncludeDiffs bool   `json:"include_diffs,omitempty" jsonschema:"Attach a unified line diff for every section that differs"`
	Store        bool   `json:"store,omitempty" jsonschema:"Store the report and return only its ID and resource URI"`
}

// DetailedComparisonOutput is the output for hardiff_detailed_comparison.
type DetailedComparisonOutput struct {
	Comparison types.ComparisonResult    `json:"comparison"`
	Detailed   *types.DetailedComparison `json:"detailed,omitempty"`
	Diffs      map[string]string         `json:"diffs,omitempty"`
	ReportID   string                    `json:"report_id,omitempty"`
	Resource   *types.ResourceRef        `json:"resource,omitempty"`
}

// ToolDetailedComparison builds the per-section report for two exchanges.
func ToolDetailedComparison(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input DetailedComparisonInput) (*sdkmcp.CallToolResult, DetailedComparisonOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input DetailedComparisonInput) (*sdkmcp.CallToolResult, DetailedComparisonOutput, error) {
		a, b, err := d.pair(input.CaptureA, input.Index1, input.CaptureB, input.Index2)
		if err != nil {
			return nil, DetailedComparisonOutput{}, err
		}

		wl := d.Whitelist.Snapshot()
		rep := &capture.Report{
			CaptureA:   input.CaptureA,
			CaptureB:   input.CaptureB,
			PositionA:  input.Index1,
			PositionB:  input.Index2,
			Comparison: compare.Compare(a, b, wl),
			Detailed:   report.Build(a, b, wl),
		}

		if input.IncludeDiffs {
			diffs, err := report.SectionDiffs(rep.Detailed,
				fmt.Sprintf("%s[%d]", input.CaptureA, input.Index1),
				fmt.Sprintf("%s[%d]", input.CaptureB, input.Index2),
				d.Config.DiffContextLines)
			if err != nil {
				return nil, DetailedComparisonOutput{}, err
			}
			if len(diffs) > 0 {
				rep.Diffs = diffs
			}
		}

		if input.Store {
			id := d.Reports.Put(rep)
			return nil, DetailedComparisonOutput{
				Comparison: rep.Comparison,
				ReportID:   id,
				Resource:   ReportResource(id),
			}, nil
		}

		return nil, DetailedComparisonOutput{
			Comparison: rep.Comparison,
			Detailed:   rep.Detailed,
			Diffs:      rep.Diffs,
		}, nil
	}
}

// TakeReportInput is the input for hardiff_take_report.
type TakeReportInput struct {
	ReportID string `json:"report_id" jsonschema:"required,Report ID from hardiff_detailed_comparison(store=true)"`
}

// TakeReportOutput is the output for hardiff_take_report.
type TakeReportOutput struct {
	Report *capture.Report `json:"report,omitempty"`
}

// ToolTakeReport returns a stored report and removes it from the store.
func ToolTakeReport(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input TakeReportInput) (*sdkmcp.CallToolResult, TakeReportOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input TakeReportInput) (*sdkmcp.CallToolResult, TakeReportOutput, error) {
		rep, ok := d.Reports.Take(input.ReportID)
		if !ok {
			return nil, TakeReportOutput{}, ErrNotFound("report", input.ReportID)
		}
		return nil, TakeReportOutput{Report: rep}, nil
	}
}
