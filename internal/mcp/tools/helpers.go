// Package tools contains MCP tool implementations for hardiff.
package tools

import (
	"fmt"

	"github.com/usestring/hardiff-mcp/pkg/types"
)

// MIME type constant.
const MimeJSON = "application/json"

// ReportURIPrefix is the resource URI prefix for stored reports.
const ReportURIPrefix = "hardiff://report/"

// ReportResource returns the resource reference for a stored report.
func ReportResource(id string) *types.ResourceRef {
	return &types.ResourceRef{
		URI:  ReportURIPrefix + id,
		MIME: MimeJSON,
		Hint: fmt.Sprintf("Read this resource or call hardiff_take_report(report_id=%q) to retrieve the full report.", id),
	}
}

// window clamps offset/limit to a sequence of length total and returns the
// half-open range to return.
func window(total, offset, limit, defaultLimit int) (start, end int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	start = min(max(offset, 0), total)
	end = total
	if limit > 0 {
		end = min(start+limit, total)
	}
	return start, end
}
