package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleInvestigateDrift implements the capture comparison workflow.
func HandleInvestigateDrift(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		args := req.Params.Arguments

		pathA, pathB, focus := "<baseline.har>", "<candidate.har>", ""
		if args != nil {
			if v, ok := args["capture_a"]; ok && v != "" {
				pathA = v
			}
			if v, ok := args["capture_b"]; ok && v != "" {
				pathB = v
			}
			focus = args["focus"]
		}

		var sb strings.Builder

		// 1. Role
		sb.WriteString("# Investigate Drift Between Two Captures\n\n")
		sb.WriteString("You are an HTTP traffic analyst. Two HAR captures record the same client flow at different times. ")
		sb.WriteString("Your goal is to find the requests that changed in a meaningful way and explain how.\n\n")

		// 2. Statuses
		sb.WriteString("## How Pairs Are Classified\n\n")
		sb.WriteString("- **match** - nothing differs\n")
		sb.WriteString("- **whitelisted** - only exempt headers or payload keys differ (noise)\n")
		sb.WriteString("- **partial** - same path, but method, headers, query parameters (non-GET) or request body differ\n")
		sb.WriteString("- **different** - the paths differ (GET requests ignore the query string)\n")
		sb.WriteString("- one-sided rows (null index) are requests present in only one capture\n\n")

		// 3. Workflow
		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Load both captures** and note the capture IDs and any skipped entries\n")
		sb.WriteString("2. **Check the whitelist** - volatile headers (date, request IDs) make every pair partial\n")
		sb.WriteString("   - If most pairs are partial on headers only, load the noise preset or a whitelist file\n")
		sb.WriteString("3. **Align** and read the summary before the rows\n")
		sb.WriteString("   - Use only_differences=true to skip matching rows\n")
		sb.WriteString("4. **Drill into partial rows** with compare (which fields) and detailed_comparison (side by side)\n")
		sb.WriteString("5. **Inspect bodies** with query_body when a JSON payload differs\n\n")

		sb.WriteString("## Suggested Tools\n\n")
		sb.WriteString("```\n")
		sb.WriteString(fmt.Sprintf("hardiff_load_capture(path=%q, path_b=%q)\n", pathA, pathB))
		if cfg.WhitelistFile != "" {
			sb.WriteString(fmt.Sprintf("hardiff_whitelist_show()  # started with %s\n", cfg.WhitelistFile))
		} else {
			sb.WriteString("hardiff_whitelist_load(noise_preset=true)\n")
		}
		sb.WriteString(fmt.Sprintf("hardiff_align(capture_a=\"<id_a>\", capture_b=\"<id_b>\", only_differences=true)  # strategy defaults to %s\n", cfg.DefaultStrategy))
		sb.WriteString("hardiff_compare(capture_a=\"<id_a>\", index1=<i>, capture_b=\"<id_b>\", index2=<j>)\n")
		sb.WriteString("hardiff_detailed_comparison(capture_a=\"<id_a>\", index1=<i>, capture_b=\"<id_b>\", index2=<j>, include_diffs=true)\n")
		if focus != "" {
			sb.WriteString(fmt.Sprintf("hardiff_list_exchanges(capture_id=\"<id_a>\", path_contains=%q)\n", focus))
		}
		sb.WriteString("```\n\n")

		// 4. Output
		sb.WriteString("## Expected Output Format\n\n")
		sb.WriteString("1. **Summary**: counts from the alignment summary and one sentence on the overall picture\n")
		sb.WriteString("2. **Meaningful Changes**: one bullet per partial pair - path, what differs, old vs new\n")
		sb.WriteString("3. **Added / Removed Requests**: one-sided rows grouped by path\n")
		sb.WriteString("4. **Suggested Whitelist**: headers or keys that looked like noise, as a whitelist document\n\n")

		// 5. Constraints
		sb.WriteString("## Constraints\n\n")
		sb.WriteString("- Do NOT request full bodies unless a body difference needs explaining\n")
		sb.WriteString("- Do NOT report whitelisted pairs as changes\n")
		sb.WriteString("- Prefer include_diffs over reading both sides of every section\n\n")

		// 6. Recovery
		sb.WriteString("## If Things Go Wrong\n\n")
		sb.WriteString("- **PARSE_ERROR on load?** The file is not a HAR document; malformed single entries are skipped, not fatal\n")
		sb.WriteString("- **Everything one-sided?** The flows diverge early; try strategy=lcs for a minimal alignment\n")
		sb.WriteString("- **Repeated paths paired oddly?** Use group_by_path=true to compare occurrence counts per path\n")

		return &sdkmcp.GetPromptResult{
			Description: "Guide for comparing two HAR captures",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
