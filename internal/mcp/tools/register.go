package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: hardiff_load_capture
	AddTool(srv, &sdkmcp.Tool{
		Name:        "hardiff_load_capture",
		Description: "Load a HAR capture file (optionally two at once) and return capture IDs with exchange counts. Malformed entries are skipped and reported as warnings. Pass the IDs to hardiff_align or hardiff_list_exchanges.",
	}, ToolLoadCapture(d))

	// Tool 2: hardiff_list_exchanges
	AddTool(srv, &sdkmcp.Tool{
		Name:        "hardiff_list_exchanges",
		Description: "List exchanges of a loaded capture in source order with position, index, method, path and status. Filter by method, path substring or status; page with offset/limit. Positions are 0-based and are what align/compare tools expect.",
	}, ToolListExchanges(d))

	// Tool 3: hardiff_get_exchange
	AddTool(srv, &sdkmcp.Tool{
		Name:        "hardiff_get_exchange",
		Description: "Get one exchange of a loaded capture by position. Bodies are compacted by default (long arrays and strings trimmed); set body_mode to 'full' for the complete body or 'none' to omit bodies.",
	}, ToolGetExchange(d))

	// Tool 4: hardiff_align
	AddTool(srv, &sdkmcp.Tool{
		Name:        "hardiff_align",
		Description: "Align the exchanges of two loaded captures by path and classify each matched pair (match, whitelisted, partial, different) under the active whitelist. Returns a summary and paged rows; one-sided rows have a null index. Strategies: lookahead (default, order-preserving), greedy (first unused same-path exchange), lcs (longest common subsequence).",
	}, ToolAlign(d))

	// Tool 5: hardiff_compare
	AddTool(srv, &sdkmcp.Tool{
		Name:        "hardiff_compare",
		Description: "Compare two exchanges (capture + position each) under the active whitelist. Returns the status and which fields differ: method, headers (differing vs whitelisted), query parameters, and body key paths. Set keys_only to compare only header and parameter names.",
	}, ToolCompare(d))

	// Tool 6: hardiff_detailed_comparison
	AddTool(srv, &sdkmcp.Tool{
		Name:        "hardiff_detailed_comparison",
		Description: "Build a side-by-side report of two exchanges: general, raw_request, headers, payloads, params, response and response_body sections, each with the whitelisted names that apply. Set include_diffs for unified line diffs of differing sections; set store to keep the report and return a hardiff://report/{id} resource instead.",
	}, ToolDetailedComparison(d))

	// Tool 7: hardiff_take_report
	AddTool(srv, &sdkmcp.Tool{
		Name:        "hardiff_take_report",
		Description: "Return a stored detailed comparison report and remove it from the store.",
	}, ToolTakeReport(d))

	// Tool 8: hardiff_whitelist_load
	AddTool(srv, &sdkmcp.Tool{
		Name:        "hardiff_whitelist_load",
		Description: "Load exemption rules from a file or inline JSON/YAML: {\"global\": {\"headers\": [...], \"payload_keys\": [...]}, \"local\": [{\"url\"|\"host\": \"substring\", \"headers\": [...], \"payload_keys\": [...]}]}. Replaces the active whitelist unless merge is set; noise_preset adds common volatile headers and keys. A malformed document leaves the active whitelist unchanged.",
	}, ToolWhitelistLoad(d))

	// Tool 9: hardiff_whitelist_clear
	AddTool(srv, &sdkmcp.Tool{
		Name:        "hardiff_whitelist_clear",
		Description: "Remove all exemption rules.",
	}, ToolWhitelistClear(d))

	// Tool 10: hardiff_whitelist_show
	AddTool(srv, &sdkmcp.Tool{
		Name:        "hardiff_whitelist_show",
		Description: "Show the active whitelist and where it came from. Pass url to see which header names and payload keys are exempt for that request; set include_schema for the JSON Schema of the file format.",
	}, ToolWhitelistShow(d))

	// Tool 11: hardiff_query_body
	AddTool(srv, &sdkmcp.Tool{
		Name:        "hardiff_query_body",
		Description: "Extract values from the request or response bodies of exchanges in a capture using jq (JSON), CSS selectors (HTML), XPath (HTML/XML), a regex, or a form key. Returns values per exchange; bodies that are missing or do not parse in the chosen mode are reported per exchange rather than failing the call.",
	}, ToolQueryBody(d))
}
