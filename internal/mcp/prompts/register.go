package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	// Prompt 1: Investigate drift between two captures
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "investigate_drift",
		Description: "RECOMMENDED: Find what changed between two HAR captures of the same client flow (e.g. before/after a release). Start here - provides the workflow and which tools to call in which order.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "capture_a",
				Description: "Path to the baseline HAR file",
				Required:    false,
			},
			{
				Name:        "capture_b",
				Description: "Path to the HAR file to compare against the baseline",
				Required:    false,
			},
			{
				Name:        "focus",
				Description: "Optional path substring to focus on (e.g. '/api/checkout')",
				Required:    false,
			},
		},
	}, HandleInvestigateDrift(cfg))
}
