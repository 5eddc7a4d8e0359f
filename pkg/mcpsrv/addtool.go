package mcpsrv

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/hardiff-mcp/internal/mcp/tools"
)

// AddTool registers a tool like [sdkmcp.AddTool] but panics at registration
// if Out's zero value would fail the schema the SDK infers for it (a nil slice
// or map serialized as null, or a json.RawMessage field).
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	tools.AddTool(srv, t, h)
}

// OutputSchemaProblem reports why Out would be rejected by AddTool, or ""
// if it would be accepted. Extensions can call it from their own tests.
func OutputSchemaProblem[Out any]() string {
	return tools.OutputSchemaProblem[Out]()
}
