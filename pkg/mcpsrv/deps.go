package mcpsrv

import (
	"github.com/usestring/hardiff-mcp/internal/capture"
	"github.com/usestring/hardiff-mcp/internal/config"
	"github.com/usestring/hardiff-mcp/internal/mcp/tools"
	"github.com/usestring/hardiff-mcp/internal/query"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Config    *config.Config
	Captures  *capture.Store
	Reports   *capture.ReportStore
	Whitelist *tools.WhitelistState
	Query     *query.Engine
}
