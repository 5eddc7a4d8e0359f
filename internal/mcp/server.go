package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/hardiff-mcp/internal/mcp/prompts"
	"github.com/usestring/hardiff-mcp/internal/mcp/tools"
)

// Version is reported to clients during initialization.
const Version = "0.1.0"

// instructions tells clients the order the builtin tools are meant to be used in.
const instructions = `hardiff compares two HAR captures of the same user flow.
Load both with hardiff_load_capture (path and path_b), then hardiff_align to pair their exchanges.
Inspect a pair with hardiff_compare, or hardiff_detailed_comparison for per-section diffs.
Exempt expected noise (timestamps, nonces, tracking headers) with hardiff_whitelist_load and re-run the alignment.`

// Server wraps the MCP server with hardiff-specific components.
type Server struct {
	mcpServer *sdkmcp.Server
	deps      *tools.Deps

	enableBuiltinTools   bool
	enableBuiltinPrompts bool
	customRegistrations  []func(*sdkmcp.Server)
}

// ServerOption is a functional option for configuring the Server.
type ServerOption func(*Server)

// WithBuiltinTools enables the builtin hardiff tools.
func WithBuiltinTools() ServerOption {
	return func(s *Server) {
		s.enableBuiltinTools = true
	}
}

// WithBuiltinPrompts enables the builtin hardiff prompts.
func WithBuiltinPrompts() ServerOption {
	return func(s *Server) {
		s.enableBuiltinPrompts = true
	}
}

// WithCustomRegistration adds a custom registration callback.
// The callback receives the underlying MCP server and can register
// tools, prompts, or resources directly.
func WithCustomRegistration(fn func(*sdkmcp.Server)) ServerOption {
	return func(s *Server) {
		s.customRegistrations = append(s.customRegistrations, fn)
	}
}

// NewServer creates a new MCP server with the provided dependencies and options.
func NewServer(deps *tools.Deps, opts ...ServerOption) (*Server, error) {
	if deps == nil {
		return nil, fmt.Errorf("deps is required")
	}

	s := &Server{deps: deps}
	for _, opt := range opts {
		opt(s)
	}

	var serverOpts *sdkmcp.ServerOptions
	if s.enableBuiltinTools {
		serverOpts = &sdkmcp.ServerOptions{Instructions: instructions}
	}
	s.mcpServer = sdkmcp.NewServer(&sdkmcp.Implementation{Name: "hardiff-mcp", Version: Version}, serverOpts)
	s.mcpServer.AddReceivingMiddleware(LoggingMiddleware())

	if s.enableBuiltinTools {
		tools.Register(s.mcpServer, deps)
		s.registerResources()
	}
	if s.enableBuiltinPrompts {
		prompts.Register(s.mcpServer, &prompts.Config{
			DefaultStrategy: deps.Config.DefaultAlignStrategy,
			WhitelistFile:   deps.Config.WhitelistFile,
		})
	}

	for _, fn := range s.customRegistrations {
		fn(s.mcpServer)
	}

	return s, nil
}

// Run starts the MCP server with stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &sdkmcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server for testing.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.mcpServer
}
