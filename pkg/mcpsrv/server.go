package mcpsrv

import (
	"context"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/hardiff-mcp/internal/capture"
	"github.com/usestring/hardiff-mcp/internal/config"
	"github.com/usestring/hardiff-mcp/internal/logging"
	"github.com/usestring/hardiff-mcp/internal/mcp"
	"github.com/usestring/hardiff-mcp/internal/mcp/tools"
	"github.com/usestring/hardiff-mcp/internal/query"
	"github.com/usestring/hardiff-mcp/pkg/types"
	"github.com/usestring/hardiff-mcp/pkg/whitelist"
)

// Server is the hardiff MCP server.
// It wraps the internal implementation and provides extension points.
type Server struct {
	internal   *mcp.Server
	deps       *Deps
	logCleanup func() error
}

// setupLogging installs the global logger. Tests replace it to observe the
// returned cleanup.
var setupLogging = logging.Setup

// NewServer creates a new MCP server with builtin hardiff tools.
//
// Configuration is read from the environment (see internal/config); use
// functional options to override logging, preload a whitelist, or add custom
// tools.
func NewServer(opts ...Option) (_ *Server, err error) {
	// Build configuration from options
	cfg := &serverConfig{
		config: config.Load(), // Load defaults from environment
	}
	for _, opt := range opts {
		opt(cfg)
	}

	// Setup logging
	logCfg := cfg.config.Logging()
	if cfg.logLevel != "" {
		logCfg.Level = cfg.logLevel
	}
	if cfg.logFile != "" {
		logCfg.FilePath = cfg.logFile
	}
	logCleanup, err := setupLogging(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	defer func() {
		if err != nil {
			_ = logCleanup()
		}
	}()

	if _, err := types.ParseStrategy(cfg.config.DefaultAlignStrategy, types.StrategyLookahead); err != nil {
		slog.Warn("ignoring DEFAULT_ALIGN_STRATEGY", slog.String("error", err.Error()))
		cfg.config.DefaultAlignStrategy = config.DefaultAlignStrategyValue
	}

	// Create stores
	captures, err := capture.NewStore(cfg.config.CaptureCacheMaxItems)
	if err != nil {
		return nil, err
	}
	reports, err := capture.NewReportStore(cfg.config.ReportCacheMaxItems)
	if err != nil {
		return nil, err
	}

	wl, source := initialWhitelist(cfg)

	// Create deps for internal tools and custom tools
	toolDeps := &tools.Deps{
		Config:    cfg.config,
		Captures:  captures,
		Reports:   reports,
		Whitelist: tools.NewWhitelistState(wl, source),
		Query:     query.NewEngine(),
	}

	// Create public deps (same values, different type for public API)
	deps := &Deps{
		Config:    toolDeps.Config,
		Captures:  toolDeps.Captures,
		Reports:   toolDeps.Reports,
		Whitelist: toolDeps.Whitelist,
		Query:     toolDeps.Query,
	}

	// Build internal server options
	var internalOpts []mcp.ServerOption
	if !cfg.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	if !cfg.disableBuiltinPrompts {
		internalOpts = append(internalOpts, mcp.WithBuiltinPrompts())
	}

	// Add custom extension registration callbacks
	for _, fn := range cfg.toolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.promptRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.resourceRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}

	// Add deferred tool registrations (tools that need Deps access)
	for _, fn := range cfg.deferredToolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			fn(srv, deps)
		}))
	}

	// Create internal server
	internal, err := mcp.NewServer(toolDeps, internalOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{
		internal:   internal,
		deps:       deps,
		logCleanup: logCleanup,
	}, nil
}

// initialWhitelist resolves the whitelist the server starts with. A whitelist
// file that cannot be loaded is logged and replaced by an empty whitelist.
func initialWhitelist(cfg *serverConfig) (*whitelist.Config, string) {
	wl, source := whitelist.New(), tools.SourceNone

	switch {
	case cfg.whitelist != nil:
		wl, source = cfg.whitelist, tools.SourceInline
	case cfg.config.WhitelistFile != "":
		loaded, err := whitelist.Load(cfg.config.WhitelistFile)
		if err != nil {
			slog.Warn("failed to load whitelist file, starting with an empty whitelist",
				slog.String("path", cfg.config.WhitelistFile),
				slog.String("error", err.Error()),
			)
			break
		}
		wl, source = loaded, cfg.config.WhitelistFile
	}

	if cfg.config.UseDefaultNoiseWhitelist {
		wl = wl.Merge(whitelist.Defaults())
		if source == tools.SourceNone {
			source = tools.SourceDefaults
		} else {
			source += "+" + tools.SourceDefaults
		}
	}

	slog.Debug("whitelist ready", slog.String("source", source), slog.Bool("empty", wl.IsEmpty()))
	return wl, source
}

// Run starts the MCP server with stdio transport.
// The server runs until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.internal.Run(ctx)
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.logCleanup != nil {
		return s.logCleanup()
	}
	return nil
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}
