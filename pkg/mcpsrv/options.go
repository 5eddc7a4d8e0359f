package mcpsrv

import (
	"context"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/hardiff-mcp/internal/config"
	"github.com/usestring/hardiff-mcp/pkg/whitelist"
)

// serverConfig holds configuration built from options.
type serverConfig struct {
	config    *config.Config
	whitelist *whitelist.Config

	logLevel string
	logFile  string

	disableBuiltinTools   bool
	disableBuiltinPrompts bool

	toolRegistrations         []func(*mcp.Server)
	promptRegistrations       []func(*mcp.Server)
	resourceRegistrations     []func(*mcp.Server)
	deferredToolRegistrations []func(*mcp.Server, *Deps) // need the server's Deps

}

// Option configures the server.
type Option func(*serverConfig)

// WithLogLevel sets the log level (debug, info, warn, error).
func WithLogLevel(level string) Option {
	return func(cfg *serverConfig) {
		cfg.logLevel = level
	}
}

// WithLogFile writes logs to a rotating file at path in addition to stderr.
func WithLogFile(path string) Option {
	return func(cfg *serverConfig) {
		cfg.logFile = path
	}
}

// WithWhitelistFile loads the startup whitelist from path instead of
// WHITELIST_FILE.
func WithWhitelistFile(path string) Option {
	return func(cfg *serverConfig) {
		cfg.config.WhitelistFile = path
	}
}

// WithWhitelist starts the server with wl, ignoring any whitelist file.
func WithWhitelist(wl *whitelist.Config) Option {
	return func(cfg *serverConfig) {
		cfg.whitelist = wl
	}
}

// WithDefaultStrategy sets the alignment strategy used when a tool call
// does not name one (greedy, lookahead or lcs).
func WithDefaultStrategy(name string) Option {
	return func(cfg *serverConfig) {
		cfg.config.DefaultAlignStrategy = name
	}
}

// WithoutBuiltinTools disables the builtin hardiff tools and the report
// resource template.
func WithoutBuiltinTools() Option {
	return func(cfg *serverConfig) {
		cfg.disableBuiltinTools = true
	}
}

// WithoutBuiltinPrompts disables the builtin investigate_drift prompt.
func WithoutBuiltinPrompts() Option {
	return func(cfg *serverConfig) {
		cfg.disableBuiltinPrompts = true
	}
}

// WithTool registers a custom tool with the server. In is decoded from the
// call arguments and Out is returned as structured content; Out must pass the
// same zero-value schema check as the builtin tools (see AddTool).
//
//	type EchoInput struct {
//	    Text string `json:"text"`
//	}
//	type EchoOutput struct {
//	    Text string `json:"text"`
//	}
//
//	mcpsrv.WithTool(&mcp.Tool{Name: "echo"}, func(ctx context.Context, req *mcp.CallToolRequest, in EchoInput) (*mcp.CallToolResult, EchoOutput, error) {
//	    return nil, EchoOutput{Text: in.Text}, nil
//	})
func WithTool[In, Out any](tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(cfg *serverConfig) {
		cfg.toolRegistrations = append(cfg.toolRegistrations, func(srv *mcp.Server) {
			AddTool(srv, tool, handler)
		})
	}
}

// WithDepsTool registers a custom tool whose handler is built from Deps once
// the server's stores and whitelist exist. Use it for tools that read loaded
// captures, stored reports, or the active whitelist.
//
//	mcpsrv.WithDepsTool(&mcp.Tool{Name: "exchange_count"},
//	    func(d *mcpsrv.Deps) func(context.Context, *mcp.CallToolRequest, CountInput) (*mcp.CallToolResult, CountOutput, error) {
//	        return func(ctx context.Context, req *mcp.CallToolRequest, in CountInput) (*mcp.CallToolResult, CountOutput, error) {
//	            c, ok := d.Captures.Get(in.CaptureID)
//	            if !ok {
//	                return nil, CountOutput{}, fmt.Errorf("capture %q not loaded", in.CaptureID)
//	            }
//	            return nil, CountOutput{Count: len(c.Exchanges)}, nil
//	        }
//	    })
func WithDepsTool[In, Out any](tool *mcp.Tool, builder func(*Deps) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(cfg *serverConfig) {
		cfg.deferredToolRegistrations = append(cfg.deferredToolRegistrations, func(srv *mcp.Server, deps *Deps) {
			AddTool(srv, tool, builder(deps))
		})
	}
}

// WithPrompt registers a custom prompt with the server.
func WithPrompt(prompt *mcp.Prompt, handler mcp.PromptHandler) Option {
	return func(cfg *serverConfig) {
		cfg.promptRegistrations = append(cfg.promptRegistrations, func(srv *mcp.Server) {
			srv.AddPrompt(prompt, handler)
		})
	}
}

// WithResourceTemplate registers a custom resource template with the server.
// Builtin reports already occupy the hardiff://report/{id} template.
func WithResourceTemplate(template *mcp.ResourceTemplate, handler mcp.ResourceHandler) Option {
	return func(cfg *serverConfig) {
		cfg.resourceRegistrations = append(cfg.resourceRegistrations, func(srv *mcp.Server) {
			srv.AddResourceTemplate(template, handler)
		})
	}
}
