package mcpsrv

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/hardiff-mcp/internal/config"
	"github.com/usestring/hardiff-mcp/internal/logging"
	"github.com/usestring/hardiff-mcp/internal/mcp/tools"
	"github.com/usestring/hardiff-mcp/pkg/whitelist"
)

func newServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	t.Chdir(t.TempDir()) // keep a developer's .env out of the test
	s, err := NewServer(append([]Option{WithLogLevel("error")}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewServer_whitelistFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("global:\n  headers: [date]\n"), 0o600))

	s := newServer(t, WithWhitelistFile(path))
	assert.Equal(t, path, s.Deps().Whitelist.Source())
	assert.True(t, s.Deps().Whitelist.Snapshot().IsHeaderWhitelisted("Date", "https://example.com/"))
}

func TestNewServer_badWhitelistFileFallsBackToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wl.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"global": [`), 0o600))

	s := newServer(t, WithWhitelistFile(path))
	assert.Equal(t, tools.SourceNone, s.Deps().Whitelist.Source())
	assert.True(t, s.Deps().Whitelist.Snapshot().IsEmpty())
}

func TestNewServer_noisePreset(t *testing.T) {
	t.Setenv("USE_DEFAULT_NOISE_WHITELIST", "true")

	s := newServer(t, WithWhitelist(&whitelist.Config{Global: &whitelist.Rule{Headers: []string{"x-custom"}}}))
	wl := s.Deps().Whitelist.Snapshot()
	assert.Equal(t, tools.SourceInline+"+"+tools.SourceDefaults, s.Deps().Whitelist.Source())
	assert.True(t, wl.IsHeaderWhitelisted("x-custom", "https://example.com/"))
	assert.True(t, wl.IsHeaderWhitelisted("etag", "https://example.com/"))
}

func TestNewServer_invalidDefaultStrategy(t *testing.T) {
	s := newServer(t, WithDefaultStrategy("fuzzy"))
	assert.Equal(t, config.DefaultAlignStrategyValue, s.Deps().Config.DefaultAlignStrategy)
}

func TestNewServer_storeErrorClosesLog(t *testing.T) {
	tests := []struct {
		name string
		env  string
	}{
		{name: "capture store", env: "CAPTURE_CACHE_MAX_ITEMS"},
		{name: "report store", env: "REPORT_CACHE_MAX_ITEMS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.env, "0")

			var cleaned int
			orig, prev := setupLogging, slog.Default()
			t.Cleanup(func() {
				setupLogging = orig
				slog.SetDefault(prev)
			})
			setupLogging = func(cfg logging.Config) (func() error, error) {
				cleanup, err := orig(cfg)
				if err != nil {
					return nil, err
				}
				return func() error {
					cleaned++
					return cleanup()
				}, nil
			}

			_, err := NewServer(WithLogLevel("error"), WithLogFile(filepath.Join(t.TempDir(), "hardiff.log")))
			require.Error(t, err)
			assert.Equal(t, 1, cleaned)
		})
	}
}

func TestNewServer_depsTool(t *testing.T) {
	type countInput struct {
		CaptureID string `json:"capture_id"`
	}
	type countOutput struct {
		Count int `json:"count"`
	}

	var got *Deps
	s := newServer(t,
		WithoutBuiltinTools(),
		WithDepsTool(&mcp.Tool{Name: "count_exchanges", Description: "Count exchanges"},
			func(d *Deps) func(context.Context, *mcp.CallToolRequest, countInput) (*mcp.CallToolResult, countOutput, error) {
				got = d
				return func(ctx context.Context, req *mcp.CallToolRequest, in countInput) (*mcp.CallToolResult, countOutput, error) {
					return nil, countOutput{}, nil
				}
			}),
	)
	assert.Same(t, s.Deps(), got)
}

func TestNewServer_customExtensions(t *testing.T) {
	type echoInput struct {
		Text string `json:"text"`
	}
	type echoOutput struct {
		Text string `json:"text"`
	}

	s := newServer(t,
		WithoutBuiltinTools(),
		WithoutBuiltinPrompts(),
		WithTool(&mcp.Tool{Name: "echo", Description: "Echo text"},
			func(ctx context.Context, req *mcp.CallToolRequest, in echoInput) (*mcp.CallToolResult, echoOutput, error) {
				return nil, echoOutput{Text: in.Text}, nil
			}),
		WithPrompt(&mcp.Prompt{Name: "triage", Description: "Triage a diff"},
			func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
				return &mcp.GetPromptResult{
					Messages: []*mcp.PromptMessage{{Role: "user", Content: &mcp.TextContent{Text: "triage"}}},
				}, nil
			}),
		WithResourceTemplate(&mcp.ResourceTemplate{Name: "note", URITemplate: "note://{id}"},
			func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
				return &mcp.ReadResourceResult{
					Contents: []*mcp.ResourceContents{{URI: req.Params.URI, Text: "note"}},
				}, nil
			}),
	)

	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := s.internal.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer ss.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer cs.Close()

	toolList, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	require.Len(t, toolList.Tools, 1)
	assert.Equal(t, "echo", toolList.Tools[0].Name)

	promptList, err := cs.ListPrompts(ctx, nil)
	require.NoError(t, err)
	require.Len(t, promptList.Prompts, 1)
	assert.Equal(t, "triage", promptList.Prompts[0].Name)

	templates, err := cs.ListResourceTemplates(ctx, nil)
	require.NoError(t, err)
	require.Len(t, templates.ResourceTemplates, 1)
	assert.Equal(t, "note://{id}", templates.ResourceTemplates[0].URITemplate)

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: "echo", Arguments: map[string]any{"text": "hi"}})
	require.NoError(t, err)
	assert.False(t, res.IsError)
}

func TestOutputSchemaProblem(t *testing.T) {
	type listOutput struct {
		Paths []string `json:"paths"`
	}
	type pagedOutput struct {
		Paths []string `json:"paths,omitzero"`
	}
	assert.NotEmpty(t, OutputSchemaProblem[listOutput]())
	assert.Empty(t, OutputSchemaProblem[pagedOutput]())
}
