package tools

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/hardiff-mcp/pkg/types"
	"github.com/usestring/hardiff-mcp/pkg/whitelist"
)

// Whitelist sources reported by hardiff_whitelist_show.
const (
	SourceNone     = "none"
	SourceInline   = "inline"
	SourceDefaults = "defaults"
)

// WhitelistLoadInput is the input for hardiff_whitelist_load.
type WhitelistLoadInput struct {
	Path        string `json:"path,omitempty" jsonschema:"Path to a whitelist file (.json, .yaml or .yml)"`
	Content     string `json:"content,omitempty" jsonschema:"Inline whitelist document, used when path is empty"`
	Format      string `json:"format,omitempty" jsonschema:"Format of inline content: json (default) or yaml"`
	Merge       bool   `json:"merge,omitempty" jsonschema:"Add the new rules to the active whitelist instead of replacing it"`
	NoisePreset bool   `json:"noise_preset,omitempty" jsonschema:"Also exempt common noisy headers and payload keys (date, x-request-id, etag, timestamp, nonce, ...)"`
}

// WhitelistOutput describes the active whitelist after a change.
type WhitelistOutput struct {
	Source    string            `json:"source"`
	Empty     bool              `json:"empty"`
	Whitelist *whitelist.Config `json:"whitelist,omitempty"`
}

// ToolWhitelistLoad replaces or extends the active whitelist. On any error the
// active whitelist is left unchanged.
func ToolWhitelistLoad(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input WhitelistLoadInput) (*sdkmcp.CallToolResult, WhitelistOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input WhitelistLoadInput) (*sdkmcp.CallToolResult, WhitelistOutput, error) {
		var (
			cfg    *whitelist.Config
			source string
			err    error
		)
		switch {
		case input.Path != "":
			cfg, err = whitelist.Load(input.Path)
			if err != nil {
				return nil, WhitelistOutput{}, WrapLoadError(input.Path, err)
			}
			source = input.Path
		case input.Content != "":
			switch strings.ToLower(input.Format) {
			case "", "json":
				cfg, err = whitelist.Parse([]byte(input.Content))
			case "yaml", "yml":
				cfg, err = whitelist.ParseYAML([]byte(input.Content))
			default:
				return nil, WhitelistOutput{}, ErrInvalidInput("format must be 'json' or 'yaml'")
			}
			if err != nil {
				return nil, WhitelistOutput{}, ErrParse("inline whitelist", err)
			}
			source = SourceInline
		case input.NoisePreset:
			cfg = whitelist.New()
		default:
			return nil, WhitelistOutput{}, ErrInvalidInput("one of path, content or noise_preset is required")
		}

		if input.NoisePreset {
			cfg = cfg.Merge(whitelist.Defaults())
			source = joinSource(source, SourceDefaults)
		}
		if input.Merge {
			cfg = d.Whitelist.Snapshot().Merge(cfg)
			source = joinSource(d.Whitelist.Source(), source)
		}

		d.Whitelist.Set(cfg, source)
		return nil, whitelistOutput(cfg, source), nil
	}
}

// WhitelistClearInput is the input for hardiff_whitelist_clear.
type WhitelistClearInput struct{}

// ToolWhitelistClear removes all exemptions.
func ToolWhitelistClear(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input WhitelistClearInput) (*sdkmcp.CallToolResult, WhitelistOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input WhitelistClearInput) (*sdkmcp.CallToolResult, WhitelistOutput, error) {
		cfg := whitelist.New()
		d.Whitelist.Set(cfg, SourceNone)
		return nil, whitelistOutput(cfg, SourceNone), nil
	}
}

// WhitelistShowInput is the input for hardiff_whitelist_show.
type WhitelistShowInput struct {
	URL           string `json:"url,omitempty" jsonschema:"Resolve the exempt names that apply to this request URL"`
	IncludeSchema bool   `json:"include_schema,omitempty" jsonschema:"Include the JSON Schema of the whitelist file format"`
}

// WhitelistShowOutput is the output for hardiff_whitelist_show.
type WhitelistShowOutput struct {
	Source            string            `json:"source"`
	Empty             bool              `json:"empty"`
	Whitelist         *whitelist.Config `json:"whitelist,omitempty"`
	URL               string            `json:"url,omitempty"`
	ExemptHeaders     []string          `json:"exempt_headers,omitempty"`
	ExemptPayloadKeys []string          `json:"exempt_payload_keys,omitempty"`
	Schema            any               `json:"schema,omitempty"`
}

// ToolWhitelistShow describes the active whitelist.
func ToolWhitelistShow(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input WhitelistShowInput) (*sdkmcp.CallToolResult, WhitelistShowOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input WhitelistShowInput) (*sdkmcp.CallToolResult, WhitelistShowOutput, error) {
		cfg := d.Whitelist.Snapshot()
		current := whitelistOutput(cfg, d.Whitelist.Source())
		output := WhitelistShowOutput{
			Source:    current.Source,
			Empty:     current.Empty,
			Whitelist: current.Whitelist,
		}

		if input.URL != "" {
			output.URL = input.URL
			output.ExemptHeaders = cfg.ExemptHeaders(input.URL)
			output.ExemptPayloadKeys = cfg.ExemptPayloadKeys(input.URL)
		}
		if input.IncludeSchema {
			schema, err := types.ToAny(whitelist.Schema())
			if err != nil {
				return nil, WhitelistShowOutput{}, err
			}
			output.Schema = schema
		}
		return nil, output, nil
	}
}

func whitelistOutput(cfg *whitelist.Config, source string) WhitelistOutput {
	out := WhitelistOutput{Source: source, Empty: cfg.IsEmpty()}
	if !out.Empty {
		out.Whitelist = cfg
	}
	return out
}

func joinSource(a, b string) string {
	if a == "" || a == SourceNone {
		return b
	}
	return a + "+" + b
}
