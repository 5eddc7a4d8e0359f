package mcp

import (
	"context"
	"errors"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolFailed(t *testing.T) {
	tests := []struct {
		name   string
		result sdkmcp.Result
		want   bool
	}{
		{"nil result", nil, false},
		{"typed nil", (*sdkmcp.CallToolResult)(nil), false},
		{"tool ok", &sdkmcp.CallToolResult{}, false},
		{"tool error", &sdkmcp.CallToolResult{IsError: true}, true},
		{"other result", &sdkmcp.ListToolsResult{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toolFailed(tt.result))
		})
	}
}

func TestLoggingMiddleware_passesThrough(t *testing.T) {
	want := &sdkmcp.CallToolResult{IsError: true}
	wantErr := errors.New("boom")

	handler := LoggingMiddleware()(func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
		return want, wantErr
	})

	got, err := handler(context.Background(), "tools/call", &sdkmcp.CallToolRequest{
		Params: &sdkmcp.CallToolParamsRaw{Name: "hardiff_align"},
	})
	require.ErrorIs(t, err, wantErr)
	assert.Same(t, want, got)
}
