package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// LoggingMiddleware returns middleware that logs incoming method calls.
//
// Tool calls carry the tool name, and a tool result flagged as an error is
// logged at warn level even though the method itself succeeded.
func LoggingMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			start := time.Now()

			result, err := next(ctx, method, req)

			attrs := []slog.Attr{
				slog.String("method", method),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			if call, ok := req.(*sdkmcp.CallToolRequest); ok && call.Params != nil {
				attrs = append(attrs, slog.String("tool", call.Params.Name))
			}

			level, msg := slog.LevelInfo, "method call completed"
			switch {
			case err != nil:
				attrs = append(attrs, slog.String("error", err.Error()))
				level, msg = slog.LevelError, "method call failed"
			case toolFailed(result):
				level, msg = slog.LevelWarn, "tool returned an error"
			}
			slog.LogAttrs(ctx, level, msg, attrs...)

			return result, err
		}
	}
}

func toolFailed(result sdkmcp.Result) bool {
	res, ok := result.(*sdkmcp.CallToolResult)
	return ok && res != nil && res.IsError
}
