package tools

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/usestring/hardiff-mcp/internal/capture"
	"github.com/usestring/hardiff-mcp/pkg/har"
	"github.com/usestring/hardiff-mcp/pkg/whitelist"
)

// Error codes for MCP tool responses.
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeParseError   = "PARSE_ERROR"
	ErrCodeIOError      = "IO_ERROR"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapLoadError converts an error from loading a capture or whitelist file
// to a coded error.
func WrapLoadError(path string, err error) error {
	if err == nil {
		return nil
	}

	var coded *CodedError
	switch {
	case errors.Is(err, har.ErrMalformedCapture), errors.Is(err, whitelist.ErrMalformedConfig):
		coded = &CodedError{
			Code:    ErrCodeParseError,
			Message: fmt.Sprintf("cannot parse %s", path),
			Cause:   err,
		}
	case errors.Is(err, capture.ErrTooLarge):
		coded = &CodedError{
			Code:    ErrCodeInvalidInput,
			Message: fmt.Sprintf("file too large: %s", path),
			Cause:   err,
		}
	case errors.Is(err, fs.ErrNotExist):
		coded = &CodedError{
			Code:    ErrCodeNotFound,
			Message: fmt.Sprintf("file not found: %s", path),
			Cause:   err,
		}
	default:
		coded = &CodedError{
			Code:    ErrCodeIOError,
			Message: fmt.Sprintf("cannot read %s", path),
			Cause:   err,
		}
	}

	slog.Warn("load failed",
		slog.String("path", path),
		slog.String("code", coded.Code),
		slog.String("error", err.Error()),
	)

	return coded
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) error {
	return &CodedError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}

// ErrParse creates a parse error for inline content.
func ErrParse(what string, err error) error {
	return &CodedError{
		Code:    ErrCodeParseError,
		Message: fmt.Sprintf("cannot parse %s", what),
		Cause:   err,
	}
}
