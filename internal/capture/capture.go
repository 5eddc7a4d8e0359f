// Package capture loads HTTP archive captures from disk and keeps loaded
// captures and stored reports in bounded in-memory stores.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/usestring/hardiff-mcp/pkg/har"
	"github.com/usestring/hardiff-mcp/pkg/types"
)

// ErrTooLarge is returned when a capture file exceeds the configured size limit.
var ErrTooLarge = errors.New("capture file too large")

// Capture is one normalized capture held by the server.
type Capture struct {
	ID        string
	Name      string
	Source    string // file path, empty for inline captures
	LoadedAt  time.Time
	Exchanges []*types.Exchange
	Warnings  []har.EntryWarning
}

// Options bounds capture loading.
type Options struct {
	MaxBytes int64 // 0 disables the size check
	Workers  int   // concurrent loads in LoadPair; <1 means 1
}

// LoadFile reads and normalizes the capture at path.
func LoadFile(ctx context.Context, path string, opts Options) (*Capture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading capture: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("reading capture: %s is a directory", path)
	}
	if opts.MaxBytes > 0 && info.Size() > opts.MaxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrTooLarge, path, info.Size(), opts.MaxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading capture: %w", err)
	}

	c, err := Parse(filepath.Base(path), data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Source = path
	return c, nil
}

// Parse normalizes an in-memory capture document.
func Parse(name string, data []byte) (*Capture, error) {
	start := time.Now()
	res, err := har.Normalize(data)
	if err != nil {
		return nil, err
	}

	slog.Debug("capture normalized",
		slog.String("name", name),
		slog.Int("exchanges", len(res.Exchanges)),
		slog.Int("skipped", len(res.Warnings)),
		slog.Duration("took", time.Since(start)),
	)

	return &Capture{
		Name:      name,
		LoadedAt:  time.Now(),
		Exchanges: res.Exchanges,
		Warnings:  res.Warnings,
	}, nil
}

// LoadPair loads two captures concurrently. If either fails, no capture is
// returned.
func LoadPair(ctx context.Context, pathA, pathB string, opts Options) (*Capture, *Capture, error) {
	var captures [2]*Capture

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Workers, 1))

	for i, path := range [2]string{pathA, pathB} {
		g.Go(func() error {
			c, err := LoadFile(ctx, path, opts)
			if err != nil {
				return err
			}
			captures[i] = c
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return captures[0], captures[1], nil
}

// Exchange returns the exchange at position, or false when out of range.
func (c *Capture) Exchange(position int) (*types.Exchange, bool) {
	if position < 0 || position >= len(c.Exchanges) {
		return nil, false
	}
	return c.Exchanges[position], true
}
