package tools

import (
	"fmt"
	"sync"

	"github.com/usestring/hardiff-mcp/internal/capture"
	"github.com/usestring/hardiff-mcp/internal/config"
	"github.com/usestring/hardiff-mcp/internal/query"
	"github.com/usestring/hardiff-mcp/pkg/types"
	"github.com/usestring/hardiff-mcp/pkg/whitelist"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Config    *config.Config
	Captures  *capture.Store
	Reports   *capture.ReportStore
	Whitelist *WhitelistState
	Query     *query.Engine
}

// Capture returns a loaded capture or a NOT_FOUND error.
func (d *Deps) Capture(id string) (*capture.Capture, error) {
	c, ok := d.Captures.Get(id)
	if !ok {
		return nil, ErrNotFound("capture", id)
	}
	return c, nil
}

// Exchange returns the exchange at a 0-based position of a loaded capture.
func (d *Deps) Exchange(captureID string, position int) (*types.Exchange, error) {
	c, err := d.Capture(captureID)
	if err != nil {
		return nil, err
	}
	e, ok := c.Exchange(position)
	if !ok {
		return nil, ErrNotFound("exchange", fmt.Sprintf("%s[%d] (capture has %d exchanges)", captureID, position, len(c.Exchanges)))
	}
	return e, nil
}

// Strategy resolves a requested alignment strategy against the configured default.
func (d *Deps) Strategy(name string) (types.Strategy, error) {
	fallback, err := types.ParseStrategy(d.Config.DefaultAlignStrategy, types.StrategyLookahead)
	if err != nil {
		fallback = types.StrategyLookahead
	}
	s, err := types.ParseStrategy(name, fallback)
	if err != nil {
		return "", ErrInvalidInput(err.Error())
	}
	return s, nil
}

// WhitelistState holds the active whitelist. The held *whitelist.Config is
// replaced, never modified, so a snapshot stays valid for a whole comparison.
type WhitelistState struct {
	mu     sync.RWMutex
	cfg    *whitelist.Config
	source string
}

// NewWhitelistState creates a state holding cfg. A nil cfg is treated as empty.
func NewWhitelistState(cfg *whitelist.Config, source string) *WhitelistState {
	if cfg == nil {
		cfg = whitelist.New()
	}
	return &WhitelistState{cfg: cfg, source: source}
}

// Snapshot returns the active whitelist.
func (s *WhitelistState) Snapshot() *whitelist.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Source describes where the active whitelist came from.
func (s *WhitelistState) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Set replaces the active whitelist.
func (s *WhitelistState) Set(cfg *whitelist.Config, source string) {
	if cfg == nil {
		cfg = whitelist.New()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.source = source
}
