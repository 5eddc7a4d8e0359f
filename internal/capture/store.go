package capture

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/usestring/hardiff-mcp/internal/cache"
	"github.com/usestring/hardiff-mcp/pkg/types"
)

// Store holds loaded captures. The least recently used capture is evicted
// once the store is full.
type Store struct {
	lru *cache.LRU[*Capture]
}

// NewStore creates a store holding at most maxItems captures.
func NewStore(maxItems int) (*Store, error) {
	c, err := cache.NewLRU[*Capture](maxItems)
	if err != nil {
		return nil, fmt.Errorf("creating capture store: %w", err)
	}
	return &Store{lru: c}, nil
}

// Add assigns c a new ID and stores it.
func (s *Store) Add(c *Capture) string {
	c.ID = uuid.NewString()
	s.lru.Put(c.ID, c)
	return c.ID
}

// Get returns the capture with the given ID.
func (s *Store) Get(id string) (*Capture, bool) {
	return s.lru.Get(id)
}

// Remove drops a capture. Returns false if it was not present.
func (s *Store) Remove(id string) bool {
	return s.lru.Remove(id)
}

// List returns all held captures, oldest first.
func (s *Store) List() []*Capture {
	return s.lru.Values()
}

// Report is a stored detailed comparison together with the exchanges it
// describes.
type Report struct {
	ID         string                    `json:"id"`
	CaptureA   string                    `json:"capture_a"`
	CaptureB   string                    `json:"capture_b"`
	PositionA  int                       `json:"position_a"`
	PositionB  int                       `json:"position_b"`
	Comparison types.ComparisonResult    `json:"comparison"`
	Detailed   *types.DetailedComparison `json:"detailed"`
	Diffs      map[string]string         `json:"diffs,omitempty"`
}

// ReportStore holds detailed comparison reports for later retrieval.
type ReportStore struct {
	lru *cache.LRU[*Report]
}

// NewReportStore creates a store holding at most maxItems reports.
func NewReportStore(maxItems int) (*ReportStore, error) {
	c, err := cache.NewLRU[*Report](maxItems)
	if err != nil {
		return nil, fmt.Errorf("creating report store: %w", err)
	}
	return &ReportStore{lru: c}, nil
}

// Put assigns r a new ID and stores it.
func (s *ReportStore) Put(r *Report) string {
	r.ID = uuid.NewString()
	s.lru.Put(r.ID, r)
	return r.ID
}

// Get returns a report without removing it.
func (s *ReportStore) Get(id string) (*Report, bool) {
	return s.lru.Get(id)
}

// Take returns a report and removes it from the store.
func (s *ReportStore) Take(id string) (*Report, bool) {
	r, ok := s.lru.Peek(id)
	if !ok || !s.lru.Remove(id) {
		// Absent, or taken concurrently.
		return nil, false
	}
	return r, true
}

// Len returns the number of stored reports.
func (s *ReportStore) Len() int {
	return s.lru.Len()
}
