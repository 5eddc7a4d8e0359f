// Package align pairs up the exchanges of two captures.
//
// Every strategy decides which exchanges occupy "the same slot" by path
// equality alone; the comparison embedded in a matched pair is always the full
// comparator with the supplied whitelist.
package align

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/usestring/hardiff-mcp/internal/compare"
	"github.com/usestring/hardiff-mcp/pkg/types"
	"github.com/usestring/hardiff-mcp/pkg/whitelist"
)

// Align maps two exchange sequences onto an ordered list of aligned pairs.
// Every position of a and b appears exactly once.
func Align(a, b []*types.Exchange, wl *whitelist.Config, strategy types.Strategy) ([]types.AlignedPair, error) {
	switch strategy {
	case types.StrategyGreedy:
		return Greedy(a, b, wl), nil
	case types.StrategyLookahead:
		return Lookahead(a, b, wl), nil
	case types.StrategyLCS:
		return LCS(a, b, wl), nil
	default:
		return nil, fmt.Errorf("unknown alignment strategy %q", strategy)
	}
}

func matched(a, b []*types.Exchange, i, j int, wl *whitelist.Config) types.AlignedPair {
	res := compare.Compare(a[i], b[j], wl)
	return types.AlignedPair{Index1: &i, Index2: &j, Comparison: &res}
}

func onlyFirst(i int) types.AlignedPair  { return types.AlignedPair{Index1: &i} }
func onlySecond(j int) types.AlignedPair { return types.AlignedPair{Index2: &j} }

// Validate checks that pairs cover positions [0,n1) of the first sequence and
// [0,n2) of the second exactly once each.
func Validate(pairs []types.AlignedPair, n1, n2 int) error {
	seen1, seen2 := roaring.New(), roaring.New()
	for k, p := range pairs {
		if p.Index1 == nil && p.Index2 == nil {
			return fmt.Errorf("pair %d: both sides empty", k)
		}
		if p.Matched() != (p.Comparison != nil) {
			return fmt.Errorf("pair %d: comparison must be present exactly when both sides are set", k)
		}
		if err := mark(seen1, p.Index1, n1); err != nil {
			return fmt.Errorf("pair %d: first side: %w", k, err)
		}
		if err := mark(seen2, p.Index2, n2); err != nil {
			return fmt.Errorf("pair %d: second side: %w", k, err)
		}
	}
	if got := seen1.GetCardinality(); got != uint64(n1) {
		return fmt.Errorf("first side: %d of %d positions covered", got, n1)
	}
	if got := seen2.GetCardinality(); got != uint64(n2) {
		return fmt.Errorf("second side: %d of %d positions covered", got, n2)
	}
	return nil
}

func mark(seen *roaring.Bitmap, idx *int, n int) error {
	if idx == nil {
		return nil
	}
	if *idx < 0 || *idx >= n {
		return fmt.Errorf("position %d out of range [0,%d)", *idx, n)
	}
	if !seen.CheckedAdd(uint32(*idx)) {
		return fmt.Errorf("position %d used twice", *idx)
	}
	return nil
}
