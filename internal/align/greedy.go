package align

import (
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/usestring/hardiff-mcp/pkg/types"
	"github.com/usestring/hardiff-mcp/pkg/whitelist"
)

// Greedy matches each exchange of a, in order, with the first unused exchange
// of b that has the same path. Unmatched exchanges of b are then inserted
// before the first pair whose second position exceeds theirs, so b keeps its
// relative order in the output.
//
// Greedy matches may cross: a later exchange of a can pair with an earlier
// exchange of b.
func Greedy(a, b []*types.Exchange, wl *whitelist.Config) []types.AlignedPair {
	positions := positionsByPath(b)
	used := roaring.New()
	pairs := make([]types.AlignedPair, 0, len(a)+len(b))

	for i, ea := range a {
		queue := positions[ea.Path]
		if len(queue) == 0 {
			pairs = append(pairs, onlyFirst(i))
			continue
		}
		j := queue[0]
		positions[ea.Path] = queue[1:]
		used.Add(uint32(j))
		pairs = append(pairs, matched(a, b, i, j, wl))
	}

	if len(b) == 0 {
		return pairs
	}
	unused := roaring.Flip(used, 0, uint64(len(b)))
	it := unused.Iterator()
	for it.HasNext() {
		j := int(it.Next())
		at := slices.IndexFunc(pairs, func(p types.AlignedPair) bool {
			return p.Index2 != nil && *p.Index2 > j
		})
		if at < 0 {
			pairs = append(pairs, onlySecond(j))
		} else {
			pairs = slices.Insert(pairs, at, onlySecond(j))
		}
	}
	return pairs
}

// positionsByPath maps each path to its positions in seq, ascending.
func positionsByPath(seq []*types.Exchange) map[string][]int {
	out := make(map[string][]int)
	for i, e := range seq {
		out[e.Path] = append(out[e.Path], i)
	}
	return out
}
