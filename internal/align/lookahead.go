package align

import (
	"sort"

	"github.com/usestring/hardiff-mcp/pkg/types"
	"github.com/usestring/hardiff-mcp/pkg/whitelist"
)

// Lookahead walks both sequences with a cursor each. Equal paths at the
// cursors are matched. Otherwise each current path is searched for in the
// remainder of the other sequence:
//
//   - found on both sides at offsets p1 (in b) and p2 (in a): if p1 <= p2 the
//     current exchange of b is emitted alone, else the current exchange of a;
//   - only a's path found in b: b's current exchange is emitted alone;
//   - only b's path found in a: a's current exchange is emitted alone;
//   - neither found: both current exchanges are emitted alone, a's first.
//
// The result never reorders either side, but it is not guaranteed to be a
// minimum-edit alignment when paths repeat.
func Lookahead(a, b []*types.Exchange, wl *whitelist.Config) []types.AlignedPair {
	inA, inB := positionsByPath(a), positionsByPath(b)
	pairs := make([]types.AlignedPair, 0, len(a)+len(b))

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].Path == b[j].Path {
			pairs = append(pairs, matched(a, b, i, j, wl))
			i++
			j++
			continue
		}

		p1, foundInB := nextOffset(inB[a[i].Path], j)
		p2, foundInA := nextOffset(inA[b[j].Path], i)
		switch {
		case foundInB && foundInA:
			if p1 <= p2 {
				pairs = append(pairs, onlySecond(j))
				j++
			} else {
				pairs = append(pairs, onlyFirst(i))
				i++
			}
		case foundInB:
			pairs = append(pairs, onlySecond(j))
			j++
		case foundInA:
			pairs = append(pairs, onlyFirst(i))
			i++
		default:
			pairs = append(pairs, onlyFirst(i), onlySecond(j))
			i++
			j++
		}
	}

	for ; i < len(a); i++ {
		pairs = append(pairs, onlyFirst(i))
	}
	for ; j < len(b); j++ {
		pairs = append(pairs, onlySecond(j))
	}
	return pairs
}

// nextOffset returns the distance from cursor to the first position >= cursor.
func nextOffset(positions []int, cursor int) (int, bool) {
	k := sort.SearchInts(positions, cursor)
	if k == len(positions) {
		return 0, false
	}
	return positions[k] - cursor, true
}
