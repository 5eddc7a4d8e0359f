package align

import (
	"cmp"
	"slices"

	"github.com/usestring/hardiff-mcp/pkg/types"
	"github.com/usestring/hardiff-mcp/pkg/whitelist"
)

// PathGroup holds the occurrences of one path shared by both sequences.
type PathGroup struct {
	Path  string              `json:"path"`
	Pairs []types.AlignedPair `json:"pairs"`
}

// GroupByPath pairs the k-th occurrence of each shared path in a with its k-th
// occurrence in b. Surplus occurrences on either side are left one-sided.
// Paths present in only one sequence are omitted. Groups are sorted by path.
func GroupByPath(a, b []*types.Exchange, wl *whitelist.Config) []PathGroup {
	inA, inB := positionsByPath(a), positionsByPath(b)

	var groups []PathGroup
	for path, posA := range inA {
		posB, ok := inB[path]
		if !ok {
			continue
		}
		g := PathGroup{Path: path}
		for k := range max(len(posA), len(posB)) {
			switch {
			case k >= len(posB):
				g.Pairs = append(g.Pairs, onlyFirst(posA[k]))
			case k >= len(posA):
				g.Pairs = append(g.Pairs, onlySecond(posB[k]))
			default:
				g.Pairs = append(g.Pairs, matched(a, b, posA[k], posB[k], wl))
			}
		}
		groups = append(groups, g)
	}

	slices.SortFunc(groups, func(x, y PathGroup) int {
		return cmp.Compare(x.Path, y.Path)
	})
	return groups
}
