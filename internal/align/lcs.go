package align

import (
	"log/slog"

	"github.com/usestring/hardiff-mcp/pkg/types"
	"github.com/usestring/hardiff-mcp/pkg/whitelist"
)

// maxLCSCells bounds the dynamic-programming table. Larger inputs fall back
// to Lookahead.
const maxLCSCells = 16 << 20

// LCS aligns on a longest common subsequence of paths. Between consecutive
// matches the unmatched exchanges of a are emitted first, then those of b.
func LCS(a, b []*types.Exchange, wl *whitelist.Config) []types.AlignedPair {
	// Common prefix and suffix never need the table.
	lo := 0
	for lo < len(a) && lo < len(b) && a[lo].Path == b[lo].Path {
		lo++
	}
	hiA, hiB := len(a), len(b)
	for hiA > lo && hiB > lo && a[hiA-1].Path == b[hiB-1].Path {
		hiA--
		hiB--
	}

	m, n := hiA-lo, hiB-lo
	if (m+1)*(n+1) > maxLCSCells {
		slog.Warn("capture too large for lcs alignment, using lookahead",
			slog.Int("first", len(a)), slog.Int("second", len(b)))
		return Lookahead(a, b, wl)
	}

	matches := lcsPairs(a[lo:hiA], b[lo:hiB])

	pairs := make([]types.AlignedPair, 0, len(a)+len(b))
	for k := 0; k < lo; k++ {
		pairs = append(pairs, matched(a, b, k, k, wl))
	}
	i, j := lo, lo
	for _, mt := range matches {
		mi, mj := mt[0]+lo, mt[1]+lo
		for ; i < mi; i++ {
			pairs = append(pairs, onlyFirst(i))
		}
		for ; j < mj; j++ {
			pairs = append(pairs, onlySecond(j))
		}
		pairs = append(pairs, matched(a, b, mi, mj, wl))
		i, j = mi+1, mj+1
	}
	for ; i < hiA; i++ {
		pairs = append(pairs, onlyFirst(i))
	}
	for ; j < hiB; j++ {
		pairs = append(pairs, onlySecond(j))
	}
	for k := 0; hiA+k < len(a); k++ {
		pairs = append(pairs, matched(a, b, hiA+k, hiB+k, wl))
	}
	return pairs
}

// lcsPairs returns the matched positions of a longest common subsequence of
// paths, ascending on both sides.
func lcsPairs(a, b []*types.Exchange) [][2]int {
	m, n := len(a), len(b)
	if m == 0 || n == 0 {
		return nil
	}

	dp := make([][]int32, m+1)
	for i := range dp {
		dp[i] = make([]int32, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1].Path == b[j-1].Path {
				dp[i][j] = dp[i-1][j-1] + 1
			} else {
				dp[i][j] = max(dp[i-1][j], dp[i][j-1])
			}
		}
	}

	k := int(dp[m][n])
	out := make([][2]int, k)
	i, j := m, n
	for i > 0 && j > 0 {
		if a[i-1].Path == b[j-1].Path {
			k--
			out[k] = [2]int{i - 1, j - 1}
			i--
			j--
		} else if dp[i-1][j] > dp[i][j-1] {
			i--
		} else {
			j--
		}
	}
	return out
}
