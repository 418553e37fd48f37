package transfer

import "codeberg.org/snonux/hyphipa/internal/normalize"

// Alignment scores.
const (
	alignMatch    = 1
	alignMismatch = -1
	alignGap      = -1
)

// Align places the boundaries of hyphenated onto target using a global
// (Needleman-Wunsch) alignment of the normalized runes. A boundary after
// source rune i goes right after the target rune aligned with i. Boundaries
// that would land on an edge of the target, or on a position already taken,
// are dropped.
func Align(hyphenated, target string) string {
	src, srcBounds := boundaries(hyphenated)
	tgt := []rune(Strip(target))
	return Insert(tgt, alignPositions(normalize.Runes(src), srcBounds, normalize.Runes(tgt)))
}

func alignPositions(src []rune, srcBounds []int, tgt []rune) []int {
	m, n := len(src), len(tgt)
	if len(srcBounds) == 0 || m == 0 || n < 3 {
		return nil
	}

	score := make([][]int, m+1)
	for i := range score {
		score[i] = make([]int, n+1)
		score[i][0] = i * alignGap
	}
	for j := 0; j <= n; j++ {
		score[0][j] = j * alignGap
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			s := alignMismatch
			if src[i-1] == tgt[j-1] {
				s = alignMatch
			}
			score[i][j] = max(score[i-1][j-1]+s, score[i-1][j]+alignGap, score[i][j-1]+alignGap)
		}
	}

	// consumed[i] is the number of target runes aligned up to and including
	// source rune i.
	consumed := make([]int, m)
	i, j := m, n
	for i > 0 {
		switch {
		case j > 0 && score[i][j] == score[i-1][j-1]+pairScore(src[i-1], tgt[j-1]):
			consumed[i-1] = j
			i, j = i-1, j-1
		case score[i][j] == score[i-1][j]+alignGap:
			consumed[i-1] = j
			i--
		default:
			j--
		}
	}

	var positions []int
	last := 0
	for _, b := range srcBounds {
		if b == 0 {
			continue
		}
		p := consumed[b-1]
		if p <= last || p >= n-1 {
			continue
		}
		positions = append(positions, p)
		last = p
	}
	return positions
}

func pairScore(a, b rune) int {
	if a == b {
		return alignMatch
	}
	return alignMismatch
}
