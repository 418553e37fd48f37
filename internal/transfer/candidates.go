package transfer

import (
	"math"
	"math/bits"
	"strings"
)

// Marker is the boundary marker shared by both alphabets.
const Marker = '-'

// Strip removes every boundary marker from s.
func Strip(s string) string {
	return strings.ReplaceAll(s, string(Marker), "")
}

// CountMarkers returns the number of boundary markers in s.
func CountMarkers(s string) int {
	return strings.Count(s, string(Marker))
}

// Positions returns every strictly increasing sequence of k marker positions
// for a target of n runes, in lexicographic order. A position p places a
// marker before rune p. Positions 0 and n-1 are never used: a marker never
// leads the word and never splits off its final rune.
func Positions(n, k int) [][]int {
	var out [][]int
	eachCombination(1, n-2, k, func(seq []int) bool {
		out = append(out, append([]int(nil), seq...))
		return true
	})
	return out
}

// Count returns len(Positions(n, k)) without enumerating, saturating at
// math.MaxUint64.
func Count(n, k int) uint64 {
	if k == 0 {
		return 1
	}
	if k < 0 || n-2 < k {
		return 0
	}
	return binomial(uint64(n-2), uint64(k))
}

func binomial(m, k uint64) uint64 {
	if k > m-k {
		k = m - k
	}
	c := uint64(1)
	for i := uint64(1); i <= k; i++ {
		hi, lo := bits.Mul64(c, m-k+i)
		if hi != 0 {
			return math.MaxUint64
		}
		c = lo / i
	}
	return c
}

// eachCombination calls fn with every strictly increasing sequence of k
// values drawn from [lo, hi], in lexicographic order, until fn returns
// false. fn must not retain seq.
func eachCombination(lo, hi, k int, fn func(seq []int) bool) {
	if k == 0 {
		fn(nil)
		return
	}
	if k < 0 || hi-lo+1 < k {
		return
	}
	seq := make([]int, k)
	for i := range seq {
		seq[i] = lo + i
	}
	for {
		if !fn(seq) {
			return
		}
		i := k - 1
		for i >= 0 && seq[i] == hi-(k-1-i) {
			i--
		}
		if i < 0 {
			return
		}
		seq[i]++
		for j := i + 1; j < k; j++ {
			seq[j] = seq[j-1] + 1
		}
	}
}

// Insert returns target with a marker placed before each of the given
// positions, which must be strictly increasing.
func Insert(target []rune, positions []int) string {
	var b strings.Builder
	b.Grow(len(target)*2 + len(positions))
	next := 0
	for i, r := range target {
		if next < len(positions) && positions[next] == i {
			b.WriteRune(Marker)
			next++
		}
		b.WriteRune(r)
	}
	return b.String()
}

// boundaries splits s into its runes without markers and the offset of
// every marker within them. Consecutive markers yield equal offsets.
func boundaries(s string) ([]rune, []int) {
	var rs []rune
	var bounds []int
	for _, r := range s {
		if r == Marker {
			bounds = append(bounds, len(rs))
			continue
		}
		rs = append(rs, r)
	}
	return rs, bounds
}
