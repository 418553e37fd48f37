package transfer

// Overlap returns the number of distinct runes that a and b have in common.
func Overlap(a, b string) int {
	return overlap([]rune(a), []rune(b))
}

func overlap(a, b []rune) int {
	return countIn(runeSet(a), b)
}

type set map[rune]struct{}

func runeSet(rs []rune) set {
	s := make(set, len(rs))
	for _, r := range rs {
		s[r] = struct{}{}
	}
	return s
}

// countIn counts the distinct runes of rs that are members of s.
func countIn(s set, rs []rune) int {
	seen := make(set, len(rs))
	n := 0
	for _, r := range rs {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		if _, ok := s[r]; ok {
			n++
		}
	}
	return n
}

// Score rates how well the boundaries of candidate line up with those of
// source. Both are normalized strings carrying the same number of markers.
// For every pair of corresponding boundaries the characters shared by the
// two left sides and by the two right sides are counted, and the counts are
// summed.
func Score(source, candidate string) int {
	src, srcBounds := boundaries(source)
	cand, candBounds := boundaries(candidate)
	total := 0
	for i := 0; i < len(srcBounds) && i < len(candBounds); i++ {
		p, q := srcBounds[i], candBounds[i]
		total += overlap(src[:p], cand[:q]) + overlap(src[p:], cand[q:])
	}
	return total
}

// scorer precomputes the contribution of every (boundary, position) pair so
// that scoring a candidate is a sum of table lookups. It is read-only after
// construction and safe for concurrent use.
type scorer struct {
	pair [][]int
}

func newScorer(src []rune, srcBounds []int, target []rune) *scorer {
	n := len(target)
	pair := make([][]int, len(srcBounds))
	for i, b := range srcBounds {
		left, right := runeSet(src[:b]), runeSet(src[b:])
		row := make([]int, n+1)
		for p := 0; p <= n; p++ {
			row[p] = countIn(left, target[:p]) + countIn(right, target[p:])
		}
		pair[i] = row
	}
	return &scorer{pair: pair}
}

func (s *scorer) score(positions []int) int {
	total := 0
	for i, p := range positions {
		total += s.pair[i][p]
	}
	return total
}
