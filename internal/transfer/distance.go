package transfer

// Levenshtein returns the edit distance between a and b with unit costs,
// counted in runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	return boundedLevenshtein(ra, rb, len(ra)+len(rb))
}

// boundedLevenshtein returns the edit distance between a and b, or bound+1
// as soon as it is certain that the distance exceeds bound.
func boundedLevenshtein(a, b []rune, bound int) int {
	if d := len(a) - len(b); d > bound || -d > bound {
		return bound + 1
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		rowMin := i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
			rowMin = min(rowMin, cur[j])
		}
		if rowMin > bound {
			return bound + 1
		}
		prev, cur = cur, prev
	}
	if prev[len(b)] > bound {
		return bound + 1
	}
	return prev[len(b)]
}

// Refine keeps the candidates closest to source by edit distance, in their
// original order, and returns them with that distance. It returns nil for
// an empty input.
func Refine(source string, candidates []string) ([]string, int) {
	cands := make([][]rune, len(candidates))
	for i, c := range candidates {
		cands[i] = []rune(c)
	}
	idx, d := refine([]rune(source), cands)
	if idx == nil {
		return nil, 0
	}
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = candidates[j]
	}
	return out, d
}

func refine(source []rune, candidates [][]rune) ([]int, int) {
	var survivors []int
	best := -1
	for i, c := range candidates {
		bound := len(source) + len(c)
		if best >= 0 {
			bound = best
		}
		d := boundedLevenshtein(source, c, bound)
		switch {
		case best < 0 || d < best:
			best = d
			survivors = []int{i}
		case d == best:
			survivors = append(survivors, i)
		}
	}
	return survivors, best
}
