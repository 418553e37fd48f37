package transfer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"codeberg.org/snonux/hyphipa/internal/normalize"
)

// ErrNoCandidates is returned when the target is too short to hold the
// source's boundaries.
var ErrNoCandidates = errors.New("no boundary candidates")

// Strategy selects how boundaries are placed.
type Strategy string

const (
	// StrategyCombinatorial enumerates, scores and refines every candidate.
	StrategyCombinatorial Strategy = "combinatorial"
	// StrategyAlignment derives the boundaries from a sequence alignment.
	StrategyAlignment Strategy = "alignment"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(name string) (Strategy, error) {
	switch s := Strategy(strings.ToLower(name)); s {
	case StrategyCombinatorial, StrategyAlignment:
		return s, nil
	case "":
		return StrategyCombinatorial, nil
	default:
		return "", fmt.Errorf("unknown transfer strategy: %s", name)
	}
}

// Options tunes an Engine.
type Options struct {
	Strategy Strategy
	// MaxCandidates caps the combinatorial search; larger spaces fall back
	// to alignment. Zero means no cap.
	MaxCandidates uint64
	// ParallelThreshold is the candidate count above which scoring is
	// spread over Workers goroutines.
	ParallelThreshold uint64
	Workers           int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Strategy:          StrategyCombinatorial,
		MaxCandidates:     2_000_000,
		ParallelThreshold: 50_000,
		Workers:           runtime.NumCPU(),
	}
}

// Result describes one transfer.
type Result struct {
	Word       string // chosen candidate, or the unmarked target
	Candidates uint64 // size of the enumerated candidate space
	Score      int    // best similarity score
	Distance   int    // edit distance of the survivors
	Survivors  int    // candidates left after refinement
	Tied       bool   // a tie-breaker was consulted
	Aligned    bool   // the alignment strategy produced Word
	// TieBreakErr is set when the tie-breaker failed and the first-seen
	// candidate was used instead.
	TieBreakErr error
}

// Engine runs the boundary transfer pipeline. It is safe for concurrent use
// when its TieBreaker is.
type Engine struct {
	opts       Options
	tieBreaker TieBreaker
}

// NewEngine creates an engine. A nil tie-breaker means FirstSeen.
func NewEngine(opts Options, tb TieBreaker) *Engine {
	if opts.Strategy == "" {
		opts.Strategy = StrategyCombinatorial
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if tb == nil {
		tb = FirstSeen{}
	}
	return &Engine{opts: opts, tieBreaker: tb}
}

// Strategy returns the engine's configured strategy.
func (e *Engine) Strategy() Strategy {
	return e.opts.Strategy
}

// Transform transfers boundaries in whichever direction the inputs call for:
// the side that already carries markers is the source.
func (e *Engine) Transform(ctx context.Context, a, b string) (Result, error) {
	if !strings.ContainsRune(a, Marker) && strings.ContainsRune(b, Marker) {
		return e.Transfer(ctx, b, a)
	}
	return e.Transfer(ctx, a, b)
}

// Transfer places the boundaries of hyphenated onto phonetic. Without
// boundaries, or when phonetic is too short to hold them, the unmarked
// phonetic string is returned. Only context errors are returned.
func (e *Engine) Transfer(ctx context.Context, hyphenated, phonetic string) (Result, error) {
	target := []rune(Strip(phonetic))
	res := Result{Word: string(target)}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	k := CountMarkers(hyphenated)
	if k == 0 {
		return res, nil
	}
	count := Count(len(target), k)
	if count == 0 {
		return res, nil
	}
	if e.opts.Strategy == StrategyAlignment || (e.opts.MaxCandidates > 0 && count > e.opts.MaxCandidates) {
		res.Word = Align(hyphenated, string(target))
		res.Aligned = true
		return res, nil
	}

	sel, err := e.selectCandidates(ctx, hyphenated, target)
	if errors.Is(err, ErrNoCandidates) {
		return res, nil
	}
	if err != nil {
		return res, err
	}
	res.Candidates = count
	res.Score = sel.score
	res.Distance = sel.distance
	res.Survivors = len(sel.words)

	if len(sel.words) == 1 {
		res.Word = sel.words[0]
		return res, nil
	}

	res.Tied = true
	choice, err := e.tieBreaker.Break(ctx, hyphenated, sel.words)
	if err != nil {
		res.Word = sel.words[0]
		res.TieBreakErr = err
		return res, nil
	}
	res.Word = choice
	return res, nil
}

// Survivors returns the candidates left after scoring and refinement,
// before any tie-break, in first-seen order.
func (e *Engine) Survivors(ctx context.Context, hyphenated, phonetic string) ([]string, error) {
	sel, err := e.selectCandidates(ctx, hyphenated, []rune(Strip(phonetic)))
	if err != nil {
		return nil, err
	}
	return sel.words, nil
}

type selection struct {
	score    int
	distance int
	words    []string
}

func (e *Engine) selectCandidates(ctx context.Context, hyphenated string, target []rune) (selection, error) {
	k := CountMarkers(hyphenated)
	if k == 0 {
		return selection{words: []string{string(target)}}, nil
	}
	count := Count(len(target), k)
	if count == 0 {
		return selection{}, ErrNoCandidates
	}

	src, srcBounds := boundaries(hyphenated)
	normTarget := normalize.Runes(target)
	sc := newScorer(normalize.Runes(src), srcBounds, normTarget)

	best, seqs, err := e.bestScoring(ctx, sc, len(target), k, count)
	if err != nil {
		return selection{}, err
	}
	if len(seqs) == 0 {
		return selection{}, ErrNoCandidates
	}

	markedSource := normalize.Runes([]rune(hyphenated))
	cands := make([][]rune, len(seqs))
	for i, seq := range seqs {
		cands[i] = []rune(Insert(normTarget, seq))
	}
	survivors, distance := refine(markedSource, cands)

	words := make([]string, len(survivors))
	for i, idx := range survivors {
		words[i] = Insert(target, seqs[idx])
	}
	return selection{score: best, distance: distance, words: words}, nil
}

// bestScoring returns the maximal score and every position sequence reaching
// it, in lexicographic order. Large spaces are split by first position over
// the configured workers.
func (e *Engine) bestScoring(ctx context.Context, sc *scorer, n, k int, count uint64) (int, [][]int, error) {
	if count <= e.opts.ParallelThreshold || e.opts.Workers == 1 {
		best, seqs := scan(ctx, sc, nil, 1, n-2, k)
		return best, seqs, ctx.Err()
	}

	// The first position ranges over 1..n-1-k.
	type partial struct {
		best int
		seqs [][]int
	}
	firsts := n - 1 - k
	results := make([]partial, firsts)
	sem := make(chan struct{}, e.opts.Workers)
	var wg sync.WaitGroup
	for f := 1; f <= firsts; f++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(f int) {
			defer wg.Done()
			defer func() { <-sem }()
			best, seqs := scan(ctx, sc, []int{f}, f+1, n-2, k-1)
			results[f-1] = partial{best: best, seqs: seqs}
		}(f)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	best := -1
	for _, r := range results {
		if len(r.seqs) > 0 && r.best > best {
			best = r.best
		}
	}
	var seqs [][]int
	for _, r := range results {
		if r.best == best {
			seqs = append(seqs, r.seqs...)
		}
	}
	return best, seqs, nil
}

// scan enumerates prefix followed by every k-combination of [lo, hi] and
// keeps the best-scoring sequences.
func scan(ctx context.Context, sc *scorer, prefix []int, lo, hi, k int) (int, [][]int) {
	best := -1
	var seqs [][]int
	buf := make([]int, len(prefix)+k)
	copy(buf, prefix)
	visited := 0
	eachCombination(lo, hi, k, func(rest []int) bool {
		visited++
		if visited&0xfff == 0 && ctx.Err() != nil {
			return false
		}
		copy(buf[len(prefix):], rest)
		s := sc.score(buf)
		switch {
		case s > best:
			best = s
			seqs = [][]int{append([]int(nil), buf...)}
		case s == best:
			seqs = append(seqs, append([]int(nil), buf...))
		}
		return true
	})
	return best, seqs
}
