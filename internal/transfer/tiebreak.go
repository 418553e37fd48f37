package transfer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"codeberg.org/snonux/hyphipa/internal/normalize"
)

// Tie-break strategy names as used in configuration.
const (
	TieBreakResynthesis = "resynthesis"
	TieBreakInteractive = "interactive"
	TieBreakFirst       = "first"
)

// TieBreaker picks one candidate out of several that scored and refined
// equally. candidates is never empty and is in first-seen order. On error
// the returned candidate is still usable.
type TieBreaker interface {
	Break(ctx context.Context, source string, candidates []string) (string, error)
}

// FirstSeen always picks the first candidate.
type FirstSeen struct{}

// Break implements TieBreaker.
func (FirstSeen) Break(_ context.Context, _ string, candidates []string) (string, error) {
	return candidates[0], nil
}

// Interactive asks a human to choose. Prompts from concurrent callers are
// serialized so they never interleave.
type Interactive struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// NewInteractive creates a tie-breaker reading choices from in and writing
// prompts to out.
func NewInteractive(in io.Reader, out io.Writer) *Interactive {
	return &Interactive{in: bufio.NewReader(in), out: out}
}

// Break prints the candidates and reads a 1-based choice. Invalid input
// re-prompts, end of input picks the first candidate.
func (t *Interactive) Break(ctx context.Context, source string, candidates []string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.out, "\nTie for %s:\n", source)
	for i, c := range candidates {
		fmt.Fprintf(t.out, "  %d) %s\n", i+1, c)
	}

	for {
		if err := ctx.Err(); err != nil {
			return candidates[0], err
		}
		fmt.Fprintf(t.out, "Select [1-%d]: ", len(candidates))

		line, readErr := t.in.ReadString('\n')
		input := strings.TrimSpace(line)
		if choice, err := strconv.Atoi(input); err == nil && choice >= 1 && choice <= len(candidates) {
			return candidates[choice-1], nil
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				fmt.Fprintf(t.out, "\nNo selection, using %s\n", candidates[0])
				return candidates[0], nil
			}
			return candidates[0], fmt.Errorf("failed to read selection: %w", readErr)
		}
		fmt.Fprintf(t.out, "Invalid selection %q, enter a number between 1 and %d\n", input, len(candidates))
	}
}

// Transcriber returns a transcription for each of words, in order.
type Transcriber interface {
	Transcribe(ctx context.Context, words []string) ([]string, error)
}

// Resynthesis transcribes every part of the source separately and picks the
// candidate whose parts agree best with those transcriptions.
type Resynthesis struct {
	transcriber Transcriber
}

// NewResynthesis creates a tie-breaker backed by t.
func NewResynthesis(t Transcriber) *Resynthesis {
	return &Resynthesis{transcriber: t}
}

// Break implements TieBreaker. Candidates are scored by the sum over parts of
// the characters shared between the part's transcription and the
// corresponding candidate part. Equal scores keep the earlier candidate.
func (r *Resynthesis) Break(ctx context.Context, source string, candidates []string) (string, error) {
	parts := strings.Split(source, string(Marker))
	transcribed, err := r.transcriber.Transcribe(ctx, parts)
	if err != nil {
		return candidates[0], fmt.Errorf("failed to transcribe parts of %s: %w", source, err)
	}
	if len(transcribed) != len(parts) {
		return candidates[0], fmt.Errorf("got %d transcriptions for %d parts of %s",
			len(transcribed), len(parts), source)
	}

	want := make([]string, len(transcribed))
	for i, t := range transcribed {
		want[i] = normalize.String(t)
	}

	best, bestScore := candidates[0], -1
	for _, c := range candidates {
		cparts := strings.Split(c, string(Marker))
		score := 0
		for i := 0; i < len(cparts) && i < len(want); i++ {
			score += Overlap(want[i], normalize.String(cparts[i]))
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best, nil
}
