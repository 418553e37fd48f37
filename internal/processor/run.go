package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"codeberg.org/snonux/hyphipa/internal/batch"
	"codeberg.org/snonux/hyphipa/internal/phonemizer"
	"codeberg.org/snonux/hyphipa/internal/transfer"
)

// chunkFunc turns a chunk of input words into output lines, one per word.
type chunkFunc func(ctx context.Context, words []string) ([]string, error)

type chunkResult struct {
	index int
	lines []string
}

// runBatch reads inputFile, spreads its words over the worker pool in
// chunks and writes the results to outputFile. The cache, if any, is
// saved periodically and once more at the end, even when ctx was
// cancelled.
func (p *Processor) runBatch(ctx context.Context, inputFile, outputFile string, process chunkFunc) error {
	list, err := batch.ReadWordList(inputFile)
	if err != nil {
		return err
	}
	p.recordSkipped(list.Skipped)

	sink, err := batch.CreateSink(outputFile, p.config.AtomicOutput)
	if err != nil {
		return err
	}

	stopAutosave := p.startAutosave(ctx)
	prog := newProgress(len(list.Words), p.config, p.logger)

	writeErr := p.processChunks(ctx, chunk(list.Words, p.config.BatchSize), process, sink, prog)

	prog.Finish()
	stopAutosave()

	if p.cache != nil {
		if err := p.cache.Save(); err != nil {
			sink.Abort() //nolint:errcheck
			return fmt.Errorf("failed to save ipa cache: %w", err)
		}
	}

	if writeErr == nil {
		writeErr = ctx.Err()
	}
	if writeErr != nil {
		sink.Abort() //nolint:errcheck
		return fmt.Errorf("batch %s aborted: %w", inputFile, writeErr)
	}
	if err := sink.Commit(); err != nil {
		return err
	}

	p.printSummary(inputFile, outputFile, sink.Lines())
	return nil
}

// processChunks runs the worker pool and writes chunk results as they
// become ready. It returns the first write or processing error.
func (p *Processor) processChunks(ctx context.Context, chunks [][]string, process chunkFunc, sink *batch.Sink, prog progress) error {
	jobs := make(chan int)
	results := make(chan chunkResult)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		errMu    sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		errMu.Lock()
		defer errMu.Unlock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}
	failed := func() error {
		errMu.Lock()
		defer errMu.Unlock()
		return firstErr
	}

	var wg sync.WaitGroup
	for w := 0; w < p.config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				lines, err := process(ctx, chunks[i])
				if err != nil {
					fail(err)
					continue
				}
				results <- chunkResult{index: i, lines: lines}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range chunks {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	seq := newSequencer(p.config.PreserveOrder)
	for res := range results {
		for _, lines := range seq.push(res) {
			if failed() != nil {
				continue
			}
			if err := sink.WriteLines(lines); err != nil {
				fail(err)
				continue
			}
			prog.Add(len(lines))
		}
	}

	if err := failed(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (p *Processor) recordSkipped(skipped []batch.SkippedLine) {
	p.stats.Skipped.Add(int64(len(skipped)))
	for _, s := range skipped {
		if s.Reason == batch.SkipBlank {
			continue
		}
		p.logger.Warn("skipping input line",
			zap.Int("line", s.Line),
			zap.String("reason", s.Reason))
	}
}

// startAutosave saves the cache in the background until the returned
// function is called.
func (p *Processor) startAutosave(ctx context.Context) func() {
	if p.cache == nil || p.config.SaveInterval <= 0 {
		return func() {}
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.cache.Autosave(ctx, p.config.SaveInterval, func(err error) {
			p.logger.Warn("periodic cache save failed", zap.Error(err))
		})
	}()
	return func() {
		cancel()
		<-done
	}
}

// transcribeChunk phonemizes the cache misses of a chunk in one call and
// transfers the boundaries of every word onto its transcription.
func (p *Processor) transcribeChunk(ctx context.Context, words []string) ([]string, error) {
	stripped := make([]string, len(words))
	ipa := make(map[string]string, len(words))
	var misses []string

	for i, w := range words {
		s := transfer.Strip(w)
		stripped[i] = s
		if _, ok := ipa[s]; ok {
			p.stats.CacheHits.Add(1)
			continue
		}
		if t, ok := p.cache.Lookup(s); ok {
			ipa[s] = t
			p.stats.CacheHits.Add(1)
			continue
		}
		p.stats.CacheMisses.Add(1)
		ipa[s] = phonemizer.Placeholder
		misses = append(misses, s)
	}

	if len(misses) > 0 {
		got, err := p.phonemizer.Phonemize(ctx, misses, p.config.Language)
		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			p.logger.Warn("phonemizer failed, using placeholders for chunk",
				zap.Int("words", len(misses)),
				zap.Error(err))
		default:
			for i, s := range misses {
				if i >= len(got) || got[i] == "" || got[i] == phonemizer.Placeholder {
					continue
				}
				ipa[s] = got[i]
				p.cache.Insert(s, got[i])
			}
		}
	}

	lines := make([]string, len(words))
	for i, w := range words {
		line, err := p.transferWord(ctx, w, ipa[stripped[i]])
		if err != nil {
			return nil, err
		}
		lines[i] = line
	}
	return lines, nil
}

func (p *Processor) transferWord(ctx context.Context, word, ipa string) (string, error) {
	p.stats.Words.Add(1)
	if ipa == phonemizer.Placeholder {
		p.stats.Placeholders.Add(1)
		p.logger.Warn("no transcription, writing placeholder", zap.String("word", word))
		return ipa, nil
	}

	source := word
	if p.translit != nil {
		source = p.translit(word)
	}
	res, err := p.engine.Transfer(ctx, source, ipa)
	if err != nil {
		return "", err
	}
	p.record(word, res, transfer.CountMarkers(source))
	return res.Word, nil
}

// restoreChunk looks up the word of every hyphenated transcription and
// transfers the boundaries back onto it. Unknown transcriptions are
// written unchanged.
func (p *Processor) restoreChunk(ctx context.Context, lines []string) ([]string, error) {
	out := make([]string, len(lines))
	for i, line := range lines {
		p.stats.Words.Add(1)
		word, ok := p.inverted[transfer.Strip(line)]
		if !ok {
			p.stats.CacheMisses.Add(1)
			p.stats.Fallbacks.Add(1)
			p.logger.Warn("transcription not found in caches, keeping it", zap.String("ipa", line))
			out[i] = line
			continue
		}
		p.stats.CacheHits.Add(1)

		res, err := p.engine.Transfer(ctx, line, word)
		if err != nil {
			return nil, err
		}
		p.record(line, res, transfer.CountMarkers(line))
		out[i] = res.Word
	}
	return out, nil
}

// record updates the counters for one transfer result.
func (p *Processor) record(word string, res transfer.Result, markers int) {
	if res.Tied {
		p.stats.Ties.Add(1)
	}
	if res.Aligned && p.engine.Strategy() != transfer.StrategyAlignment {
		p.stats.AlignmentFallbacks.Add(1)
		p.logger.Debug("candidate space too large, used alignment", zap.String("word", word))
	}
	switch {
	case res.TieBreakErr != nil:
		p.stats.Fallbacks.Add(1)
		p.logger.Warn("tie-break failed, using first candidate",
			zap.String("word", word),
			zap.String("result", res.Word),
			zap.Error(res.TieBreakErr))
	case markers > 0 && transfer.CountMarkers(res.Word) == 0:
		p.stats.Fallbacks.Add(1)
		p.logger.Warn("could not place boundaries, writing unmarked transcription",
			zap.String("word", word),
			zap.String("result", res.Word))
	case res.Aligned && transfer.CountMarkers(res.Word) < markers:
		p.stats.Fallbacks.Add(1)
		p.logger.Warn("alignment dropped boundaries",
			zap.String("word", word),
			zap.String("result", res.Word),
			zap.Int("placed", transfer.CountMarkers(res.Word)),
			zap.Int("expected", markers))
	default:
		p.logger.Debug("transferred",
			zap.String("word", word),
			zap.String("result", res.Word),
			zap.Int("score", res.Score),
			zap.Int("distance", res.Distance))
	}
}

func chunk(words []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(words); start += size {
		end := min(start+size, len(words))
		chunks = append(chunks, words[start:end])
	}
	return chunks
}

// sequencer releases chunk results in submission order, or as they come
// when order does not matter.
type sequencer struct {
	ordered bool
	next    int
	pending map[int][]string
}

func newSequencer(ordered bool) *sequencer {
	return &sequencer{ordered: ordered, pending: make(map[int][]string)}
}

func (s *sequencer) push(res chunkResult) [][]string {
	if !s.ordered {
		return [][]string{res.lines}
	}
	s.pending[res.index] = res.lines
	var ready [][]string
	for {
		lines, ok := s.pending[s.next]
		if !ok {
			return ready
		}
		delete(s.pending, s.next)
		ready = append(ready, lines)
		s.next++
	}
}
