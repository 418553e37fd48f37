package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/hyphipa/internal/cli"
	"codeberg.org/snonux/hyphipa/internal/ipacache"
	"codeberg.org/snonux/hyphipa/internal/language"
	"codeberg.org/snonux/hyphipa/internal/logging"
	"codeberg.org/snonux/hyphipa/internal/phonemizer"
	"codeberg.org/snonux/hyphipa/internal/translit"
	"codeberg.org/snonux/hyphipa/internal/transfer"
)

// Config tunes a batch run
type Config struct {
	Language      string
	Workers       int
	BatchSize     int
	PreserveOrder bool
	AtomicOutput  bool
	// SaveInterval is the period of the background cache save, zero
	// disables it.
	SaveInterval     time.Duration
	ProgressInterval time.Duration
	// Progress receives the progress bar when it is a terminal, Summary
	// the final report.
	Progress io.Writer
	Summary  io.Writer
}

func configFromFlags(flags *cli.Flags, lang string) Config {
	return Config{
		Language:         lang,
		Workers:          flags.Workers,
		BatchSize:        flags.BatchSize,
		PreserveOrder:    flags.PreserveOrder,
		AtomicOutput:     flags.AtomicOutput,
		SaveInterval:     flags.SaveInterval,
		ProgressInterval: 3 * time.Second,
		Progress:         os.Stderr,
		Summary:          os.Stdout,
	}
}

// Processor handles the batch processing logic
type Processor struct {
	config     Config
	cache      *ipacache.Cache
	phonemizer phonemizer.Phonemizer
	engine     *transfer.Engine
	translit   func(string) string
	// inverted maps transcriptions back to words for Restore.
	inverted map[string]string
	logger   *zap.Logger
	stats    *Stats
}

// NewProcessor creates a processor for forward batches in the given
// language: it loads the language's cache and sets up the phonemizer and
// the transfer engine described by flags.
func NewProcessor(ctx context.Context, flags *cli.Flags, lang string, logger *zap.Logger) (*Processor, error) {
	logger = logging.OrNop(logger)

	store, err := ipacache.NewStore(flags.CacheBackend, flags.CacheDir, lang)
	if err != nil {
		return nil, err
	}
	cache, err := ipacache.Load(store, logger)
	if err != nil {
		return nil, err
	}

	phon, err := phonemizer.NewPhonemizer(ctx, &phonemizer.Config{
		Provider:        flags.Phonemizer,
		Fallback:        flags.FallbackPhonemizer,
		Timeout:         flags.PhonemizerTimeout,
		ESpeakBinary:    flags.ESpeakBinary,
		OpenAIKey:       cli.GetOpenAIKey(),
		OpenAIModel:     flags.OpenAIModel,
		GeminiKey:       cli.GetGeminiKey(),
		GeminiModel:     flags.GeminiModel,
		Breaker:         !flags.NoBreaker,
		BreakerFailures: phonemizer.DefaultConfig().BreakerFailures,
		BreakerCooldown: phonemizer.DefaultConfig().BreakerCooldown,
		Logger:          logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up phonemizer: %w", err)
	}

	opts, err := engineOptions(flags)
	if err != nil {
		return nil, err
	}
	tb, err := tieBreaker(flags.TieBreak, newPartTranscriber(cache, phon, lang))
	if err != nil {
		return nil, err
	}

	return newProcessor(configFromFlags(flags, lang), cache, phon, transfer.NewEngine(opts, tb), logger), nil
}

// NewRestoreProcessor creates a processor for Restore. It reads every
// cache in the configured cache directory and needs no phonemizer.
func NewRestoreProcessor(flags *cli.Flags, logger *zap.Logger) (*Processor, error) {
	logger = logging.OrNop(logger)

	inverted, err := ipacache.LoadDir(flags.CacheDir)
	if err != nil {
		return nil, err
	}

	opts, err := engineOptions(flags)
	if err != nil {
		return nil, err
	}
	mode := flags.TieBreak
	if mode == transfer.TieBreakResynthesis {
		// Words cannot be resynthesized from transcription parts.
		logger.Info("resynthesis tie-break is not available for restore, using first candidate")
		mode = transfer.TieBreakFirst
	}
	tb, err := tieBreaker(mode, nil)
	if err != nil {
		return nil, err
	}

	p := newProcessor(configFromFlags(flags, ""), nil, nil, transfer.NewEngine(opts, tb), logger)
	p.inverted = inverted
	logger.Info("loaded caches for restore",
		zap.String("dir", flags.CacheDir),
		zap.Int("transcriptions", len(inverted)))
	return p, nil
}

func newProcessor(config Config, cache *ipacache.Cache, phon phonemizer.Phonemizer, engine *transfer.Engine, logger *zap.Logger) *Processor {
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.BatchSize < 1 {
		config.BatchSize = 1
	}
	if config.ProgressInterval <= 0 {
		config.ProgressInterval = 3 * time.Second
	}
	if config.Summary == nil {
		config.Summary = io.Discard
	}
	return &Processor{
		config:     config,
		cache:      cache,
		phonemizer: phon,
		engine:     engine,
		translit:   translit.ForLanguage(config.Language),
		logger:     logging.OrNop(logger).Named("processor"),
		stats:      &Stats{},
	}
}

func engineOptions(flags *cli.Flags) (transfer.Options, error) {
	strategy, err := transfer.ParseStrategy(flags.Strategy)
	if err != nil {
		return transfer.Options{}, err
	}
	opts := transfer.DefaultOptions()
	opts.Strategy = strategy
	opts.MaxCandidates = flags.MaxCandidates
	if flags.Workers > 0 {
		opts.Workers = flags.Workers
	}
	return opts, nil
}

func tieBreaker(mode string, t transfer.Transcriber) (transfer.TieBreaker, error) {
	switch strings.ToLower(mode) {
	case transfer.TieBreakResynthesis, "":
		if t == nil {
			return transfer.FirstSeen{}, nil
		}
		return transfer.NewResynthesis(t), nil
	case transfer.TieBreakInteractive:
		return transfer.NewInteractive(os.Stdin, os.Stderr), nil
	case transfer.TieBreakFirst:
		return transfer.FirstSeen{}, nil
	default:
		return nil, fmt.Errorf("unknown tie-break mode: %s", mode)
	}
}

// Stats returns the counters of the processor's runs
func (p *Processor) Stats() *Stats {
	return p.stats
}

// Language returns the language the processor transcribes
func (p *Processor) Language() string {
	return p.config.Language
}

// Run transcribes every word of inputFile and writes the hyphenated
// transcriptions to outputFile
func (p *Processor) Run(ctx context.Context, inputFile, outputFile string) error {
	if p.phonemizer == nil || p.cache == nil {
		return fmt.Errorf("processor is not set up for transcription")
	}
	p.logger.Info("starting batch",
		zap.String("input", inputFile),
		zap.String("output", outputFile),
		zap.String("language", p.config.Language),
		zap.String("language_name", language.DisplayName(p.config.Language)),
		zap.String("phonemizer", p.phonemizer.Name()),
		zap.Int("cached", p.cache.Len()))

	return p.runBatch(ctx, inputFile, outputFile, p.transcribeChunk)
}

// Restore reads hyphenated transcriptions from inputFile and writes the
// cached words they came from, hyphenated accordingly, to outputFile
func (p *Processor) Restore(ctx context.Context, inputFile, outputFile string) error {
	if p.inverted == nil {
		return fmt.Errorf("processor is not set up for restore")
	}
	p.logger.Info("starting restore",
		zap.String("input", inputFile),
		zap.String("output", outputFile),
		zap.Int("transcriptions", len(p.inverted)))

	return p.runBatch(ctx, inputFile, outputFile, p.restoreChunk)
}
