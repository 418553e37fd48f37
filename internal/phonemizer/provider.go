package phonemizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/hyphipa/internal/logging"
)

// Placeholder stands in for a transcription that could not be obtained.
const Placeholder = "?"

// ErrUnavailable is returned when a provider cannot be used at all.
var ErrUnavailable = errors.New("phonemizer unavailable")

// Phonemizer defines the interface for transcription providers
type Phonemizer interface {
	// Phonemize returns one transcription per word, in order, for the
	// given espeak-ng language id.
	Phonemize(ctx context.Context, words []string, lang string) ([]string, error)

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds configuration for building a phonemizer
type Config struct {
	Provider string // "espeak", "openai" or "gemini"
	Fallback string // optional provider used when the primary fails
	Timeout  time.Duration

	ESpeakBinary string

	OpenAIKey   string
	OpenAIModel string

	GeminiKey   string
	GeminiModel string

	// Breaker wraps every provider in a circuit breaker.
	Breaker         bool
	BreakerFailures uint32
	BreakerCooldown time.Duration

	Logger *zap.Logger
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:        "espeak",
		Timeout:         30 * time.Second,
		ESpeakBinary:    "espeak-ng",
		OpenAIModel:     "gpt-4o-mini",
		GeminiModel:     "gemini-2.0-flash",
		Breaker:         true,
		BreakerFailures: 5,
		BreakerCooldown: time.Minute,
	}
}

// NewPhonemizer creates the configured provider, wrapped in a circuit
// breaker and a fallback as requested.
func NewPhonemizer(ctx context.Context, config *Config) (Phonemizer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	logger := logging.OrNop(config.Logger).Named("phonemizer")

	primary, err := newProvider(ctx, config.Provider, config, logger)
	if err != nil {
		return nil, err
	}
	if config.Breaker {
		primary = NewBreaker(primary, config.BreakerFailures, config.BreakerCooldown, logger)
	}
	if config.Fallback == "" || config.Fallback == config.Provider {
		return primary, nil
	}

	fallback, err := newProvider(ctx, config.Fallback, config, logger)
	if err != nil {
		return nil, fmt.Errorf("fallback phonemizer: %w", err)
	}
	if config.Breaker {
		fallback = NewBreaker(fallback, config.BreakerFailures, config.BreakerCooldown, logger)
	}
	return NewWithFallback(primary, fallback, logger), nil
}

func newProvider(ctx context.Context, name string, config *Config, logger *zap.Logger) (Phonemizer, error) {
	switch strings.ToLower(name) {
	case "espeak", "espeak-ng", "":
		return NewESpeak(&ESpeakConfig{Binary: config.ESpeakBinary, Timeout: config.Timeout}, logger)
	case "openai":
		return NewOpenAI(config.OpenAIKey, config.OpenAIModel, config.Timeout, logger)
	case "gemini":
		return NewGemini(ctx, config.GeminiKey, config.GeminiModel, config.Timeout, logger)
	default:
		return nil, fmt.Errorf("unknown phonemizer: %s", name)
	}
}

// WithFallback wraps a primary provider with a fallback option
type WithFallback struct {
	primary  Phonemizer
	fallback Phonemizer
	logger   *zap.Logger
}

// NewWithFallback creates a provider that falls back to secondary if primary fails
func NewWithFallback(primary, fallback Phonemizer, logger *zap.Logger) Phonemizer {
	return &WithFallback{
		primary:  primary,
		fallback: fallback,
		logger:   logging.OrNop(logger),
	}
}

// Phonemize tries the primary provider first, falls back to secondary on error
func (p *WithFallback) Phonemize(ctx context.Context, words []string, lang string) ([]string, error) {
	out, err := p.primary.Phonemize(ctx, words, lang)
	if err == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	p.logger.Warn("primary phonemizer failed, falling back",
		zap.String("primary", p.primary.Name()),
		zap.String("fallback", p.fallback.Name()),
		zap.Int("words", len(words)),
		zap.Error(err))
	return p.fallback.Phonemize(ctx, words, lang)
}

// Name returns the provider name
func (p *WithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *WithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("%w: primary=%v, fallback=%v", ErrUnavailable, primaryErr, fallbackErr)
}

// withTimeout bounds a single provider call.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// fillPlaceholders trims every transcription and replaces empty ones with
// the Placeholder, logging which word was affected.
func fillPlaceholders(out, words []string, logger *zap.Logger) []string {
	for i := range out {
		out[i] = strings.TrimSpace(out[i])
		if out[i] == "" {
			logger.Warn("empty transcription, using placeholder",
				zap.String("word", words[i]),
				zap.String("placeholder", Placeholder))
			out[i] = Placeholder
		}
	}
	return out
}

// parseModelLines splits a language model answer into one transcription per
// word. Blank lines and list numbering are ignored.
func parseModelLines(content string, words []string) ([]string, error) {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		line = strings.TrimLeft(line, "0123456789.) ")
		line = strings.Trim(line, "/[]")
		lines = append(lines, line)
	}
	if len(lines) != len(words) {
		return nil, fmt.Errorf("expected %d transcriptions, got %d", len(words), len(lines))
	}
	return lines, nil
}

// modelPrompt asks a language model for espeak-like IPA output.
func modelPrompt(words []string, language string) string {
	return fmt.Sprintf(`Transcribe each of the following %s words into IPA, the way espeak-ng --ipa would.
Answer with exactly one transcription per line, in the same order as the input.
Mark stress with ˈ and ˌ. Do not add numbering, slashes, brackets or any other text.

%s`, language, strings.Join(words, "\n"))
}
