package phonemizer

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/hyphipa/internal/logging"
)

// ESpeakConfig holds configuration for espeak-ng transcription
type ESpeakConfig struct {
	Binary  string        // executable name or path (default: espeak-ng)
	Timeout time.Duration // per invocation
}

// DefaultESpeakConfig returns the default espeak-ng configuration
func DefaultESpeakConfig() *ESpeakConfig {
	return &ESpeakConfig{
		Binary:  "espeak-ng",
		Timeout: 30 * time.Second,
	}
}

// runFunc executes binary with args, feeding stdin, and returns stdout.
type runFunc func(ctx context.Context, binary string, args []string, stdin string) (string, error)

// ESpeak provides an interface to the espeak-ng speech synthesizer, used
// here only for its IPA output.
type ESpeak struct {
	config *ESpeakConfig
	logger *zap.Logger
	run    runFunc
}

// NewESpeak creates a new ESpeak instance with the given configuration
func NewESpeak(config *ESpeakConfig, logger *zap.Logger) (*ESpeak, error) {
	if config == nil {
		config = DefaultESpeakConfig()
	}
	if config.Binary == "" {
		config.Binary = "espeak-ng"
	}

	// Check if espeak-ng is installed
	if err := checkESpeakInstalled(config.Binary); err != nil {
		return nil, err
	}

	return newESpeakWithRunner(config, logger, runCommand), nil
}

func newESpeakWithRunner(config *ESpeakConfig, logger *zap.Logger, run runFunc) *ESpeak {
	return &ESpeak{
		config: config,
		logger: logging.OrNop(logger).With(zap.String("provider", "espeak-ng")),
		run:    run,
	}
}

// Phonemize runs one espeak-ng process for the whole batch, one word per
// line. If the output does not have one line per word the words are
// transcribed one at a time instead.
func (e *ESpeak) Phonemize(ctx context.Context, words []string, lang string) ([]string, error) {
	if len(words) == 0 {
		return nil, nil
	}

	callCtx, cancel := withTimeout(ctx, e.config.Timeout)
	defer cancel()

	out, err := e.run(callCtx, e.config.Binary, espeakArgs(lang), strings.Join(words, "\n")+"\n")
	if err != nil {
		return nil, err
	}

	lines := splitOutput(out)
	if len(lines) != len(words) {
		e.logger.Warn("espeak-ng output does not match input, transcribing words one by one",
			zap.Int("words", len(words)),
			zap.Int("lines", len(lines)))
		return e.phonemizeEach(ctx, words, lang)
	}
	return fillPlaceholders(lines, words, e.logger), nil
}

func (e *ESpeak) phonemizeEach(ctx context.Context, words []string, lang string) ([]string, error) {
	out := make([]string, len(words))
	for i, word := range words {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		callCtx, cancel := withTimeout(ctx, e.config.Timeout)
		result, err := e.run(callCtx, e.config.Binary, espeakArgs(lang), word+"\n")
		cancel()
		if err != nil {
			e.logger.Warn("espeak-ng failed for word", zap.String("word", word), zap.Error(err))
			continue
		}
		out[i] = strings.Join(strings.Fields(result), " ")
	}
	return fillPlaceholders(out, words, e.logger), nil
}

// Name returns the provider name
func (e *ESpeak) Name() string {
	return "espeak-ng"
}

// IsAvailable checks if espeak-ng is installed
func (e *ESpeak) IsAvailable() error {
	return checkESpeakInstalled(e.config.Binary)
}

func espeakArgs(lang string) []string {
	return []string{"-v", lang, "--ipa", "-q"}
}

// splitOutput splits espeak-ng output into lines, dropping the final
// newline only.
func splitOutput(out string) []string {
	out = strings.ReplaceAll(out, "\r\n", "\n")
	out = strings.TrimSuffix(out, "\n")
	return strings.Split(out, "\n")
}

func runCommand(ctx context.Context, binary string, args []string, stdin string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = strings.NewReader(stdin)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s failed: %w\nOutput: %s", binary, err, stderr.String())
	}
	return string(output), nil
}

// checkESpeakInstalled verifies that espeak-ng is available on the system
func checkESpeakInstalled(binary string) error {
	cmd := exec.Command(binary, "--version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s is not installed or not in PATH: %v", ErrUnavailable, binary, err)
	}
	return nil
}
