package phonemizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"codeberg.org/snonux/hyphipa/internal/logging"
)

// Breaker stops calling a provider after repeated failures and lets a
// single trial call through once the cooldown has passed.
type Breaker struct {
	inner Phonemizer
	cb    *gobreaker.CircuitBreaker
}

// NewBreaker wraps inner. The circuit opens after failures consecutive
// errors and stays open for cooldown.
func NewBreaker(inner Phonemizer, failures uint32, cooldown time.Duration, logger *zap.Logger) *Breaker {
	if failures == 0 {
		failures = 5
	}
	logger = logging.OrNop(logger)

	settings := gobreaker.Settings{
		Name:        inner.Name(),
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// Cancelled calls do not count as failures.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("phonemizer circuit changed state",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &Breaker{inner: inner, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Phonemize implements Phonemizer.
func (b *Breaker) Phonemize(ctx context.Context, words []string, lang string) ([]string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Phonemize(ctx, words, lang)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, b.inner.Name(), err)
	}
	if err != nil {
		return nil, err
	}
	transcriptions, _ := out.([]string)
	return transcriptions, nil
}

// Name returns the provider name
func (b *Breaker) Name() string {
	return b.inner.Name()
}

// IsAvailable reports the inner provider's availability, or ErrUnavailable
// while the circuit is open.
func (b *Breaker) IsAvailable() error {
	if b.cb.State() == gobreaker.StateOpen {
		return fmt.Errorf("%w: %s circuit open", ErrUnavailable, b.inner.Name())
	}
	return b.inner.IsAvailable()
}
