package translation

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/vocabdeck/internal/logger"
)

// BreakerSettings configures the circuit breaker around a provider
type BreakerSettings struct {
	MaxFailures uint32        // consecutive failures before the circuit opens
	Timeout     time.Duration // how long the circuit stays open
}

// DefaultBreakerSettings returns the settings used when none are configured
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{MaxFailures: 5, Timeout: 30 * time.Second}
}

// Breaker stops calling a provider after repeated failures so a broken
// backend fails the run quickly instead of once per phrase
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// NewBreaker creates a named circuit breaker
func NewBreaker(name string, settings BreakerSettings) *Breaker {
	if settings.MaxFailures == 0 {
		settings.MaxFailures = DefaultBreakerSettings().MaxFailures
	}
	if settings.Timeout == 0 {
		settings.Timeout = DefaultBreakerSettings().Timeout
	}

	return &Breaker{cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed", "provider", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})}
}

// State returns the current breaker state name
func (b *Breaker) State() string {
	return b.cb.State().String()
}

func (b *Breaker) execute(fn func() (interface{}, error)) (interface{}, error) {
	return b.cb.Execute(fn)
}

// WithBreaker guards a Translator with a circuit breaker
func WithBreaker(t Translator, b *Breaker) Translator {
	return &breakerTranslator{next: t, breaker: b}
}

// WithBatchBreaker guards a BatchTranslator with a circuit breaker
func WithBatchBreaker(t BatchTranslator, b *Breaker) BatchTranslator {
	return &breakerBatchTranslator{next: t, breaker: b}
}

type breakerTranslator struct {
	next    Translator
	breaker *Breaker
}

func (t *breakerTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	result, err := t.breaker.execute(func() (interface{}, error) {
		return t.next.Translate(ctx, text, source, target)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

type breakerBatchTranslator struct {
	next    BatchTranslator
	breaker *Breaker
}

func (t *breakerBatchTranslator) TranslateBatch(ctx context.Context, texts []string, source, target string) ([]string, error) {
	result, err := t.breaker.execute(func() (interface{}, error) {
		return t.next.TranslateBatch(ctx, texts, source, target)
	})
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}
