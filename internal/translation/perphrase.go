package translation

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/sourcegraph/conc/pool"
)

// DefaultWorkers bounds the concurrent primary provider calls
const DefaultWorkers = 8

// PerPhraseAdapter translates every phrase with its own call and
// back-translates each result into the verification language
type PerPhraseAdapter struct {
	name       string
	translator Translator
	workers    int
	observer   Observer
}

// NewPerPhraseAdapter creates the primary provider adapter
func NewPerPhraseAdapter(name string, translator Translator, workers int, observer Observer) *PerPhraseAdapter {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &PerPhraseAdapter{
		name:       name,
		translator: translator,
		workers:    workers,
		observer:   observer,
	}
}

// Name returns the provider name used in errors and progress reports
func (a *PerPhraseAdapter) Name() string {
	return a.name
}

// TranslateBatch translates all phrases concurrently. Completion order is
// arbitrary; results are keyed by id. The first failure cancels the
// remaining calls and fails the whole batch.
func (a *PerPhraseAdapter) TranslateBatch(ctx context.Context, phrases map[int]string, source, target, verification string) (map[int]Pair, error) {
	results := newResultSet[Pair](len(phrases))

	p := pool.New().
		WithMaxGoroutines(a.workers).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()

	for _, id := range slices.Sorted(maps.Keys(phrases)) {
		phrase := phrases[id]
		p.Go(func(ctx context.Context) error {
			pair, err := a.translatePhrase(ctx, phrase, source, target, verification)
			if err != nil {
				return &ProviderError{Provider: a.name, ID: id, Phrase: phrase, Err: err}
			}
			results.Add(id, pair)
			a.observer.Advanced(a.name, 1)
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return results.GetAll(), nil
}

func (a *PerPhraseAdapter) translatePhrase(ctx context.Context, phrase, source, target, verification string) (Pair, error) {
	translated, err := a.translator.Translate(ctx, phrase, source, target)
	if err != nil {
		return Pair{}, err
	}

	back, err := a.translator.Translate(ctx, translated, target, verification)
	if err != nil {
		return Pair{}, fmt.Errorf("back-translation of %q: %w", translated, err)
	}

	return Pair{Target: translated, Verification: back}, nil
}
