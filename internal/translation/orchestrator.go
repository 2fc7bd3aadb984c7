package translation

import (
	"context"
	"maps"
	"slices"

	"github.com/sourcegraph/conc/pool"

	"codeberg.org/snonux/vocabdeck/internal/reconcile"
)

// Orchestrator runs both providers over a vocabulary and reconciles their
// outputs per entry
type Orchestrator struct {
	primary   PhraseProvider
	secondary BatchProvider
	observer  Observer
}

// NewOrchestrator creates an orchestrator. A nil observer disables progress
// reporting.
func NewOrchestrator(primary PhraseProvider, secondary BatchProvider, observer Observer) *Orchestrator {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Orchestrator{primary: primary, secondary: secondary, observer: observer}
}

// TranslateVocabulary translates phrases with both providers concurrently.
// Any provider error aborts the run. Both providers must return a result
// for exactly every input id before any entry is reconciled.
func (o *Orchestrator) TranslateVocabulary(ctx context.Context, phrases map[int]string, source, target, verification string) (map[int]Result, error) {
	if len(phrases) == 0 {
		return map[int]Result{}, nil
	}

	var (
		primary   map[int]Pair
		secondary map[int]string
	)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		o.observer.Started(o.primary.Name(), len(phrases))
		defer o.observer.Finished(o.primary.Name())

		var err error
		primary, err = o.primary.TranslateBatch(ctx, phrases, source, target, verification)
		return err
	})
	p.Go(func(ctx context.Context) error {
		o.observer.Started(o.secondary.Name(), len(phrases))
		defer o.observer.Finished(o.secondary.Name())

		var err error
		secondary, err = o.secondary.TranslateBatch(ctx, phrases, source, target)
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	if err := checkCardinality(o.primary.Name(), phrases, primary); err != nil {
		return nil, err
	}
	if err := checkCardinality(o.secondary.Name(), phrases, secondary); err != nil {
		return nil, err
	}

	results := make(map[int]Result, len(phrases))
	for id, phrase := range phrases {
		a := primary[id]
		targetText, verificationText := reconcile.Reconcile(a.Target, secondary[id], a.Verification)
		results[id] = Result{
			Source:       phrase,
			Target:       targetText,
			Verification: verificationText,
		}
	}
	return results, nil
}

func checkCardinality[T any](provider string, phrases map[int]string, results map[int]T) error {
	var missing []int
	for _, id := range slices.Sorted(maps.Keys(phrases)) {
		if _, ok := results[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(results) != len(phrases) || len(missing) > 0 {
		return &ProviderMismatchError{
			Provider: provider,
			Expected: len(phrases),
			Got:      len(results),
			Missing:  missing,
		}
	}
	return nil
}
