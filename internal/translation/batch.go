package translation

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"codeberg.org/snonux/vocabdeck/internal/language"
)

// DefaultBatchSize is the number of phrases per secondary provider call
const DefaultBatchSize = 20

// BatchAdapter sends phrases to a BatchTranslator in fixed-size batches, one
// batch after the other, in ascending id order
type BatchAdapter struct {
	name       string
	translator BatchTranslator
	batchSize  int
	observer   Observer
}

// NewBatchAdapter creates the secondary provider adapter
func NewBatchAdapter(name string, translator BatchTranslator, batchSize int, observer Observer) *BatchAdapter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &BatchAdapter{
		name:       name,
		translator: translator,
		batchSize:  batchSize,
		observer:   observer,
	}
}

// Name returns the provider name used in errors and progress reports
func (a *BatchAdapter) Name() string {
	return a.name
}

// TranslateBatch translates all phrases. The provider only knows base
// language codes, so regional variants are stripped.
func (a *BatchAdapter) TranslateBatch(ctx context.Context, phrases map[int]string, source, target string) (map[int]string, error) {
	source = language.BaseCode(source)
	target = language.BaseCode(target)

	ids := slices.Sorted(maps.Keys(phrases))
	results := make(map[int]string, len(ids))

	for _, chunk := range splitIDs(ids, a.batchSize) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		texts := make([]string, len(chunk))
		for i, id := range chunk {
			texts[i] = phrases[id]
		}

		batch := fmt.Sprintf("ids %d-%d", chunk[0], chunk[len(chunk)-1])
		translated, err := a.translator.TranslateBatch(ctx, texts, source, target)
		if err != nil {
			return nil, &ProviderError{Provider: a.name, Batch: batch, Err: err}
		}
		if len(translated) != len(chunk) {
			return nil, &ProviderMismatchError{Provider: a.name, Expected: len(chunk), Got: len(translated)}
		}

		for i, id := range chunk {
			results[id] = translated[i]
		}
		a.observer.Advanced(a.name, len(chunk))
	}

	return results, nil
}

// splitIDs divides ids into consecutive chunks of at most size elements
func splitIDs(ids []int, size int) [][]int {
	var chunks [][]int
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}
