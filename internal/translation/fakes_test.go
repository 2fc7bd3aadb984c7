package translation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// dictTranslator looks translations up in a map keyed by "source>target:text"
type dictTranslator struct {
	dict  map[string]string
	fail  map[string]bool
	delay time.Duration

	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (d *dictTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	d.calls.Add(1)
	n := d.inFlight.Add(1)
	defer d.inFlight.Add(-1)
	for {
		seen := d.maxSeen.Load()
		if n <= seen || d.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	if d.delay > 0 {
		select {
		case <-time.After(d.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	key := fmt.Sprintf("%s>%s:%s", source, target, text)
	if d.fail[key] {
		return "", errors.New("service unavailable")
	}
	if translated, ok := d.dict[key]; ok {
		return translated, nil
	}
	return fmt.Sprintf("[%s] %s", target, text), nil
}

// recordingBatchTranslator records every batch it receives
type recordingBatchTranslator struct {
	mu      sync.Mutex
	batches [][]string
	codes   []string
	reply   func(texts []string) ([]string, error)
}

func (r *recordingBatchTranslator) TranslateBatch(ctx context.Context, texts []string, source, target string) ([]string, error) {
	r.mu.Lock()
	r.batches = append(r.batches, append([]string(nil), texts...))
	r.codes = append(r.codes, source+">"+target)
	r.mu.Unlock()

	if r.reply != nil {
		return r.reply(texts)
	}
	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = "b:" + text
	}
	return out, nil
}

// fixedPhraseProvider returns preset primary results
type fixedPhraseProvider struct {
	results map[int]Pair
	err     error
}

func (f *fixedPhraseProvider) Name() string { return "primary" }

func (f *fixedPhraseProvider) TranslateBatch(ctx context.Context, phrases map[int]string, source, target, verification string) (map[int]Pair, error) {
	return f.results, f.err
}

// countingObserver counts progress reports per provider
type countingObserver struct {
	mu       sync.Mutex
	started  map[string]int
	advanced map[string]int
	finished map[string]bool
}

func newCountingObserver() *countingObserver {
	return &countingObserver{
		started:  make(map[string]int),
		advanced: make(map[string]int),
		finished: make(map[string]bool),
	}
}

func (c *countingObserver) Started(provider string, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started[provider] = total
}

func (c *countingObserver) Advanced(provider string, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advanced[provider] += n
}

func (c *countingObserver) Finished(provider string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finished[provider] = true
}
