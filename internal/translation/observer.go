package translation

import (
	"sync"

	"codeberg.org/snonux/vocabdeck/internal/logger"
)

// Observer receives progress reports. Calls may come from several goroutines.
type Observer interface {
	Started(provider string, total int)
	Advanced(provider string, n int)
	Finished(provider string)
}

// NopObserver ignores all progress reports
type NopObserver struct{}

func (NopObserver) Started(string, int)  {}
func (NopObserver) Advanced(string, int) {}
func (NopObserver) Finished(string)      {}

// LogObserver writes progress to the logger
type LogObserver struct {
	mu       sync.Mutex
	progress map[string]*providerProgress
}

type providerProgress struct {
	done, total int
}

// NewLogObserver creates a progress observer backed by the logger
func NewLogObserver() *LogObserver {
	return &LogObserver{progress: make(map[string]*providerProgress)}
}

func (o *LogObserver) Started(provider string, total int) {
	o.mu.Lock()
	o.progress[provider] = &providerProgress{total: total}
	o.mu.Unlock()

	logger.Info("translation started", "provider", provider, "phrases", total)
}

func (o *LogObserver) Advanced(provider string, n int) {
	o.mu.Lock()
	p, ok := o.progress[provider]
	if !ok {
		p = &providerProgress{}
		o.progress[provider] = p
	}
	p.done += n
	done, total := p.done, p.total
	o.mu.Unlock()

	logger.Debug("translation progress", "provider", provider, "done", done, "total", total)
}

func (o *LogObserver) Finished(provider string) {
	o.mu.Lock()
	done := 0
	if p, ok := o.progress[provider]; ok {
		done = p.done
	}
	o.mu.Unlock()

	logger.Info("translation finished", "provider", provider, "phrases", done)
}

// Done returns how many phrases a provider has completed
func (o *LogObserver) Done(provider string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	if p, ok := o.progress[provider]; ok {
		return p.done
	}
	return 0
}
