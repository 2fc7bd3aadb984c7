package testutil

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sync"
)

// MockTranslator mocks a single-phrase translation service. It is safe for
// concurrent use.
type MockTranslator struct {
	Translations map[string]string // text -> translation
	Errors       map[string]error  // text -> error

	mu    sync.Mutex
	calls []string
}

// Translate mocks translating text. Unknown texts translate to "text[toLang]".
func (m *MockTranslator) Translate(ctx context.Context, text, fromLang, toLang string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, fmt.Sprintf("Translate: %s (%s->%s)", text, fromLang, toLang))
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err, ok := m.Errors[text]; ok {
		return "", err
	}
	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}
	return fmt.Sprintf("%s[%s]", text, toLang), nil
}

// Calls returns the recorded calls in sorted order
func (m *MockTranslator) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := slices.Clone(m.calls)
	slices.Sort(calls)
	return calls
}

// MockBatchTranslator mocks a batch translation service
type MockBatchTranslator struct {
	Translations map[string]string // text -> translation
	Err          error

	mu      sync.Mutex
	batches [][]string
}

// TranslateBatch mocks translating texts in order. Unknown texts translate
// to "text[target]".
func (m *MockBatchTranslator) TranslateBatch(ctx context.Context, texts []string, source, target string) ([]string, error) {
	m.mu.Lock()
	m.batches = append(m.batches, slices.Clone(texts))
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}

	out := make([]string, len(texts))
	for i, text := range texts {
		if translation, ok := m.Translations[text]; ok {
			out[i] = translation
		} else {
			out[i] = fmt.Sprintf("%s[%s]", text, target)
		}
	}
	return out, nil
}

// Batches returns the texts of every call in call order
func (m *MockBatchTranslator) Batches() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.batches)
}

// MockAudioProvider mocks a text-to-speech provider by writing the text
// into the output file
type MockAudioProvider struct {
	Errors map[string]error // text -> error

	mu    sync.Mutex
	calls []string
}

// GenerateAudio writes "audio:<language>:<text>" to outputFile
func (m *MockAudioProvider) GenerateAudio(ctx context.Context, text, language, outputFile string) error {
	m.mu.Lock()
	m.calls = append(m.calls, text)
	m.mu.Unlock()

	if err, ok := m.Errors[text]; ok {
		return err
	}
	return os.WriteFile(outputFile, []byte("audio:"+language+":"+text), 0644)
}

// Name returns the provider name
func (m *MockAudioProvider) Name() string {
	return "mock"
}

// IsAvailable always succeeds
func (m *MockAudioProvider) IsAvailable() error {
	return nil
}

// Calls returns the spoken texts in call order
func (m *MockAudioProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}
