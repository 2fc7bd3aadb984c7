package translation

import "context"

// Translator translates a single text, the primary provider's interface
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// BatchTranslator translates a sequence of texts in one call. The result is
// unkeyed and must preserve the input order.
type BatchTranslator interface {
	TranslateBatch(ctx context.Context, texts []string, source, target string) ([]string, error)
}

// Namer resolves language codes to display names for prompts
type Namer interface {
	Name(code string) string
}

// Pair is the primary provider's output for one phrase
type Pair struct {
	Target       string
	Verification string // back-translation of Target
}

// Result is a reconciled translation of one vocabulary entry
type Result struct {
	Source       string
	Target       string
	Verification string
}

// PhraseProvider is the per-phrase adapter as seen by the orchestrator
type PhraseProvider interface {
	Name() string
	TranslateBatch(ctx context.Context, phrases map[int]string, source, target, verification string) (map[int]Pair, error)
}

// BatchProvider is the batching adapter as seen by the orchestrator
type BatchProvider interface {
	Name() string
	TranslateBatch(ctx context.Context, phrases map[int]string, source, target string) (map[int]string, error)
}

func languageName(names Namer, code string) string {
	if names == nil {
		return code
	}
	return names.Name(code)
}
