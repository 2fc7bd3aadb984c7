package audio

import (
	"context"
	"fmt"

	"codeberg.org/snonux/vocabdeck/internal/logger"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// GenerateAudio speaks text in the given language and saves it to outputFile
	GenerateAudio(ctx context.Context, text, language, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Namer resolves language codes to display names
type Namer interface {
	Name(code string) string
}

// Config holds common configuration for audio providers
type Config struct {
	Provider string // Provider name: "openai" or "espeak"
	Fallback string // Optional provider used when the primary one fails
	Names    Namer  // Language display names for voice instructions

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIBaseURL     string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "ash", "ballad", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer", "verse"
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts, %s is replaced by the language name

	// espeak-ng settings
	ESpeak *ESpeakConfig
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:          "openai",
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       "alloy",
		OpenAISpeed:       1.0,
		OpenAIInstruction: "You are a native %s speaker. Pronounce the text with authentic %[1]s phonetics. Speak slowly and clearly for language learners.",
		ESpeak:            DefaultConfig(),
	}
}

// NewProvider creates the audio provider selected by the configuration,
// wrapped with the fallback provider if one is configured
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	primary, err := newNamedProvider(config.Provider, config)
	if err != nil {
		return nil, err
	}
	if config.Fallback == "" || config.Fallback == config.Provider {
		return primary, nil
	}

	fallback, err := newNamedProvider(config.Fallback, config)
	if err != nil {
		logger.Warn("fallback audio provider unavailable", "provider", config.Fallback, "error", err)
		return primary, nil
	}
	return NewProviderWithFallback(primary, fallback), nil
}

func newNamedProvider(name string, config *Config) (Provider, error) {
	switch name {
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIProvider(config)

	case "espeak", "espeak-ng":
		return NewESpeakProvider(config.ESpeak)

	default:
		return nil, fmt.Errorf("unknown audio provider: %s", name)
	}
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Provider) Provider {
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

// GenerateAudio tries primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) GenerateAudio(ctx context.Context, text, language, outputFile string) error {
	err := p.primary.GenerateAudio(ctx, text, language, outputFile)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		logger.Warn("primary audio provider failed, falling back",
			"primary", p.primary.Name(), "fallback", p.fallback.Name(), "error", err)

		return p.fallback.GenerateAudio(ctx, text, language, outputFile)
	}
	return nil
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
