package processor

import (
	"context"
	"fmt"

	"codeberg.org/snonux/vocabdeck/internal/audio"
	"codeberg.org/snonux/vocabdeck/internal/config"
	"codeberg.org/snonux/vocabdeck/internal/translation"
)

// Provider names used in logs and progress reports
const (
	PrimaryProviderName   = "OpenAI"
	SecondaryProviderName = "Gemini"
)

// NewDependencies builds the production collaborators from cfg
func NewDependencies(ctx context.Context, cfg *config.Config) (Dependencies, error) {
	if cfg.OpenAI.APIKey == "" {
		return Dependencies{}, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure openai.api_key in .vocabdeck.yaml")
	}

	catalog := cfg.Catalog()
	observer := translation.NewLogObserver()
	breakerSettings := translation.BreakerSettings{
		MaxFailures: cfg.Translation.BreakerFailures,
		Timeout:     cfg.Translation.BreakerTimeout,
	}

	openAI := translation.NewOpenAITranslator(translation.OpenAIConfig{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
		Names:   catalog,
	})

	gemini, err := translation.NewGeminiTranslator(ctx, translation.GeminiConfig{
		APIKey:  cfg.Gemini.APIKey,
		Model:   cfg.Gemini.Model,
		BaseURL: cfg.Gemini.BaseURL,
		Names:   catalog,
	})
	if err != nil {
		return Dependencies{}, fmt.Errorf("%w. Set GEMINI_API_KEY environment variable or configure gemini.api_key in .vocabdeck.yaml", err)
	}

	espeak := audio.DefaultConfig()
	espeak.Speed = cfg.Audio.ESpeakSpeed

	tts, err := audio.NewProvider(&audio.Config{
		Provider:          cfg.Audio.Provider,
		Fallback:          cfg.Audio.Fallback,
		Names:             catalog,
		OpenAIKey:         cfg.OpenAI.APIKey,
		OpenAIBaseURL:     cfg.OpenAI.BaseURL,
		OpenAIModel:       cfg.Audio.Model,
		OpenAIVoice:       cfg.Audio.Voice,
		OpenAISpeed:       cfg.Audio.Speed,
		OpenAIInstruction: cfg.Audio.Instruction,
		ESpeak:            espeak,
	})
	if err != nil {
		return Dependencies{}, fmt.Errorf("failed to create audio provider: %w", err)
	}

	return Dependencies{
		Primary: translation.NewPerPhraseAdapter(PrimaryProviderName,
			translation.WithBreaker(openAI, translation.NewBreaker(PrimaryProviderName, breakerSettings)),
			cfg.Translation.Workers, observer),
		Secondary: translation.NewBatchAdapter(SecondaryProviderName,
			translation.WithBatchBreaker(gemini, translation.NewBreaker(SecondaryProviderName, breakerSettings)),
			cfg.Translation.BatchSize, observer),
		Audio:    tts,
		Catalog:  catalog,
		Observer: observer,
	}, nil
}
