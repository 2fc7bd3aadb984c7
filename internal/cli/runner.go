package cli

import (
	"context"
	"io"

	"codeberg.org/snonux/vocabdeck/internal/config"
	"codeberg.org/snonux/vocabdeck/internal/models"
	"codeberg.org/snonux/vocabdeck/internal/processor"
)

// AppRunner runs the commands against the real providers
type AppRunner struct{}

// Create builds a new deck
func (AppRunner) Create(ctx context.Context, cfg *config.Config, opts processor.CreateOptions) error {
	proc, err := newProcessor(ctx, cfg)
	if err != nil {
		return err
	}
	_, err = proc.Create(ctx, opts)
	return err
}

// Update rebuilds a deck from its snapshot
func (AppRunner) Update(ctx context.Context, cfg *config.Config, opts processor.UpdateOptions) error {
	proc, err := newProcessor(ctx, cfg)
	if err != nil {
		return err
	}
	_, err = proc.Update(ctx, opts)
	return err
}

// ListModels prints the models available to the configured keys
func (AppRunner) ListModels(ctx context.Context, cfg *config.Config, w io.Writer) error {
	lister := models.NewLister(models.Options{
		OpenAIKey:     cfg.OpenAI.APIKey,
		OpenAIBaseURL: cfg.OpenAI.BaseURL,
		GeminiKey:     cfg.Gemini.APIKey,
		GeminiBaseURL: cfg.Gemini.BaseURL,
	})
	return lister.ListAvailableModels(ctx, w)
}

func newProcessor(ctx context.Context, cfg *config.Config) (*processor.Processor, error) {
	deps, err := processor.NewDependencies(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return processor.New(deps), nil
}
