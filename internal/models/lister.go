package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// Options holds the credentials and endpoints to query
type Options struct {
	OpenAIKey     string
	OpenAIBaseURL string
	GeminiKey     string
	GeminiBaseURL string
}

// Catalog is the categorized list of available models
type Catalog struct {
	TTS         []string // OpenAI text-to-speech models
	Chat        []string // OpenAI chat models usable for translation
	Gemini      []string // Gemini models supporting content generation
	OpenAIError error
	GeminiError error
}

// Lister handles listing available models
type Lister struct {
	options Options
}

// NewLister creates a new model lister
func NewLister(options Options) *Lister {
	return &Lister{options: options}
}

// Fetch queries both providers. A provider without a key is skipped.
func (l *Lister) Fetch(ctx context.Context) (*Catalog, error) {
	if l.options.OpenAIKey == "" && l.options.GeminiKey == "" {
		return nil, fmt.Errorf("no API key found. Set OPENAI_API_KEY or GEMINI_API_KEY, or configure them in .vocabdeck.yaml")
	}

	catalog := &Catalog{}
	if l.options.OpenAIKey != "" {
		catalog.OpenAIError = l.fetchOpenAI(ctx, catalog)
	} else {
		catalog.OpenAIError = fmt.Errorf("OpenAI API key not configured")
	}
	if l.options.GeminiKey != "" {
		catalog.GeminiError = l.fetchGemini(ctx, catalog)
	} else {
		catalog.GeminiError = fmt.Errorf("Gemini API key not configured")
	}

	if l.options.OpenAIKey != "" && catalog.OpenAIError != nil &&
		l.options.GeminiKey != "" && catalog.GeminiError != nil {
		return nil, fmt.Errorf("failed to list models: %w", catalog.OpenAIError)
	}
	return catalog, nil
}

func (l *Lister) fetchOpenAI(ctx context.Context, catalog *Catalog) error {
	config := openai.DefaultConfig(l.options.OpenAIKey)
	if l.options.OpenAIBaseURL != "" {
		config.BaseURL = l.options.OpenAIBaseURL
	}
	client := openai.NewClientWithConfig(config)

	models, err := client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list OpenAI models: %w", err)
	}

	for _, model := range models.Models {
		modelID := model.ID
		if strings.Contains(modelID, "tts") {
			catalog.TTS = append(catalog.TTS, modelID)
		} else if strings.Contains(modelID, "gpt") && !strings.Contains(modelID, "audio") &&
			!strings.Contains(modelID, "realtime") && !strings.Contains(modelID, "transcribe") {
			catalog.Chat = append(catalog.Chat, modelID)
		}
	}

	sort.Strings(catalog.TTS)
	sort.Strings(catalog.Chat)
	return nil
}

func (l *Lister) fetchGemini(ctx context.Context, catalog *Catalog) error {
	config := &genai.ClientConfig{
		APIKey:  l.options.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if l.options.GeminiBaseURL != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: l.options.GeminiBaseURL}
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}

	for model, err := range client.Models.All(ctx) {
		if err != nil {
			return fmt.Errorf("failed to list Gemini models: %w", err)
		}
		if !generatesContent(model) {
			continue
		}
		catalog.Gemini = append(catalog.Gemini, strings.TrimPrefix(model.Name, "models/"))
	}

	sort.Strings(catalog.Gemini)
	return nil
}

func generatesContent(model *genai.Model) bool {
	if !strings.Contains(model.Name, "gemini") {
		return false
	}
	if len(model.SupportedActions) == 0 {
		return true
	}
	for _, action := range model.SupportedActions {
		if action == "generateContent" {
			return true
		}
	}
	return false
}

// Print writes the catalog in a human readable form
func Print(w io.Writer, catalog *Catalog) {
	fmt.Fprintln(w, "Available OpenAI Models:")
	if catalog.OpenAIError != nil {
		fmt.Fprintf(w, "  skipped: %v\n", catalog.OpenAIError)
	} else {
		printSection(w, "Text-to-Speech (TTS) Models", catalog.TTS)
		printSection(w, "Chat/Translation Models", catalog.Chat)
	}

	fmt.Fprintln(w, "\nAvailable Gemini Models:")
	if catalog.GeminiError != nil {
		fmt.Fprintf(w, "  skipped: %v\n", catalog.GeminiError)
		return
	}
	printSection(w, "Batch Translation Models", catalog.Gemini)
}

func printSection(w io.Writer, title string, models []string) {
	fmt.Fprintf(w, "\n%s:\n", title)
	if len(models) == 0 {
		fmt.Fprintln(w, "  No models found")
		return
	}
	for _, model := range models {
		fmt.Fprintf(w, "  %s\n", model)
	}
}

// ListAvailableModels fetches and prints all available models
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	catalog, err := l.Fetch(ctx)
	if err != nil {
		return err
	}
	Print(w, catalog)
	return nil
}
