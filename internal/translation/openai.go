package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIConfig configures the OpenAI chat translator
type OpenAIConfig struct {
	APIKey      string
	Model       string  // default: gpt-4o-mini
	BaseURL     string  // optional API endpoint override
	Temperature float32 // default: 0.3
	Names       Namer   // language display names used in the prompt
}

// OpenAITranslator translates single phrases with the OpenAI chat API
type OpenAITranslator struct {
	apiKey string
	client *openai.Client
	config OpenAIConfig
}

// NewOpenAITranslator creates a new translator instance
func NewOpenAITranslator(config OpenAIConfig) *OpenAITranslator {
	if config.Model == "" {
		config.Model = openai.GPT4oMini
	}
	if config.Temperature == 0 {
		config.Temperature = 0.3
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAITranslator{
		apiKey: config.APIKey,
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}
}

// Translate translates text between two language codes. Several common
// translations come back joined with " / ".
func (t *OpenAITranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if t.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not found")
	}

	req := openai.ChatCompletionRequest{
		Model: t.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a dictionary for language learners. Respond with only the translation, nothing else.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: t.prompt(text, source, target),
			},
		},
		MaxTokens:   200,
		Temperature: t.config.Temperature,
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	translation := strings.TrimSpace(resp.Choices[0].Message.Content)
	translation = strings.Trim(translation, `"`)
	if translation == "" {
		return "", fmt.Errorf("empty translation returned")
	}
	return translation, nil
}

func (t *OpenAITranslator) prompt(text, source, target string) string {
	return fmt.Sprintf(
		"Translate the %s phrase '%s' to %s. If there are several equally common translations, "+
			"give at most three of them separated by \" / \".",
		languageName(t.config.Names, source), text, languageName(t.config.Names, target))
}
