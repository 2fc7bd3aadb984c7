package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-2.5-flash"

var markdownCodeBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// GeminiConfig configures the Gemini batch translator
type GeminiConfig struct {
	APIKey      string
	Model       string
	BaseURL     string // optional API endpoint override
	Temperature float32
	Names       Namer
}

// GeminiTranslator translates batches of phrases with one Gemini request each
type GeminiTranslator struct {
	client *genai.Client
	config GeminiConfig
}

// NewGeminiTranslator creates a Gemini API client
func NewGeminiTranslator(ctx context.Context, config GeminiConfig) (*GeminiTranslator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key not found")
	}
	if config.Model == "" {
		config.Model = DefaultGeminiModel
	}
	if config.Temperature == 0 {
		config.Temperature = 0.2
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiTranslator{client: client, config: config}, nil
}

// TranslateBatch sends all texts as one JSON array and expects an array of
// the same length and order back
func (g *GeminiTranslator) TranslateBatch(ctx context.Context, texts []string, source, target string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	payload, err := json.Marshal(texts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode batch: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.config.Temperature),
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: g.systemPrompt(len(texts), source, target)}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(string(payload)), config)
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	return parseTranslations(resp.Text(), len(texts))
}

func (g *GeminiTranslator) systemPrompt(count int, source, target string) string {
	return fmt.Sprintf(
		"You translate vocabulary for language learners from %s to %s. "+
			"The user sends a JSON array of %d strings. Reply with a JSON array of exactly %d strings, "+
			"the translation of each input at the same position. If there are several equally common "+
			"translations of one input, join them with \" / \" inside that single string.",
		languageName(g.config.Names, source), languageName(g.config.Names, target), count, count)
}

// parseTranslations extracts a JSON string array from a model reply. The
// length is checked by the caller.
func parseTranslations(content string, expected int) ([]string, error) {
	content = strings.TrimSpace(content)

	if m := markdownCodeBlock.FindStringSubmatch(content); len(m) > 1 {
		content = m[1]
	}

	startIdx := strings.Index(content, "[")
	endIdx := strings.LastIndex(content, "]")
	if startIdx >= 0 && endIdx > startIdx {
		content = content[startIdx : endIdx+1]
	}

	var translations []string
	if err := json.Unmarshal([]byte(content), &translations); err != nil {
		return nil, fmt.Errorf("failed to parse translation response as JSON array: %w (response: %s)", err, truncate(content, 300))
	}

	if len(translations) == 0 {
		return nil, fmt.Errorf("got 0 translations, expected %d", expected)
	}

	for i, translation := range translations {
		translations[i] = strings.TrimSpace(translation)
	}
	return translations, nil
}

// truncate shortens s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
