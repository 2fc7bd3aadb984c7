package translation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTranslations(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
		wantErr bool
	}{
		{"plain array", `["a", "b"]`, []string{"a", "b"}, false},
		{"markdown code block", "```json\n[\"a\", \"b\"]\n```", []string{"a", "b"}, false},
		{"prose around array", "Here you go: [\"a\"] hope it helps", []string{"a"}, false},
		{"values are trimmed", `[" a ", "b "]`, []string{"a", "b"}, false},
		{"empty array", `[]`, nil, true},
		{"not json", `a, b`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTranslations(tt.content, 2)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewGeminiTranslator_NoAPIKey(t *testing.T) {
	_, err := NewGeminiTranslator(context.Background(), GeminiConfig{})
	assert.Error(t, err)
}

func TestGeminiTranslator_Server(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]string{{"text": `["Γειά σου", "Ευχαριστώ"]`}},
				},
				"finishReason": "STOP",
			}},
		})
	}))
	defer server.Close()

	translator, err := NewGeminiTranslator(context.Background(), GeminiConfig{
		APIKey:  "test-api-key",
		BaseURL: server.URL,
	})
	require.NoError(t, err)

	got, err := translator.TranslateBatch(context.Background(), []string{"Hello", "Thanks"}, "en", "el")
	require.NoError(t, err)
	assert.Equal(t, []string{"Γειά σου", "Ευχαριστώ"}, got)
	assert.Equal(t, 1, requests)
}

func TestGeminiTranslator_EmptyBatch(t *testing.T) {
	translator, err := NewGeminiTranslator(context.Background(), GeminiConfig{APIKey: "test-api-key"})
	require.NoError(t, err)

	got, err := translator.TranslateBatch(context.Background(), nil, "en", "el")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGeminiTranslator_Integration(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: GEMINI_API_KEY not set")
	}

	translator, err := NewGeminiTranslator(context.Background(), GeminiConfig{APIKey: apiKey})
	require.NoError(t, err)

	got, err := translator.TranslateBatch(context.Background(), []string{"apple", "cat"}, "en", "el")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	t.Logf("Translations: %v", got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc...", truncate("abcdef", 3))

	// "Γειά" is two bytes per letter, byte 3 is inside the second letter
	got := truncate("Γειά σου", 3)
	assert.Equal(t, "Γ...", got)
	assert.True(t, utf8.ValidString(got))
}
