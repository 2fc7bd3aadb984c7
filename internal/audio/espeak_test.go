package audio

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Voice != "" {
		t.Errorf("Expected empty voice to follow the language, got '%s'", config.Voice)
	}
	if config.Speed != 150 {
		t.Errorf("Expected speed 150, got %d", config.Speed)
	}
	if config.Pitch != 50 {
		t.Errorf("Expected pitch 50, got %d", config.Pitch)
	}
	if config.Amplitude != 100 {
		t.Errorf("Expected amplitude 100, got %d", config.Amplitude)
	}
}

func TestNormalizeESpeakConfig(t *testing.T) {
	config := normalizeESpeakConfig(ESpeakConfig{Speed: 50, Pitch: 120, Amplitude: -3, WordGap: -1})

	if config.Speed != 80 {
		t.Errorf("Speed = %d, want 80", config.Speed)
	}
	if config.Pitch != 99 {
		t.Errorf("Pitch = %d, want 99", config.Pitch)
	}
	if config.Amplitude != 0 {
		t.Errorf("Amplitude = %d, want 0", config.Amplitude)
	}
	if config.WordGap != 0 {
		t.Errorf("WordGap = %d, want 0", config.WordGap)
	}
}

func TestVoiceFor(t *testing.T) {
	tests := []struct {
		voice    string
		language string
		want     string
	}{
		{"", "el", "el"},
		{"", "PT_BR", "pt-br"},
		{"el+f1", "el", "el+f1"},
	}

	for _, tt := range tests {
		e := &ESpeak{config: &ESpeakConfig{Voice: tt.voice}}
		if got := e.voiceFor(tt.language); got != tt.want {
			t.Errorf("voiceFor(%q) with voice %q = %q, want %q", tt.language, tt.voice, got, tt.want)
		}
	}
}

func TestGenerateWAV_InvalidInput(t *testing.T) {
	e := &ESpeak{config: DefaultConfig()}
	if err := e.GenerateWAV(context.Background(), "", "el", "out.wav"); err == nil {
		t.Error("Expected error for empty text")
	}
}

func TestESpeakProvider_Integration(t *testing.T) {
	if _, err := exec.LookPath("espeak-ng"); err != nil {
		t.Skip("Skipping integration test: espeak-ng not installed")
	}

	provider, err := NewESpeakProvider(nil)
	if err != nil {
		t.Fatalf("NewESpeakProvider() error = %v", err)
	}

	outputFile := filepath.Join(t.TempDir(), "1.wav")
	if err := provider.GenerateAudio(context.Background(), "Γειά σου", "el", outputFile); err != nil {
		t.Fatalf("GenerateAudio() error = %v", err)
	}

	info, err := os.Stat(outputFile)
	if err != nil {
		t.Fatalf("Output file not created: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Output file is empty")
	}
}
