package internal

import (
	"testing"
	"time"
)

func TestRunName(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	got := RunName("en", "el", now)
	if got != "en_el_24_03_09_14_05_07" {
		t.Errorf("RunName() = %s, want en_el_24_03_09_14_05_07", got)
	}

	got = RunName("en", "pt/br", now)
	if got != "en_pt_br_24_03_09_14_05_07" {
		t.Errorf("RunName() = %s, want en_pt_br_24_03_09_14_05_07", got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Greek vocab", "Greek_vocab"},
		{"pt-br", "pt-br"},
		{"Γειά σου", "Γειά_σου"},
		{"a/b\\c", "a_b_c"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
