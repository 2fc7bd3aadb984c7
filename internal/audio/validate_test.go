package audio

import "testing"

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"greek", "Γειά σου", false},
		{"latin", "hello", false},
		{"digits", "42", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"punctuation only", "?! / ...", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText(tt.text)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateText(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
			}
		})
	}
}

func TestPreprocessText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Γειά", "Γειά"},
		{"Γειά! / Γειά σου.", "Γειά, Γειά σου"},
		{"  (hello)  ", "hello"},
		{"aujourd'hui", "aujourd'hui"},
		{"a / ? / b", "a, b"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := preprocessText(tt.input); got != tt.want {
				t.Errorf("preprocessText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
