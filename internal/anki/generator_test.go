package anki

import "testing"

func TestNewVocabModel(t *testing.T) {
	model := testModel(true)

	if model.ID != 2059400110 {
		t.Errorf("Model id = %d, want deck id", model.ID)
	}

	wantFields := []string{"English", "Greek", "Dutch", "SoundFile"}
	if len(model.Fields) != len(wantFields) {
		t.Fatalf("Fields = %v, want %v", model.Fields, wantFields)
	}
	for i, name := range wantFields {
		if model.Fields[i] != name {
			t.Errorf("Field %d = %s, want %s", i, model.Fields[i], name)
		}
	}

	tests := []struct {
		name string
		qfmt string
		afmt string
	}{
		{"English -> Greek", "{{English}}<br/>({{Dutch}})", `{{FrontSide}}<hr id="answer">{{Greek}}<br/>{{SoundFile}}`},
		{"Greek -> English", "{{Greek}}<br/>{{SoundFile}}", `{{FrontSide}}<hr id="answer">{{English}}<br/>({{Dutch}})`},
	}

	if len(model.Templates) != len(tests) {
		t.Fatalf("Expected %d templates, got %d", len(tests), len(model.Templates))
	}
	for i, tt := range tests {
		tmpl := model.Templates[i]
		if tmpl.Name != tt.name || tmpl.QFmt != tt.qfmt || tmpl.AFmt != tt.afmt {
			t.Errorf("Template %d = %+v, want %+v", i, tmpl, tt)
		}
	}
}

func TestNewVocabModel_WithoutReverse(t *testing.T) {
	if got := len(testModel(false).Templates); got != 1 {
		t.Errorf("Expected 1 template without reverse cards, got %d", got)
	}
}

func TestDeckNaming(t *testing.T) {
	if got := DefaultDeckName("Greek"); got != "Translated Greek vocabulary" {
		t.Errorf("DefaultDeckName() = %s", got)
	}
	if got := NoteGUID(2059400110, 7); got != "2059400110_7" {
		t.Errorf("NoteGUID() = %s", got)
	}
}

func TestSoundField(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/tmp/run/1.mp3", "[sound:1.mp3]"},
		{"12.mp3", "[sound:12.mp3]"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SoundField(tt.input); got != tt.want {
			t.Errorf("SoundField(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
