package anki

import (
	"fmt"
	"path/filepath"
)

// SoundFieldName is the model field holding the pronunciation
const SoundFieldName = "SoundFile"

// Template is one card type of a model
type Template struct {
	Name string
	QFmt string // question side
	AFmt string // answer side
}

// Model is an Anki note type
type Model struct {
	ID        int64
	Name      string
	Fields    []string
	Templates []Template
	CSS       string
}

// Note is a single Anki note. One card is generated per model template.
type Note struct {
	GUID       string
	Fields     []string // values in model field order
	Tags       []string
	MediaFiles []string // paths of files referenced by the fields
}

// ModelOptions names the languages of a vocabulary model
type ModelOptions struct {
	DeckID           int64
	SourceName       string
	TargetName       string
	VerificationName string
	AddReverseCards  bool
}

// NewVocabModel creates the note type used for translated vocabulary. The
// model id equals the deck id so every deck gets its own note type.
func NewVocabModel(opts ModelOptions) Model {
	src := field(opts.SourceName)
	tgt := field(opts.TargetName)
	ver := field(opts.VerificationName)
	sound := field(SoundFieldName)

	model := Model{
		ID:     opts.DeckID,
		Name:   fmt.Sprintf("%s<->%s Translated Vocab Flashcards", opts.SourceName, opts.TargetName),
		Fields: []string{opts.SourceName, opts.TargetName, opts.VerificationName, SoundFieldName},
		Templates: []Template{
			{
				Name: fmt.Sprintf("%s -> %s", opts.SourceName, opts.TargetName),
				QFmt: fmt.Sprintf("%s<br/>(%s)", src, ver),
				AFmt: fmt.Sprintf(`{{FrontSide}}<hr id="answer">%s<br/>%s`, tgt, sound),
			},
		},
		CSS: ".card { font-family: arial; font-size: 24px; text-align: center; color: black; background-color: white;}",
	}

	if opts.AddReverseCards {
		model.Templates = append(model.Templates, Template{
			Name: fmt.Sprintf("%s -> %s", opts.TargetName, opts.SourceName),
			QFmt: fmt.Sprintf("%s<br/>%s", tgt, sound),
			AFmt: fmt.Sprintf(`{{FrontSide}}<hr id="answer">%s<br/>(%s)`, src, ver),
		})
	}

	return model
}

func field(name string) string {
	return "{{" + name + "}}"
}

// DefaultDeckName is used when no deck name is given
func DefaultDeckName(targetName string) string {
	return fmt.Sprintf("Translated %s vocabulary", targetName)
}

// DeckDescription describes a generated deck
func DeckDescription(sourceName, targetName string) string {
	return fmt.Sprintf("Automatically translated %s <-> %s vocabulary using OpenAI and Google Gemini.", sourceName, targetName)
}

// NoteGUID returns the globally stable note identifier of a vocabulary entry
func NoteGUID(deckID int64, entryID int) string {
	return fmt.Sprintf("%d_%d", deckID, entryID)
}

// SoundField formats an audio file reference for Anki
func SoundField(audioFile string) string {
	if audioFile == "" {
		return ""
	}
	return fmt.Sprintf("[sound:%s]", filepath.Base(audioFile))
}
