package cli

import (
	"time"

	"codeberg.org/snonux/vocabdeck/internal/processor"
)

// Flags holds all command-line flag values
type Flags struct {
	// Global flags
	CfgFile  string
	LogLevel string
	Timeout  time.Duration

	Create CreateFlags
	Update UpdateFlags

	// config init flags
	ConfigPath  string
	ForceConfig bool
}

// CreateFlags holds the flags of the create command
type CreateFlags struct {
	VocabPath            string
	SourceLanguage       string
	TargetLanguage       string
	VerificationLanguage string
	DeckID               int64
	DeckName             string
	AddReverseCards      bool
	OutputDir            string
}

// UpdateFlags holds the flags of the update command
type UpdateFlags struct {
	VocabPath       string
	DeckZipPath     string
	AddReverseCards bool
	OutputDir       string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogLevel: "info",
		Create: CreateFlags{
			AddReverseCards: true,
			OutputDir:       processor.DefaultOutputDir,
		},
		Update: UpdateFlags{
			AddReverseCards: true,
			OutputDir:       processor.DefaultOutputDir,
		},
	}
}
