package processor

import (
	"context"
	"fmt"

	"codeberg.org/snonux/vocabdeck/internal/anki"
	"codeberg.org/snonux/vocabdeck/internal/logger"
	"codeberg.org/snonux/vocabdeck/internal/snapshot"
	"codeberg.org/snonux/vocabdeck/internal/vocab"
)

// CreateOptions configures the creation of a new deck
type CreateOptions struct {
	VocabPath            string
	SourceLanguage       string
	TargetLanguage       string
	VerificationLanguage string // defaults to SourceLanguage
	DeckID               int64
	DeckName             string // defaults to "Translated <Target> vocabulary"
	AddReverseCards      bool
	OutputDir            string
}

// Create translates a complete vocabulary into a new deck and snapshot
func (p *Processor) Create(ctx context.Context, opts CreateOptions) (*Result, error) {
	if opts.DeckID <= 0 {
		return nil, fmt.Errorf("deck id must be a positive number, got %d", opts.DeckID)
	}

	v, err := vocab.Load(opts.VocabPath)
	if err != nil {
		return nil, err
	}

	triple, err := p.catalog.Validate(opts.SourceLanguage, opts.TargetLanguage, opts.VerificationLanguage)
	if err != nil {
		return nil, err
	}

	deckName := opts.DeckName
	if deckName == "" {
		_, targetName, _ := p.catalog.FieldNames(triple)
		deckName = anki.DefaultDeckName(targetName)
	}

	ws, err := p.newWorkspace(opts.OutputDir, triple)
	if err != nil {
		return nil, err
	}
	logger.Info("Creating deck", "entries", v.Len(), "source", triple.Source,
		"target", triple.Target, "verification", triple.Verification, "dir", ws.dir)

	snap := snapshot.New(snapshot.DeckInfo{
		DeckID:               opts.DeckID,
		DeckName:             deckName,
		SourceLanguage:       triple.Source,
		TargetLanguage:       triple.Target,
		VerificationLanguage: triple.Verification,
	}, ws.dir)

	if err := p.translateEntries(ctx, snap, v.Entries, triple); err != nil {
		return nil, err
	}

	info, err := p.finish(snap, triple, ws, opts.VocabPath, opts.AddReverseCards, nil)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(p.out, "Done! Anki deck saved to %s.\n", outputDirOf(opts.OutputDir))
	return &Result{
		Info:         info,
		DeckPath:     ws.deckPath,
		SnapshotPath: ws.snapshotPath,
		Translated:   len(snap.Entries),
	}, nil
}

func outputDirOf(dir string) string {
	if dir == "" {
		return DefaultOutputDir
	}
	return dir
}
