package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"codeberg.org/snonux/vocabdeck/internal/archive"
	"codeberg.org/snonux/vocabdeck/internal/audio"
	"codeberg.org/snonux/vocabdeck/internal/logger"
	"codeberg.org/snonux/vocabdeck/internal/snapshot"
	"codeberg.org/snonux/vocabdeck/internal/vocab"
)

// UpdateOptions configures the update of an existing deck
type UpdateOptions struct {
	VocabPath       string
	DeckZipPath     string
	AddReverseCards bool
	OutputDir       string
}

// Update rebuilds a deck from a snapshot archive and a new vocabulary,
// translating only new and modified entries. The input archive is not
// modified.
func (p *Processor) Update(ctx context.Context, opts UpdateOptions) (*Result, error) {
	v, err := vocab.Load(opts.VocabPath)
	if err != nil {
		return nil, err
	}

	extractDir, err := os.MkdirTemp("", "vocabdeck-snapshot-")
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction directory: %w", err)
	}
	defer os.RemoveAll(extractDir)

	old, err := snapshot.Load(ctx, opts.DeckZipPath, extractDir)
	if err != nil {
		return nil, err
	}

	triple, err := p.catalog.Validate(old.Info.SourceLanguage, old.Info.TargetLanguage, old.Info.VerificationLanguage)
	if err != nil {
		return nil, err
	}

	diff := snapshot.Diff(v, old)
	fmt.Fprintln(p.out, diff.String())
	logger.Info("Compared vocabulary with snapshot", "new", len(diff.New), "modified", len(diff.Modified),
		"dropped", len(diff.Dropped), "retained", len(diff.ToRetain))

	ws, err := p.newWorkspace(opts.OutputDir, triple)
	if err != nil {
		return nil, err
	}

	snap := snapshot.New(old.Info, ws.dir)
	if err := retainEntries(snap, diff.ToRetain); err != nil {
		return nil, err
	}

	if err := p.translateEntries(ctx, snap, diff.ToTranslate, triple); err != nil {
		return nil, err
	}

	info, err := p.finish(snap, triple, ws, opts.VocabPath, opts.AddReverseCards, &old.Info)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(p.out, "Done! Anki deck saved to %s.\n", outputDirOf(opts.OutputDir))
	return &Result{
		Info:         info,
		DeckPath:     ws.deckPath,
		SnapshotPath: ws.snapshotPath,
		Translated:   len(diff.ToTranslate),
		Retained:     len(diff.ToRetain),
	}, nil
}

// retainEntries copies the audio of unchanged entries into the new working
// directory so the new snapshot is self-contained
func retainEntries(snap *snapshot.Snapshot, retained map[int]*snapshot.Entry) error {
	for id, entry := range retained {
		if entry.AudioFile == "" {
			return &snapshot.IntegrityError{Path: snap.Dir, Reason: fmt.Sprintf("entry %d has no pronunciation file", id)}
		}

		target := filepath.Join(snap.Dir, audio.FileName(id))
		if err := archive.CopyFile(entry.AudioFile, target); err != nil {
			return &snapshot.IntegrityError{
				Path:   entry.AudioFile,
				Reason: fmt.Sprintf("pronunciation of entry %d is missing from the snapshot", id),
				Err:    err,
			}
		}

		entry.AudioFile = target
		snap.Add(entry)
	}
	return nil
}
