package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"codeberg.org/snonux/vocabdeck/internal/archive"
	"codeberg.org/snonux/vocabdeck/internal/logger"
)

// Load extracts a snapshot archive into extractDir and parses it. Audio
// references of all entries point into extractDir afterwards.
func Load(ctx context.Context, archivePath, extractDir string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := archive.Extract(archivePath, extractDir); err != nil {
		return nil, &IntegrityError{Path: archivePath, Reason: "cannot extract archive", Err: err}
	}
	logger.Debug("Extracted snapshot", "archive", archivePath, "dir", extractDir)

	infoData, err := readMember(archivePath, extractDir, InfoFile)
	if err != nil {
		return nil, err
	}

	var info DeckInfo
	if err := json.Unmarshal(infoData, &info); err != nil {
		return nil, &IntegrityError{Path: archivePath, Reason: "invalid " + InfoFile, Err: err}
	}
	if err := validateInfo(info); err != nil {
		return nil, &IntegrityError{Path: archivePath, Reason: err.Error()}
	}

	data, err := readMember(archivePath, extractDir, DataFile)
	if err != nil {
		return nil, err
	}

	entries, err := decodeData(info, data, extractDir)
	if err != nil {
		return nil, &IntegrityError{Path: archivePath, Reason: "invalid " + DataFile, Err: err}
	}

	return &Snapshot{Info: info, Entries: entries, Dir: extractDir}, nil
}

func readMember(archivePath, dir, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &IntegrityError{Path: archivePath, Reason: "missing " + name}
	}
	if err != nil {
		return nil, &IntegrityError{Path: archivePath, Reason: "cannot read " + name, Err: err}
	}
	return data, nil
}

func validateInfo(info DeckInfo) error {
	switch {
	case info.DeckID == 0:
		return fmt.Errorf("%s has no deck_id", InfoFile)
	case info.SourceLanguage == "" || info.TargetLanguage == "" || info.VerificationLanguage == "":
		return fmt.Errorf("%s has an incomplete language triple", InfoFile)
	}
	return nil
}

// WriteData writes the entries of snap as data.json into dir
func WriteData(dir string, snap *Snapshot) error {
	data, err := encodeData(snap.Info, snap.Entries)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", DataFile, err)
	}
	if err := os.WriteFile(filepath.Join(dir, DataFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", DataFile, err)
	}
	return nil
}

func writeInfo(dir string, info DeckInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", InfoFile, err)
	}
	if err := os.WriteFile(filepath.Join(dir, InfoFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", InfoFile, err)
	}
	return nil
}

// Save writes the snapshot into workDir, zips workDir to outputPath and
// removes workDir. Every entry's audio file must already live in workDir.
func Save(snap *Snapshot, vocabPath, workDir, outputPath string) error {
	for _, id := range snap.IDs() {
		entry := snap.Entries[id]
		if entry.AudioFile == "" {
			continue
		}
		audioPath := filepath.Join(workDir, filepath.Base(entry.AudioFile))
		if _, err := os.Stat(audioPath); err != nil {
			return &IntegrityError{Path: workDir, Reason: fmt.Sprintf("audio of entry %d is missing", id), Err: err}
		}
	}

	if err := WriteData(workDir, snap); err != nil {
		return err
	}
	if err := writeInfo(workDir, snap.Info); err != nil {
		return err
	}
	if err := archive.CopyFile(vocabPath, filepath.Join(workDir, VocabFile)); err != nil {
		return fmt.Errorf("failed to copy vocabulary: %w", err)
	}

	if err := archive.ZipDirectory(workDir, outputPath); err != nil {
		return fmt.Errorf("failed to write snapshot archive: %w", err)
	}
	logger.Info("Saved snapshot", "archive", outputPath, "entries", len(snap.Entries))

	if err := os.RemoveAll(workDir); err != nil {
		return fmt.Errorf("failed to remove working directory: %w", err)
	}
	return nil
}
