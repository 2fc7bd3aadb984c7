package audio

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"codeberg.org/snonux/vocabdeck/internal/logger"
)

// FileName returns the audio file name of an entry
func FileName(id int) string {
	return fmt.Sprintf("%d.mp3", id)
}

// Stage synthesizes one pronunciation file per vocabulary entry
type Stage struct {
	provider Provider
}

// NewStage creates a pronunciation stage backed by provider
func NewStage(provider Provider) *Stage {
	return &Stage{provider: provider}
}

// Synthesize speaks every text in ascending id order and writes <dir>/<id>.mp3.
// Reruns overwrite the same paths. The first failure aborts the stage.
func (s *Stage) Synthesize(ctx context.Context, texts map[int]string, language, dir string) (map[int]string, error) {
	refs := make(map[int]string, len(texts))

	ids := slices.Sorted(maps.Keys(texts))
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		outputFile := filepath.Join(dir, FileName(id))
		logger.Debug("synthesizing pronunciation", "id", id, "provider", s.provider.Name(),
			"progress", fmt.Sprintf("%d/%d", i+1, len(ids)))

		if err := s.provider.GenerateAudio(ctx, texts[id], language, outputFile); err != nil {
			return nil, fmt.Errorf("pronunciation for id %d (%q) failed: %w", id, texts[id], err)
		}
		refs[id] = outputFile
	}

	logger.Info("pronunciations generated", "count", len(refs), "provider", s.provider.Name())
	return refs, nil
}
