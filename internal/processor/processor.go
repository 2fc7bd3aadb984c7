package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"codeberg.org/snonux/vocabdeck/internal"
	"codeberg.org/snonux/vocabdeck/internal/archive"
	"codeberg.org/snonux/vocabdeck/internal/audio"
	"codeberg.org/snonux/vocabdeck/internal/language"
	"codeberg.org/snonux/vocabdeck/internal/logger"
	"codeberg.org/snonux/vocabdeck/internal/snapshot"
	"codeberg.org/snonux/vocabdeck/internal/translation"
	"codeberg.org/snonux/vocabdeck/internal/vocab"
)

// DefaultOutputDir receives decks and snapshots when no directory is given
const DefaultOutputDir = "Output"

// Dependencies are the collaborators of a Processor
type Dependencies struct {
	Primary   translation.PhraseProvider
	Secondary translation.BatchProvider
	Audio     audio.Provider
	Catalog   *language.Catalog
	Observer  translation.Observer // optional
	Out       io.Writer            // user-facing messages, default os.Stdout
	Now       func() time.Time     // default time.Now
}

// Processor runs the deck pipeline
type Processor struct {
	orchestrator *translation.Orchestrator
	stage        *audio.Stage
	catalog      *language.Catalog
	out          io.Writer
	now          func() time.Time
}

// New creates a processor from its dependencies
func New(deps Dependencies) *Processor {
	p := &Processor{
		orchestrator: translation.NewOrchestrator(deps.Primary, deps.Secondary, deps.Observer),
		stage:        audio.NewStage(deps.Audio),
		catalog:      deps.Catalog,
		out:          deps.Out,
		now:          deps.Now,
	}
	if p.catalog == nil {
		p.catalog = language.DefaultCatalog()
	}
	if p.out == nil {
		p.out = os.Stdout
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Result describes the files a run produced
type Result struct {
	Info         snapshot.DeckInfo
	DeckPath     string
	SnapshotPath string
	Translated   int
	Retained     int
}

// ConsistencyError reports that an update wrote a deck whose identity differs
// from the snapshot it started from
type ConsistencyError struct {
	Expected snapshot.DeckInfo
	Actual   snapshot.DeckInfo
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("deck identity changed during update: expected %+v, got %+v", e.Expected, e.Actual)
}

// workspace is the timestamped directory of one run and the paths derived
// from its name
type workspace struct {
	dir          string
	deckPath     string
	snapshotPath string
}

func (p *Processor) newWorkspace(outputDir string, triple language.Triple) (*workspace, error) {
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}

	now := p.now()
	name := internal.RunName(triple.Source, triple.Target, now)
	if fileExists(filepath.Join(outputDir, name+".zip")) || fileExists(filepath.Join(outputDir, name+".apkg")) {
		name = fmt.Sprintf("%s_%06d", name, now.Nanosecond()/1000)
	}

	dir, err := archive.UniqueDir(outputDir, name, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create working directory: %w", err)
	}

	name = filepath.Base(dir)
	return &workspace{
		dir:          dir,
		deckPath:     filepath.Join(outputDir, name+".apkg"),
		snapshotPath: filepath.Join(outputDir, name+".zip"),
	}, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// translateEntries translates and pronounces entries and adds them to snap.
// data.json is written before and after synthesis.
func (p *Processor) translateEntries(ctx context.Context, snap *snapshot.Snapshot, entries map[int]vocab.Entry, triple language.Triple) error {
	phrases := make(map[int]string, len(entries))
	for id, entry := range entries {
		phrases[id] = entry.Phrase
	}

	results, err := p.orchestrator.TranslateVocabulary(ctx, phrases, triple.Source, triple.Target, triple.Verification)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	texts := make(map[int]string, len(results))
	for id, result := range results {
		snap.Add(&snapshot.Entry{
			ID:           id,
			Source:       result.Source,
			Target:       result.Target,
			Verification: result.Verification,
			Tags:         slices.Clone(entries[id].Tags),
		})
		texts[id] = result.Target
	}

	if err := snapshot.WriteData(snap.Dir, snap); err != nil {
		return err
	}
	logger.Debug("Wrote intermediate data", "dir", snap.Dir, "entries", len(snap.Entries))

	refs, err := p.stage.Synthesize(ctx, texts, triple.Target, snap.Dir)
	if err != nil {
		return err
	}
	for id, ref := range refs {
		snap.Entries[id].AudioFile = ref
	}

	return snapshot.WriteData(snap.Dir, snap)
}

func (p *Processor) finish(snap *snapshot.Snapshot, triple language.Triple, ws *workspace, vocabPath string, reverse bool, expected *snapshot.DeckInfo) (snapshot.DeckInfo, error) {
	if err := checkPronunciations(snap); err != nil {
		return snapshot.DeckInfo{}, err
	}

	info, err := p.writeDeck(snap, triple, reverse, ws.deckPath)
	if err != nil {
		return snapshot.DeckInfo{}, err
	}

	if expected != nil && info != *expected {
		removeStale(ws.deckPath)
		return snapshot.DeckInfo{}, &ConsistencyError{Expected: *expected, Actual: info}
	}

	if err := snapshot.Save(snap, vocabPath, ws.dir, ws.snapshotPath); err != nil {
		return snapshot.DeckInfo{}, err
	}
	return info, nil
}

// removeStale deletes a deck that must not be kept, warning when it stays behind
func removeStale(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("Failed to remove stale deck", "path", path, "error", err)
	}
}

// checkPronunciations rejects snapshots with entries lacking audio
func checkPronunciations(snap *snapshot.Snapshot) error {
	var missing []int
	for _, id := range snap.IDs() {
		if snap.Entries[id].AudioFile == "" {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("entries without pronunciation: %v", missing)
	}
	return nil
}
