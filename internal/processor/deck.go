package processor

import (
	"fmt"

	"codeberg.org/snonux/vocabdeck/internal/anki"
	"codeberg.org/snonux/vocabdeck/internal/language"
	"codeberg.org/snonux/vocabdeck/internal/logger"
	"codeberg.org/snonux/vocabdeck/internal/snapshot"
)

// writeDeck assembles the .apkg for all entries of snap and returns the deck
// identity it wrote
func (p *Processor) writeDeck(snap *snapshot.Snapshot, triple language.Triple, reverse bool, path string) (snapshot.DeckInfo, error) {
	sourceName, targetName, verificationName := p.catalog.FieldNames(triple)

	model := anki.NewVocabModel(anki.ModelOptions{
		DeckID:           snap.Info.DeckID,
		SourceName:       sourceName,
		TargetName:       targetName,
		VerificationName: verificationName,
		AddReverseCards:  reverse,
	})
	gen := anki.NewAPKGGenerator(snap.Info.DeckID, snap.Info.DeckName,
		anki.DeckDescription(sourceName, targetName), model)

	for _, id := range snap.IDs() {
		entry := snap.Entries[id]
		note := anki.Note{
			GUID:       anki.NoteGUID(snap.Info.DeckID, id),
			Fields:     []string{entry.Source, entry.Target, entry.Verification, anki.SoundField(entry.AudioFile)},
			Tags:       entry.Tags,
			MediaFiles: []string{entry.AudioFile},
		}
		if err := gen.AddNote(note); err != nil {
			return snapshot.DeckInfo{}, err
		}
	}

	if err := gen.GenerateAPKG(path); err != nil {
		return snapshot.DeckInfo{}, fmt.Errorf("failed to write deck: %w", err)
	}
	logger.Info("Wrote deck", "path", path, "notes", gen.NoteCount())

	return snapshot.DeckInfo{
		DeckID:               gen.DeckID(),
		DeckName:             gen.DeckName(),
		SourceLanguage:       triple.Source,
		TargetLanguage:       triple.Target,
		VerificationLanguage: triple.Verification,
	}, nil
}
