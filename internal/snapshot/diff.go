package snapshot

import (
	"fmt"
	"maps"
	"slices"

	"codeberg.org/snonux/vocabdeck/internal/vocab"
)

// DiffResult classifies a vocabulary against a prior snapshot
type DiffResult struct {
	ToTranslate map[int]vocab.Entry // new and modified entries
	ToRetain    map[int]*Entry      // unchanged entries carrying the new tags
	New         []int
	Modified    []int
	Dropped     []int // ids of the snapshot absent from the vocabulary
}

// Changes is the number of entries that need translation
func (d *DiffResult) Changes() int {
	return len(d.New) + len(d.Modified)
}

func (d *DiffResult) String() string {
	return fmt.Sprintf("Found %d changes: %d new entries and %d modified entries.",
		d.Changes(), len(d.New), len(d.Modified))
}

// Diff compares v against snap. An entry is unchanged when the snapshot has
// its id with exactly the same source text. The snapshot is not modified.
func Diff(v *vocab.Vocabulary, snap *Snapshot) *DiffResult {
	result := &DiffResult{
		ToTranslate: make(map[int]vocab.Entry),
		ToRetain:    make(map[int]*Entry),
	}

	for _, id := range slices.Sorted(maps.Keys(v.Entries)) {
		entry := v.Entries[id]

		old, ok := snap.Entries[id]
		switch {
		case !ok:
			result.New = append(result.New, id)
			result.ToTranslate[id] = entry
		case old.Source != entry.Phrase:
			result.Modified = append(result.Modified, id)
			result.ToTranslate[id] = entry
		default:
			retained := old.Clone()
			retained.Tags = slices.Clone(entry.Tags)
			result.ToRetain[id] = retained
		}
	}

	for _, id := range snap.IDs() {
		if _, ok := v.Entries[id]; !ok {
			result.Dropped = append(result.Dropped, id)
		}
	}

	return result
}
