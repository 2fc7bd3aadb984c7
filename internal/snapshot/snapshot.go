package snapshot

import (
	"fmt"
	"maps"
	"slices"
)

const (
	InfoFile  = "info.json"
	DataFile  = "data.json"
	VocabFile = "vocab.csv"
)

// DeckInfo is the identity of a deck. DeckID never changes across updates.
type DeckInfo struct {
	DeckID               int64  `json:"deck_id"`
	DeckName             string `json:"deck_name"`
	SourceLanguage       string `json:"source_language"`
	TargetLanguage       string `json:"target_language"`
	VerificationLanguage string `json:"verification_language"`
}

// Entry is a reconciled vocabulary entry with its pronunciation
type Entry struct {
	ID           int
	Source       string
	Target       string
	Verification string
	AudioFile    string // path of <id>.mp3, owned by this entry
	Tags         []string
}

// Clone returns a deep copy of the entry
func (e *Entry) Clone() *Entry {
	clone := *e
	clone.Tags = slices.Clone(e.Tags)
	return &clone
}

// Snapshot is a deck identity plus all of its entries
type Snapshot struct {
	Info    DeckInfo
	Entries map[int]*Entry
	Dir     string // directory the audio references point into
}

// New creates an empty snapshot
func New(info DeckInfo, dir string) *Snapshot {
	return &Snapshot{Info: info, Entries: make(map[int]*Entry), Dir: dir}
}

// Add stores an entry, replacing any entry with the same id
func (s *Snapshot) Add(entry *Entry) {
	s.Entries[entry.ID] = entry
}

// IDs returns the entry ids in ascending order
func (s *Snapshot) IDs() []int {
	return slices.Sorted(maps.Keys(s.Entries))
}

// IntegrityError reports a snapshot that cannot be used for an update
type IntegrityError struct {
	Path   string
	Reason string
	Err    error
}

func (e *IntegrityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupt snapshot %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("corrupt snapshot %s: %s", e.Path, e.Reason)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}
