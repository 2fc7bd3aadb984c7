package snapshot

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
)

const (
	pronunciationKey = "pronunciation_file"
	tagsKey          = "tags"
)

// dataKeys are the per-entry keys of data.json, named after the languages
type dataKeys struct {
	source, target, verification string
}

func keysFor(info DeckInfo) dataKeys {
	keys := dataKeys{
		source:       info.SourceLanguage,
		target:       info.TargetLanguage,
		verification: info.VerificationLanguage,
	}
	// The verification language defaults to the source language
	if keys.verification == keys.source {
		keys.verification += "_verification"
	}
	return keys
}

// encodeData renders entries as data.json: id -> {<lang>: text, ...}.
// Audio references are stored relative to the snapshot directory.
func encodeData(info DeckInfo, entries map[int]*Entry) ([]byte, error) {
	keys := keysFor(info)

	doc := make(map[string]map[string]any, len(entries))
	for id, entry := range entries {
		tags := entry.Tags
		if tags == nil {
			tags = []string{}
		}

		audioFile := ""
		if entry.AudioFile != "" {
			audioFile = filepath.Base(entry.AudioFile)
		}

		doc[strconv.Itoa(id)] = map[string]any{
			keys.source:       entry.Source,
			keys.target:       entry.Target,
			keys.verification: entry.Verification,
			pronunciationKey:  audioFile,
			tagsKey:           tags,
		}
	}

	return json.MarshalIndent(doc, "", "  ")
}

// decodeData parses data.json. Audio references are resolved against dir.
func decodeData(info DeckInfo, data []byte, dir string) (map[int]*Entry, error) {
	keys := keysFor(info)

	var doc map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", DataFile, err)
	}

	entries := make(map[int]*Entry, len(doc))
	for key, record := range doc {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("invalid entry id %q in %s", key, DataFile)
		}

		entry := &Entry{ID: id}
		if err := decodeString(record, keys.source, &entry.Source, true); err != nil {
			return nil, fmt.Errorf("entry %d: %w", id, err)
		}
		if err := decodeString(record, keys.target, &entry.Target, true); err != nil {
			return nil, fmt.Errorf("entry %d: %w", id, err)
		}
		if err := decodeString(record, keys.verification, &entry.Verification, false); err != nil {
			return nil, fmt.Errorf("entry %d: %w", id, err)
		}
		if _, ok := record[keys.verification]; !ok && keys.verification != info.VerificationLanguage {
			// Archives written before the separate key carry only the source text
			entry.Verification = entry.Source
		}

		var audioFile string
		if err := decodeString(record, pronunciationKey, &audioFile, false); err != nil {
			return nil, fmt.Errorf("entry %d: %w", id, err)
		}
		if audioFile != "" {
			entry.AudioFile = filepath.Join(dir, filepath.Base(filepath.FromSlash(audioFile)))
		}

		if raw, ok := record[tagsKey]; ok {
			if err := json.Unmarshal(raw, &entry.Tags); err != nil {
				return nil, fmt.Errorf("entry %d: invalid tags: %w", id, err)
			}
		}

		entries[id] = entry
	}

	return entries, nil
}

func decodeString(record map[string]json.RawMessage, key string, dst *string, required bool) error {
	raw, ok := record[key]
	if !ok {
		if required {
			return fmt.Errorf("missing %q", key)
		}
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid %q: %w", key, err)
	}
	return nil
}
