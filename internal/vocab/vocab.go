package vocab

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// CommentPrefix marks lines that are skipped
const CommentPrefix = "#"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Entry is a single vocabulary line
type Entry struct {
	ID     int
	Phrase string
	Tags   []string
	Line   int // 1-based line number in the source file
}

// Vocabulary holds all entries of a vocabulary file
type Vocabulary struct {
	Entries map[int]Entry
	Order   []int // ids in file order
}

// Load reads and parses a vocabulary file
func Load(path string) (*Vocabulary, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	v, err := Parse(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// Parse parses tab-separated vocabulary lines
func Parse(r io.Reader) (*Vocabulary, error) {
	v := &Vocabulary{Entries: make(map[int]Entry)}
	lineTexts := make(map[int]string)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, CommentPrefix) {
			continue
		}

		entry, err := parseLine(line, lineNo)
		if err != nil {
			return nil, err
		}

		if first, ok := v.Entries[entry.ID]; ok {
			return nil, &DuplicateIDError{
				ID:         entry.ID,
				FirstLine:  first.Line,
				FirstText:  lineTexts[entry.ID],
				SecondLine: lineNo,
				SecondText: line,
			}
		}

		v.Entries[entry.ID] = entry
		v.Order = append(v.Order, entry.ID)
		lineTexts[entry.ID] = line
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vocabulary: %w", err)
	}

	return v, nil
}

func parseLine(line string, lineNo int) (Entry, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 2 {
		return Entry{}, &MalformedEntryError{Line: lineNo, Text: line, Reason: "expected <id>\\t<phrase>[\\t<tag>...]"}
	}

	id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return Entry{}, &MalformedEntryError{Line: lineNo, Text: line, Reason: fmt.Sprintf("id %q is not an integer", fields[0])}
	}

	phrase := strings.TrimSpace(fields[1])
	if phrase == "" {
		return Entry{}, &MalformedEntryError{Line: lineNo, Text: line, Reason: "phrase is empty"}
	}

	tags := make([]string, 0, len(fields)-2)
	for _, tag := range fields[2:] {
		if tag == "" {
			continue
		}
		if strings.IndexFunc(tag, unicode.IsSpace) >= 0 {
			return Entry{}, &InvalidTagError{ID: id, Line: lineNo, Tag: tag}
		}
		tags = append(tags, tag)
	}

	return Entry{ID: id, Phrase: phrase, Tags: tags, Line: lineNo}, nil
}

// Phrases returns the id to phrase mapping
func (v *Vocabulary) Phrases() map[int]string {
	result := make(map[int]string, len(v.Entries))
	for id, e := range v.Entries {
		result[id] = e.Phrase
	}
	return result
}

// Tags returns the id to tags mapping
func (v *Vocabulary) Tags() map[int][]string {
	result := make(map[int][]string, len(v.Entries))
	for id, e := range v.Entries {
		result[id] = e.Tags
	}
	return result
}

// Len returns the number of entries
func (v *Vocabulary) Len() int {
	return len(v.Entries)
}
