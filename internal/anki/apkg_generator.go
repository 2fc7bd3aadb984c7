package anki

import (
	"archive/zip"
	"crypto/sha1"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// APKGGenerator creates Anki package files (.apkg)
type APKGGenerator struct {
	deckID       int64
	deckName     string
	description  string
	model        Model
	notes        []Note
	mediaFiles   map[string]int // maps media filename to media number
	mediaCounter int
	now          func() time.Time
}

// NewAPKGGenerator creates a new APKG generator for one deck
func NewAPKGGenerator(deckID int64, deckName, description string, model Model) *APKGGenerator {
	return &APKGGenerator{
		deckID:      deckID,
		deckName:    deckName,
		description: description,
		model:       model,
		notes:       make([]Note, 0),
		mediaFiles:  make(map[string]int),
		now:         time.Now,
	}
}

// AddNote adds a note to the generator
func (g *APKGGenerator) AddNote(note Note) error {
	if len(note.Fields) != len(g.model.Fields) {
		return fmt.Errorf("note %s has %d fields, model %q expects %d",
			note.GUID, len(note.Fields), g.model.Name, len(g.model.Fields))
	}
	for _, tag := range note.Tags {
		if strings.ContainsAny(tag, " \t\n") {
			return fmt.Errorf("note %s: tag %q contains whitespace", note.GUID, tag)
		}
	}
	g.notes = append(g.notes, note)
	return nil
}

// DeckID returns the id of the generated deck
func (g *APKGGenerator) DeckID() int64 {
	return g.deckID
}

// DeckName returns the name of the generated deck
func (g *APKGGenerator) DeckName() string {
	return g.deckName
}

// NoteCount returns the number of notes added so far
func (g *APKGGenerator) NoteCount() int {
	return len(g.notes)
}

// GenerateAPKG creates an .apkg file
func (g *APKGGenerator) GenerateAPKG(outputPath string) error {
	g.mediaFiles = make(map[string]int)
	g.mediaCounter = 0

	tempDir, err := os.MkdirTemp("", "anki_export_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	// Media first, it populates g.mediaFiles
	if err := g.copyMediaFiles(tempDir); err != nil {
		return fmt.Errorf("failed to copy media files: %w", err)
	}

	if err := g.createMediaMapping(tempDir); err != nil {
		return fmt.Errorf("failed to create media mapping: %w", err)
	}

	dbPath := filepath.Join(tempDir, "collection.anki2")
	if err := g.createDatabase(dbPath); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := g.createZipPackage(tempDir, outputPath); err != nil {
		return fmt.Errorf("failed to create zip package: %w", err)
	}

	return nil
}

// createDatabase creates the Anki SQLite database
func (g *APKGGenerator) createDatabase(dbPath string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := g.createTables(db); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	if err := g.insertCollection(db); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}

	if err := g.insertNotesAndCards(db); err != nil {
		return fmt.Errorf("failed to insert notes and cards: %w", err)
	}

	return nil
}

// createTables creates the required Anki database tables
func (g *APKGGenerator) createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE col (
			id integer PRIMARY KEY,
			crt integer NOT NULL,
			mod integer NOT NULL,
			scm integer NOT NULL,
			ver integer NOT NULL,
			dty integer NOT NULL,
			usn integer NOT NULL,
			ls integer NOT NULL,
			conf text NOT NULL,
			models text NOT NULL,
			decks text NOT NULL,
			dconf text NOT NULL,
			tags text NOT NULL
		)`,
		`CREATE TABLE notes (
			id integer PRIMARY KEY,
			guid text NOT NULL,
			mid integer NOT NULL,
			mod integer NOT NULL,
			usn integer NOT NULL,
			tags text NOT NULL,
			flds text NOT NULL,
			sfld text NOT NULL,
			csum integer NOT NULL,
			flags integer NOT NULL,
			data text NOT NULL
		)`,
		`CREATE TABLE cards (
			id integer PRIMARY KEY,
			nid integer NOT NULL,
			did integer NOT NULL,
			ord integer NOT NULL,
			mod integer NOT NULL,
			usn integer NOT NULL,
			type integer NOT NULL,
			queue integer NOT NULL,
			due integer NOT NULL,
			ivl integer NOT NULL,
			factor integer NOT NULL,
			reps integer NOT NULL,
			lapses integer NOT NULL,
			left integer NOT NULL,
			odue integer NOT NULL,
			odid integer NOT NULL,
			flags integer NOT NULL,
			data text NOT NULL
		)`,
		`CREATE TABLE revlog (
			id integer PRIMARY KEY,
			cid integer NOT NULL,
			usn integer NOT NULL,
			ease integer NOT NULL,
			ivl integer NOT NULL,
			lastIvl integer NOT NULL,
			factor integer NOT NULL,
			time integer NOT NULL,
			type integer NOT NULL
		)`,
		`CREATE TABLE graves (
			usn integer NOT NULL,
			oid integer NOT NULL,
			type integer NOT NULL
		)`,
		// Create indexes
		`CREATE INDEX ix_notes_csum ON notes (csum)`,
		`CREATE INDEX ix_notes_usn ON notes (usn)`,
		`CREATE INDEX ix_cards_usn ON cards (usn)`,
		`CREATE INDEX ix_cards_nid ON cards (nid)`,
		`CREATE INDEX ix_cards_sched ON cards (did, queue, due)`,
		`CREATE INDEX ix_revlog_usn ON revlog (usn)`,
		`CREATE INDEX ix_revlog_cid ON revlog (cid)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

// insertCollection inserts the collection metadata
func (g *APKGGenerator) insertCollection(db *sql.DB) error {
	now := g.now().Unix()

	decks := map[string]interface{}{
		"1": deckConfig(1, "Default", "", now),
	}
	decks[strconv.FormatInt(g.deckID, 10)] = deckConfig(g.deckID, g.deckName, g.description, now)
	decksJSON, err := json.Marshal(decks)
	if err != nil {
		return err
	}

	models := map[string]interface{}{
		strconv.FormatInt(g.model.ID, 10): g.createNoteTypeConfig(now),
	}
	modelsJSON, err := json.Marshal(models)
	if err != nil {
		return err
	}

	conf := map[string]interface{}{
		"nextPos":       len(g.notes) + 1,
		"estTimes":      true,
		"activeDecks":   []int64{1},
		"sortType":      "noteFld",
		"sortBackwards": false,
		"addToCur":      true,
		"curDeck":       1,
		"newSpread":     0,
		"dueCounts":     true,
		"collapseTime":  1200,
		"timeLim":       0,
		"schedVer":      1,
		"curModel":      strconv.FormatInt(g.model.ID, 10),
		"dayLearnFirst": false,
	}
	confJSON, err := json.Marshal(conf)
	if err != nil {
		return err
	}

	dconf := map[string]interface{}{
		"1": map[string]interface{}{
			"id":   1,
			"name": "Default",
			"dyn":  0,
			"new": map[string]interface{}{
				"delays":        []int{1, 10},
				"ints":          []int{1, 4, 7},
				"initialFactor": 2500,
				"perDay":        20,
				"order":         1,
				"bury":          true,
				"separate":      true,
			},
			"lapse": map[string]interface{}{
				"delays":      []int{10},
				"mult":        0,
				"minInt":      1,
				"leechFails":  8,
				"leechAction": 0,
			},
			"rev": map[string]interface{}{
				"perDay":   100,
				"ease4":    1.3,
				"fuzz":     0.05,
				"maxIvl":   36500,
				"ivlFct":   1,
				"bury":     true,
				"minSpace": 1,
			},
			"timer":    0,
			"maxTaken": 60,
			"usn":      0,
			"mod":      now,
			"autoplay": true,
			"replayq":  true,
		},
	}
	dconfJSON, err := json.Marshal(dconf)
	if err != nil {
		return err
	}

	query := `INSERT INTO col VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = db.Exec(query,
		1,        // id
		now,      // crt
		now*1000, // mod
		now*1000, // scm
		11,       // ver (schema version)
		0,        // dty
		0,        // usn
		0,        // ls
		string(confJSON),
		string(modelsJSON),
		string(decksJSON),
		string(dconfJSON),
		"{}", // tags
	)
	return err
}

func deckConfig(id int64, name, description string, now int64) map[string]interface{} {
	// The arrays are [learningCount, reviewCount] for today's stats
	return map[string]interface{}{
		"id":               id,
		"name":             name,
		"mod":              now,
		"desc":             description,
		"collapsed":        false,
		"dyn":              0,
		"conf":             1,
		"usn":              0,
		"newToday":         []int{0, 0},
		"revToday":         []int{0, 0},
		"lrnToday":         []int{0, 0},
		"timeToday":        []int{0, 0},
		"browserCollapsed": false,
		"extendNew":        10,
		"extendRev":        50,
	}
}

// createNoteTypeConfig creates the note type configuration
func (g *APKGGenerator) createNoteTypeConfig(now int64) map[string]interface{} {
	fields := make([]map[string]interface{}, len(g.model.Fields))
	for i, name := range g.model.Fields {
		fields[i] = map[string]interface{}{
			"name":   name,
			"ord":    i,
			"sticky": false,
			"rtl":    false,
			"font":   "Arial",
			"size":   20,
			"media":  []string{},
		}
	}

	templates := make([]map[string]interface{}, len(g.model.Templates))
	req := make([][]interface{}, len(g.model.Templates))
	for i, tmpl := range g.model.Templates {
		templates[i] = map[string]interface{}{
			"name":  tmpl.Name,
			"ord":   i,
			"qfmt":  tmpl.QFmt,
			"afmt":  tmpl.AFmt,
			"did":   nil,
			"bqfmt": "",
			"bafmt": "",
		}
		req[i] = []interface{}{i, "any", g.requiredFields(tmpl.QFmt)}
	}

	return map[string]interface{}{
		"id":    g.model.ID,
		"name":  g.model.Name,
		"type":  0,
		"mod":   now,
		"usn":   -1,
		"sortf": 0,
		"did":   g.deckID,
		"req":   req,
		"vers":  []int{},
		"tags":  []string{},
		"latexPre": `\documentclass[12pt]{article}
\special{papersize=3in,5in}
\usepackage[utf8]{inputenc}
\usepackage{amssymb,amsmath}
\pagestyle{empty}
\setlength{\parindent}{0in}
\begin{document}`,
		"latexPost": `\end{document}`,
		"flds":      fields,
		"tmpls":     templates,
		"css":       g.model.CSS,
	}
}

var fieldReference = regexp.MustCompile(`\{\{([^#/^}][^}]*)\}\}`)

// requiredFields lists the ordinals of the fields a question template shows
func (g *APKGGenerator) requiredFields(qfmt string) []int {
	required := []int{}
	for _, match := range fieldReference.FindAllStringSubmatch(qfmt, -1) {
		for ord, name := range g.model.Fields {
			if match[1] == name {
				required = append(required, ord)
				break
			}
		}
	}
	return required
}

// insertNotesAndCards inserts all notes and cards into the database
func (g *APKGGenerator) insertNotesAndCards(db *sql.DB) error {
	mod := g.now().Unix()

	noteQuery := `INSERT INTO notes VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	cardQuery := `INSERT INTO cards VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for i, note := range g.notes {
		noteID := stableID(note.GUID)
		sortField := note.Fields[0]

		tags := ""
		if len(note.Tags) > 0 {
			tags = " " + strings.Join(note.Tags, " ") + " "
		}

		// Fields are separated by ASCII 31
		fields := strings.Join(note.Fields, "\x1f")

		_, err := db.Exec(noteQuery,
			noteID,                   // id
			note.GUID,                // guid
			g.model.ID,               // mid
			mod,                      // mod
			-1,                       // usn
			tags,                     // tags
			fields,                   // flds
			sortField,                // sfld (sort field)
			fieldChecksum(sortField), // csum
			0,                        // flags
			"",                       // data
		)
		if err != nil {
			return fmt.Errorf("failed to insert note %s: %w", note.GUID, err)
		}

		for ord := range g.model.Templates {
			cardID := stableID(fmt.Sprintf("%s/%d", note.GUID, ord))
			_, err = db.Exec(cardQuery,
				cardID,   // id
				noteID,   // nid
				g.deckID, // did
				ord,      // ord (template index)
				mod,      // mod
				-1,       // usn
				0,        // type (0=new)
				0,        // queue (0=new)
				i+1,      // due (for new cards, this is position)
				0,        // ivl
				0,        // factor
				0,        // reps
				0,        // lapses
				0,        // left
				0,        // odue
				0,        // odid
				0,        // flags
				"",       // data
			)
			if err != nil {
				return fmt.Errorf("failed to insert card %d of note %s: %w", ord, note.GUID, err)
			}
		}
	}

	return nil
}

// stableID derives a positive 53-bit id from a key, so regenerated decks
// keep their note and card ids
func stableID(key string) int64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return int64(h.Sum64() & (1<<53 - 1))
}

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// fieldChecksum is Anki's duplicate check: the first 8 hex digits of the
// SHA1 of the sort field without HTML
func fieldChecksum(value string) int64 {
	sum := sha1.Sum([]byte(htmlTag.ReplaceAllString(value, "")))
	return int64(binary.BigEndian.Uint32(sum[:4]))
}

// copyMediaFiles copies media files and assigns them numbers
func (g *APKGGenerator) copyMediaFiles(tempDir string) error {
	// Media files go directly in the temp directory with numeric names
	for _, note := range g.notes {
		for _, mediaFile := range note.MediaFiles {
			if !fileExists(mediaFile) {
				return fmt.Errorf("media file %s of note %s not found", mediaFile, note.GUID)
			}

			name := filepath.Base(mediaFile)
			if _, exists := g.mediaFiles[name]; exists {
				continue
			}

			targetPath := filepath.Join(tempDir, strconv.Itoa(g.mediaCounter))
			if err := copyFile(mediaFile, targetPath); err != nil {
				return fmt.Errorf("failed to copy media file %s: %w", mediaFile, err)
			}
			g.mediaFiles[name] = g.mediaCounter
			g.mediaCounter++
		}
	}

	return nil
}

// createMediaMapping creates the media mapping JSON file
func (g *APKGGenerator) createMediaMapping(tempDir string) error {
	// Reverse mapping (number -> filename)
	mapping := make(map[string]string)
	for filename, num := range g.mediaFiles {
		mapping[strconv.Itoa(num)] = filename
	}

	data, err := json.Marshal(mapping)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(tempDir, "media"), data, 0644)
}

// createZipPackage creates the final .apkg zip file
func (g *APKGGenerator) createZipPackage(tempDir, outputPath string) error {
	zipFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	archive := zip.NewWriter(zipFile)

	err = filepath.Walk(tempDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(tempDir, path)
		if err != nil {
			return err
		}

		writer, err := archive.Create(filepath.ToSlash(relPath))
		if err != nil {
			return err
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		_, err = io.Copy(writer, file)
		return err
	})
	if err != nil {
		return err
	}

	return archive.Close()
}

// Helper functions

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	return err
}
