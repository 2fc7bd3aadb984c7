package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/vocabdeck/internal/archive"
	"codeberg.org/snonux/vocabdeck/internal/language"
	"codeberg.org/snonux/vocabdeck/internal/logger"
	"codeberg.org/snonux/vocabdeck/internal/snapshot"
	"codeberg.org/snonux/vocabdeck/internal/testutil"
	"codeberg.org/snonux/vocabdeck/internal/translation"
	"codeberg.org/snonux/vocabdeck/internal/vocab"
)

var (
	createTime = time.Date(2024, 3, 5, 14, 30, 15, 0, time.UTC)
	updateTime = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
)

type fixture struct {
	primary   *testutil.MockTranslator
	secondary *testutil.MockBatchTranslator
	tts       *testutil.MockAudioProvider
	out       bytes.Buffer
}

func newFixture() *fixture {
	return &fixture{
		primary: &testutil.MockTranslator{
			Translations: map[string]string{"Hello": "Γειά", "Γειά": "Hoi"},
		},
		secondary: &testutil.MockBatchTranslator{
			Translations: map[string]string{"Hello": "Γειά σου"},
		},
		tts: &testutil.MockAudioProvider{},
	}
}

func (f *fixture) processor(now time.Time) *Processor {
	return New(Dependencies{
		Primary:   translation.NewPerPhraseAdapter("primary", f.primary, 2, nil),
		Secondary: translation.NewBatchAdapter("secondary", f.secondary, 20, nil),
		Audio:     f.tts,
		Catalog:   language.DefaultCatalog(),
		Out:       &f.out,
		Now:       func() time.Time { return now },
	})
}

func createOptions(vocabPath, outputDir string) CreateOptions {
	return CreateOptions{
		VocabPath:            vocabPath,
		SourceLanguage:       "en",
		TargetLanguage:       "el",
		VerificationLanguage: "nl",
		DeckID:               1700000000,
		AddReverseCards:      true,
		OutputDir:            outputDir,
	}
}

func loadSnapshot(t *testing.T, path string) *snapshot.Snapshot {
	t.Helper()
	snap, err := snapshot.Load(context.Background(), path, t.TempDir())
	require.NoError(t, err)
	return snap
}

func TestCreate(t *testing.T) {
	tmpDir := t.TempDir()
	outputDir := filepath.Join(tmpDir, "Output")
	vocabPath := testutil.CreateVocabFile(t, tmpDir, "vocab.tsv", "1\tHello\tgreeting", "2\tBye")

	f := newFixture()
	result, err := f.processor(createTime).Create(context.Background(), createOptions(vocabPath, outputDir))
	require.NoError(t, err)

	runName := "en_el_24_03_05_14_30_15"
	assert.Equal(t, filepath.Join(outputDir, runName+".apkg"), result.DeckPath)
	assert.Equal(t, filepath.Join(outputDir, runName+".zip"), result.SnapshotPath)
	assert.Equal(t, 2, result.Translated)
	testutil.AssertFileExists(t, result.DeckPath)
	testutil.AssertFileNotExists(t, filepath.Join(outputDir, runName))

	assert.Equal(t, snapshot.DeckInfo{
		DeckID:               1700000000,
		DeckName:             "Translated Greek vocabulary",
		SourceLanguage:       "en",
		TargetLanguage:       "el",
		VerificationLanguage: "nl",
	}, result.Info)

	assert.Equal(t, []string{"1.mp3", "2.mp3", "data.json", "info.json", "vocab.csv"},
		testutil.ZipEntries(t, result.SnapshotPath))

	snap := loadSnapshot(t, result.SnapshotPath)
	assert.Equal(t, result.Info, snap.Info)

	hello := snap.Entries[1]
	assert.Equal(t, "Hello", hello.Source)
	assert.Equal(t, "Γειά / Γειά σου", hello.Target)
	assert.Equal(t, "Hoi", hello.Verification)
	assert.Equal(t, []string{"greeting"}, hello.Tags)
	testutil.AssertFileContent(t, hello.AudioFile, []byte("audio:el:Γειά / Γειά σου"))

	assert.Equal(t, "Bye[el]", snap.Entries[2].Target)
	assert.Equal(t, "Bye[el][nl]", snap.Entries[2].Verification)

	assert.Equal(t, []string{"Γειά / Γειά σου", "Bye[el]"}, f.tts.Calls())
	assert.Contains(t, f.out.String(), "Done! Anki deck saved to "+outputDir+".")
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	tmpDir := t.TempDir()
	outputDir := filepath.Join(tmpDir, "Output")
	vocabPath := testutil.CreateVocabFile(t, tmpDir, "vocab.tsv", "1\tHello")

	t.Run("unsupported language", func(t *testing.T) {
		f := newFixture()
		opts := createOptions(vocabPath, outputDir)
		opts.TargetLanguage = "xx"

		_, err := f.processor(createTime).Create(context.Background(), opts)
		var unsupported *language.UnsupportedError
		require.True(t, errors.As(err, &unsupported), "expected UnsupportedError, got %v", err)
		assert.Empty(t, f.primary.Calls())
		assert.NoDirExists(t, outputDir)
	})

	t.Run("missing deck id", func(t *testing.T) {
		opts := createOptions(vocabPath, outputDir)
		opts.DeckID = 0

		_, err := newFixture().processor(createTime).Create(context.Background(), opts)
		assert.ErrorContains(t, err, "deck id")
	})

	t.Run("duplicate ids", func(t *testing.T) {
		dupPath := testutil.CreateVocabFile(t, t.TempDir(), "dup.tsv", "7\tHello", "7\tBye")

		f := newFixture()
		_, err := f.processor(createTime).Create(context.Background(), createOptions(dupPath, outputDir))
		var dup *vocab.DuplicateIDError
		require.True(t, errors.As(err, &dup), "expected DuplicateIDError, got %v", err)
		assert.Empty(t, f.primary.Calls())
	})

	t.Run("tag with whitespace", func(t *testing.T) {
		tagPath := testutil.CreateVocabFile(t, t.TempDir(), "tags.tsv", "1\tHello\tfood truck")

		f := newFixture()
		_, err := f.processor(createTime).Create(context.Background(), createOptions(tagPath, outputDir))
		var tagErr *vocab.InvalidTagError
		require.True(t, errors.As(err, &tagErr), "expected InvalidTagError, got %v", err)
		assert.Empty(t, f.primary.Calls())
	})
}

func TestCreateProviderFailureLeavesNoArchive(t *testing.T) {
	tmpDir := t.TempDir()
	outputDir := filepath.Join(tmpDir, "Output")
	vocabPath := testutil.CreateVocabFile(t, tmpDir, "vocab.tsv", "1\tHello", "2\tBye")

	f := newFixture()
	f.primary.Errors = map[string]error{"Bye": errors.New("service unavailable")}

	_, err := f.processor(createTime).Create(context.Background(), createOptions(vocabPath, outputDir))
	var providerErr *translation.ProviderError
	require.True(t, errors.As(err, &providerErr), "expected ProviderError, got %v", err)
	assert.Equal(t, 2, providerErr.ID)

	assert.Empty(t, testutil.Glob(t, outputDir, "*.zip"))
	assert.Empty(t, testutil.Glob(t, outputDir, "*.apkg"))
	assert.Empty(t, f.tts.Calls())
}

func TestCreateAudioFailureLeavesNoArchive(t *testing.T) {
	tmpDir := t.TempDir()
	outputDir := filepath.Join(tmpDir, "Output")
	vocabPath := testutil.CreateVocabFile(t, tmpDir, "vocab.tsv", "1\tHello")

	f := newFixture()
	f.tts.Errors = map[string]error{"Γειά / Γειά σου": errors.New("quota exceeded")}

	_, err := f.processor(createTime).Create(context.Background(), createOptions(vocabPath, outputDir))
	require.ErrorContains(t, err, "quota exceeded")
	assert.Empty(t, testutil.Glob(t, outputDir, "*.zip"))

	// The intermediate data is kept for inspection
	workDir := filepath.Join(outputDir, "en_el_24_03_05_14_30_15")
	testutil.AssertFileContains(t, filepath.Join(workDir, snapshot.DataFile), "Γειά / Γειά σου")
}

func TestUpdate(t *testing.T) {
	tmpDir := t.TempDir()
	outputDir := filepath.Join(tmpDir, "Output")
	vocabPath := testutil.CreateVocabFile(t, tmpDir, "vocab.tsv", "1\tHello\tgreeting", "2\tBye", "3\tThanks")

	created, err := newFixture().processor(createTime).Create(context.Background(), createOptions(vocabPath, outputDir))
	require.NoError(t, err)

	before, err := os.ReadFile(created.SnapshotPath)
	require.NoError(t, err)

	newVocab := testutil.CreateVocabFile(t, tmpDir, "vocab2.tsv",
		"1\tHello\tgreeting\tfood", "2\tGood night", "4\tPlease")

	f := newFixture()
	result, err := f.processor(updateTime).Update(context.Background(), UpdateOptions{
		VocabPath:       newVocab,
		DeckZipPath:     created.SnapshotPath,
		AddReverseCards: true,
		OutputDir:       outputDir,
	})
	require.NoError(t, err)

	assert.Equal(t, created.Info, result.Info)
	assert.Equal(t, 2, result.Translated)
	assert.Equal(t, 1, result.Retained)
	assert.Equal(t, filepath.Join(outputDir, "en_el_24_04_01_09_00_00.zip"), result.SnapshotPath)

	// Only changed entries are translated and pronounced
	assert.Equal(t, []string{"Good night[el]", "Please[el]"}, f.tts.Calls())
	for _, call := range f.primary.Calls() {
		assert.NotContains(t, call, "Hello")
	}

	snap := loadSnapshot(t, result.SnapshotPath)
	assert.Equal(t, []int{1, 2, 4}, snap.IDs())

	hello := snap.Entries[1]
	assert.Equal(t, "Γειά / Γειά σου", hello.Target)
	assert.Equal(t, []string{"greeting", "food"}, hello.Tags)
	testutil.AssertFileContent(t, hello.AudioFile, []byte("audio:el:Γειά / Γειά σου"))
	assert.Equal(t, "Good night", snap.Entries[2].Source)

	after, err := os.ReadFile(created.SnapshotPath)
	require.NoError(t, err)
	assert.Equal(t, before, after, "input snapshot must not be modified")

	assert.Contains(t, f.out.String(), "Found 2 changes: 1 new entries and 1 modified entries.")
	assert.Contains(t, f.out.String(), "Done! Anki deck saved to "+outputDir+".")
}

func TestUpdateMissingRetainedAudio(t *testing.T) {
	tmpDir := t.TempDir()
	snapDir := filepath.Join(tmpDir, "snap")
	require.NoError(t, os.MkdirAll(snapDir, 0755))

	info := snapshot.DeckInfo{DeckID: 42, DeckName: "Greek", SourceLanguage: "en", TargetLanguage: "el", VerificationLanguage: "nl"}
	snap := snapshot.New(info, snapDir)
	snap.Add(&snapshot.Entry{ID: 1, Source: "Hello", Target: "Γειά", Verification: "Hoi", AudioFile: filepath.Join(snapDir, "1.mp3")})
	require.NoError(t, snapshot.WriteData(snapDir, snap))

	infoData, err := json.Marshal(info)
	require.NoError(t, err)
	testutil.CreateTestFile(t, filepath.Join(snapDir, snapshot.InfoFile), infoData)

	zipPath := filepath.Join(tmpDir, "deck.zip")
	require.NoError(t, archive.ZipDirectory(snapDir, zipPath))

	vocabPath := testutil.CreateVocabFile(t, tmpDir, "vocab.tsv", "1\tHello")

	f := newFixture()
	_, err = f.processor(updateTime).Update(context.Background(), UpdateOptions{
		VocabPath:   vocabPath,
		DeckZipPath: zipPath,
		OutputDir:   filepath.Join(tmpDir, "Output"),
	})

	var integrityErr *snapshot.IntegrityError
	require.True(t, errors.As(err, &integrityErr), "expected IntegrityError, got %v", err)
	assert.Empty(t, f.primary.Calls())
}

func TestUpdateCorruptArchive(t *testing.T) {
	tmpDir := t.TempDir()
	zipPath := filepath.Join(tmpDir, "deck.zip")
	testutil.CreateTestFile(t, zipPath, []byte("not a zip"))
	vocabPath := testutil.CreateVocabFile(t, tmpDir, "vocab.tsv", "1\tHello")

	_, err := newFixture().processor(updateTime).Update(context.Background(), UpdateOptions{
		VocabPath:   vocabPath,
		DeckZipPath: zipPath,
		OutputDir:   filepath.Join(tmpDir, "Output"),
	})

	var integrityErr *snapshot.IntegrityError
	assert.True(t, errors.As(err, &integrityErr), "expected IntegrityError, got %v", err)
}

func TestFinishDetectsIdentityChange(t *testing.T) {
	tmpDir := t.TempDir()
	vocabPath := testutil.CreateVocabFile(t, tmpDir, "vocab.tsv", "1\tHello")

	p := newFixture().processor(createTime)
	triple := language.Triple{Source: "en", Target: "el", Verification: "nl"}

	ws, err := p.newWorkspace(filepath.Join(tmpDir, "Output"), triple)
	require.NoError(t, err)

	info := snapshot.DeckInfo{DeckID: 42, DeckName: "Greek", SourceLanguage: "en", TargetLanguage: "el", VerificationLanguage: "nl"}
	snap := snapshot.New(info, ws.dir)
	audioFile := filepath.Join(ws.dir, "1.mp3")
	testutil.CreateTestFile(t, audioFile, []byte("audio"))
	snap.Add(&snapshot.Entry{ID: 1, Source: "Hello", Target: "Γειά", Verification: "Hoi", AudioFile: audioFile})

	expected := info
	expected.DeckName = "Renamed"

	_, err = p.finish(snap, triple, ws, vocabPath, false, &expected)
	var consistencyErr *ConsistencyError
	require.True(t, errors.As(err, &consistencyErr), "expected ConsistencyError, got %v", err)
	assert.Equal(t, "Greek", consistencyErr.Actual.DeckName)
	testutil.AssertFileNotExists(t, ws.deckPath)
	testutil.AssertFileNotExists(t, ws.snapshotPath)
}

func TestRemoveStaleWarnsWhenDeckStays(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf, logger.INFO)
	t.Cleanup(func() { logger.SetOutput(os.Stderr, logger.INFO) })

	tmpDir := t.TempDir()
	removeStale(filepath.Join(tmpDir, "missing.apkg"))
	assert.Empty(t, buf.String(), "a deck that is already gone is not worth a warning")

	// A non-empty directory cannot be removed with os.Remove
	stuck := filepath.Join(tmpDir, "stuck.apkg")
	testutil.CreateTestFile(t, filepath.Join(stuck, "media"), []byte("x"))
	removeStale(stuck)

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "Failed to remove stale deck")
	assert.Contains(t, buf.String(), "stuck.apkg")
	testutil.AssertFileExists(t, stuck)
}

func TestNewWorkspaceAvoidsExistingArchives(t *testing.T) {
	outputDir := t.TempDir()
	now := time.Date(2024, 3, 5, 14, 30, 15, 123456000, time.UTC)
	p := New(Dependencies{Now: func() time.Time { return now }})
	triple := language.Triple{Source: "en", Target: "el", Verification: "en"}

	testutil.CreateTestFile(t, filepath.Join(outputDir, "en_el_24_03_05_14_30_15.zip"), []byte("old"))

	ws, err := p.newWorkspace(outputDir, triple)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outputDir, "en_el_24_03_05_14_30_15_123456"), ws.dir)
	assert.Equal(t, filepath.Join(outputDir, "en_el_24_03_05_14_30_15_123456.zip"), ws.snapshotPath)
	assert.DirExists(t, ws.dir)
}
