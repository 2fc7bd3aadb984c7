package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestZipDirectoryAndExtract(t *testing.T) {
	tmpDir := t.TempDir()
	source := filepath.Join(tmpDir, "run")
	files := map[string]string{
		"info.json":      `{"deck_id": 1}`,
		"data.json":      `{}`,
		"1.mp3":          "audio",
		"nested/sub.txt": "sub content",
	}
	writeTree(t, source, files)

	archivePath := filepath.Join(tmpDir, "out", "run.zip")
	if err := ZipDirectory(source, archivePath); err != nil {
		t.Fatalf("ZipDirectory failed: %v", err)
	}

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatalf("Archive is not a valid zip: %v", err)
	}
	names := map[string]bool{}
	for _, f := range reader.File {
		names[f.Name] = true
	}
	reader.Close()

	for name := range files {
		if !names[name] {
			t.Errorf("Archive is missing %s (entries: %v)", name, names)
		}
	}

	destDir := filepath.Join(tmpDir, "extracted")
	if err := Extract(archivePath, destDir); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	for name, want := range files {
		got, err := os.ReadFile(filepath.Join(destDir, filepath.FromSlash(name)))
		if err != nil {
			t.Errorf("Extracted file %s missing: %v", name, err)
			continue
		}
		if string(got) != want {
			t.Errorf("Extracted %s = %q, want %q", name, got, want)
		}
	}
}

func TestZipDirectory_NoLeftovers(t *testing.T) {
	tmpDir := t.TempDir()
	source := filepath.Join(tmpDir, "run")
	writeTree(t, source, map[string]string{"a.txt": "a"})

	outDir := filepath.Join(tmpDir, "out")
	if err := ZipDirectory(source, filepath.Join(outDir, "run.zip")); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "run.zip" {
		t.Errorf("Expected only run.zip in output dir, got %v", entries)
	}
}

func TestZipDirectory_MissingSource(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "run.zip")

	if err := ZipDirectory(filepath.Join(tmpDir, "missing"), outputPath); err == nil {
		t.Fatal("Expected error for missing source directory")
	}
	if _, err := os.Stat(outputPath); !os.IsNotExist(err) {
		t.Error("No archive may be written on failure")
	}
}

func TestExtract_RejectsEscapingEntries(t *testing.T) {
	tmpDir := t.TempDir()
	archivePath := filepath.Join(tmpDir, "evil.zip")

	file, err := os.Create(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	w := zip.NewWriter(file)
	entry, err := w.Create("../escaped.txt")
	if err != nil {
		t.Fatal(err)
	}
	entry.Write([]byte("evil"))
	w.Close()
	file.Close()

	destDir := filepath.Join(tmpDir, "dest")
	err = Extract(archivePath, destDir)
	if err == nil || !strings.Contains(err.Error(), "escapes") {
		t.Fatalf("Expected escape error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "escaped.txt")); !os.IsNotExist(err) {
		t.Error("Escaping entry was written")
	}
}

func TestExtract_NotAnArchive(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "plain.zip")
	os.WriteFile(path, []byte("not a zip"), 0644)

	if err := Extract(path, filepath.Join(tmpDir, "dest")); err == nil {
		t.Error("Expected error for invalid archive")
	}
}

func TestUniqueDir(t *testing.T) {
	tmpDir := t.TempDir()
	now := time.Date(2026, 3, 14, 15, 9, 26, 535897000, time.UTC)

	first, err := UniqueDir(tmpDir, "en_el_26_03_14_15_09_26", now)
	if err != nil {
		t.Fatalf("UniqueDir failed: %v", err)
	}
	if filepath.Base(first) != "en_el_26_03_14_15_09_26" {
		t.Errorf("Unexpected directory %s", first)
	}

	second, err := UniqueDir(tmpDir, "en_el_26_03_14_15_09_26", now)
	if err != nil {
		t.Fatalf("UniqueDir on collision failed: %v", err)
	}
	if filepath.Base(second) != "en_el_26_03_14_15_09_26_535897" {
		t.Errorf("Expected microsecond suffix, got %s", filepath.Base(second))
	}

	if info, err := os.Stat(second); err != nil || !info.IsDir() {
		t.Error("Second run directory was not created")
	}
}

func TestCopyFile(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src.mp3")
	os.WriteFile(src, []byte("audio"), 0644)

	dst := filepath.Join(tmpDir, "nested", "dst.mp3")
	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil || string(got) != "audio" {
		t.Errorf("Copied content = %q, err = %v", got, err)
	}

	if err := CopyFile(filepath.Join(tmpDir, "missing"), dst); err == nil {
		t.Error("Expected error for missing source")
	}
}
