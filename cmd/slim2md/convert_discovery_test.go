package main

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// ---------------------------------------------------------------------------
// TestDiscoverFiles
// ---------------------------------------------------------------------------

func TestDiscoverFiles_Directory(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"a.slim":                "x",
		"B.SLIM":                "x",
		"notes.md":              "x",
		"sub/c.slim":            "x",
		".git/d.slim":           "x",
		"node_modules/e.slim":   "x",
		"sub/.hidden/f.slim":    "x",
		"sub/deeper/g.slim.bak": "x",
	})

	files, err := discoverFiles(dir, "", ".slim", ".md")
	if err != nil {
		t.Fatalf("discoverFiles() error = %v", err)
	}

	var got []string
	for _, f := range files {
		rel, _ := filepath.Rel(dir, f.InputPath)
		got = append(got, rel)
	}
	sort.Strings(got)
	want := []string{"B.SLIM", "a.slim", filepath.Join("sub", "c.slim")}
	if len(got) != len(want) {
		t.Fatalf("found %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("file[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	for _, f := range files {
		if filepath.Ext(f.OutputPath) != ".md" || filepath.Dir(f.OutputPath) != filepath.Dir(f.InputPath) {
			t.Errorf("OutputPath = %q for %q, want sibling .md", f.OutputPath, f.InputPath)
		}
	}
}

func TestDiscoverFiles_SingleFile(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"deck.txt": "x", "deck.md": "x"})

	files, err := discoverFiles(filepath.Join(dir, "deck.txt"), "", ".slim", ".md")
	if err != nil {
		t.Fatalf("discoverFiles() error = %v", err)
	}
	if len(files) != 1 || files[0].OutputPath != filepath.Join(dir, "deck.md") {
		t.Errorf("files = %+v", files)
	}

	if _, err := discoverFiles(filepath.Join(dir, "deck.md"), "", ".slim", ".md"); !errors.Is(err, ErrInvalidExtension) {
		t.Errorf("output extension as input: error = %v, want ErrInvalidExtension", err)
	}
	if _, err := discoverFiles(filepath.Join(dir, "missing.slim"), "", ".slim", ".md"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing input: error = %v, want ErrNotExist", err)
	}
}

// ---------------------------------------------------------------------------
// TestResolveOutputPath
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                     string
		input, outDir, base, ext string
		want                     string
	}{
		{"beside source", "decks/a.slim", "", "", ".md", "decks/a.md"},
		{"into directory", "decks/a.slim", "out", "", ".md", "out/a.md"},
		{"explicit file", "decks/a.slim", "out/week1.md", "", ".md", "out/week1.md"},
		{"mirrors tree", "decks/part2/a.slim", "out", "decks", ".md", "out/part2/a.md"},
		{"custom extension", "a.slim", "", "", ".markdown", "a.markdown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := resolveOutputPath(filepath.FromSlash(tt.input), filepath.FromSlash(tt.outDir), filepath.FromSlash(tt.base), tt.ext)
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("resolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidation helpers
// ---------------------------------------------------------------------------

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, MaxWorkers} {
		if err := validateWorkers(n); err != nil {
			t.Errorf("validateWorkers(%d) error = %v", n, err)
		}
	}
	for _, n := range []int{-1, MaxWorkers + 1} {
		if err := validateWorkers(n); !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error = %v, want ErrInvalidWorkerCount", n, err)
		}
	}
}

func TestPreviewPath(t *testing.T) {
	t.Parallel()

	if got := previewPath(filepath.FromSlash("out/a.md")); got != filepath.FromSlash("out/a.preview.html") {
		t.Errorf("previewPath() = %q", got)
	}
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	if got := resolvePoolSize(5); got != 5 {
		t.Errorf("resolvePoolSize(5) = %d, want 5", got)
	}
	if got := resolvePoolSize(0); got < 1 || got > 8 {
		t.Errorf("resolvePoolSize(0) = %d, want 1..8", got)
	}
}
