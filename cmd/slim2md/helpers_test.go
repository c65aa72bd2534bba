package main

// Notes:
// - Test infrastructure shared by the command tests: an Environment with
//   buffers, a fixed clock and a fake slide compiler.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// fixedNow renders "auto" header dates as 17 October 2026.
func fixedNow() time.Time {
	return time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
}

// fakeRunner stands in for the slide compiler. It writes "compiled" to the
// path following -o so callers see an output file.
type fakeRunner struct {
	mu     sync.Mutex
	calls  [][]string
	stdout string
	err    error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mu.Unlock()

	if f.err != nil {
		return "", "boom", f.err
	}
	for i, a := range args {
		if a == "-o" && i+1 < len(args) {
			_ = os.WriteFile(args[i+1], []byte("compiled"), 0o644)
		}
	}
	return f.stdout, "", nil
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// testEnv bundles an Environment with its captured output.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	runner *fakeRunner
}

// newTestEnv returns an environment whose compiler lookup finds only
// "pandoc".
func newTestEnv(stdin string) *testEnv {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	runner := &fakeRunner{}
	return &testEnv{
		Environment: &Environment{
			Now:    fixedNow,
			Stdin:  strings.NewReader(stdin),
			Stdout: stdout,
			Stderr: stderr,
			Runner: runner,
			LookPath: func(name string) (string, error) {
				if name == "pandoc" {
					return "/usr/bin/pandoc", nil
				}
				return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
			},
		},
		stdout: stdout,
		stderr: stderr,
		runner: runner,
	}
}

// setupTestDir creates a temp directory with the given file structure.
// Files map paths to content. Returns the temp directory path.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
			t.Fatalf("failed to create dir for %s: %v", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	return tempDir
}

// readFile returns the content of path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// exists reports whether path exists.
func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}

// writeFile replaces the content of path or fails the test.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
