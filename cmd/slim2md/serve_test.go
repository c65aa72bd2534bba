package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// frame wraps a JSON-RPC message in its Content-Length header.
func frame(msg string) string {
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(msg), msg)
}

// ---------------------------------------------------------------------------
// TestRunServe
// ---------------------------------------------------------------------------

func TestRunServe_Exit(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "serve.log")
	env := newTestEnv(frame(`{"jsonrpc":"2.0","method":"exit"}`))

	if err := runServeCmd(context.Background(), []string{"--log", logPath, "-l", "en"}, env.Environment); err != nil {
		t.Fatalf("runServeCmd() error = %v", err)
	}

	logged := readFile(t, logPath)
	if !strings.Contains(logged, "starting dev") {
		t.Errorf("log = %q, want start line", logged)
	}
	if env.stderr.Len() != 0 {
		t.Errorf("stderr = %q, want nothing when logging to a file", env.stderr.String())
	}
}

func TestRunServe_EOF(t *testing.T) {
	t.Parallel()

	env := newTestEnv("")
	if err := runServeCmd(context.Background(), []string{"-v"}, env.Environment); err != nil {
		t.Fatalf("runServeCmd() error = %v", err)
	}
	if !strings.Contains(env.stderr.String(), "slim2md-serve: ") {
		t.Errorf("stderr = %q, want logs with -v", env.stderr.String())
	}
}

func TestRunServe_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"positional argument", []string{"deck.slim"}, ExitUsage},
		{"unknown locale", []string{"-l", "xx-nope"}, ExitUsage},
		{"missing config", []string{"-c", "/nonexistent/slim2md.yaml"}, ExitUsage},
		{"unwritable log", []string{"--log", "/nonexistent/dir/serve.log"}, ExitIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv("")
			err := runServeCmd(context.Background(), tt.args, env.Environment)
			if got := exitCodeFor(err); got != tt.want {
				t.Errorf("exit code for %v = %d, want %d", err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestOpenLog
// ---------------------------------------------------------------------------

func TestOpenLog(t *testing.T) {
	t.Parallel()

	fallback := &strings.Builder{}
	w, closeLog, err := openLog("", fallback)
	if err != nil || w != fallback {
		t.Fatalf("openLog(\"\") = %v, %v; want fallback", w, err)
	}
	closeLog()

	path := filepath.Join(t.TempDir(), "a.log")
	if err := os.WriteFile(path, []byte("old\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	w, closeLog, err = openLog(path, fallback)
	if err != nil {
		t.Fatalf("openLog() error = %v", err)
	}
	fmt.Fprintln(w, "new")
	closeLog()

	if got := readFile(t, path); got != "old\nnew\n" {
		t.Errorf("log = %q, want appended", got)
	}

	if _, _, err := openLog(filepath.Join(path, "x"), fallback); err == nil {
		t.Error("openLog() under a file should fail")
	}
}
