package main

// Notes:
// - Container and CI detection read the real environment. Tests assert the
//   parts that do not depend on where they run.

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunDoctor
// ---------------------------------------------------------------------------

func TestRunDoctor_CompilerFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv("")
	env.runner.stdout = "pandoc 3.1.9\nFeatures: +server\n"
	cfg := compileConfig(t, t.TempDir(), "pandoc")

	result := runDoctor(context.Background(), cfg, env.Environment)

	if !result.Config.Loaded || result.Config.Locale != "bg" {
		t.Errorf("Config = %+v, want loaded with default locale bg", result.Config)
	}
	c := result.Compiler
	if !c.Found || c.Path != "/usr/bin/pandoc" || c.Version != "pandoc 3.1.9" {
		t.Errorf("Compiler = %+v", c)
	}
	if len(result.Locales) == 0 {
		t.Error("Locales should list the known locales")
	}
	if !result.System.TempWritable || result.System.Workers < 1 {
		t.Errorf("System = %+v", result.System)
	}
}

func TestRunDoctor_CompilerMissing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		yaml       string
		wantStatus string
		wantErrors bool
	}{
		{
			name:       "disabled compile only warns",
			yaml:       "compile:\n  command: marp\n",
			wantStatus: "warnings",
		},
		{
			name:       "enabled compile is an error",
			yaml:       "compile:\n  enabled: true\n  command: marp\n",
			wantStatus: "errors",
			wantErrors: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := setupTestDir(t, map[string]string{"c.yaml": tt.yaml})
			env := newTestEnv("")

			result := runDoctor(context.Background(), filepath.Join(dir, "c.yaml"), env.Environment)
			if result.Compiler.Found {
				t.Error("marp should not be found")
			}
			if result.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", result.Status, tt.wantStatus)
			}
			if (len(result.Errors) > 0) != tt.wantErrors {
				t.Errorf("Errors = %v", result.Errors)
			}
		})
	}
}

func TestRunDoctor_VersionFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv("")
	env.runner.err = errors.New("exit status 2")
	cfg := compileConfig(t, t.TempDir(), "pandoc")

	result := runDoctor(context.Background(), cfg, env.Environment)
	if !result.Compiler.Found || result.Compiler.Version != "" {
		t.Errorf("Compiler = %+v", result.Compiler)
	}
	if !strings.Contains(strings.Join(result.Warnings, "\n"), "could not get pandoc version") {
		t.Errorf("Warnings = %v", result.Warnings)
	}
}

func TestRunDoctor_BadConfig(t *testing.T) {
	t.Parallel()

	env := newTestEnv("")
	result := runDoctor(context.Background(), "/nonexistent/c.yaml", env.Environment)

	if result.Status != "errors" {
		t.Errorf("Status = %q, want errors", result.Status)
	}
	if result.Config.Loaded {
		t.Error("Config.Loaded should be false")
	}
	if result.Config.Locale != "bg" {
		t.Errorf("Locale = %q, want defaults to be checked", result.Config.Locale)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd - Output formats and exit codes
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSON(t *testing.T) {
	t.Parallel()

	env := newTestEnv("")
	env.runner.stdout = "pandoc 3.1.9"
	cfg := compileConfig(t, t.TempDir(), "pandoc")

	code := runDoctorCmd(context.Background(), []string{"--json", "-c", cfg}, env.Environment)
	if code != ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, ExitSuccess)
	}

	var got doctorResult
	if err := json.Unmarshal(env.stdout.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, env.stdout.String())
	}
	if got.Compiler.Version != "pandoc 3.1.9" {
		t.Errorf("compiler version = %q", got.Compiler.Version)
	}
	if got.Env.OS == "" {
		t.Error("environment.os should be set")
	}
}

func TestRunDoctorCmd_Text(t *testing.T) {
	t.Parallel()

	env := newTestEnv("")
	dir := setupTestDir(t, map[string]string{"c.yaml": "compile:\n  enabled: true\n  command: marp\n"})

	code := runDoctorCmd(context.Background(), []string{"-c", filepath.Join(dir, "c.yaml")}, env.Environment)
	if code != ExitGeneral {
		t.Errorf("exit code = %d, want %d", code, ExitGeneral)
	}

	out := env.stdout.String()
	for _, want := range []string{
		"slim2md doctor",
		"Configuration",
		"[--] marp not found",
		"[ERROR] marp not found on PATH",
		"Status: Not ready",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunDoctorCmd_Flags(t *testing.T) {
	t.Parallel()

	env := newTestEnv("")
	if code := runDoctorCmd(context.Background(), []string{"--help"}, env.Environment); code != ExitSuccess {
		t.Errorf("--help exit code = %d, want %d", code, ExitSuccess)
	}
	if !strings.Contains(env.stderr.String(), "Usage: slim2md doctor") {
		t.Errorf("stderr = %q, want usage", env.stderr.String())
	}

	env = newTestEnv("")
	if code := runDoctorCmd(context.Background(), []string{"--bogus"}, env.Environment); code != ExitUsage {
		t.Errorf("bad flag exit code = %d, want %d", code, ExitUsage)
	}
}
