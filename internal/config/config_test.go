package config

// Notes:
// - Name resolution in the user config directory is not tested: it depends
//   on os.UserConfigDir, which cannot be redirected portably. Resolution in
//   the current directory is covered with t.Chdir.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfig writes content to dir/name and returns the path.
func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Input.Extension != ".slim" {
		t.Errorf("Input.Extension = %q, want .slim", cfg.Input.Extension)
	}
	if cfg.Output.Extension != ".md" {
		t.Errorf("Output.Extension = %q, want .md", cfg.Output.Extension)
	}
	if cfg.Preview.Enabled || cfg.Compile.Enabled {
		t.Error("optional features should be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig - File loading and strict parsing
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads every section", func(t *testing.T) {
		t.Parallel()

		content := `input:
  defaultDir: "slides"
output:
  defaultDir: "out"
metadata:
  author: "Jane"
  keywords: "rust,traits"
  locale: "bg-BG"
  date: "auto:DD.MM.YYYY"
  codeTheme: "monokai"
blocks:
  codeLanguage: "rust"
  closeUnterminated: true
  unindented: true
  nfc: true
assets:
  basePath: "theme"
  template: "frontmatter"
preview:
  enabled: true
compile:
  enabled: true
  command: "pandoc"
  args: ["-t", "revealjs", "{input}", "-o", "{output}"]
  timeout: "30s"
`
		cfg, err := LoadConfig(writeConfig(t, t.TempDir(), "deck.yaml", content))
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}

		if cfg.Input.DefaultDir != "slides" || cfg.Output.DefaultDir != "out" {
			t.Errorf("dirs = %q, %q", cfg.Input.DefaultDir, cfg.Output.DefaultDir)
		}
		if cfg.Input.Extension != ".slim" {
			t.Errorf("Input.Extension = %q, default should survive", cfg.Input.Extension)
		}
		if cfg.Metadata.Author != "Jane" || cfg.Metadata.Locale != "bg-BG" || cfg.Metadata.CodeTheme != "monokai" {
			t.Errorf("Metadata = %+v", cfg.Metadata)
		}
		if !cfg.Blocks.CloseUnterminated || !cfg.Blocks.Unindented || !cfg.Blocks.NFC || cfg.Blocks.SkipNormalize {
			t.Errorf("Blocks = %+v", cfg.Blocks)
		}
		if cfg.Assets.Template != "frontmatter" || !cfg.Preview.Enabled {
			t.Errorf("Assets = %+v, Preview = %+v", cfg.Assets, cfg.Preview)
		}
		if len(cfg.Compile.Args) != 5 || cfg.Compile.Args[3] != "-o" {
			t.Errorf("Compile.Args = %v", cfg.Compile.Args)
		}
		if d, _ := cfg.Compile.TimeoutDuration(); d != 30*time.Second {
			t.Errorf("TimeoutDuration() = %v, want 30s", d)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(writeConfig(t, t.TempDir(), "bad.yaml", "metadata: [unclosed"))
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(writeConfig(t, t.TempDir(), "unknown.yaml", "metadata:\n  titel: x\n"))
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("field too long returns ErrFieldTooLong", func(t *testing.T) {
		t.Parallel()

		content := "metadata:\n  author: \"" + strings.Repeat("a", MaxNameLength+1) + "\"\n"
		_, err := LoadConfig(writeConfig(t, t.TempDir(), "long.yaml", content))
		if !errors.Is(err, ErrFieldTooLong) {
			t.Errorf("error = %v, want ErrFieldTooLong", err)
		}
	})
}

func TestLoadConfig_ByName(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "course.yml", "metadata:\n  author: \"Course team\"\n")
	t.Chdir(dir)

	cfg, err := LoadConfig("course")
	if err != nil {
		t.Fatalf("LoadConfig(course) error = %v", err)
	}
	if cfg.Metadata.Author != "Course team" {
		t.Errorf("Metadata.Author = %q", cfg.Metadata.Author)
	}

	_, err = LoadConfig("missing-config-xyz")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("error = %v, want ErrConfigNotFound", err)
	}
	if !strings.Contains(err.Error(), "missing-config-xyz.yaml") {
		t.Errorf("error should list tried paths, got %q", err)
	}
}

// ---------------------------------------------------------------------------
// TestConfig_Validate - Value checks
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "known locale",
			mutate: func(c *Config) { c.Metadata.Locale = "ru" },
		},
		{
			name:    "unknown locale",
			mutate:  func(c *Config) { c.Metadata.Locale = "ja" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "extension without dot",
			mutate:  func(c *Config) { c.Output.Extension = "md" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "lone dot extension",
			mutate:  func(c *Config) { c.Input.Extension = "." },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "code language with backtick",
			mutate:  func(c *Config) { c.Blocks.CodeLanguage = "rust`" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "compile enabled without command",
			mutate:  func(c *Config) { c.Compile.Enabled = true },
			wantErr: ErrInvalidValue,
		},
		{
			name:   "compile disabled without command",
			mutate: func(c *Config) { c.Compile.Timeout = "1m" },
		},
		{
			name:    "bad timeout",
			mutate:  func(c *Config) { c.Compile.Timeout = "soon" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "theme too long",
			mutate:  func(c *Config) { c.Metadata.CodeTheme = strings.Repeat("x", MaxThemeLength+1) },
			wantErr: ErrFieldTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	if err := validateFieldLength("f", "abc", 3); err != nil {
		t.Errorf("at limit: unexpected error %v", err)
	}
	err := validateFieldLength("metadata.author", "abcd", 3)
	if !errors.Is(err, ErrFieldTooLong) {
		t.Fatalf("over limit: error = %v, want ErrFieldTooLong", err)
	}
	if !strings.Contains(err.Error(), "metadata.author") {
		t.Errorf("error should name the field, got %q", err)
	}
}
