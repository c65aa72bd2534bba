// Package config loads slim2md configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-slim2md/internal/dateutil"
	"github.com/alnah/go-slim2md/internal/fileutil"
	"github.com/alnah/go-slim2md/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// configDirName is the directory under os.UserConfigDir searched by name.
const configDirName = "go-slim2md"

// Field length limits.
const (
	MaxNameLength      = 100  // Author
	MaxKeywordsLength  = 200  // Comma-separated keywords
	MaxLocaleLength    = 35   // BCP 47 tags are short in practice
	MaxDateLength      = 50   // "auto:FORMAT" or literal date
	MaxCSSValueLength  = 100  // slide width, font size, font family
	MaxThemeLength     = 50   // Chroma style name
	MaxLanguageLength  = 30   // Fence language
	MaxExtensionLength = 10   // ".slim"
	MaxPathLength      = 4096 // Directories, templates, commands
)

// Config holds all configuration for slide conversion.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Metadata MetadataConfig `yaml:"metadata"`
	Blocks   BlocksConfig   `yaml:"blocks"`
	Assets   AssetsConfig   `yaml:"assets"`
	Preview  PreviewConfig  `yaml:"preview"`
	Compile  CompileConfig  `yaml:"compile"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
	Extension  string `yaml:"extension"`  // Source extension for directory scans (default ".slim")
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
	Extension  string `yaml:"extension"`  // Output extension (default ".md")
}

// MetadataConfig feeds the YAML header. Empty fields keep the defaults.
type MetadataConfig struct {
	Author     string `yaml:"author"`
	Keywords   string `yaml:"keywords"`
	Locale     string `yaml:"locale"`
	Date       string `yaml:"date"` // "auto", "auto:FORMAT" or literal
	SlideWidth string `yaml:"slideWidth"`
	FontSize   string `yaml:"fontSize"`
	FontFamily string `yaml:"fontFamily"`
	CodeTheme  string `yaml:"codeTheme"`
}

// BlocksConfig tunes the block rewriters.
type BlocksConfig struct {
	CodeLanguage      string `yaml:"codeLanguage"`      // Fence language for example: blocks (default "rust")
	CloseUnterminated bool   `yaml:"closeUnterminated"` // Close blocks still open at end of file
	Unindented        bool   `yaml:"unindented"`        // Also open blocks at column 0
	SkipNormalize     bool   `yaml:"skipNormalize"`     // Keep CRLF line endings
	NFC               bool   `yaml:"nfc"`               // Compose Unicode to NFC
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
	Template string `yaml:"template"` // Header template name or path
}

// PreviewConfig controls the HTML preview written next to the Markdown.
type PreviewConfig struct {
	Enabled bool   `yaml:"enabled"`
	Style   string `yaml:"style"` // Style name or CSS path (default "preview")
}

// CompileConfig runs an external slide compiler on each output.
type CompileConfig struct {
	Enabled bool     `yaml:"enabled"`
	Command string   `yaml:"command"` // Executable, e.g. "pandoc"
	Args    []string `yaml:"args"`    // {input} and {output} are substituted
	Output  string   `yaml:"output"`  // Output extension (default ".html")
	Timeout string   `yaml:"timeout"` // Go duration (default "2m")
}

// TimeoutDuration parses Timeout. Empty means zero.
func (c CompileConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(c.Timeout)
}

// Validate checks field lengths and values.
// Called automatically by LoadConfig, but available for callers that
// construct Config manually.
func (c *Config) Validate() error {
	checks := []struct {
		field string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"input.extension", c.Input.Extension, MaxExtensionLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"output.extension", c.Output.Extension, MaxExtensionLength},
		{"metadata.author", c.Metadata.Author, MaxNameLength},
		{"metadata.keywords", c.Metadata.Keywords, MaxKeywordsLength},
		{"metadata.locale", c.Metadata.Locale, MaxLocaleLength},
		{"metadata.date", c.Metadata.Date, MaxDateLength},
		{"metadata.slideWidth", c.Metadata.SlideWidth, MaxCSSValueLength},
		{"metadata.fontSize", c.Metadata.FontSize, MaxCSSValueLength},
		{"metadata.fontFamily", c.Metadata.FontFamily, MaxCSSValueLength},
		{"metadata.codeTheme", c.Metadata.CodeTheme, MaxThemeLength},
		{"blocks.codeLanguage", c.Blocks.CodeLanguage, MaxLanguageLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"assets.template", c.Assets.Template, MaxPathLength},
		{"preview.style", c.Preview.Style, MaxPathLength},
		{"compile.command", c.Compile.Command, MaxPathLength},
		{"compile.output", c.Compile.Output, MaxExtensionLength},
	}
	for _, chk := range checks {
		if err := validateFieldLength(chk.field, chk.value, chk.max); err != nil {
			return err
		}
	}

	for field, ext := range map[string]string{
		"input.extension":  c.Input.Extension,
		"output.extension": c.Output.Extension,
		"compile.output":   c.Compile.Output,
	} {
		if ext != "" && (!strings.HasPrefix(ext, ".") || len(ext) < 2) {
			return fmt.Errorf("%w: %s: %q must start with a dot", ErrInvalidValue, field, ext)
		}
	}

	if c.Metadata.Locale != "" {
		if _, err := dateutil.Lookup(c.Metadata.Locale); err != nil {
			return fmt.Errorf("%w: metadata.locale: %w", ErrInvalidValue, err)
		}
	}

	if strings.ContainsAny(c.Blocks.CodeLanguage, " \t`") {
		return fmt.Errorf("%w: blocks.codeLanguage: %q", ErrInvalidValue, c.Blocks.CodeLanguage)
	}

	if c.Compile.Enabled && c.Compile.Command == "" {
		return fmt.Errorf("%w: compile.command: required when compile is enabled", ErrInvalidValue)
	}
	if _, err := c.Compile.TimeoutDuration(); err != nil {
		return fmt.Errorf("%w: compile.timeout: %v", ErrInvalidValue, err)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration with every optional feature off.
// Empty metadata fields resolve to the header defaults at conversion time.
func DefaultConfig() *Config {
	return &Config{
		Input:  InputConfig{Extension: ".slim"},
		Output: OutputConfig{Extension: ".md"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-slim2md/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, configDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
