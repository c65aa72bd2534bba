package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-slim2md/internal/config"
	"github.com/alnah/go-slim2md/internal/hints"
)

// envPrefix starts every variable the CLI reads.
const envPrefix = "SLIM2MD_"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath     string // SLIM2MD_CONFIG: config file name or path
	Locale         string // SLIM2MD_LOCALE: header locale
	Author         string // SLIM2MD_AUTHOR: header author
	InputDir       string // SLIM2MD_INPUT_DIR: default input directory
	OutputDir      string // SLIM2MD_OUTPUT_DIR: default output directory
	Compiler       string // SLIM2MD_COMPILER: slide compiler command
	CompileTimeout string // SLIM2MD_COMPILE_TIMEOUT: Go duration
	Workers        int    // SLIM2MD_WORKERS: parallel workers
}

// knownEnvVars lists valid SLIM2MD_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"SLIM2MD_CONFIG":          true,
	"SLIM2MD_LOCALE":          true,
	"SLIM2MD_AUTHOR":          true,
	"SLIM2MD_INPUT_DIR":       true,
	"SLIM2MD_OUTPUT_DIR":      true,
	hints.CompilerEnv:         true,
	"SLIM2MD_COMPILE_TIMEOUT": true,
	"SLIM2MD_WORKERS":         true,
	"SLIM2MD_CONTAINER":       true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:     os.Getenv("SLIM2MD_CONFIG"),
		Locale:         os.Getenv("SLIM2MD_LOCALE"),
		Author:         os.Getenv("SLIM2MD_AUTHOR"),
		InputDir:       os.Getenv("SLIM2MD_INPUT_DIR"),
		OutputDir:      os.Getenv("SLIM2MD_OUTPUT_DIR"),
		Compiler:       os.Getenv(hints.CompilerEnv),
		CompileTimeout: os.Getenv("SLIM2MD_COMPILE_TIMEOUT"),
	}

	if workers := os.Getenv("SLIM2MD_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized SLIM2MD_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies environment values to cfg where cfg is still
// empty. Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Locale != "" && cfg.Metadata.Locale == "" {
		cfg.Metadata.Locale = env.Locale
	}
	if env.Author != "" && cfg.Metadata.Author == "" {
		cfg.Metadata.Author = env.Author
	}
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Compiler != "" && cfg.Compile.Command == "" {
		cfg.Compile.Command = env.Compiler
	}
	if env.CompileTimeout != "" && cfg.Compile.Timeout == "" {
		cfg.Compile.Timeout = env.CompileTimeout
	}
}
