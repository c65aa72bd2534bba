package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	flag "github.com/spf13/pflag"

	slim2md "github.com/alnah/go-slim2md"
	"github.com/alnah/go-slim2md/internal/compile"
	"github.com/alnah/go-slim2md/internal/config"
	"github.com/alnah/go-slim2md/internal/hints"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string       `json:"status"` // "ready", "warnings", "errors"
	Config   configInfo   `json:"config"`
	Compiler compilerInfo `json:"compiler"`
	Env      envInfo      `json:"environment"`
	System   systemInfo   `json:"system"`
	Locales  []string     `json:"locales"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// configInfo describes the loaded configuration.
type configInfo struct {
	Name   string `json:"name,omitempty"`
	Loaded bool   `json:"loaded"`
	Locale string `json:"locale"`
}

// compilerInfo holds slide compiler detection results.
type compilerInfo struct {
	Enabled bool   `json:"enabled"`
	Command string `json:"command,omitempty"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	CompilerEnv   string `json:"compiler_env,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
	GOMAXPROCS   int  `json:"gomaxprocs"`
	Workers      int  `json:"workers"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	var jsonOutput bool
	var configName string
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.BoolVar(&jsonOutput, "json", false, "machine-readable output")
	fs.StringVarP(&configName, "config", "c", "", "config file name or path")
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printDoctorUsage(env.Stderr) }
	if err := parse(fs, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	result := runDoctor(ctx, configName, env)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, configName string, env *Environment) *doctorResult {
	result := &doctorResult{
		Status:  "ready",
		Locales: slim2md.Locales(),
		Env: envInfo{
			OS:          runtime.GOOS,
			Arch:        runtime.GOARCH,
			CompilerEnv: os.Getenv(hints.CompilerEnv),
		},
	}

	cfg := checkConfig(result, configName, env)
	checkCompiler(ctx, result, cfg, env)
	checkEnvironment(result)
	checkSystem(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkConfig loads the configuration and builds a converter from it.
// Returns the defaults when the config cannot be loaded.
func checkConfig(result *doctorResult, name string, env *Environment) *config.Config {
	result.Config.Name = name

	cfg, _, err := loadConfig(name, env)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		cfg = config.DefaultConfig()
	} else {
		result.Config.Loaded = name != "" || os.Getenv("SLIM2MD_CONFIG") != ""
	}

	conv, err := newConverter(cfg, env)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("converter: %v", err))
		return cfg
	}
	result.Config.Locale = conv.Metadata().Locale
	return cfg
}

// checkCompiler resolves the slide compiler and asks for its version.
// A missing compiler is an error only when compiling is enabled.
func checkCompiler(ctx context.Context, result *doctorResult, cfg *config.Config, env *Environment) {
	info := &result.Compiler
	info.Enabled = cfg.Compile.Enabled
	info.Command = cfg.Compile.Command

	report := func(msg string) {
		if info.Enabled {
			result.Errors = append(result.Errors, msg)
		} else {
			result.Warnings = append(result.Warnings, msg)
		}
	}

	if info.Command == "" {
		report("no slide compiler configured (compile.command or " + hints.CompilerEnv + "); --compile is unavailable")
		return
	}

	c := compile.New(compile.Options{Command: info.Command})
	if env.LookPath != nil {
		c.LookPath = env.LookPath
	}
	path, err := c.Check()
	if err != nil {
		report(fmt.Sprintf("%s not found on PATH", info.Command))
		return
	}
	info.Found = true
	info.Path = path

	if env.Runner == nil {
		return
	}
	stdout, _, err := env.Runner.Run(ctx, path, "--version")
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("could not get %s version: %v", info.Command, err))
		return
	}
	info.Version, _, _ = strings.Cut(strings.TrimSpace(stdout), "\n")
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Compiler.Enabled && !result.Compiler.Found {
		result.Warnings = append(result.Warnings,
			"Container/CI detected: install "+result.Compiler.Command+" in the build image")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("SLIM2MD_CONTAINER") == "1" {
		return true, "SLIM2MD_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for compiling stdin input
// and reports the worker default.
func checkSystem(result *doctorResult) {
	result.System.GOMAXPROCS = runtime.GOMAXPROCS(0)
	result.System.Workers = resolvePoolSize(0)

	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "slim2md-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "slim2md doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Configuration")
	if r.Config.Loaded {
		fmt.Fprintf(w, "  [OK] Loaded: %s\n", r.Config.Name)
	} else {
		fmt.Fprintln(w, "  [OK] Using defaults")
	}
	if r.Config.Locale != "" {
		fmt.Fprintf(w, "  [OK] Header locale: %s\n", r.Config.Locale)
	}
	fmt.Fprintf(w, "  [OK] Known locales: %s\n", strings.Join(r.Locales, ", "))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Slide compiler")
	switch {
	case r.Compiler.Found:
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Compiler.Path)
		if r.Compiler.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Compiler.Version)
		}
	case r.Compiler.Command == "":
		fmt.Fprintln(w, "  [--] Not configured")
	default:
		fmt.Fprintf(w, "  [--] %s not found\n", r.Compiler.Command)
	}
	if r.Compiler.Enabled {
		fmt.Fprintln(w, "  [OK] Compile: enabled")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	fmt.Fprintf(w, "  [OK] Workers: %d (GOMAXPROCS %d)\n", r.System.Workers, r.System.GOMAXPROCS)
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
