package main

import (
	"errors"
	"os"
	"strings"

	slim2md "github.com/alnah/go-slim2md"
	"github.com/alnah/go-slim2md/internal/compile"
	"github.com/alnah/go-slim2md/internal/config"
	"github.com/alnah/go-slim2md/internal/dateutil"
	"github.com/alnah/go-slim2md/internal/hints"
)

// Exit codes for the slim2md CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful conversion
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or input
	ExitIO       = 3 // File not found, permission denied
	ExitCompiler = 4 // Slide compiler missing, failed or timed out
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Compiler errors (exit 4)
	if errors.Is(err, compile.ErrCompilerNotFound) ||
		errors.Is(err, compile.ErrCompileFailed) ||
		errors.Is(err, compile.ErrCompileTimeout) {
		return ExitCompiler
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, slim2md.ErrNoActiveDocument) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, slim2md.ErrUnknownLocale) ||
		errors.Is(err, slim2md.ErrTemplateRender) ||
		errors.Is(err, slim2md.ErrInvalidCodeLang) ||
		errors.Is(err, slim2md.ErrStyleNotFound) ||
		errors.Is(err, slim2md.ErrTemplateNotFound) ||
		errors.Is(err, slim2md.ErrInvalidAssetPath) ||
		errors.Is(err, compile.ErrNoCommand) ||
		errors.Is(err, ErrInvalidFlags) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrCompileNeedsOutput) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	var be *batchError
	if errors.As(err, &be) {
		err = be.first
	}

	switch {
	case errors.Is(err, compile.ErrCompilerNotFound), errors.Is(err, compile.ErrNoCommand):
		return hints.ForCompilerNotFound(compilerName(err))
	case errors.Is(err, compile.ErrCompileTimeout):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(triedPaths(err))
	case errors.Is(err, slim2md.ErrUnknownLocale), errors.Is(err, dateutil.ErrUnknownLocale):
		return hints.ForUnknownLocale(slim2md.Locales())
	case errors.Is(err, slim2md.ErrStyleNotFound):
		return hints.ForStyleNotFound([]string{slim2md.PreviewStyle})
	case errors.Is(err, slim2md.ErrTemplateNotFound):
		return hints.ForStyleNotFound([]string{slim2md.FrontMatterTemplate})
	case errors.Is(err, ErrNoInput):
		return hints.ForNoInput()
	case errors.Is(err, ErrCreateOutputDir):
		return hints.ForOutputDirectory()
	}
	return ""
}

// compilerName extracts the command from "compiler not found: NAME: ...".
func compilerName(err error) string {
	_, rest, ok := strings.Cut(err.Error(), compile.ErrCompilerNotFound.Error()+": ")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(rest, ":")
	return name
}

// triedPaths extracts the searched locations from a config lookup error.
func triedPaths(err error) []string {
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}
