// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-slim2md/internal/fileutil"
)

// CompilerEnv overrides the slide compiler command from the environment.
const CompilerEnv = "SLIM2MD_COMPILER"

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForCompilerNotFound returns hints for a slide compiler missing from PATH.
// Detects CI/Docker environment where the compiler usually has to be
// installed into the image.
func ForCompilerNotFound(command string) string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if inCI || IsInContainer() {
		hints = append(hints, "install "+command+" in the build image")
	} else if command != "" {
		hints = append(hints, "install "+command+" or add it to PATH")
	}

	if os.Getenv(CompilerEnv) == "" {
		hints = append(hints, "set compile.command in config or "+CompilerEnv)
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing the compiler timeout.
func ForTimeout() string {
	return format("for large decks, raise compile.timeout in config")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-slim2md/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-slim2md") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for style or template not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForUnknownLocale lists the locales with a known long-date layout.
func ForUnknownLocale(available []string) string {
	if len(available) == 0 {
		return format("use a BCP 47 tag such as bg or en")
	}
	return format("supported locales: " + strings.Join(available, ", "))
}

// ForUnterminatedBlocks suggests closing blocks left open at end of input.
func ForUnterminatedBlocks() string {
	return format("end list:/example: blocks with a blank line, or use --close-unterminated")
}

// ForNoInput returns a hint for a missing input argument.
func ForNoInput() string {
	return format("pass a .slim file, a directory, or - to read stdin")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
