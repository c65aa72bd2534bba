package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: slim2md <command> [flags] [args]")
	fmt.Fprintln(w, "       slim2md <file|dir|-> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Convert slide sources to Markdown (default)")
	fmt.Fprintln(w, "  watch       Reconvert sources when they change")
	fmt.Fprintln(w, "  serve       Run the JSON-RPC editor bridge on stdio")
	fmt.Fprintln(w, "  doctor      Check configuration and slide compiler")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'slim2md help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: slim2md convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert slide sources to Markdown with a YAML header.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Source file, directory, or - for stdin")
	fmt.Fprintln(w, "           (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	printConvertFlags(w)
}

// printConvertFlags prints the flags shared by convert and watch.
func printConvertFlags(w io.Writer) {
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>        Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>        Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>          Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Header:")
	fmt.Fprintln(w, "      --title <s>            Title (default: file name without extension)")
	fmt.Fprintln(w, "  -l, --locale <s>           Locale of the date and lang field (default bg)")
	fmt.Fprintln(w, "      --author <s>           Author")
	fmt.Fprintln(w, "      --keywords <s>         Comma-separated keywords")
	fmt.Fprintln(w, "      --date <s>             Date: \"auto\", \"auto:FORMAT\", preset, or literal")
	fmt.Fprintln(w, "                             Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                             Presets: iso, european, us")
	fmt.Fprintln(w, "      --code-theme <s>       Chroma style for code blocks (default github)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Blocks:")
	fmt.Fprintln(w, "      --code-lang <s>        Fence language of example: blocks (default rust)")
	fmt.Fprintln(w, "      --close-unterminated   Close blocks still open at end of file")
	fmt.Fprintln(w, "      --unindented-blocks    Also open list:/example: blocks at column 0")
	fmt.Fprintln(w, "      --no-normalize         Keep CRLF line endings (default: converted to LF)")
	fmt.Fprintln(w, "      --nfc                  Compose Unicode to NFC (default: text kept as written)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Assets:")
	fmt.Fprintln(w, "      --asset-path <dir>     Custom asset directory (templates/, styles/)")
	fmt.Fprintln(w, "      --template <name>      Header template name or path")
	fmt.Fprintln(w, "      --style <name>         Preview style name or CSS path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Extra output:")
	fmt.Fprintln(w, "      --html                 Write NAME.preview.html next to each output")
	fmt.Fprintln(w, "      --compile              Run compile.command on each output")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                Only show errors")
	fmt.Fprintln(w, "  -v, --verbose              Show detailed timing")
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: slim2md watch <dir> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert every source under dir, then reconvert sources as they change.")
	fmt.Fprintln(w, "Stop with Ctrl+C.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --interval <d>         Debounce interval (default 150ms)")
	fmt.Fprintln(w)
	printConvertFlags(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: slim2md serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run the JSON-RPC 2.0 editor bridge on stdin/stdout.")
	fmt.Fprintln(w, "The slim2md.convert command converts an open document in place.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -c, --config <name>        Config file name or path")
	fmt.Fprintln(w, "  -l, --locale <s>           Default header locale")
	fmt.Fprintln(w, "      --log <path>           Append logs to a file")
	fmt.Fprintln(w, "  -v, --verbose              Log to stderr when --log is not set")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: slim2md doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check configuration, locales and the slide compiler.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -c, --config <name>        Config file name or path")
	fmt.Fprintln(w, "      --json                 Machine-readable output")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "watch":
		printWatchUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: slim2md version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: slim2md help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
