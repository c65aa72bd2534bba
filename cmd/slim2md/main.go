package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUnknownCommand is returned for a first argument that is neither a
// command nor a source path.
var ErrUnknownCommand = errors.New("unknown command")

func main() {
	// Configure GOMAXPROCS before sizing the worker pool.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// runMain dispatches to a command and returns the process exit code.
// A first argument that is not a command is a source for convert.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	if !isCommand(cmd) {
		if !looksLikeSource(cmd) {
			err := fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
			fmt.Fprintf(env.Stderr, "error: %v\n", err)
			printUsage(env.Stderr)
			return exitCodeFor(err)
		}
		cmd, rest = "convert", args[1:]
	}

	var err error
	switch cmd {
	case "convert":
		err = runConvertCmd(ctx, rest, env)
	case "watch":
		err = runWatchCmd(ctx, rest, env)
	case "serve":
		err = runServeCmd(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(ctx, rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "slim2md %s\n", Version)
	case "help", "-h", "--help":
		runHelp(rest, env)
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	}
	return exitCodeFor(err)
}

// isCommand reports whether arg names a command.
func isCommand(arg string) bool {
	switch arg {
	case "convert", "watch", "serve", "doctor", "completion", "version", "help", "-h", "--help":
		return true
	}
	return false
}

// looksLikeSource reports whether arg can be handed to convert: stdin,
// a flag, or an existing path.
func looksLikeSource(arg string) bool {
	if arg == "-" || len(arg) > 1 && arg[0] == '-' {
		return true
	}
	_, err := os.Stat(arg)
	return err == nil
}

// hasVerboseFlag scans raw arguments for -v or --verbose before any
// command parses them.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}
