package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	slim2md "github.com/alnah/go-slim2md"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagDuration
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	TakesFiles  bool   // accepts file arguments
	FilePattern string // glob for file arguments (e.g., "*.slim")
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
// Locales are filled in by getCommands.
var flagCompletionMeta = map[string]completionMeta{
	// Enum flags
	"code-lang":  {Values: []string{"rust", "go", "c", "cpp", "haskell", "python", "text"}},
	"code-theme": {Values: []string{"github", "monokai", "dracula", "solarized-light", "nord"}},
	"date":       {Values: []string{"auto", "iso", "european", "us"}},

	// File flags with glob patterns
	"config":   {FileGlob: "*.yaml,*.yml"},
	"template": {FileGlob: "*.tmpl"},
	"style":    {FileGlob: "*.css"},
	"log":      {FileGlob: "*.log"},

	// Directory flags
	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet, locales []string) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		case "duration":
			fd.Type = flagDuration
		default:
			fd.Type = flagString
		}

		meta, ok := flagCompletionMeta[f.Name]
		if f.Name == "locale" {
			meta, ok = completionMeta{Values: locales}, len(locales) > 0
		}
		if ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets.
func getCommands(locales []string) []commandDef {
	convertFS := newConvertFlagSet("convert", &convertFlags{})

	var wf watchFlags
	watchFS := newConvertFlagSet("watch", &wf.convert)
	watchFS.DurationVar(&wf.interval, "interval", 0, "debounce interval")

	serveFS := flag.NewFlagSet("serve", flag.ContinueOnError)
	var sf serveFlags
	serveFS.StringVarP(&sf.config, "config", "c", "", "config file name or path")
	serveFS.StringVarP(&sf.locale, "locale", "l", "", "default header locale")
	serveFS.StringVar(&sf.logFile, "log", "", "log file")
	serveFS.BoolVarP(&sf.verbose, "verbose", "v", false, "log to stderr")

	doctorFS := flag.NewFlagSet("doctor", flag.ContinueOnError)
	doctorFS.StringP("config", "c", "", "config file name or path")
	doctorFS.Bool("json", false, "machine-readable output")

	return []commandDef{
		{
			Name:        "convert",
			Desc:        "Convert slide sources to Markdown",
			Flags:       extractFlagsFromFlagSet(convertFS, locales),
			TakesFiles:  true,
			FilePattern: "*.slim",
		},
		{
			Name:  "watch",
			Desc:  "Reconvert sources when they change",
			Flags: extractFlagsFromFlagSet(watchFS, locales),
		},
		{
			Name:  "serve",
			Desc:  "Run the JSON-RPC editor bridge",
			Flags: extractFlagsFromFlagSet(serveFS, locales),
		},
		{
			Name:  "doctor",
			Desc:  "Check configuration and slide compiler",
			Flags: extractFlagsFromFlagSet(doctorFS, locales),
		},
		{
			Name: "completion",
			Desc: "Generate shell completion script",
		},
		{
			Name: "version",
			Desc: "Show version information",
		},
		{
			Name: "help",
			Desc: "Show help for a command",
		},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell, locales []string) error {
	cmds := getCommands(locales)
	switch shell {
	case ShellBash:
		return generateBash(w, cmds)
	case ShellZsh:
		return generateZsh(w, cmds)
	case ShellFish:
		return generateFish(w, cmds)
	case ShellPowerShell:
		return generatePowerShell(w, cmds)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]), slim2md.Locales())
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: slim2md completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(slim2md completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(slim2md completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    slim2md completion fish > ~/.config/fish/completions/slim2md.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    slim2md completion powershell | Out-String | Invoke-Expression")
}
