package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// ErrInvalidFlags wraps flag parsing failures.
var ErrInvalidFlags = errors.New("invalid flags")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// metadataFlags holds header value flags.
type metadataFlags struct {
	title     string
	locale    string
	author    string
	keywords  string
	date      string
	codeTheme string
}

// blockFlags tunes the block rewriters.
type blockFlags struct {
	codeLang          string
	closeUnterminated bool
	unindented        bool
	noNormalize       bool
	nfc               bool
}

// assetFlags holds asset-related flags (template, preview style, custom asset path).
type assetFlags struct {
	assetPath string
	template  string
	style     string
}

// outputFlags holds extra output flags.
type outputFlags struct {
	html    bool // HTML preview next to the Markdown
	compile bool // run the configured slide compiler
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common     commonFlags
	output     string
	workers    int
	metadata   metadataFlags
	blocks     blockFlags
	assets     assetFlags
	outputMode outputFlags
}

// watchFlags adds the debounce interval to the convert flags.
type watchFlags struct {
	convert  convertFlags
	interval time.Duration
}

// serveFlags holds flags for the editor bridge.
type serveFlags struct {
	config  string
	locale  string
	logFile string
	verbose bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addMetadataFlags adds header flags to a FlagSet.
func addMetadataFlags(fs *flag.FlagSet, f *metadataFlags) {
	fs.StringVar(&f.title, "title", "", "header title (default: file name)")
	fs.StringVarP(&f.locale, "locale", "l", "", "header locale, e.g. bg, en, de")
	fs.StringVar(&f.author, "author", "", "header author")
	fs.StringVar(&f.keywords, "keywords", "", "header keywords, comma-separated")
	fs.StringVar(&f.date, "date", "", "header date: auto, auto:FORMAT, preset or literal")
	fs.StringVar(&f.codeTheme, "code-theme", "", "chroma style for code blocks")
}

// addBlockFlags adds block rewriting flags to a FlagSet.
func addBlockFlags(fs *flag.FlagSet, f *blockFlags) {
	fs.StringVar(&f.codeLang, "code-lang", "", "fence language of example: blocks (default rust)")
	fs.BoolVar(&f.closeUnterminated, "close-unterminated", false, "close blocks still open at end of file")
	fs.BoolVar(&f.unindented, "unindented-blocks", false, "also open list:/example: blocks at column 0")
	fs.BoolVar(&f.noNormalize, "no-normalize", false, "keep CRLF line endings")
	fs.BoolVar(&f.nfc, "nfc", false, "compose Unicode to NFC before converting")
}

// addAssetFlags adds asset flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.StringVar(&f.template, "template", "", "header template name or path")
	fs.StringVar(&f.style, "style", "", "preview style name or CSS path")
}

// addOutputFlags adds extra output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.BoolVar(&f.html, "html", false, "write an HTML preview next to each output")
	fs.BoolVar(&f.compile, "compile", false, "run the slide compiler on each output")
}

// newConvertFlagSet registers every convert flag on a new FlagSet bound to f.
func newConvertFlagSet(name string, f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addMetadataFlags(fs, &f.metadata)
	addBlockFlags(fs, &f.blocks)
	addAssetFlags(fs, &f.assets)
	addOutputFlags(fs, &f.outputMode)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, usage io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet("convert", f)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printConvertUsage(usage) }

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseWatchFlags parses watch command flags and returns positional args.
func parseWatchFlags(args []string, usage io.Writer) (*watchFlags, []string, error) {
	f := &watchFlags{}
	fs := newConvertFlagSet("watch", &f.convert)
	fs.DurationVar(&f.interval, "interval", 0, "debounce interval (default 150ms)")
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printWatchUsage(usage) }

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, usage io.Writer) (*serveFlags, error) {
	f := &serveFlags{}
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&f.locale, "locale", "l", "", "default header locale")
	fs.StringVar(&f.logFile, "log", "", "log file (default stderr)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log to stderr when --log is not set")
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printServeUsage(usage) }

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: serve takes no arguments, got %q", ErrInvalidFlags, fs.Args())
	}
	return f, nil
}

// parse runs fs.Parse and tags failures with ErrInvalidFlags.
// flag.ErrHelp is returned as is.
func parse(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	fs.Usage()
	return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
}
