package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	slim2md "github.com/alnah/go-slim2md"
	"github.com/alnah/go-slim2md/internal/compile"
	"github.com/alnah/go-slim2md/internal/config"
	"github.com/alnah/go-slim2md/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrWriteOutput        = errors.New("failed to write output")
	ErrCreateOutputDir    = errors.New("failed to create output directory")
	ErrCompileNeedsOutput = errors.New("--compile with stdin input requires --output")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// stdinArg selects standard input as the source.
const stdinArg = "-"

// runConvertCmd parses convert flags and runs the conversion.
func runConvertCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	return runConvert(ctx, positional, flags, env)
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, envCfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}

	// Merge CLI flags into config (CLI wins), then validate the result
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	params, err := newConversionParams(cfg, flags, env)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}

	if inputPath == stdinArg {
		return convertStdin(ctx, params, flags.output, flags.common.quiet, env)
	}

	outputDir := resolveOutputDir(flags.output, cfg)

	files, err := discoverFiles(inputPath, outputDir, cfg.Input.Extension, cfg.Output.Extension)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no %s files found in %s", ErrNoInput, cfg.Input.Extension, inputPath)
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	workers = resolvePoolSize(workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Workers: %d\n", workers)
	}

	results := convertBatch(ctx, workers, files, params)

	failedCount := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if failedCount > 0 {
		return newBatchError(results, failedCount)
	}

	return nil
}

// loadConfig loads the named config (flag, then SLIM2MD_CONFIG) and
// applies environment overrides.
func loadConfig(name string, env *Environment) (*config.Config, *envConfig, error) {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		if cfg, err = config.LoadConfig(name); err != nil {
			return nil, nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, envCfg, nil
}

// mergeFlags overrides config values with explicitly set CLI flags.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	m := flags.metadata
	if m.locale != "" {
		cfg.Metadata.Locale = m.locale
	}
	if m.author != "" {
		cfg.Metadata.Author = m.author
	}
	if m.keywords != "" {
		cfg.Metadata.Keywords = m.keywords
	}
	if m.date != "" {
		cfg.Metadata.Date = m.date
	}
	if m.codeTheme != "" {
		cfg.Metadata.CodeTheme = m.codeTheme
	}

	b := flags.blocks
	if b.codeLang != "" {
		cfg.Blocks.CodeLanguage = b.codeLang
	}
	if b.closeUnterminated {
		cfg.Blocks.CloseUnterminated = true
	}
	if b.unindented {
		cfg.Blocks.Unindented = true
	}
	if b.noNormalize {
		cfg.Blocks.SkipNormalize = true
	}
	if b.nfc {
		cfg.Blocks.NFC = true
	}

	a := flags.assets
	if a.assetPath != "" {
		cfg.Assets.BasePath = a.assetPath
	}
	if a.template != "" {
		cfg.Assets.Template = a.template
	}
	if a.style != "" {
		cfg.Preview.Style = a.style
	}

	if flags.outputMode.html {
		cfg.Preview.Enabled = true
	}
	if flags.outputMode.compile {
		cfg.Compile.Enabled = true
	}
}

// newConverter builds a Converter from the merged config.
func newConverter(cfg *config.Config, env *Environment) (*slim2md.Converter, error) {
	opts := []slim2md.Option{
		slim2md.WithMetadata(slim2md.Metadata(cfg.Metadata)),
		slim2md.WithCloseUnterminated(cfg.Blocks.CloseUnterminated),
		slim2md.WithUnindentedBlocks(cfg.Blocks.Unindented),
		slim2md.WithUnicodeNFC(cfg.Blocks.NFC),
		slim2md.WithAssetPath(cfg.Assets.BasePath),
		slim2md.WithTemplate(cfg.Assets.Template),
		slim2md.WithPreviewStyle(cfg.Preview.Style),
		slim2md.WithClock(env.Now),
	}
	if cfg.Blocks.CodeLanguage != "" {
		opts = append(opts, slim2md.WithCodeLanguage(cfg.Blocks.CodeLanguage))
	}
	if cfg.Blocks.SkipNormalize {
		opts = append(opts, slim2md.WithoutNormalize())
	}
	return slim2md.NewConverter(opts...)
}

// newCompiler returns the configured slide compiler, or nil when
// compiling is off. The command is resolved on PATH up front.
func newCompiler(cfg *config.Config, env *Environment) (*compile.Compiler, error) {
	if !cfg.Compile.Enabled {
		return nil, nil
	}

	timeout, err := cfg.Compile.TimeoutDuration()
	if err != nil {
		return nil, fmt.Errorf("%w: compile.timeout: %v", config.ErrInvalidValue, err)
	}

	c := compile.New(compile.Options{
		Command:   cfg.Compile.Command,
		Args:      cfg.Compile.Args,
		OutputExt: cfg.Compile.Output,
		Timeout:   timeout,
	})
	if env.Runner != nil {
		c.Runner = env.Runner
	}
	if env.LookPath != nil {
		c.LookPath = env.LookPath
	}

	if _, err := c.Check(); err != nil {
		return nil, err
	}
	return c, nil
}

// newConversionParams builds everything shared by the files of a run.
func newConversionParams(cfg *config.Config, flags *convertFlags, env *Environment) (*conversionParams, error) {
	conv, err := newConverter(cfg, env)
	if err != nil {
		return nil, err
	}
	compiler, err := newCompiler(cfg, env)
	if err != nil {
		return nil, err
	}
	return &conversionParams{
		conv:      conv,
		compiler:  compiler,
		preview:   cfg.Preview.Enabled,
		overrides: slim2md.Input{Title: flags.metadata.title},
	}, nil
}

// resolveInputPath returns the source from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir returns the output from the flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// convertStdin converts standard input. Without an output path the
// Markdown goes to stdout; with one it is written (or compiled) there.
func convertStdin(ctx context.Context, p *conversionParams, output string, quiet bool, env *Environment) error {
	if output == "" {
		if p.compiler != nil {
			return ErrCompileNeedsOutput
		}
		host := &slim2md.StdioHost{In: env.Stdin, Out: env.Stdout}
		result, err := p.conv.ConvertActiveWith(ctx, host, p.overrides)
		if err != nil {
			return err
		}
		if !quiet {
			printWarnings(env.Stderr, stdinArg, result.Warnings)
		}
		return nil
	}

	var md strings.Builder
	host := &slim2md.StdioHost{In: env.Stdin, Out: &md}
	result, err := p.conv.ConvertActiveWith(ctx, host, p.overrides)
	if err != nil {
		return err
	}
	if !quiet {
		printWarnings(env.Stderr, stdinArg, result.Warnings)
	}

	// An output with the compiler's extension skips the Markdown file.
	if p.compiler != nil && p.compiler.OutputPath(output) == output {
		if err := p.compiler.CompileContent(ctx, md.String(), output); err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(env.Stdout, "Created %s\n", output)
		}
		return nil
	}

	if err := fileutil.WriteFileAtomic(output, []byte(md.String()), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	extra, err := finishOutput(ctx, p, result, output, "")
	if err != nil {
		return err
	}
	if !quiet {
		for _, path := range append([]string{output}, extra...) {
			fmt.Fprintf(env.Stdout, "Created %s\n", path)
		}
	}
	return nil
}

// finishOutput writes the preview and runs the compiler for a Markdown
// file already on disk. Returns the extra files created.
func finishOutput(ctx context.Context, p *conversionParams, result *slim2md.ConvertResult, mdPath, sourceDir string) ([]string, error) {
	var created []string

	if p.preview {
		page, err := p.conv.Preview(ctx, result, sourceDir)
		if err != nil {
			return created, err
		}
		htmlPath := previewPath(mdPath)
		if err := fileutil.WriteFileAtomic(htmlPath, []byte(page), filePermissions); err != nil {
			return created, fmt.Errorf("%w: %s: %v", ErrWriteOutput, htmlPath, err)
		}
		created = append(created, htmlPath)
	}

	if p.compiler != nil {
		out, err := p.compiler.Compile(ctx, mdPath)
		if err != nil {
			return created, fmt.Errorf("compiling %s: %w", mdPath, err)
		}
		created = append(created, out)
	}

	return created, nil
}

// absDir returns the absolute directory of path, or its plain directory
// if it cannot be made absolute.
func absDir(path string) string {
	dir := filepath.Dir(path)
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}
