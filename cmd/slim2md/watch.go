package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/alnah/go-slim2md/internal/watcher"
)

// runWatchCmd parses watch flags and watches a directory.
func runWatchCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseWatchFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	return runWatch(ctx, positional, flags, env)
}

// watchSession converts the files reported by the watcher.
type watchSession struct {
	root      string
	outputDir string
	outExt    string
	workers   int
	params    *conversionParams
	flags     *convertFlags
	env       *Environment
	logger    *log.Logger
}

// runWatch converts every source under the root once, then reconverts
// sources as they change until ctx is canceled.
func runWatch(ctx context.Context, positionalArgs []string, flags *watchFlags, env *Environment) error {
	cf := &flags.convert
	if err := validateWorkers(cf.workers); err != nil {
		return err
	}

	cfg, envCfg, err := loadConfig(cf.common.config, env)
	if err != nil {
		return err
	}
	mergeFlags(cf, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	root, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}
	if root == stdinArg {
		return fmt.Errorf("%w: watch needs a directory, not stdin", ErrInvalidFlags)
	}
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: watch needs a directory: %s", ErrInvalidFlags, root)
	}

	params, err := newConversionParams(cfg, cf, env)
	if err != nil {
		return err
	}

	workers := cf.workers
	if workers == 0 {
		workers = envCfg.Workers
	}

	s := &watchSession{
		root:      root,
		outputDir: resolveOutputDir(cf.output, cfg),
		outExt:    cfg.Output.Extension,
		workers:   resolvePoolSize(workers),
		params:    params,
		flags:     cf,
		env:       env,
		logger:    log.New(env.Stderr, "slim2md: ", log.LstdFlags),
	}

	files, err := discoverFiles(root, s.outputDir, cfg.Input.Extension, s.outExt)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	s.convert(ctx, files)

	w, err := watcher.New(root, func(changed, removed []string) {
		s.handle(ctx, changed, removed)
	}, watcher.Options{
		Extension: cfg.Input.Extension,
		Interval:  flags.interval,
		Logger:    s.logger,
	})
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	return w.Run(ctx)
}

// handle reconverts changed sources. Outputs of removed sources are kept.
func (s *watchSession) handle(ctx context.Context, changed, removed []string) {
	files := make([]FileToConvert, 0, len(changed))
	for _, path := range changed {
		files = append(files, FileToConvert{
			InputPath:  path,
			OutputPath: resolveOutputPath(path, s.outputDir, s.root, s.outExt),
		})
	}
	s.convert(ctx, files)

	if s.flags.common.quiet {
		return
	}
	for _, path := range removed {
		s.logger.Printf("%s removed; keeping %s", path,
			resolveOutputPath(path, s.outputDir, s.root, s.outExt))
	}
}

// convert runs one batch. Failures are reported and never stop the watch.
func (s *watchSession) convert(ctx context.Context, files []FileToConvert) {
	if len(files) == 0 {
		return
	}
	results := convertBatch(ctx, s.workers, files, s.params)
	printResultsWithWriter(results, s.flags.common.quiet, s.flags.common.verbose, s.env)
}
