package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	slim2md "github.com/alnah/go-slim2md"
	"github.com/alnah/go-slim2md/internal/compile"
	"github.com/alnah/go-slim2md/internal/hints"
)

// conversionParams groups what every file of a run shares.
type conversionParams struct {
	conv      *slim2md.Converter // safe for concurrent use
	compiler  *compile.Compiler  // nil when compiling is off
	preview   bool
	overrides slim2md.Input // Title applied to every file
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath    string
	OutputPath   string
	Extra        []string // preview and compiler outputs
	Warnings     []string
	Unterminated int
	Err          error
	Duration     time.Duration
}

// convertBatch processes files concurrently with a fixed number of workers.
func convertBatch(ctx context.Context, workers int, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := workers
	if concurrency > len(files) {
		concurrency = len(files)
	}
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, params, files[idx])
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile converts one source through a FileHost and writes the
// optional preview and compiler outputs.
func convertFile(ctx context.Context, params *conversionParams, f FileToConvert) (result ConversionResult) {
	start := time.Now()
	result = ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	defer func() { result.Duration = time.Since(start) }()

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrCreateOutputDir, err)
		return result
	}

	host := &slim2md.FileHost{Path: f.InputPath, Output: f.OutputPath, Perm: filePermissions}
	conv, err := params.conv.ConvertActiveWith(ctx, host, params.overrides)
	if err != nil {
		result.Err = err
		return result
	}
	result.Warnings = conv.Warnings
	result.Unterminated = conv.Stats.Unterminated()

	result.Extra, result.Err = finishOutput(ctx, params, conv, f.OutputPath, absDir(f.InputPath))
	return result
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResultsWithWriter outputs conversion results using the provided writers.
// Returns the number of failures.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)
	unterminated := false

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		printWarnings(env.Stderr, r.InputPath, r.Warnings)
		unterminated = unterminated || r.Unterminated > 0

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
		for _, extra := range r.Extra {
			fmt.Fprintf(env.Stdout, "Created %s\n", extra)
		}
	}

	if unterminated {
		fmt.Fprintln(env.Stderr, strings.TrimPrefix(hints.ForUnterminatedBlocks(), "\n"))
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

// printWarnings writes one line per conversion warning.
func printWarnings(w io.Writer, source string, warnings []string) {
	for _, msg := range warnings {
		fmt.Fprintf(w, "warning: %s: %s\n", source, msg)
	}
}

// batchError reports failed conversions. It unwraps to the first failure
// so the exit code follows its cause.
type batchError struct {
	failed int
	first  error
}

func newBatchError(results []ConversionResult, failed int) *batchError {
	e := &batchError{failed: failed}
	for _, r := range results {
		if r.Err != nil {
			e.first = r.Err
			break
		}
	}
	return e
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d conversion(s) failed", e.failed)
}

func (e *batchError) Unwrap() error {
	return e.first
}

// resolvePoolSize determines the worker count.
// Priority: explicit value > GOMAXPROCS-based calculation.
func resolvePoolSize(flagWorkers int) int {
	if flagWorkers > 0 {
		return flagWorkers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0) / 2

	// Minimum 1, maximum 8
	if n < 1 {
		return 1
	}
	if n > 8 {
		return 8
	}
	return n
}
