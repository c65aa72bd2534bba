// Package compile runs an external slide compiler (pandoc, a reveal.js or
// Marp wrapper, ...) on converted Markdown.
package compile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/alnah/go-slim2md/internal/fileutil"
	"github.com/alnah/go-slim2md/internal/process"
)

// Sentinel errors.
var (
	ErrNoCommand        = errors.New("no compiler command configured")
	ErrCompilerNotFound = errors.New("compiler not found")
	ErrCompileFailed    = errors.New("compiler failed")
	ErrCompileTimeout   = errors.New("compiler timed out")
)

// Placeholders substituted in compiler arguments.
const (
	InputPlaceholder  = "{input}"
	OutputPlaceholder = "{output}"
)

// Defaults.
const (
	DefaultOutputExt = ".html"
	DefaultTimeout   = 2 * time.Minute
)

// DefaultArgs is used when no arguments are configured.
var DefaultArgs = []string{InputPlaceholder, "-o", OutputPlaceholder}

// waitDelay bounds how long Wait blocks on pipes after the process is killed.
const waitDelay = 5 * time.Second

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec. The child runs in its
// own process group, which is killed as a whole on cancellation.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	process.IsolateGroup(cmd)
	cmd.Cancel = func() error {
		process.KillProcessGroup(cmd.Process.Pid)
		return nil
	}
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// Options configures a Compiler.
type Options struct {
	Command   string
	Args      []string      // default DefaultArgs
	OutputExt string        // default DefaultOutputExt
	Timeout   time.Duration // default DefaultTimeout
}

// Compiler invokes the configured command once per Markdown file.
type Compiler struct {
	Runner   CommandRunner
	LookPath func(string) (string, error)
	opts     Options
}

// New creates a Compiler using the real command runner.
func New(opts Options) *Compiler {
	if len(opts.Args) == 0 {
		opts.Args = DefaultArgs
	}
	if opts.OutputExt == "" {
		opts.OutputExt = DefaultOutputExt
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Compiler{Runner: &ExecRunner{}, LookPath: exec.LookPath, opts: opts}
}

// Command returns the configured executable.
func (c *Compiler) Command() string {
	return c.opts.Command
}

// Check resolves the command on PATH.
func (c *Compiler) Check() (string, error) {
	if c.opts.Command == "" {
		return "", ErrNoCommand
	}
	path, err := c.LookPath(c.opts.Command)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrCompilerNotFound, c.opts.Command, err)
	}
	return path, nil
}

// OutputPath returns where Compile writes the result for inputPath.
func (c *Compiler) OutputPath(inputPath string) string {
	return fileutil.ReplaceExt(inputPath, c.opts.OutputExt)
}

// Compile runs the compiler on the Markdown file at inputPath and returns
// the output path.
func (c *Compiler) Compile(ctx context.Context, inputPath string) (string, error) {
	outputPath := c.OutputPath(inputPath)
	return outputPath, c.run(ctx, inputPath, outputPath)
}

// CompileContent writes markdown to a temporary file and compiles it to
// outputPath. Used when the Markdown never touches disk (stdin input).
func (c *Compiler) CompileContent(ctx context.Context, markdown, outputPath string) error {
	tmpPath, cleanup, err := fileutil.WriteTempFile(markdown, "md")
	if err != nil {
		return err
	}
	defer cleanup()

	return c.run(ctx, tmpPath, outputPath)
}

func (c *Compiler) run(ctx context.Context, inputPath, outputPath string) error {
	if c.opts.Command == "" {
		return ErrNoCommand
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	args := expandArgs(c.opts.Args, inputPath, outputPath)
	_, stderr, err := c.Runner.Run(ctx, c.opts.Command, args...)
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w after %s: %s", ErrCompileTimeout, c.opts.Timeout, c.opts.Command)
	case errors.Is(err, exec.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrCompilerNotFound, c.opts.Command)
	case ctx.Err() != nil:
		return ctx.Err()
	}

	msg := strings.TrimSpace(stderr)
	if msg == "" {
		return fmt.Errorf("%w: %s: %v", ErrCompileFailed, c.opts.Command, err)
	}
	return fmt.Errorf("%w: %s: %s: %v", ErrCompileFailed, c.opts.Command, msg, err)
}

// expandArgs substitutes the placeholders in every argument.
func expandArgs(args []string, inputPath, outputPath string) []string {
	r := strings.NewReplacer(InputPlaceholder, inputPath, OutputPlaceholder, outputPath)
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = r.Replace(a)
	}
	return out
}
