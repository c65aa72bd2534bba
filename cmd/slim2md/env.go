package main

import (
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/alnah/go-slim2md/internal/compile"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, and the process runner used by the compiler.
type Environment struct {
	Now      func() time.Time
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Runner   compile.CommandRunner
	LookPath func(string) (string, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:      time.Now,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Runner:   &compile.ExecRunner{},
		LookPath: exec.LookPath,
	}
}
