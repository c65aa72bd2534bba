package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/alnah/go-slim2md/internal/rpc"
)

// runServeCmd parses serve flags and runs the editor bridge on stdio.
func runServeCmd(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	return runServe(ctx, flags, env)
}

// runServe speaks JSON-RPC on Stdin/Stdout until the client exits or ctx
// is canceled. Stdout carries the protocol, so logs go to Stderr or --log.
func runServe(ctx context.Context, flags *serveFlags, env *Environment) error {
	cfg, _, err := loadConfig(flags.config, env)
	if err != nil {
		return err
	}
	if flags.locale != "" {
		cfg.Metadata.Locale = flags.locale
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	conv, err := newConverter(cfg, env)
	if err != nil {
		return err
	}

	fallback := io.Discard
	if flags.verbose {
		fallback = env.Stderr
	}
	logOut, closeLog, err := openLog(flags.logFile, fallback)
	if err != nil {
		return err
	}
	defer closeLog()

	logger := log.New(logOut, "slim2md-serve: ", log.LstdFlags)
	logger.Printf("starting %s", Version)

	return rpc.NewServer(conv, Version, logger).Serve(ctx, env.Stdin, env.Stdout)
}

// openLog opens path for appending, or returns fallback when path is empty.
func openLog(path string, fallback io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return fallback, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) // #nosec G304 -- user-provided log path
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
