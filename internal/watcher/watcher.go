// Package watcher reconverts slide sources when they change on disk.
package watcher

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeHandler is called with the debounced set of changed and removed
// source files. Calls are serialized.
type ChangeHandler func(changed, removed []string)

// Options configures a Watcher.
type Options struct {
	// Extension selects the watched files (default ".slim").
	Extension string
	// Interval is the debounce interval (default DefaultInterval).
	Interval time.Duration
	// Logger receives watcher diagnostics (default log.Default()).
	Logger *log.Logger
}

// Watcher monitors a directory tree for slide source changes.
type Watcher struct {
	fsw       *fsnotify.Watcher
	root      string
	ext       string
	handler   ChangeHandler
	debouncer *Debouncer
	logger    *log.Logger
	batches   chan batch
	done      chan struct{}
}

type batch struct {
	changed, removed []string
}

// New creates a watcher for root. Call Run to start it.
func New(root string, handler ChangeHandler, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if opts.Extension == "" {
		opts.Extension = ".slim"
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &Watcher{
		fsw:       fsw,
		root:      root,
		ext:       opts.Extension,
		handler:   handler,
		debouncer: NewDebouncer(opts.Interval),
		logger:    opts.Logger,
		batches:   make(chan batch, 16),
		done:      make(chan struct{}),
	}, nil
}

// Run watches until ctx is canceled, then releases the fsnotify watcher.
// A Watcher runs once.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	defer w.debouncer.Stop()
	defer close(w.done)

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != w.root && SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			if err := w.fsw.Add(path); err != nil {
				w.logger.Printf("failed to watch %s: %v", path, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	w.logger.Printf("watching %s for %s changes", w.root, w.ext)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Printf("watcher error: %v", err)

		case b := <-w.batches:
			w.handler(b.changed, b.removed)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Lstat(path); err == nil && info.IsDir() {
			if !SkipDir(filepath.Base(path)) {
				if err := w.fsw.Add(path); err != nil {
					w.logger.Printf("failed to watch new directory %s: %v", path, err)
				}
			}
			return
		}
	}

	if !strings.EqualFold(filepath.Ext(path), w.ext) {
		return
	}

	w.debouncer.Add(path, event.Op)
	w.debouncer.Flush(func(changed, removed []string) {
		select {
		case w.batches <- batch{changed: changed, removed: removed}:
		case <-w.done:
		}
	})
}

// SkipDir reports directories that are never scanned: hidden ones and
// node_modules.
func SkipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules"
}
