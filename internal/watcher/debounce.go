package watcher

import (
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultInterval is the quiet period before pending changes are flushed.
// Editors often save through a temp file plus rename, which produces
// several events per save.
const DefaultInterval = 150 * time.Millisecond

// Debouncer batches file change events to avoid redundant conversions.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[string]fsnotify.Op
	interval time.Duration
	timer    *time.Timer
}

// NewDebouncer creates a debouncer flushing after interval of quiet.
func NewDebouncer(interval time.Duration) *Debouncer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Debouncer{
		pending:  make(map[string]fsnotify.Op),
		interval: interval,
	}
}

// Add records a file change event. Operations on the same path combine.
func (d *Debouncer) Add(path string, op fsnotify.Op) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending[path] |= op
}

// Flush (re)arms the timer; when it fires, callback receives the changed
// and removed paths, sorted. A path both written and then removed counts
// as removed.
func (d *Debouncer) Flush(callback func(changed, removed []string)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, func() {
		changed, removed := d.drain()
		if len(changed) > 0 || len(removed) > 0 {
			callback(changed, removed)
		}
	})
}

// Stop cancels a pending flush.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

func (d *Debouncer) drain() (changed, removed []string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for path, op := range d.pending {
		switch {
		case op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename):
			removed = append(removed, path)
		case op.Has(fsnotify.Write) || op.Has(fsnotify.Create):
			changed = append(changed, path)
		}
	}
	d.pending = make(map[string]fsnotify.Op)

	sort.Strings(changed)
	sort.Strings(removed)
	return changed, removed
}
