// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fswatch provides a debounced watcher of individual files,
// which calls a function once per burst of changes to each file.
package fswatch

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the default quiet period after the last event
// on a file before its change function is called.
const DefaultDebounce = 250 * time.Millisecond

// Watcher watches a set of files for changes. The parent directories
// are watched, so that files replaced by editors through a rename
// continue to be seen.
type Watcher struct {

	// Debounce is the quiet period after the last event on a file
	// before the change function is called. It must be set before Start.
	Debounce time.Duration

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	files    []string
	onChange func(path string)
	pending  map[string]time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stopped  bool
}

// ErrStopped is returned by [Watcher.Start] after [Watcher.Stop].
var ErrStopped = errors.New("fswatch: watcher is stopped")

// New returns a new watcher of the given files, calling onChange with
// the cleaned file path after each burst of changes to that file.
func New(onChange func(path string), files ...string) (*Watcher, error) {
	if len(files) == 0 {
		return nil, errors.New("fswatch: no files to watch")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &Watcher{
		Debounce: DefaultDebounce,
		watcher:  w,
		onChange: onChange,
		pending:  make(map[string]time.Time),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			w.Close()
			return nil, err
		}
		fw.files = append(fw.files, abs)
	}
	return fw, nil
}

// Files returns the absolute paths of the watched files.
func (fw *Watcher) Files() []string {
	return slices.Clone(fw.files)
}

// Start begins watching in a separate goroutine, until the context is
// done or [Watcher.Stop] is called.
func (fw *Watcher) Start(ctx context.Context) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.stopped {
		return ErrStopped
	}
	if fw.running {
		return nil
	}
	var dirs []string
	for _, f := range fw.files {
		d := filepath.Dir(f)
		if slices.Contains(dirs, d) {
			continue
		}
		if err := fw.watcher.Add(d); err != nil {
			return err
		}
		dirs = append(dirs, d)
	}
	fw.running = true
	slog.Debug("fswatch: watching", "files", fw.files)
	go fw.run(ctx)
	return nil
}

// Stop stops watching, waits for the watch goroutine to finish and
// releases the underlying watcher, whether or not it was started.
// It is safe to call more than once.
func (fw *Watcher) Stop() {
	fw.mu.Lock()
	if fw.stopped {
		fw.mu.Unlock()
		return
	}
	fw.stopped = true
	running := fw.running
	fw.running = false
	fw.mu.Unlock()

	close(fw.stopCh)
	if running {
		<-fw.doneCh
	} else {
		close(fw.doneCh)
	}
	if err := fw.watcher.Close(); err != nil {
		slog.Error("fswatch: closing watcher", "err", err)
	}
}

// Done returns a channel that is closed when the watch goroutine exits.
func (fw *Watcher) Done() <-chan struct{} {
	return fw.doneCh
}

func (fw *Watcher) run(ctx context.Context) {
	defer close(fw.doneCh)
	tick := max(fw.Debounce/4, time.Millisecond)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-fw.stopCh:
			return
		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handle(ev)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("fswatch", "err", err)
		case <-ticker.C:
			fw.flush()
		}
	}
}

func (fw *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
		return
	}
	name := filepath.Clean(ev.Name)
	if !slices.Contains(fw.files, name) {
		return
	}
	slog.Debug("fswatch: event", "op", ev.Op.String(), "path", name)
	fw.mu.Lock()
	fw.pending[name] = time.Now()
	fw.mu.Unlock()
}

// flush calls the change function for every file whose last event
// is older than the debounce period.
func (fw *Watcher) flush() {
	now := time.Now()
	var ready []string
	fw.mu.Lock()
	for name, t := range fw.pending {
		if now.Sub(t) >= fw.Debounce {
			ready = append(ready, name)
			delete(fw.pending, name)
		}
	}
	fw.mu.Unlock()
	slices.Sort(ready)
	for _, name := range ready {
		fw.onChange(name)
	}
}
