// Package watcher reports changes to API descriptor files.
package watcher

import (
	"context"
	"iter"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/apilevel/internal/core/domain"
	"go.trai.ch/apilevel/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

const eventChannelBuffer = 16

// Watcher implements ports.Watcher using fsnotify. It watches the directory of
// each file so that editors replacing a file through rename are noticed.
// A Watcher is single-use: once stopped it cannot be started again.
type Watcher struct {
	logger ports.Logger

	mu        sync.Mutex
	fsWatcher *fsnotify.Watcher
	started   bool
	closeOnce sync.Once
	targets   map[string]struct{}
	events    chan ports.WatchEvent
}

// NewWatcher creates a Watcher. No resources are acquired until Start.
func NewWatcher(logger ports.Logger) *Watcher {
	return &Watcher{
		logger: logger,
		events: make(chan ports.WatchEvent, eventChannelBuffer),
	}
}

// Start begins watching paths. Events stop when ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context, paths ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return domain.ErrWatcherStarted
	}

	targets := make(map[string]struct{}, len(paths))
	dirs := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrWatchFailed.Error()), "path", p)
		}
		targets[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, domain.ErrWatchFailed.Error())
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return zerr.With(zerr.Wrap(err, domain.ErrWatchFailed.Error()), "path", dir)
		}
	}

	w.started = true
	w.fsWatcher = fsw
	w.targets = targets
	go w.processEvents(ctx, fsw)
	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsWatcher == nil {
		w.started = true
		w.closeOnce.Do(func() { close(w.events) })
		return nil
	}
	return w.fsWatcher.Close()
}

// Events returns an iterator of change events. It ends after Stop or when
// the context given to Start is done.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

func (w *Watcher) processEvents(ctx context.Context, fsw *fsnotify.Watcher) {
	defer w.closeOnce.Do(func() { close(w.events) })

	for {
		select {
		case <-ctx.Done():
			_ = fsw.Close()
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			select {
			case w.events <- ports.WatchEvent{Path: filepath.Clean(event.Name)}:
			case <-ctx.Done():
				_ = fsw.Close()
				return
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Log(domain.SeverityWarning, err, "File watcher reported an error; changes may be missed.")
		}
	}
}

// relevant reports whether event changes the contents of a watched file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if _, ok := w.targets[filepath.Clean(event.Name)]; !ok {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}
