package ports

import (
	"context"
	"iter"
)

// WatchEvent reports a change to a watched file.
type WatchEvent struct {
	Path string
}

// Watcher observes descriptor files for changes.
type Watcher interface {
	// Start begins watching the given files.
	Start(ctx context.Context, paths ...string) error
	// Stop stops the watcher and releases all resources.
	Stop() error
	// Events returns an iterator of change events.
	Events() iter.Seq[WatchEvent]
}
