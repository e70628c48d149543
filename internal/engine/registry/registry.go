// Package registry memoizes API lookups per client and platform for the
// lifetime of an analysis session.
package registry

import (
	"context"
	"strconv"
	"sync"

	"go.trai.ch/apilevel/internal/core/ports"
	"go.trai.ch/apilevel/internal/engine/apidb"
	"go.trai.ch/apilevel/internal/engine/cache"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Loader produces a validated index for a client.
type Loader interface {
	Load(ctx context.Context, client ports.Client) (*cache.Result, error)
}

// Key identifies a memoized lookup.
type Key struct {
	Client   string
	Platform string
}

// Registry hands out one Lookup per Key, constructing it through the Loader
// on first use. Concurrent first callers for the same key share a single
// construction.
type Registry struct {
	loader Loader

	mu      sync.Mutex
	lookups map[Key]*apidb.Lookup
	// generation is bumped by Dispose; constructions started under an older
	// generation are returned to their callers but not memoized.
	generation uint64

	requestGroup singleflight.Group
}

// New creates an empty Registry.
func New(loader Loader) *Registry {
	return &Registry{
		loader:  loader,
		lookups: make(map[Key]*apidb.Lookup),
	}
}

// Get returns the Lookup for the client's platform.
func (r *Registry) Get(ctx context.Context, client ports.Client) (*apidb.Lookup, error) {
	key := Key{Client: client.ID(), Platform: client.Platform()}

	r.mu.Lock()
	if lookup, ok := r.lookups[key]; ok {
		r.mu.Unlock()
		return lookup, nil
	}
	gen := r.generation
	r.mu.Unlock()

	flightKey := key.Client + "\x00" + key.Platform + "\x00" + strconv.FormatUint(gen, 10)
	result, err, _ := r.requestGroup.Do(flightKey, func() (any, error) {
		r.mu.Lock()
		if lookup, ok := r.lookups[key]; ok && r.generation == gen {
			r.mu.Unlock()
			return lookup, nil
		}
		r.mu.Unlock()

		res, err := r.loader.Load(ctx, client)
		if err != nil {
			return nil, err
		}
		lookup := apidb.NewLookup(res.Index)

		r.mu.Lock()
		defer r.mu.Unlock()
		if r.generation == gen {
			r.lookups[key] = lookup
		}
		return lookup, nil
	})
	if err != nil {
		err = zerr.With(err, "client", key.Client)
		return nil, zerr.With(err, "platform", key.Platform)
	}

	return result.(*apidb.Lookup), nil
}

// Preload constructs the lookups for all clients concurrently.
func (r *Registry) Preload(ctx context.Context, clients ...ports.Client) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, client := range clients {
		g.Go(func() error {
			_, err := r.Get(ctx, client)
			return err
		})
	}
	return g.Wait()
}

// Dispose drops every memoized lookup. The next Get for any key re-runs the
// full load.
func (r *Registry) Dispose() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups = make(map[Key]*apidb.Lookup)
	r.generation++
}

// Len returns the number of memoized lookups.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lookups)
}
