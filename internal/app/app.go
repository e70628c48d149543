// Package app implements the application layer for apilevel.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"slices"

	"go.trai.ch/apilevel/internal/adapters/client"  //nolint:depguard // Wired in app layer
	"go.trai.ch/apilevel/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/apilevel/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/apilevel/internal/core/domain"
	"go.trai.ch/apilevel/internal/core/ports"
	"go.trai.ch/apilevel/internal/engine/apidb"
	"go.trai.ch/apilevel/internal/engine/cache"
	"go.trai.ch/apilevel/internal/engine/registry"
	"go.trai.ch/zerr"
)

// Options selects the configuration of a session.
type Options struct {
	// ConfigPath is an explicit apilevel.yaml; empty means discovery from the working directory.
	ConfigPath string
	config.Overrides
}

// App represents the main application logic.
type App struct {
	loader   *config.Loader
	cache    *cache.Manager
	registry *registry.Registry
	watcher  ports.Watcher
	logger   ports.Logger
	getwd    func() (string, error)
}

// New creates a new App instance.
func New(
	loader *config.Loader,
	manager *cache.Manager,
	reg *registry.Registry,
	w ports.Watcher,
	log ports.Logger,
) *App {
	return &App{
		loader:   loader,
		cache:    manager,
		registry: reg,
		watcher:  w,
		logger:   log,
		getwd:    os.Getwd,
	}
}

// WithWorkDir makes configuration discovery start at dir instead of the
// process working directory.
func (a *App) WithWorkDir(dir string) *App {
	a.getwd = func() (string, error) { return dir, nil }
	return a
}

// Settings resolves the configuration for opts.
func (a *App) Settings(opts Options) (*config.Settings, error) {
	cwd, err := a.getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to determine working directory")
	}
	s, err := a.loader.Load(cwd, opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	s.Apply(opts.Overrides)
	return s, nil
}

// Client returns the session client for opts.
func (a *App) Client(opts Options) (*client.Client, error) {
	s, err := a.Settings(opts)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return client.New(s), nil
}

// Lookup returns the memoized lookup for opts.
func (a *App) Lookup(ctx context.Context, opts Options) (*apidb.Lookup, error) {
	c, err := a.Client(opts)
	if err != nil {
		return nil, err
	}
	return a.registry.Get(ctx, c)
}

// Query evaluates queries against the lookup for opts.
func (a *App) Query(ctx context.Context, opts Options, queries ...Query) ([]Answer, error) {
	l, err := a.Lookup(ctx, opts)
	if err != nil {
		return nil, err
	}
	answers := make([]Answer, 0, len(queries))
	for _, q := range queries {
		ans, err := Evaluate(l, q)
		if err != nil {
			return answers, err
		}
		answers = append(answers, ans)
	}
	return answers, nil
}

// WarmResult reports the cache file prepared for one platform.
type WarmResult struct {
	Platform string `json:"platform"`
	Path     string `json:"path"`
	Classes  uint32 `json:"classes"`
}

// Warm builds or validates the databases for the configured platform and
// every platform in extra, concurrently.
func (a *App) Warm(ctx context.Context, opts Options, extra ...string) ([]WarmResult, error) {
	clients, err := a.clients(opts, extra)
	if err != nil {
		return nil, err
	}

	targets := make([]ports.Client, len(clients))
	for i, c := range clients {
		targets[i] = c
	}
	if err := a.registry.Preload(ctx, targets...); err != nil {
		return nil, err
	}

	results := make([]WarmResult, 0, len(clients))
	for _, c := range clients {
		l, err := a.registry.Get(ctx, c)
		if err != nil {
			return nil, err
		}
		path, err := a.cache.Path(c)
		if err != nil {
			path = ""
		}
		results = append(results, WarmResult{
			Platform: c.Platform(),
			Path:     path,
			Classes:  l.Index().Header().ClassCount,
		})
	}
	return results, nil
}

// Clean removes the cache files for the configured platform and every
// platform in extra, and drops all memoized lookups.
func (a *App) Clean(_ context.Context, opts Options, extra ...string) ([]string, error) {
	clients, err := a.clients(opts, extra)
	if err != nil {
		return nil, err
	}
	defer a.registry.Dispose()

	var (
		removed []string
		errs    error
	)
	for _, c := range clients {
		path, err := a.cache.Clean(c)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		removed = append(removed, path)
	}
	return removed, errs
}

// Dump writes a text rendering of the database for opts to w.
func (a *App) Dump(ctx context.Context, opts Options, w io.Writer) error {
	l, err := a.Lookup(ctx, opts)
	if err != nil {
		return err
	}
	return l.Dump(w)
}

// Watch disposes the registry whenever the configured descriptor changes and
// then calls onChange. It blocks until ctx is done.
func (a *App) Watch(ctx context.Context, opts Options, onChange func(paths []string)) error {
	c, err := a.Client(opts)
	if err != nil {
		return err
	}
	if err := a.watcher.Start(ctx, c.DescriptorPath()); err != nil {
		return err
	}
	defer func() { _ = a.watcher.Stop() }()

	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		a.registry.Dispose()
		a.logger.Log(domain.SeverityInfo, nil, "API descriptor changed; the database will be reloaded on the next query")
		if onChange != nil {
			onChange(paths)
		}
	})
	for event := range a.watcher.Events() {
		debouncer.Add(event.Path)
	}
	debouncer.Flush()
	return nil
}

// clients returns the configured client followed by one client per extra
// platform, without duplicates.
func (a *App) clients(opts Options, extra []string) ([]*client.Client, error) {
	base, err := a.Client(opts)
	if err != nil {
		return nil, err
	}
	clients := []*client.Client{base}
	seen := []string{base.Platform()}
	for _, p := range extra {
		if p == "" || slices.Contains(seen, p) {
			continue
		}
		seen = append(seen, p)
		clients = append(clients, base.WithPlatform(p))
	}
	return clients, nil
}
