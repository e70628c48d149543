// Package cache manages the on-disk lifetime of API databases: naming,
// placement, validation and rebuild on demand.
package cache

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/apilevel/internal/core/domain"
	"go.trai.ch/apilevel/internal/core/ports"
	"go.trai.ch/apilevel/internal/engine/apidb"
	"go.trai.ch/zerr"
)

// State is the condition a cache file was found in.
type State string

const (
	// StateValid means the cache file was used as is.
	StateValid State = "valid"
	// StateMissing means there was no cache file, or it was empty.
	StateMissing State = "missing"
	// StateStale means the cache file was built from another descriptor.
	StateStale State = "stale"
	// StateVersionMismatch means the cache file was written by another format or builder version.
	StateVersionMismatch State = "version-mismatch"
	// StateCorruptHeader means the cache file is shorter than its header.
	StateCorruptHeader State = "corrupt-header"
	// StateCorruptBody means the cache payload does not match its declared length.
	StateCorruptBody State = "corrupt-body"
	// StateUncached means no cache directory was available.
	StateUncached State = "uncached"
)

// Result is the outcome of Manager.Load.
type Result struct {
	Index *apidb.Index
	// Path is the absolute cache file path, empty when StateUncached.
	Path  string
	State State
	// Persisted reports whether a freshly built index was written to Path.
	Persisted bool
}

// Manager loads API databases from the cache, building them from the client's
// descriptor when the cache is absent, outdated or corrupt.
type Manager struct {
	parser ports.DescriptorParser
	logger ports.Logger
	tracer ports.Tracer
}

// NewManager creates a new Manager.
func NewManager(parser ports.DescriptorParser, logger ports.Logger, tracer ports.Tracer) *Manager {
	return &Manager{
		parser: parser,
		logger: logger,
		tracer: tracer,
	}
}

// Load returns a validated index for the client's descriptor and platform.
//
// Cache problems never fail Load: a corrupt file is reported once through the
// logger and replaced by an in-memory build. Load fails only when the
// descriptor itself cannot be read or encoded.
func (m *Manager) Load(ctx context.Context, client ports.Client) (*Result, error) {
	ctx, span := m.tracer.Start(ctx, "apidb.load")
	defer span.End()
	span.SetAttribute("platform", client.Platform())

	res, err := m.load(ctx, client)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute("cache.state", string(res.State))
	span.SetAttribute("cache.path", res.Path)
	return res, nil
}

func (m *Manager) load(ctx context.Context, client ports.Client) (*Result, error) {
	descPath := client.DescriptorPath()
	if descPath == "" {
		return nil, zerr.With(domain.ErrMissingDescriptor, "client", client.ID())
	}

	fingerprint, err := m.parser.Fingerprint(descPath)
	if err != nil {
		return nil, err
	}

	dir, err := client.CacheDir(true)
	if err != nil {
		m.logger.Log(domain.SeverityWarning, zerr.Wrap(err, domain.ErrCacheDirFailed.Error()),
			"The API database cache directory is not available; building the database in memory for this run.")
		ix, _, err := m.build(ctx, descPath)
		if err != nil {
			return nil, err
		}
		return &Result{Index: ix, State: StateUncached}, nil
	}

	path := cachePath(dir, descPath, client.Platform())
	state, ix, cause := inspect(path, fingerprint)
	res := &Result{Index: ix, Path: path, State: state}

	switch state {
	case StateValid:
		return res, nil
	case StateCorruptHeader, StateCorruptBody:
		m.logger.Log(domain.SeverityWarning, cause, corruptMessage(path))
	case StateVersionMismatch:
		m.logger.Log(domain.SeverityWarning, cause, mismatchMessage(path))
	case StateMissing, StateStale:
	}

	built, data, err := m.build(ctx, descPath)
	if err != nil {
		return nil, err
	}
	res.Index = built

	// A corrupt file stays in place until the user removes it.
	if state == StateCorruptHeader || state == StateCorruptBody {
		return res, nil
	}
	if err := writeAtomic(path, data); err != nil {
		m.logger.Log(domain.SeverityWarning, zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path),
			"Could not write the API database cache "+path+"; using the in-memory database for this run.")
		return res, nil
	}
	res.Persisted = true
	return res, nil
}

// Clean removes the cache file for the client and returns its path.
// A missing file or cache directory is not an error.
func (m *Manager) Clean(client ports.Client) (string, error) {
	dir, err := client.CacheDir(false)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrCacheDirFailed.Error())
	}
	path := cachePath(dir, client.DescriptorPath(), client.Platform())
	if err := os.Remove(path); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return path, zerr.With(zerr.Wrap(err, "failed to remove API database cache"), "path", path)
	}
	return path, nil
}

// Path returns the absolute cache file path for the client without creating anything.
func (m *Manager) Path(client ports.Client) (string, error) {
	dir, err := client.CacheDir(false)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrCacheDirFailed.Error())
	}
	return cachePath(dir, client.DescriptorPath(), client.Platform()), nil
}

func (m *Manager) build(ctx context.Context, descPath string) (*apidb.Index, []byte, error) {
	_, span := m.tracer.Start(ctx, "apidb.build")
	defer span.End()

	desc, err := m.parser.Parse(descPath)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}
	span.SetAttribute("classes", len(desc.Classes))

	data, err := apidb.Build(desc)
	if err != nil {
		err = zerr.With(err, "descriptor", descPath)
		span.RecordError(err)
		return nil, nil, err
	}
	span.SetAttribute("bytes", len(data))

	ix, err := apidb.Load(data)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}
	return ix, data, nil
}

func cachePath(dir, descPath, platform string) string {
	path := filepath.Join(dir, domain.CacheFileName(descPath, platform))
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func corruptMessage(path string) string {
	return "The API database cache " + path + " is corrupt and was ignored. " +
		"Delete the file and restart to rebuild it; this run uses an in-memory database."
}

func mismatchMessage(path string) string {
	return "The API database cache " + path + " was written by an incompatible version " +
		"and has been rebuilt. Delete the file and restart if this warning persists."
}
