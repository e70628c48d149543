package cache

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/apilevel/internal/core/domain"
	"go.trai.ch/apilevel/internal/engine/apidb"
	"go.trai.ch/zerr"
)

// inspect classifies the cache file at path. The returned index is set only
// for StateValid; the error describes the problem for the failure states.
func inspect(path string, fingerprint uint64) (State, *apidb.Index, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the client cache directory
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return StateMissing, nil, nil
		}
		return StateCorruptHeader, nil, zerr.With(zerr.Wrap(err, domain.ErrCacheHeaderCorrupt.Error()), "path", path)
	}
	if len(data) == 0 {
		return StateMissing, nil, nil
	}
	if len(data) < apidb.HeaderSize {
		return StateCorruptHeader, nil, zerr.With(zerr.With(domain.ErrCacheHeaderCorrupt, "size", len(data)), "path", path)
	}

	h, err := apidb.ParseHeader(data)
	if err != nil {
		// A foreign marker is what an older or unrelated format looks like.
		return StateVersionMismatch, nil, zerr.With(err, "path", path)
	}
	if !h.Compatible() {
		return StateVersionMismatch, nil, zerr.With(h.CheckVersion(), "path", path)
	}
	if err := h.CheckBody(data); err != nil {
		return StateCorruptBody, nil, zerr.With(err, "path", path)
	}
	if h.Fingerprint != fingerprint {
		return StateStale, nil, nil
	}

	ix, err := apidb.Load(data)
	if err != nil {
		return StateCorruptBody, nil, zerr.With(err, "path", path)
	}
	return StateValid, ix, nil
}

// writeAtomic writes data to path through a temporary file in the same
// directory so readers never observe a partial file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, ".apidb-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
