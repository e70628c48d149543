// Package client provides the session environment consumed by the API database.
package client

import (
	"errors"
	iofs "io/fs"
	"os"

	"go.trai.ch/apilevel/internal/adapters/config"
	"go.trai.ch/apilevel/internal/core/domain"
	"go.trai.ch/apilevel/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Client = (*Client)(nil)

// Client implements ports.Client from resolved settings.
type Client struct {
	id         string
	platform   string
	descriptor string
	cacheDir   string
	createDir  bool
}

// New creates a Client from s.
func New(s *config.Settings) *Client {
	return &Client{
		id:         s.ClientID,
		platform:   s.Platform,
		descriptor: s.Descriptor,
		cacheDir:   s.CacheDir,
		createDir:  s.CreateCacheDir,
	}
}

// ID returns the client identifier.
func (c *Client) ID() string {
	return c.id
}

// Platform returns the platform version identifier.
func (c *Client) Platform() string {
	return c.platform
}

// DescriptorPath returns the path of the source descriptor.
func (c *Client) DescriptorPath() string {
	return c.descriptor
}

// WithPlatform returns a copy of c targeting another platform.
func (c *Client) WithPlatform(platform string) *Client {
	clone := *c
	clone.platform = platform
	return &clone
}

// CacheDir returns the cache directory. With create set, a missing directory
// is created unless the settings forbid it.
func (c *Client) CacheDir(create bool) (string, error) {
	if c.cacheDir == "" {
		return "", zerr.With(domain.ErrCacheDirMissing, "client", c.id)
	}

	info, err := os.Stat(c.cacheDir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return "", zerr.With(domain.ErrCacheDirNotDirectory, "path", c.cacheDir)
		}
		return c.cacheDir, nil
	case !errors.Is(err, iofs.ErrNotExist):
		return "", zerr.With(err, "path", c.cacheDir)
	case !create:
		return c.cacheDir, nil
	case !c.createDir:
		return "", zerr.With(domain.ErrCacheDirMissing, "path", c.cacheDir)
	}

	if err := os.MkdirAll(c.cacheDir, domain.DirPerm); err != nil {
		return "", zerr.With(err, "path", c.cacheDir)
	}
	return c.cacheDir, nil
}
