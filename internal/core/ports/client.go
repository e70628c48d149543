// Package ports defines the core interfaces for the API database.
package ports

// Client supplies the environment of an analysis session: which platform is
// targeted, where its API descriptor lives and where caches may be written.
//
//go:generate mockgen -source=client.go -destination=mocks/mock_client.go -package=mocks
type Client interface {
	// ID identifies the client. Lookups are memoized per (ID, Platform).
	ID() string

	// Platform returns the platform version identifier, e.g. "android-34".
	Platform() string

	// DescriptorPath returns the path of the source descriptor for the platform.
	DescriptorPath() string

	// CacheDir returns the directory for API database caches.
	// When create is true the directory is created if it does not exist.
	CacheDir(create bool) (string, error)
}
