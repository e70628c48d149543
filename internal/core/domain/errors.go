package domain

import "go.trai.ch/zerr"

var (
	// ErrDescriptorReadFailed is returned when the source descriptor cannot be read.
	ErrDescriptorReadFailed = zerr.New("failed to read API descriptor")

	// ErrDescriptorInvalid is returned when the source descriptor cannot be parsed.
	ErrDescriptorInvalid = zerr.New("invalid API descriptor")

	// ErrUnsupportedDescriptor is returned when the descriptor file extension is not recognised.
	ErrUnsupportedDescriptor = zerr.New("unsupported API descriptor format, expected .xml, .yaml or .yml")

	// ErrLevelOutOfRange is returned when an API level cannot be encoded in the index.
	ErrLevelOutOfRange = zerr.New("API level out of range")

	// ErrDuplicateClass is returned when the descriptor declares the same class twice.
	ErrDuplicateClass = zerr.New("duplicate class in API descriptor")

	// ErrIndexTooLarge is returned when the encoded index exceeds the addressable size.
	ErrIndexTooLarge = zerr.New("API index exceeds maximum size")

	// ErrCacheHeaderCorrupt is returned when the cache file is shorter than its header
	// or the header does not carry the expected magic marker.
	ErrCacheHeaderCorrupt = zerr.New("API database header is corrupt")

	// ErrCacheVersionMismatch is returned when the cache file was written by another format or builder version.
	ErrCacheVersionMismatch = zerr.New("API database version mismatch")

	// ErrCacheBodyCorrupt is returned when the cache payload length does not match its header.
	ErrCacheBodyCorrupt = zerr.New("API database body is truncated or corrupt")

	// ErrCacheStale is returned when the cache was built from a different descriptor.
	ErrCacheStale = zerr.New("API database is stale")

	// ErrCacheWriteFailed is returned when the cache file cannot be persisted.
	ErrCacheWriteFailed = zerr.New("failed to write API database")

	// ErrCacheDirFailed is returned when the client cannot provide a cache directory.
	ErrCacheDirFailed = zerr.New("failed to prepare API database cache directory")

	// ErrDatabaseCorrupt is returned by lookups when a read falls outside the validated index bounds.
	ErrDatabaseCorrupt = zerr.New("API database is corrupt")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrMissingDescriptor is returned when no descriptor path is configured.
	ErrMissingDescriptor = zerr.New("no API descriptor configured")

	// ErrMissingPlatform is returned when no platform version is configured.
	ErrMissingPlatform = zerr.New("no platform version configured")

	// ErrCacheDirMissing is returned when the cache directory does not exist and may not be created.
	ErrCacheDirMissing = zerr.New("cache directory does not exist and creation is disabled")

	// ErrCacheDirNotDirectory is returned when the configured cache directory is a file.
	ErrCacheDirNotDirectory = zerr.New("cache directory path is not a directory")

	// ErrWatchFailed is returned when the descriptor cannot be watched for changes.
	ErrWatchFailed = zerr.New("failed to watch API descriptor")

	// ErrWatcherStarted is returned when Start is called on a running or stopped watcher.
	ErrWatcherStarted = zerr.New("watcher already started")

	// ErrInvalidQuery is returned when a query line cannot be parsed.
	ErrInvalidQuery = zerr.New("invalid query")

	// ErrQueriesFailed is returned when at least one line of a query batch was rejected.
	// Each rejected line has already been reported.
	ErrQueriesFailed = zerr.New("one or more queries failed")
)
