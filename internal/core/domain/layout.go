package domain

import (
	"path/filepath"
	"strings"
)

const (
	// AppDirName is the name of the per-user cache directory for apilevel.
	AppDirName = "apilevel"

	// CacheFileExt is the extension of binary API database files.
	CacheFileExt = ".bin"

	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "apilevel.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// CacheFileName returns the cache file name for a descriptor and platform version.
// The platform is escaped losslessly, so different platforms never share a file.
func CacheFileName(descriptorPath, platform string) string {
	return DescriptorName(descriptorPath) + "-" + escapePlatform(platform) + CacheFileExt
}

// DescriptorName returns the base name of a descriptor path without its extension.
func DescriptorName(descriptorPath string) string {
	base := filepath.Base(descriptorPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// escapePlatform keeps [A-Za-z0-9._-] and writes every other byte as "~XX".
// The empty platform becomes a lone "~", which no escaped name can produce.
func escapePlatform(s string) string {
	if s == "" {
		return "~"
	}
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == '-', c == '_', c == '.':
			b.WriteByte(c)
		default:
			b.WriteByte('~')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
		}
	}
	return b.String()
}
