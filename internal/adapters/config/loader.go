// Package config resolves the settings of an apilevel session from the
// optional apilevel.yaml file and command line overrides.
package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/apilevel/internal/core/domain"
	"go.trai.ch/apilevel/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultClientID identifies sessions that do not configure a client.
const DefaultClientID = "apilevel"

// Settings is the resolved configuration of a session.
type Settings struct {
	// ConfigPath is the file the settings were read from, empty when none was found.
	ConfigPath     string
	ClientID       string
	Descriptor     string
	Platform       string
	CacheDir       string
	CreateCacheDir bool
}

// Overrides holds values given on the command line. Empty fields keep the
// configured value.
type Overrides struct {
	ClientID   string
	Descriptor string
	Platform   string
	CacheDir   string
}

// Loader reads apilevel.yaml files.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load returns the settings for a session started in cwd. When path is set
// that file must exist; otherwise apilevel.yaml is searched from cwd upwards
// and defaults are used if none is found.
func (l *Loader) Load(cwd, path string) (*Settings, error) {
	s := Defaults()

	if path == "" {
		found, ok := Find(cwd)
		if !ok {
			return s, nil
		}
		path = found
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}

	var file File
	if err := l.readFile(path, &file); err != nil {
		return nil, zerr.With(err, "path", path)
	}

	s.ConfigPath = path
	dir := filepath.Dir(path)
	if file.ClientID != "" {
		s.ClientID = file.ClientID
	}
	if file.Platform != "" {
		s.Platform = file.Platform
	}
	if file.Descriptor != "" {
		s.Descriptor = resolvePath(dir, file.Descriptor)
	}
	if file.CacheDir != "" {
		s.CacheDir = resolvePath(dir, file.CacheDir)
	}
	if file.CreateCacheDir != nil {
		s.CreateCacheDir = *file.CreateCacheDir
	}
	return s, nil
}

// Defaults returns the settings used when no configuration file exists.
func Defaults() *Settings {
	return &Settings{
		ClientID:       DefaultClientID,
		CacheDir:       DefaultCacheDir(),
		CreateCacheDir: true,
	}
}

// DefaultCacheDir returns the per-user cache directory for API databases.
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, domain.AppDirName)
}

// Find searches dir and its parents for apilevel.yaml.
func Find(dir string) (string, bool) {
	current := filepath.Clean(dir)
	for {
		candidate := filepath.Join(current, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// Apply replaces configured values with the non-empty overrides.
func (s *Settings) Apply(o Overrides) {
	if o.ClientID != "" {
		s.ClientID = o.ClientID
	}
	if o.Descriptor != "" {
		s.Descriptor = o.Descriptor
	}
	if o.Platform != "" {
		s.Platform = o.Platform
	}
	if o.CacheDir != "" {
		s.CacheDir = o.CacheDir
	}
}

// Validate checks that a descriptor and a platform are configured.
func (s *Settings) Validate() error {
	if s.Descriptor == "" {
		return domain.ErrMissingDescriptor
	}
	if s.Platform == "" {
		return zerr.With(domain.ErrMissingPlatform, "descriptor", s.Descriptor)
	}
	return nil
}

// readFile decodes path into target. Unknown keys are reported and ignored.
func (l *Loader) readFile(path string, target *File) error {
	// #nosec G304 -- path is chosen by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	strict := yaml.NewDecoder(bytes.NewReader(data))
	strict.KnownFields(true)
	strictErr := strict.Decode(target)
	if strictErr == nil {
		return nil
	}

	*target = File{}
	if err := yaml.Unmarshal(data, target); err != nil {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}
	var typeErr *yaml.TypeError
	if errors.As(strictErr, &typeErr) && l.Logger != nil {
		l.Logger.Log(domain.SeverityWarning, nil,
			"Ignoring unknown keys in "+path+": "+strings.Join(typeErr.Errors, "; "))
	}
	return nil
}

func resolvePath(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
