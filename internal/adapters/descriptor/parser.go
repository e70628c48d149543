// Package descriptor reads platform API descriptors in the api-versions XML
// shape or the equivalent YAML shape.
package descriptor

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/apilevel/internal/core/domain"
	"go.trai.ch/apilevel/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DescriptorParser = (*Parser)(nil)

// Parser implements ports.DescriptorParser. The encoding is chosen by file extension.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads and parses the descriptor at path.
func (p *Parser) Parse(path string) (*domain.Descriptor, error) {
	decode, err := decoderFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by the client
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDescriptorReadFailed.Error()), "path", path)
	}

	classes, err := decode(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	return &domain.Descriptor{
		Name:        domain.DescriptorName(path),
		Fingerprint: xxhash.Sum64(data),
		Classes:     classes,
	}, nil
}

// Fingerprint computes the XXHash of the descriptor content.
func (p *Parser) Fingerprint(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by the client
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrDescriptorReadFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrDescriptorReadFailed.Error()), "path", path)
	}
	return hasher.Sum64(), nil
}

type decodeFunc func([]byte) ([]domain.ClassEntry, error)

func decoderFor(path string) (decodeFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return decodeXML, nil
	case ".yaml", ".yml":
		return decodeYAML, nil
	default:
		return nil, zerr.With(domain.ErrUnsupportedDescriptor, "path", path)
	}
}

// parseLevel reads a level attribute. Levels may be written as "33" or
// "33.0"; an empty value means unset.
func parseLevel(raw string) (domain.APILevel, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.NoLevel, nil
	}
	whole, frac, _ := strings.Cut(raw, ".")
	if strings.Trim(frac, "0") != "" {
		return 0, zerr.With(domain.ErrDescriptorInvalid, "level", raw)
	}
	n, err := strconv.Atoi(whole)
	if err != nil || n < 0 {
		return 0, zerr.With(domain.ErrDescriptorInvalid, "level", raw)
	}
	return domain.APILevel(n), nil
}
