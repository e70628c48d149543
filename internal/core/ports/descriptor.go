package ports

import "go.trai.ch/apilevel/internal/core/domain"

// DescriptorParser reads a source descriptor into its domain form.
//
//go:generate mockgen -source=descriptor.go -destination=mocks/mock_descriptor.go -package=mocks
type DescriptorParser interface {
	// Parse reads and parses the descriptor at path.
	Parse(path string) (*domain.Descriptor, error)

	// Fingerprint hashes the descriptor at path without parsing it.
	Fingerprint(path string) (uint64, error)
}
