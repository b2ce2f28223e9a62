package repositories

import (
	"context"
)

// RegistryRepository abstracts a package index that knows the latest
// published version of a dependency.
type RegistryRepository interface {
	// Name returns the registry identifier (e.g. "pypi").
	Name() string

	// LatestVersion returns the latest published version of name.
	LatestVersion(ctx context.Context, name string) (string, error)
}
