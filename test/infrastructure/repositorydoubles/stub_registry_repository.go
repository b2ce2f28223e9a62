//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/monorhyme/internal/domain/repositories"
)

// SpyRegistryRepository implements repositories.RegistryRepository as a configurable spy.
type SpyRegistryRepository struct {
	// --- LatestVersion ---
	Version   string
	Err       error
	Requested []string
}

var _ repositories.RegistryRepository = (*SpyRegistryRepository)(nil)

func (r *SpyRegistryRepository) Name() string { return "spy" }

func (r *SpyRegistryRepository) LatestVersion(_ context.Context, name string) (string, error) {
	r.Requested = append(r.Requested, name)
	return r.Version, r.Err
}
