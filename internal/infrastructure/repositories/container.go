package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/monorhyme/internal/domain/repositories"
	"github.com/rios0rios0/monorhyme/internal/infrastructure/repositories/poetry"
	"github.com/rios0rios0/monorhyme/internal/infrastructure/repositories/pypi"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register registry factories with all package index implementations
	if err := container.Provide(func() *RegistryFactories {
		factories := NewRegistryFactories()
		factories.Register("pypi", pypi.NewRegistryRepository)
		return factories
	}); err != nil {
		return err
	}

	// Register the filesystem manifest repository
	if err := container.Provide(func() domainRepos.ManifestRepository {
		return poetry.NewFileManifestRepository()
	}); err != nil {
		return err
	}

	return nil
}
