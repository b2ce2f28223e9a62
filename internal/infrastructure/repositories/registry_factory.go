package repositories

import (
	"fmt"
	"sort"

	"github.com/rios0rios0/monorhyme/internal/domain/entities"
	domainRepos "github.com/rios0rios0/monorhyme/internal/domain/repositories"
)

// RegistryFactory is a constructor function that creates a RegistryRepository from its settings.
type RegistryFactory func(settings entities.RegistrySettings) domainRepos.RegistryRepository

// RegistryFactories manages all registered package index implementations.
type RegistryFactories struct {
	factories map[string]RegistryFactory
}

// NewRegistryFactories creates an empty factory set.
func NewRegistryFactories() *RegistryFactories {
	return &RegistryFactories{
		factories: make(map[string]RegistryFactory),
	}
}

// Register adds a registry factory under the given type (e.g. "pypi").
func (r *RegistryFactories) Register(name string, factory RegistryFactory) {
	r.factories[name] = factory
}

// Get returns a configured registry for settings.Type.
func (r *RegistryFactories) Get(settings entities.RegistrySettings) (domainRepos.RegistryRepository, error) {
	factory, ok := r.factories[settings.Type]
	if !ok {
		return nil, fmt.Errorf("unknown registry type: %q (known: %v)", settings.Type, r.Names())
	}
	return factory(settings), nil
}

// Names returns the sorted list of registered registry types.
func (r *RegistryFactories) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
