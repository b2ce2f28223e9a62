//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"fmt"
	"slices"

	"github.com/rios0rios0/monorhyme/internal/domain/entities"
	"github.com/rios0rios0/monorhyme/internal/domain/repositories"
)

// StubManifestRepository implements repositories.ManifestRepository with a fixed workspace.
type StubManifestRepository struct {
	// --- FindRoot ---
	Root    string
	RootErr error

	// --- Discover / Load ---
	Manifests   []repositories.Manifest
	DiscoverErr error
}

var _ repositories.ManifestRepository = (*StubManifestRepository)(nil)

func (r *StubManifestRepository) FindRoot(_ string) (string, error) {
	return r.Root, r.RootErr
}

func (r *StubManifestRepository) Discover(_ string, _ *entities.Settings) ([]repositories.Manifest, error) {
	if r.DiscoverErr != nil {
		return nil, r.DiscoverErr
	}
	return r.Manifests, nil
}

func (r *StubManifestRepository) Load(path string, _ *entities.Settings) (repositories.Manifest, error) {
	for _, manifest := range r.Manifests {
		if manifest.Path() == path {
			return manifest, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", entities.ErrNotFound, path)
}

// SpyManifest is an in-memory repositories.Manifest that records writes.
type SpyManifest struct {
	ManifestPath string
	Declared     []entities.Dependency
	WriteErr     error
	WriteCalls   int
	dirty        bool
}

var _ repositories.Manifest = (*SpyManifest)(nil)

// NewSpyManifest creates an in-memory manifest declaring dependencies.
func NewSpyManifest(path string, dependencies ...entities.Dependency) *SpyManifest {
	return &SpyManifest{ManifestPath: path, Declared: dependencies}
}

func (m *SpyManifest) Path() string { return m.ManifestPath }

func (m *SpyManifest) Dependencies() []entities.Dependency { return slices.Clone(m.Declared) }

func (m *SpyManifest) Get(name string) (*entities.Dependency, bool) {
	for i := range m.Declared {
		if m.Declared[i].Name == name {
			dependency := m.Declared[i]
			return &dependency, true
		}
	}
	return nil, false
}

func (m *SpyManifest) SetVersion(name, version string) (string, bool, error) {
	for i := range m.Declared {
		if m.Declared[i].Name != name {
			continue
		}
		if !m.Declared[i].Constrained() {
			return "", false, fmt.Errorf("%w: %q", entities.ErrNotVersionConstrained, name)
		}
		previous := m.Declared[i].Version
		if previous == version {
			return previous, false, nil
		}
		m.Declared[i].Version = version
		m.dirty = true
		return previous, true, nil
	}
	return "", false, fmt.Errorf("%w: %q", entities.ErrUnmanagedDependency, name)
}

func (m *SpyManifest) Dirty() bool { return m.dirty }

func (m *SpyManifest) Write() error {
	m.WriteCalls++
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.dirty = false
	return nil
}
