package repositories

import (
	"github.com/rios0rios0/monorhyme/internal/domain/entities"
)

// Manifest is one loaded project manifest. Dependencies are exposed in
// declaration order and version rewrites are kept in memory until Write.
type Manifest interface {
	// Path returns the absolute path of the manifest file.
	Path() string

	// Dependencies returns every declared dependency in declaration order.
	Dependencies() []entities.Dependency

	// Get returns the dependency declared under name.
	Get(name string) (*entities.Dependency, bool)

	// SetVersion rewrites the version constraint of name. It returns the previous
	// constraint and whether the document changed.
	SetVersion(name, version string) (string, bool, error)

	// Dirty reports whether the manifest has unsaved changes.
	Dirty() bool

	// Write persists the manifest and clears the dirty flag.
	Write() error
}

// ManifestRepository locates the workspace root and loads the manifests below it.
type ManifestRepository interface {
	// FindRoot walks upward from startDir to the version-control root.
	FindRoot(startDir string) (string, error)

	// Discover loads every manifest under root, deepest directories first.
	// A single failing manifest fails the whole discovery.
	Discover(root string, settings *entities.Settings) ([]Manifest, error)

	// Load loads the manifest at path, appending the manifest file name when
	// path is a directory.
	Load(path string, settings *entities.Settings) (Manifest, error)
}
