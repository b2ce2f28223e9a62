package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/monorhyme/internal/domain/entities"
	"github.com/rios0rios0/monorhyme/internal/domain/repositories"
)

// Workspace is every manifest found under one git repository root.
type Workspace struct {
	Root      string
	Manifests []repositories.Manifest

	settings *entities.Settings
	registry repositories.RegistryRepository
}

// NewWorkspace creates a workspace from already loaded manifests. registry may
// be nil when no version needs to be resolved.
func NewWorkspace(
	root string,
	manifests []repositories.Manifest,
	settings *entities.Settings,
	registry repositories.RegistryRepository,
) *Workspace {
	return &Workspace{
		Root:      root,
		Manifests: manifests,
		settings:  settings,
		registry:  registry,
	}
}

// DiscoverWorkspace finds the git root above startDir and loads every manifest
// below it. Nothing is returned when a single manifest fails to load.
func DiscoverWorkspace(
	startDir string,
	manifestRepository repositories.ManifestRepository,
	settings *entities.Settings,
	registry repositories.RegistryRepository,
) (*Workspace, error) {
	root, err := manifestRepository.FindRoot(startDir)
	if err != nil {
		return nil, err
	}

	manifests, err := manifestRepository.Discover(root, settings)
	if err != nil {
		return nil, err
	}

	logger.Debugf("Workspace %s has %d project(s)", root, len(manifests))
	return NewWorkspace(root, manifests, settings, registry), nil
}

// ListDependencies returns the sorted union of every declared dependency name.
func (it *Workspace) ListDependencies() []string {
	seen := map[string]struct{}{}
	for _, manifest := range it.Manifests {
		for _, dependency := range manifest.Dependencies() {
			seen[dependency.Name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasDependency reports whether at least one manifest declares name.
func (it *Workspace) HasDependency(name string) (bool, error) {
	if err := it.checkBlacklist(name); err != nil {
		return false, err
	}

	for _, manifest := range it.Manifests {
		if _, ok := manifest.Get(name); ok {
			return true, nil
		}
	}
	return false, nil
}

// GetVersions returns one entry per manifest, with a nil dependency for the
// manifests that do not declare name.
func (it *Workspace) GetVersions(name string) []entities.ProjectDependency {
	versions := make([]entities.ProjectDependency, 0, len(it.Manifests))
	for _, manifest := range it.Manifests {
		dependency, _ := manifest.Get(name)
		versions = append(versions, entities.ProjectDependency{
			Path:       manifest.Path(),
			Dependency: dependency,
		})
	}
	return versions
}

// SetVersion rewrites the constraint of name in every manifest that declares
// it. Manifests that do not declare it are skipped; any other failure stops
// the iteration. Only real changes are returned.
func (it *Workspace) SetVersion(name, version string) ([]entities.VersionChange, error) {
	if err := it.checkBlacklist(name); err != nil {
		return nil, err
	}

	var changes []entities.VersionChange
	for _, manifest := range it.Manifests {
		previous, changed, err := manifest.SetVersion(name, version)
		if err != nil {
			if errors.Is(err, entities.ErrUnmanagedDependency) {
				continue
			}
			return nil, err
		}
		if !changed {
			logger.Debugf("%s already requires %s %s", manifest.Path(), name, version)
			continue
		}

		changes = append(changes, entities.VersionChange{
			Path:       manifest.Path(),
			OldVersion: previous,
			NewVersion: version,
		})
	}
	return changes, nil
}

// WriteAll persists every manifest with unsaved changes. Writes are not
// rolled back: the report lists what was written and what failed, and the
// returned error joins every failure.
func (it *Workspace) WriteAll() (entities.WriteReport, error) {
	var report entities.WriteReport
	var errs []error

	for _, manifest := range it.Manifests {
		if !manifest.Dirty() {
			continue
		}

		if err := manifest.Write(); err != nil {
			logger.Errorf("Failed to write %s: %v", manifest.Path(), err)
			report.Failed = append(report.Failed, entities.WriteFailure{Path: manifest.Path(), Err: err})
			errs = append(errs, err)
			continue
		}
		report.Written = append(report.Written, manifest.Path())
	}

	return report, errors.Join(errs...)
}

// ResolveLatest asks the package registry for the latest version of name.
func (it *Workspace) ResolveLatest(ctx context.Context, name string) (string, error) {
	if err := it.checkBlacklist(name); err != nil {
		return "", err
	}
	if it.registry == nil {
		return "", fmt.Errorf("%w: no package registry configured", entities.ErrResolution)
	}

	version, err := it.registry.LatestVersion(ctx, name)
	if err != nil {
		if errors.Is(err, entities.ErrResolution) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", entities.ErrResolution, err)
	}
	return version, nil
}

func (it *Workspace) checkBlacklist(name string) error {
	if it.settings.IsBlacklisted(name) {
		return fmt.Errorf("%w: `%s`", entities.ErrBlacklistedDependency, name)
	}
	return nil
}
