package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/monorhyme/internal/domain/entities"
	"github.com/rios0rios0/monorhyme/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/monorhyme/internal/infrastructure/repositories"
)

// Set is the interface for the set command.
type Set interface {
	Execute(ctx context.Context, settings *entities.Settings, opts SetOptions) (*SetResult, error)
}

// SetOptions holds runtime options for a version rewrite.
type SetOptions struct {
	StartDir   string
	Dependency string
	Version    string // A constraint, or "latest" to resolve it from the registry
	DryRun     bool
}

// SetResult describes what a version rewrite changed.
type SetResult struct {
	Root     string
	Version  string // The constraint that was applied
	Latest   string // The registry version, when Version was resolved
	Resolved bool
	Changes  []entities.VersionChange
	Report   entities.WriteReport
}

// SetCommand rewrites the constraint of one dependency across a workspace.
type SetCommand struct {
	manifestRepository repositories.ManifestRepository
	registryFactories  *infraRepos.RegistryFactories
}

// NewSetCommand creates a new SetCommand.
func NewSetCommand(
	manifestRepository repositories.ManifestRepository,
	registryFactories *infraRepos.RegistryFactories,
) *SetCommand {
	return &SetCommand{
		manifestRepository: manifestRepository,
		registryFactories:  registryFactories,
	}
}

// Execute resolves the version if needed, applies it to every declaring
// project and writes the changed manifests unless it is a dry run.
func (it *SetCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts SetOptions,
) (*SetResult, error) {
	registry, err := it.registryFactories.Get(settings.Registry)
	if err != nil {
		return nil, err
	}

	workspace, err := DiscoverWorkspace(opts.StartDir, it.manifestRepository, settings, registry)
	if err != nil {
		return nil, err
	}

	declared, err := workspace.HasDependency(opts.Dependency)
	if err != nil {
		return nil, err
	}
	if !declared {
		return nil, fmt.Errorf("%w: no project requires `%s`", entities.ErrUnmanagedDependency, opts.Dependency)
	}

	result := &SetResult{Root: workspace.Root, Version: opts.Version}
	if opts.Version == entities.LatestVersionPlaceholder {
		latest, resolveErr := workspace.ResolveLatest(ctx, opts.Dependency)
		if resolveErr != nil {
			return nil, resolveErr
		}
		result.Version = settings.DefaultConstraint + latest
		result.Latest = latest
		result.Resolved = true
		logger.Debugf("Resolved %s to %s", opts.Dependency, latest)
	}

	result.Changes, err = workspace.SetVersion(opts.Dependency, result.Version)
	if err != nil {
		return nil, err
	}

	if opts.DryRun {
		logger.Infof("[DRY RUN] %d manifest(s) would be written", len(result.Changes))
		return result, nil
	}

	result.Report, err = workspace.WriteAll()
	if err != nil {
		return result, fmt.Errorf("failed to write %d manifest(s): %w", len(result.Report.Failed), err)
	}
	return result, nil
}
