package commands

import (
	"context"
	"fmt"

	"github.com/rios0rios0/monorhyme/internal/domain/entities"
	"github.com/rios0rios0/monorhyme/internal/domain/repositories"
)

// List is the interface for the list command.
type List interface {
	Execute(ctx context.Context, settings *entities.Settings, opts ListOptions) (*ListResult, error)
}

// ListOptions holds runtime options for a listing.
type ListOptions struct {
	StartDir   string
	Dependency string // If set, list the declarations of this dependency only
}

// ListResult holds either every dependency name of the workspace, or the
// per-project declarations of one dependency.
type ListResult struct {
	Root     string
	Names    []string
	Versions []entities.ProjectDependency
}

// ListCommand lists what the projects of a workspace depend on.
type ListCommand struct {
	manifestRepository repositories.ManifestRepository
}

// NewListCommand creates a new ListCommand.
func NewListCommand(manifestRepository repositories.ManifestRepository) *ListCommand {
	return &ListCommand{manifestRepository: manifestRepository}
}

// Execute discovers the workspace and collects the listing.
func (it *ListCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts ListOptions,
) (*ListResult, error) {
	workspace, err := DiscoverWorkspace(opts.StartDir, it.manifestRepository, settings, nil)
	if err != nil {
		return nil, err
	}

	result := &ListResult{Root: workspace.Root}
	if opts.Dependency == "" {
		result.Names = workspace.ListDependencies()
		return result, nil
	}

	declared, err := workspace.HasDependency(opts.Dependency)
	if err != nil {
		return nil, err
	}
	if !declared {
		return nil, fmt.Errorf(
			"%w: `%s` is not declared as a dependency by any project", entities.ErrUnmanagedDependency, opts.Dependency,
		)
	}

	result.Versions = workspace.GetVersions(opts.Dependency)
	return result, nil
}
