//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"slices"

	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/monorhyme/internal/domain/entities"
)

// DependencyBuilder helps create test dependencies with a fluent interface.
type DependencyBuilder struct {
	*testkit.BaseBuilder
	name     string
	group    string
	version  string
	source   entities.Source
	gitRef   entities.GitRef
	extras   []string
	optional bool
}

// NewDependencyBuilder creates a new dependency builder with sensible defaults.
func NewDependencyBuilder() *DependencyBuilder {
	return &DependencyBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "requests",
		group:       entities.GroupMain,
		version:     "^2.0",
	}
}

// WithName sets the dependency name.
func (b *DependencyBuilder) WithName(name string) *DependencyBuilder {
	b.name = name
	return b
}

// WithGroup sets the dependency group. Any group but main is a development group.
func (b *DependencyBuilder) WithGroup(group string) *DependencyBuilder {
	b.group = group
	return b
}

// WithVersion sets the version constraint.
func (b *DependencyBuilder) WithVersion(version string) *DependencyBuilder {
	b.version = version
	return b
}

// WithGit pins the dependency to a git repository branch, dropping its version.
func (b *DependencyBuilder) WithGit(location, branch string) *DependencyBuilder {
	b.version = ""
	b.source = entities.Source{Kind: entities.SourceGit, Location: location}
	b.gitRef = entities.GitRef{Kind: entities.RefBranch, Value: branch}
	return b
}

// WithPath pins the dependency to a local path, dropping its version.
func (b *DependencyBuilder) WithPath(location string) *DependencyBuilder {
	b.version = ""
	b.source = entities.Source{Kind: entities.SourcePath, Location: location}
	return b
}

// WithExtras sets the extras.
func (b *DependencyBuilder) WithExtras(extras ...string) *DependencyBuilder {
	b.extras = extras
	return b
}

// WithOptional marks the dependency as optional.
func (b *DependencyBuilder) WithOptional() *DependencyBuilder {
	b.optional = true
	return b
}

// Build creates the dependency (satisfies testkit.Builder interface).
func (b *DependencyBuilder) Build() interface{} {
	return b.BuildDependency()
}

// BuildDependency creates the dependency with a concrete return type.
func (b *DependencyBuilder) BuildDependency() entities.Dependency {
	return entities.Dependency{
		Name:        b.name,
		Development: b.group != entities.GroupMain,
		Group:       b.group,
		Version:     b.version,
		Source:      b.source,
		GitRef:      b.gitRef,
		Extras:      slices.Clone(b.extras),
		Optional:    b.optional,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *DependencyBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "requests"
	b.group = entities.GroupMain
	b.version = "^2.0"
	b.source = entities.Source{}
	b.gitRef = entities.GitRef{}
	b.extras = nil
	b.optional = false
	return b
}

// Clone creates a deep copy of the DependencyBuilder.
func (b *DependencyBuilder) Clone() testkit.Builder {
	return &DependencyBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		group:       b.group,
		version:     b.version,
		source:      b.source,
		gitRef:      b.gitRef,
		extras:      slices.Clone(b.extras),
		optional:    b.optional,
	}
}
