package entities

import "strings"

const (
	// GroupMain is the group of dependencies declared under `tool.poetry.dependencies`.
	GroupMain = "main"
	// GroupDev is the group of dependencies declared under the legacy `tool.poetry.dev-dependencies`.
	GroupDev = "dev"
)

// SourceKind identifies where a dependency is fetched from when it is not
// (only) resolved through the package index.
type SourceKind int

const (
	SourceNone SourceKind = iota
	SourceGit
	SourcePath
	SourceURL
)

func (k SourceKind) String() string {
	switch k {
	case SourceGit:
		return "git"
	case SourcePath:
		return "path"
	case SourceURL:
		return "url"
	default:
		return ""
	}
}

// Source is the non-index location of a dependency.
type Source struct {
	Kind     SourceKind
	Location string
}

// GitRefKind identifies which git reference pins a git dependency.
type GitRefKind int

const (
	RefNone GitRefKind = iota
	RefBranch
	RefRev
	RefTag
)

func (k GitRefKind) String() string {
	switch k {
	case RefBranch:
		return "branch"
	case RefRev:
		return "rev"
	case RefTag:
		return "tag"
	default:
		return ""
	}
}

// GitRef is a branch, revision or tag of a git dependency.
type GitRef struct {
	Kind  GitRefKind
	Value string
}

// Dependency is a typed view of one dependency entry of a project manifest.
// An empty Version means the dependency is pinned by its source (git, path
// or url) and is not managed through a version constraint.
type Dependency struct {
	Name             string
	Development      bool
	Group            string
	Version          string
	Source           Source
	GitRef           GitRef
	Python           string
	Markers          string
	AllowPrereleases bool
	Extras           []string
	Optional         bool
}

// Constrained reports whether the dependency carries a version constraint.
func (d Dependency) Constrained() bool {
	return d.Version != ""
}

// SourceString renders the source as "kind+location", or an empty string.
func (d Dependency) SourceString() string {
	if d.Source.Kind == SourceNone {
		return ""
	}
	return d.Source.Kind.String() + "+" + d.Source.Location
}

// RefString renders the git reference as "kind:value", or an empty string.
func (d Dependency) RefString() string {
	if d.GitRef.Kind == RefNone {
		return ""
	}
	return d.GitRef.Kind.String() + ":" + d.GitRef.Value
}

// ExtrasString renders the extras as a comma separated list.
func (d Dependency) ExtrasString() string {
	return strings.Join(d.Extras, ",")
}
