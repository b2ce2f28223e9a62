package entities

import "errors"

var (
	// ErrNotFound indicates a manifest file does not exist.
	ErrNotFound = errors.New("manifest not found")

	// ErrParse indicates a manifest is not well-formed TOML.
	ErrParse = errors.New("malformed document")

	// ErrMalformedManifest indicates a document lacks the expected dependency sections
	// or declares a dependency in an unsupported shape.
	ErrMalformedManifest = errors.New("malformed manifest")

	// ErrUnknownField indicates a dependency table uses a key that is not understood.
	ErrUnknownField = errors.New("unknown dependency field")

	// ErrUnmanagedDependency indicates a name is absent from a manifest's dependency table.
	ErrUnmanagedDependency = errors.New("dependency not declared")

	// ErrNotVersionConstrained indicates a dependency pinned by git, path or url.
	ErrNotVersionConstrained = errors.New("dependency is not managed via a version constraint")

	// ErrBlacklistedDependency indicates a reserved name that cannot be managed.
	ErrBlacklistedDependency = errors.New("dependency cannot be managed")

	// ErrNotAWorkspace indicates no git root was found above the start directory.
	ErrNotAWorkspace = errors.New("not in a git repository")

	// ErrResolution indicates the latest version lookup failed.
	ErrResolution = errors.New("cannot resolve latest version")
)
