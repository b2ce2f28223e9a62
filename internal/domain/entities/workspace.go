package entities

// VersionChange records one applied version rewrite in a manifest.
type VersionChange struct {
	Path       string
	OldVersion string
	NewVersion string
}

// ProjectDependency pairs a manifest with its declaration of a dependency.
// Dependency is nil when the manifest does not declare it.
type ProjectDependency struct {
	Path       string
	Dependency *Dependency
}

// WriteFailure is a manifest that could not be persisted.
type WriteFailure struct {
	Path string
	Err  error
}

// WriteReport lists the outcome of persisting every changed manifest.
// Writes are not transactional: Written stays applied even when Failed is not empty.
type WriteReport struct {
	Written []string
	Failed  []WriteFailure
}
