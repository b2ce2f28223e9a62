package poetry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/monorhyme/internal/domain/entities"
	"github.com/rios0rios0/monorhyme/internal/domain/repositories"
)

const gitDirName = ".git"

// FileManifestRepository finds Poetry manifests on the local filesystem.
type FileManifestRepository struct{}

// NewFileManifestRepository creates a new filesystem manifest repository.
func NewFileManifestRepository() *FileManifestRepository {
	return &FileManifestRepository{}
}

// FindRoot returns the closest directory at or above startDir that holds a
// `.git` entry. Worktrees and submodules use a `.git` file, which counts too.
func (it *FileManifestRepository) FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", startDir, err)
	}

	for {
		if _, statErr := os.Stat(filepath.Join(dir, gitDirName)); statErr == nil {
			logger.Debugf("Workspace root: %s", dir)
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no %s found above %s", entities.ErrNotAWorkspace, gitDirName, startDir)
		}
		dir = parent
	}
}

// Discover loads every manifest below root. Subdirectories are visited
// before their parent and siblings in lexical order, so the deepest projects
// come first. The first manifest that fails to load aborts the discovery.
func (it *FileManifestRepository) Discover(
	root string,
	settings *entities.Settings,
) ([]repositories.Manifest, error) {
	filesystem := osfs.New(root)

	var matcher gitignore.Matcher
	if settings.RespectGitignore {
		patterns, err := gitignore.ReadPatterns(filesystem, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read .gitignore files under %s: %w", root, err)
		}
		matcher = gitignore.NewMatcher(patterns)
	}

	walker := &manifestWalker{
		filesystem: filesystem,
		settings:   settings,
		matcher:    matcher,
	}
	if err := walker.walk(nil); err != nil {
		return nil, err
	}

	manifests := make([]repositories.Manifest, 0, len(walker.found))
	for _, relPath := range walker.found {
		manifest, err := it.Load(filepath.Join(append([]string{root}, relPath...)...), settings)
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, manifest)
	}

	logger.Debugf("Discovered %d manifest(s) under %s", len(manifests), root)
	return manifests, nil
}

// Load loads a single manifest.
func (it *FileManifestRepository) Load(path string, settings *entities.Settings) (repositories.Manifest, error) {
	manifest, err := Load(path, settings.Manifest)
	if err != nil {
		return nil, err
	}
	return manifest, nil
}

// manifestWalker collects manifest paths, relative to the filesystem root,
// in post-order.
type manifestWalker struct {
	filesystem billy.Filesystem
	settings   *entities.Settings
	matcher    gitignore.Matcher
	found      [][]string
}

func (w *manifestWalker) walk(dir []string) error {
	dirPath := "."
	if len(dir) > 0 {
		dirPath = w.filesystem.Join(dir...)
	}

	infos, err := w.filesystem.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dirPath, err)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })

	hasManifest := false
	for _, info := range infos {
		path := append(append([]string(nil), dir...), info.Name())
		if w.ignored(path, info.IsDir()) {
			continue
		}

		if info.IsDir() {
			if w.settings.IsExcluded(info.Name()) {
				logger.Debugf("Skipping excluded directory: %s", w.filesystem.Join(path...))
				continue
			}
			if err = w.walk(path); err != nil {
				return err
			}
			continue
		}

		if info.Name() == w.settings.Manifest {
			hasManifest = true
		}
	}

	if hasManifest {
		manifestPath := append(append([]string(nil), dir...), w.settings.Manifest)
		logger.Debugf("Found: %s", w.filesystem.Join(manifestPath...))
		w.found = append(w.found, manifestPath)
	}
	return nil
}

func (w *manifestWalker) ignored(path []string, isDir bool) bool {
	return w.matcher != nil && w.matcher.Match(path, isDir)
}
