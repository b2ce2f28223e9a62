//go:build unit

package commands_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/monorhyme/internal/domain/commands"
	"github.com/rios0rios0/monorhyme/internal/domain/entities"
	"github.com/rios0rios0/monorhyme/internal/domain/repositories"
	"github.com/rios0rios0/monorhyme/internal/infrastructure/repositories/poetry"
	"github.com/rios0rios0/monorhyme/test/domain/entitybuilders"
	"github.com/rios0rios0/monorhyme/test/infrastructure/repositorydoubles"
)

const (
	projectOneManifest = `[tool.poetry]
name = "one"

[tool.poetry.dependencies]
python = "^3.11"
requests = "^2.0"
`
	projectTwoManifest = `[tool.poetry]
name = "two"

[tool.poetry.dependencies]
python = "^3.11"
# kept optional on purpose
requests = {version = "^1.0", optional = true}
flask = { git = "https://github.com/pallets/flask.git", branch = "main" }
`
)

// newGitWorkspace lays out manifests (relative dir -> content) in a fresh git
// repository and discovers it.
func newGitWorkspace(t *testing.T, manifests map[string]string) *commands.Workspace {
	t.Helper()

	root := t.TempDir()
	_, err := git.PlainInit(root, false)
	require.NoError(t, err)
	for dir, content := range manifests {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, dir, "pyproject.toml"), []byte(content), 0o600))
	}

	workspace, err := commands.DiscoverWorkspace(
		root, poetry.NewFileManifestRepository(), entities.NewDefaultSettings(), nil,
	)
	require.NoError(t, err)
	return workspace
}

func newSpyWorkspace(registry repositories.RegistryRepository, manifests ...repositories.Manifest) *commands.Workspace {
	return commands.NewWorkspace("/repo", manifests, entities.NewDefaultSettings(), registry)
}

func TestDiscoverWorkspace(t *testing.T) {
	t.Parallel()

	t.Run("should fail with ErrNotAWorkspace when no root is found", func(t *testing.T) {
		t.Parallel()

		// given
		repo := &repositorydoubles.StubManifestRepository{RootErr: entities.ErrNotAWorkspace}

		// when
		workspace, err := commands.DiscoverWorkspace(".", repo, entities.NewDefaultSettings(), nil)

		// then
		require.ErrorIs(t, err, entities.ErrNotAWorkspace)
		assert.Nil(t, workspace)
	})

	t.Run("should return no partial workspace when a manifest is missing", func(t *testing.T) {
		t.Parallel()

		// given
		repo := &repositorydoubles.StubManifestRepository{
			Root:        "/repo",
			DiscoverErr: entities.ErrNotFound,
		}

		// when
		workspace, err := commands.DiscoverWorkspace("/repo", repo, entities.NewDefaultSettings(), nil)

		// then
		require.ErrorIs(t, err, entities.ErrNotFound)
		assert.Nil(t, workspace)
	})

	t.Run("should fail the discovery of a repository with one broken manifest", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		_, err := git.PlainInit(root, false)
		require.NoError(t, err)
		require.NoError(t, os.MkdirAll(filepath.Join(root, "broken"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "pyproject.toml"), []byte(projectOneManifest), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(root, "broken", "pyproject.toml"), []byte("requests = "), 0o600))

		// when
		workspace, err := commands.DiscoverWorkspace(
			root, poetry.NewFileManifestRepository(), entities.NewDefaultSettings(), nil,
		)

		// then
		require.ErrorIs(t, err, entities.ErrParse)
		assert.Nil(t, workspace)
	})
}

func TestWorkspaceQueries(t *testing.T) {
	t.Parallel()

	one := repositorydoubles.NewSpyManifest("/repo/one/pyproject.toml",
		entitybuilders.NewDependencyBuilder().WithName("python").WithVersion("^3.11").BuildDependency(),
		entitybuilders.NewDependencyBuilder().WithName("requests").BuildDependency(),
	)
	two := repositorydoubles.NewSpyManifest("/repo/two/pyproject.toml",
		entitybuilders.NewDependencyBuilder().WithName("django").WithVersion("^4.2").BuildDependency(),
		entitybuilders.NewDependencyBuilder().WithName("pytest").WithGroup(entities.GroupDev).BuildDependency(),
	)
	workspace := newSpyWorkspace(nil, one, two)

	t.Run("should list every dependency name sorted", func(t *testing.T) {
		t.Parallel()

		// when
		names := workspace.ListDependencies()

		// then
		assert.Equal(t, []string{"django", "pytest", "python", "requests"}, names)
	})

	t.Run("should report whether a dependency is declared", func(t *testing.T) {
		t.Parallel()

		// when
		declared, declaredErr := workspace.HasDependency("django")
		missing, missingErr := workspace.HasDependency("numpy")

		// then
		require.NoError(t, declaredErr)
		require.NoError(t, missingErr)
		assert.True(t, declared)
		assert.False(t, missing)
	})

	t.Run("should return one entry per manifest", func(t *testing.T) {
		t.Parallel()

		// when
		versions := workspace.GetVersions("requests")

		// then
		require.Len(t, versions, 2)
		assert.Equal(t, "/repo/one/pyproject.toml", versions[0].Path)
		require.NotNil(t, versions[0].Dependency)
		assert.Equal(t, "^2.0", versions[0].Dependency.Version)
		assert.Equal(t, "/repo/two/pyproject.toml", versions[1].Path)
		assert.Nil(t, versions[1].Dependency)
	})
}

func TestWorkspaceBlacklist(t *testing.T) {
	t.Parallel()

	t.Run("should refuse the runtime pseudo-dependency everywhere", func(t *testing.T) {
		t.Parallel()

		// given
		registry := &repositorydoubles.SpyRegistryRepository{Version: "3.12.0"}
		manifest := repositorydoubles.NewSpyManifest("/repo/pyproject.toml",
			entitybuilders.NewDependencyBuilder().WithName("python").WithVersion("^3.11").BuildDependency(),
		)
		workspace := newSpyWorkspace(registry, manifest)

		// when
		_, hasErr := workspace.HasDependency("python")
		_, setErr := workspace.SetVersion("python", "^3.12")
		_, latestErr := workspace.ResolveLatest(context.Background(), "Python")

		// then
		require.ErrorIs(t, hasErr, entities.ErrBlacklistedDependency)
		require.ErrorIs(t, setErr, entities.ErrBlacklistedDependency)
		require.ErrorIs(t, latestErr, entities.ErrBlacklistedDependency)
		assert.Empty(t, registry.Requested)
		assert.False(t, manifest.Dirty())
	})

	t.Run("should refuse configured names", func(t *testing.T) {
		t.Parallel()

		// given
		settings := entities.NewDefaultSettings()
		settings.Blacklist = []string{"setuptools"}
		workspace := commands.NewWorkspace("/repo", nil, settings, nil)

		// when
		_, err := workspace.SetVersion("setuptools", "^69.0")

		// then
		require.ErrorIs(t, err, entities.ErrBlacklistedDependency)
	})
}

func TestWorkspaceSetVersion(t *testing.T) {
	t.Parallel()

	t.Run("should rewrite every declaring project and keep table keys", func(t *testing.T) {
		t.Parallel()

		// given
		workspace := newGitWorkspace(t, map[string]string{
			"a": projectOneManifest,
			"b": projectTwoManifest,
		})
		pathOne := filepath.Join(workspace.Root, "a", "pyproject.toml")
		pathTwo := filepath.Join(workspace.Root, "b", "pyproject.toml")

		// when
		changes, err := workspace.SetVersion("requests", "^3.0")
		require.NoError(t, err)
		report, writeErr := workspace.WriteAll()

		// then
		require.NoError(t, writeErr)
		assert.Equal(t, []entities.VersionChange{
			{Path: pathOne, OldVersion: "^2.0", NewVersion: "^3.0"},
			{Path: pathTwo, OldVersion: "^1.0", NewVersion: "^3.0"},
		}, changes)
		assert.Equal(t, []string{pathOne, pathTwo}, report.Written)
		written, readErr := os.ReadFile(pathTwo)
		require.NoError(t, readErr)
		assert.Contains(t, string(written), "# kept optional on purpose\nrequests = {version = \"^3.0\", optional = true}\n")
	})

	t.Run("should fail with ErrNotVersionConstrained for a git dependency", func(t *testing.T) {
		t.Parallel()

		// given
		workspace := newGitWorkspace(t, map[string]string{"b": projectTwoManifest})

		// when
		_, err := workspace.SetVersion("flask", "^2.0")

		// then
		require.ErrorIs(t, err, entities.ErrNotVersionConstrained)
	})

	t.Run("should change nothing when no project declares the dependency", func(t *testing.T) {
		t.Parallel()

		// given
		one := repositorydoubles.NewSpyManifest("/repo/one/pyproject.toml",
			entitybuilders.NewDependencyBuilder().BuildDependency(),
		)
		workspace := newSpyWorkspace(nil, one)

		// when
		changes, err := workspace.SetVersion("numpy", "^1.0")
		require.NoError(t, err)
		report, writeErr := workspace.WriteAll()

		// then
		require.NoError(t, writeErr)
		assert.Empty(t, changes)
		assert.Empty(t, report.Written)
		assert.Zero(t, one.WriteCalls)
	})

	t.Run("should only report manifests that really changed", func(t *testing.T) {
		t.Parallel()

		// given
		current := repositorydoubles.NewSpyManifest("/repo/current/pyproject.toml",
			entitybuilders.NewDependencyBuilder().WithVersion("^3.0").BuildDependency(),
		)
		outdated := repositorydoubles.NewSpyManifest("/repo/outdated/pyproject.toml",
			entitybuilders.NewDependencyBuilder().WithVersion("^2.0").BuildDependency(),
		)
		workspace := newSpyWorkspace(nil, current, outdated)

		// when
		changes, err := workspace.SetVersion("requests", "^3.0")
		require.NoError(t, err)
		_, writeErr := workspace.WriteAll()

		// then
		require.NoError(t, writeErr)
		assert.Equal(t, []entities.VersionChange{
			{Path: "/repo/outdated/pyproject.toml", OldVersion: "^2.0", NewVersion: "^3.0"},
		}, changes)
		assert.Zero(t, current.WriteCalls)
		assert.Equal(t, 1, outdated.WriteCalls)
	})

	t.Run("should be idempotent", func(t *testing.T) {
		t.Parallel()

		// given
		workspace := newGitWorkspace(t, map[string]string{"a": projectOneManifest})
		first, err := workspace.SetVersion("requests", "^3.0")
		require.NoError(t, err)

		// when
		second, err := workspace.SetVersion("requests", "^3.0")

		// then
		require.NoError(t, err)
		assert.Len(t, first, 1)
		assert.Empty(t, second)
	})
}

func TestWorkspaceWriteAll(t *testing.T) {
	t.Parallel()

	t.Run("should report written and failed manifests without rolling back", func(t *testing.T) {
		t.Parallel()

		// given
		writeErr := errors.New("disk full")
		good := repositorydoubles.NewSpyManifest("/repo/good/pyproject.toml",
			entitybuilders.NewDependencyBuilder().BuildDependency(),
		)
		bad := repositorydoubles.NewSpyManifest("/repo/bad/pyproject.toml",
			entitybuilders.NewDependencyBuilder().BuildDependency(),
		)
		bad.WriteErr = writeErr
		workspace := newSpyWorkspace(nil, good, bad)
		_, err := workspace.SetVersion("requests", "^3.0")
		require.NoError(t, err)

		// when
		report, err := workspace.WriteAll()

		// then
		require.ErrorIs(t, err, writeErr)
		assert.Equal(t, []string{"/repo/good/pyproject.toml"}, report.Written)
		require.Len(t, report.Failed, 1)
		assert.Equal(t, "/repo/bad/pyproject.toml", report.Failed[0].Path)
		assert.True(t, bad.Dirty())
		assert.False(t, good.Dirty())
	})
	t.Run("should not rewrite a manifest whose change was reverted before writing", func(t *testing.T) {
		t.Parallel()

		// given
		workspace := newGitWorkspace(t, map[string]string{"a": projectOneManifest})
		_, err := workspace.SetVersion("requests", "^3.0")
		require.NoError(t, err)
		_, err = workspace.SetVersion("requests", "^2.0")
		require.NoError(t, err)

		// when
		report, writeErr := workspace.WriteAll()

		// then
		require.NoError(t, writeErr)
		assert.Empty(t, report.Written)
		assert.Empty(t, report.Failed)
	})
}

func TestWorkspaceResolveLatest(t *testing.T) {
	t.Parallel()

	t.Run("should return the registry version", func(t *testing.T) {
		t.Parallel()

		// given
		registry := &repositorydoubles.SpyRegistryRepository{Version: "4.2.1"}
		workspace := newSpyWorkspace(registry)

		// when
		version, err := workspace.ResolveLatest(context.Background(), "django")

		// then
		require.NoError(t, err)
		assert.Equal(t, "4.2.1", version)
		assert.Equal(t, []string{"django"}, registry.Requested)
	})

	t.Run("should wrap registry failures with ErrResolution", func(t *testing.T) {
		t.Parallel()

		// given
		registry := &repositorydoubles.SpyRegistryRepository{Err: errors.New("connection refused")}
		workspace := newSpyWorkspace(registry)

		// when
		_, err := workspace.ResolveLatest(context.Background(), "django")

		// then
		require.ErrorIs(t, err, entities.ErrResolution)
	})

	t.Run("should fail with ErrResolution without a registry", func(t *testing.T) {
		t.Parallel()

		// given
		workspace := newSpyWorkspace(nil)

		// when
		_, err := workspace.ResolveLatest(context.Background(), "django")

		// then
		require.ErrorIs(t, err, entities.ErrResolution)
	})
}
