//go:build unit

package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/monorhyme/internal/domain/commands"
	"github.com/rios0rios0/monorhyme/internal/domain/entities"
	"github.com/rios0rios0/monorhyme/internal/domain/repositories"
	"github.com/rios0rios0/monorhyme/test/domain/entitybuilders"
	"github.com/rios0rios0/monorhyme/test/infrastructure/repositorydoubles"
)

func TestListCommand(t *testing.T) {
	t.Parallel()

	repo := &repositorydoubles.StubManifestRepository{
		Root: "/repo",
		Manifests: []repositories.Manifest{
			repositorydoubles.NewSpyManifest("/repo/a/pyproject.toml",
				entitybuilders.NewDependencyBuilder().WithName("requests").BuildDependency(),
				entitybuilders.NewDependencyBuilder().WithName("python").WithVersion("^3.11").BuildDependency(),
			),
			repositorydoubles.NewSpyManifest("/repo/b/pyproject.toml",
				entitybuilders.NewDependencyBuilder().WithName("flask").WithGit("https://example.com/flask.git", "main").BuildDependency(),
			),
		},
	}

	t.Run("should list every dependency name when no dependency is given", func(t *testing.T) {
		t.Parallel()

		// given
		command := commands.NewListCommand(repo)

		// when
		result, err := command.Execute(context.Background(), entities.NewDefaultSettings(), commands.ListOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t, "/repo", result.Root)
		assert.Equal(t, []string{"flask", "python", "requests"}, result.Names)
		assert.Nil(t, result.Versions)
	})

	t.Run("should list the declarations of one dependency", func(t *testing.T) {
		t.Parallel()

		// given
		command := commands.NewListCommand(repo)

		// when
		result, err := command.Execute(context.Background(), entities.NewDefaultSettings(), commands.ListOptions{
			Dependency: "flask",
		})

		// then
		require.NoError(t, err)
		require.Len(t, result.Versions, 2)
		assert.Nil(t, result.Versions[0].Dependency)
		require.NotNil(t, result.Versions[1].Dependency)
		assert.Equal(t, "git+https://example.com/flask.git", result.Versions[1].Dependency.SourceString())
	})

	t.Run("should fail for an undeclared dependency", func(t *testing.T) {
		t.Parallel()

		// given
		command := commands.NewListCommand(repo)

		// when
		_, err := command.Execute(context.Background(), entities.NewDefaultSettings(), commands.ListOptions{
			Dependency: "numpy",
		})

		// then
		require.ErrorIs(t, err, entities.ErrUnmanagedDependency)
	})

	t.Run("should fail for the runtime pseudo-dependency", func(t *testing.T) {
		t.Parallel()

		// given
		command := commands.NewListCommand(repo)

		// when
		_, err := command.Execute(context.Background(), entities.NewDefaultSettings(), commands.ListOptions{
			Dependency: "python",
		})

		// then
		require.ErrorIs(t, err, entities.ErrBlacklistedDependency)
	})
}
