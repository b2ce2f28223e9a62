//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/monorhyme/internal/domain/entities"
)

func TestDependency(t *testing.T) {
	t.Parallel()

	t.Run("should render a git dependency", func(t *testing.T) {
		t.Parallel()

		// given
		dependency := entities.Dependency{
			Name:   "flask",
			Source: entities.Source{Kind: entities.SourceGit, Location: "https://github.com/pallets/flask.git"},
			GitRef: entities.GitRef{Kind: entities.RefTag, Value: "3.0.0"},
		}

		// when / then
		assert.False(t, dependency.Constrained())
		assert.Equal(t, "git+https://github.com/pallets/flask.git", dependency.SourceString())
		assert.Equal(t, "tag:3.0.0", dependency.RefString())
	})

	t.Run("should render an index dependency", func(t *testing.T) {
		t.Parallel()

		// given
		dependency := entities.Dependency{
			Name:    "celery",
			Version: "^5.3",
			Extras:  []string{"redis", "sqs"},
		}

		// when / then
		assert.True(t, dependency.Constrained())
		assert.Empty(t, dependency.SourceString())
		assert.Empty(t, dependency.RefString())
		assert.Equal(t, "redis,sqs", dependency.ExtrasString())
	})

	t.Run("should render path and url sources", func(t *testing.T) {
		t.Parallel()

		// given
		path := entities.Dependency{Source: entities.Source{Kind: entities.SourcePath, Location: "../lib"}}
		url := entities.Dependency{Source: entities.Source{Kind: entities.SourceURL, Location: "https://x/y.whl"}}

		// when / then
		assert.Equal(t, "path+../lib", path.SourceString())
		assert.Equal(t, "url+https://x/y.whl", url.SourceString())
	})
}
