//go:build unit

package color_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/monorhyme/internal/color"
)

func TestForeground(t *testing.T) {
	t.Parallel()

	t.Run("should keep the text", func(t *testing.T) {
		t.Parallel()

		// given
		text := "services/api/pyproject.toml"

		// when
		painted := color.Foreground(color.Blue, text)

		// then
		assert.Contains(t, painted, text)
		assert.Equal(t, painted, color.Blue.Render(text))
	})

	t.Run("should name every color", func(t *testing.T) {
		t.Parallel()

		// given
		expected := []string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

		for i, name := range expected {
			// when
			got := color.Color(i).String()

			// then
			assert.Equal(t, name, got)
		}
		assert.Equal(t, "unknown", color.Color(8).String())
	})
}
