package entities

import (
	"go.uber.org/dig"
)

// SettingsLoader loads settings from an explicit path, or from the default
// locations when the path is empty.
type SettingsLoader func(path string) (*Settings, error)

// RegisterProviders registers all entity providers with the DIG container.
// Settings themselves depend on the --config flag, so only the loader is provided here.
func RegisterProviders(container *dig.Container) error {
	return container.Provide(func() SettingsLoader {
		return LoadSettings
	})
}
