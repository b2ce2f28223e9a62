package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultManifestName      = "pyproject.toml"
	DefaultConstraint        = "^"
	DefaultRegistryType      = "pypi"
	DefaultRegistryURL       = "https://pypi.org/pypi"
	DefaultRegistryTimeout   = 10 * time.Second
	DefaultRegistryRetries   = 3
	RuntimePseudoDependency  = "python"
	LatestVersionPlaceholder = "latest"
)

// Settings is the top-level configuration for monorhyme.
type Settings struct {
	Manifest          string           `yaml:"manifest"`
	DefaultConstraint string           `yaml:"default_constraint"`
	Blacklist         []string         `yaml:"blacklist"`
	Exclude           []string         `yaml:"exclude"`
	RespectGitignore  bool             `yaml:"respect_gitignore"`
	Registry          RegistrySettings `yaml:"registry"`
}

// RegistrySettings describes the package index used to resolve "latest".
type RegistrySettings struct {
	Type    string        `yaml:"type"`     // "pypi"
	BaseURL string        `yaml:"base_url"` // Inline or ${ENV_VAR}
	Timeout time.Duration `yaml:"timeout"`
	Retries int           `yaml:"retries"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewDefaultSettings returns the settings used when no configuration file exists.
func NewDefaultSettings() *Settings {
	settings := &Settings{Registry: RegistrySettings{Retries: DefaultRegistryRetries}}
	settings.applyDefaults()
	return settings
}

// NewSettings reads and parses a configuration file, expanding environment
// variables and filling in defaults for omitted keys. The file is decoded over
// the defaults, so an explicit `retries: 0` disables retries.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	settings := *NewDefaultSettings()
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.Manifest = expandEnv(settings.Manifest)
	settings.DefaultConstraint = expandEnv(settings.DefaultConstraint)
	settings.Registry.BaseURL = expandEnv(settings.Registry.BaseURL)
	settings.applyDefaults()

	if validateErr := validate(&settings); validateErr != nil {
		return nil, validateErr
	}

	return &settings, nil
}

// LoadSettings loads the file at path, or the first configuration file found
// in the default locations when path is empty. Without any file it returns defaults.
func LoadSettings(path string) (*Settings, error) {
	if path != "" {
		return NewSettings(path)
	}

	found, err := FindConfigFile()
	if err != nil {
		logger.Debugf("No config file found, using defaults: %v", err)
		return NewDefaultSettings(), nil
	}

	logger.Debugf("Using config file: %s", found)
	return NewSettings(found)
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".monorhyme.yaml",
		".monorhyme.yml",
		"monorhyme.yaml",
		"monorhyme.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// IsBlacklisted reports whether name is a reserved pseudo-dependency.
// The runtime pseudo-dependency is always blacklisted.
func (s *Settings) IsBlacklisted(name string) bool {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == RuntimePseudoDependency {
		return true
	}
	return slices.ContainsFunc(s.Blacklist, func(entry string) bool {
		return strings.EqualFold(strings.TrimSpace(entry), normalized)
	})
}

// IsExcluded reports whether a directory name is skipped during discovery.
func (s *Settings) IsExcluded(dirName string) bool {
	return dirName == ".git" || slices.Contains(s.Exclude, dirName)
}

func (s *Settings) applyDefaults() {
	if s.Manifest == "" {
		s.Manifest = DefaultManifestName
	}
	if s.DefaultConstraint == "" {
		s.DefaultConstraint = DefaultConstraint
	}
	if s.Registry.Type == "" {
		s.Registry.Type = DefaultRegistryType
	}
	if s.Registry.BaseURL == "" {
		s.Registry.BaseURL = DefaultRegistryURL
	}
	if s.Registry.Timeout <= 0 {
		s.Registry.Timeout = DefaultRegistryTimeout
	}
}

// expandEnv expands ${VAR} references, warning about unset variables.
func expandEnv(raw string) string {
	if raw == "" {
		return raw
	}

	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}

// validate checks for values that cannot work.
func validate(settings *Settings) error {
	if strings.ContainsAny(settings.Manifest, `/\`) {
		return fmt.Errorf("manifest must be a file name, got %q", settings.Manifest)
	}
	if settings.Registry.Retries < 0 {
		return fmt.Errorf("registry.retries must not be negative, got %d", settings.Registry.Retries)
	}
	if !strings.HasPrefix(settings.Registry.BaseURL, "http://") &&
		!strings.HasPrefix(settings.Registry.BaseURL, "https://") {
		return fmt.Errorf("registry.base_url must be an http(s) URL, got %q", settings.Registry.BaseURL)
	}
	return nil
}
