package controllers

import (
	"path/filepath"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/monorhyme/internal/domain/entities"
)

const (
	flagConfig  = "config"
	flagDir     = "dir"
	flagVerbose = "verbose"
	flagDryRun  = "dry-run"
)

// AddGlobalFlags registers the flags shared by every subcommand.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP(flagConfig, "c", "",
		"Path to config file (default: auto-detect)")
	cmd.PersistentFlags().String(flagDir, ".",
		"Directory to start looking for the repository root from")
	cmd.PersistentFlags().BoolP(flagVerbose, "v", false,
		"Enable verbose output")
}

// loadSettings applies the global flags and loads the configuration.
func loadSettings(cmd *cobra.Command, loader entities.SettingsLoader) (*entities.Settings, string, error) {
	configPath, _ := cmd.Flags().GetString(flagConfig)
	startDir, _ := cmd.Flags().GetString(flagDir)
	verbose, _ := cmd.Flags().GetBool(flagVerbose)

	if verbose {
		logger.SetLevel(logger.DebugLevel)
	}
	if startDir == "" {
		startDir = "."
	}

	settings, err := loader(configPath)
	if err != nil {
		return nil, "", err
	}
	return settings, startDir, nil
}

// relativePath renders path relative to root when possible.
func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
