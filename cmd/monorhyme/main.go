package main

import (
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/monorhyme/internal"
	"github.com/rios0rios0/monorhyme/internal/color"
	"github.com/rios0rios0/monorhyme/internal/infrastructure/controllers"
)

func buildRootCommand() *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "monorhyme",
		Short: "Keep dependency versions in rhyme across a Poetry monorepo",
		Long: `Discover every Poetry project (pyproject.toml) of a Git repository and
list or rewrite the version constraint of a dependency in all of them at once.

Manifests are edited in place: comments, ordering and formatting are kept.

Usage:
  monorhyme ls                 List every dependency of the repository
  monorhyme ls django          Show how each project declares django
  monorhyme set django ^4.2    Set the django constraint everywhere
  monorhyme set django latest  Use the latest release from the registry`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	controllers.AddGlobalFlags(cmd)
	return cmd
}

func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:   bind.Use,
			Short: bind.Short,
			Long:  bind.Long,
			Args:  bind.Args,
			RunE:  controller.Execute,
		}

		// Add controller-specific flags
		controller.AddFlags(subCmd)

		rootCmd.AddCommand(subCmd)
	}
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	cobraRoot := buildRootCommand()
	addSubcommands(cobraRoot, injectAppContext())

	if err := cobraRoot.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, color.Red.Render(err.Error()))
		os.Exit(1)
	}
}
