package controllers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/monorhyme/internal/color"
	"github.com/rios0rios0/monorhyme/internal/domain/commands"
	"github.com/rios0rios0/monorhyme/internal/domain/entities"
)

const setArgs = 2

// SetController handles the "set" subcommand.
type SetController struct {
	command        commands.Set
	settingsLoader entities.SettingsLoader
}

// NewSetController creates a new SetController.
func NewSetController(command commands.Set, settingsLoader entities.SettingsLoader) *SetController {
	return &SetController{command: command, settingsLoader: settingsLoader}
}

// GetBind returns the Cobra command metadata for the set controller.
func (it *SetController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "set <dependency> <version>",
		Short: "Set the version constraint of a dependency in every project",
		Long: `Rewrite the version constraint of a dependency in every project of the
repository that declares it. Everything else in the manifests is left untouched.

Use "latest" as the version to look up the latest release on the package
registry and apply it with the default constraint (e.g. ^4.2.1).`,
		Args: cobra.ExactArgs(setArgs),
	}
}

// AddFlags adds set-specific flags to the given Cobra command.
func (it *SetController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().Bool(flagDryRun, false,
		"Show what would change without writing any manifest")
}

// Execute runs the version rewrite.
func (it *SetController) Execute(cmd *cobra.Command, args []string) error {
	settings, startDir, err := loadSettings(cmd, it.settingsLoader)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool(flagDryRun)

	dependency := args[0]
	result, err := it.command.Execute(context.Background(), settings, commands.SetOptions{
		StartDir:   startDir,
		Dependency: dependency,
		Version:    args[1],
		DryRun:     dryRun,
	})
	if result == nil {
		return err
	}

	out := cmd.OutOrStdout()
	if result.Resolved {
		_, _ = fmt.Fprintf(out, "Using %s for %s\n", color.Cyan.Render(result.Latest), color.Green.Render(dependency))
	}

	if len(result.Changes) == 0 {
		_, _ = fmt.Fprintln(out, "All projects are already up to date.")
		return err
	}
	for _, change := range result.Changes {
		_, _ = fmt.Fprintf(out, "%s (%s -> %s)\n",
			color.Blue.Render(relativePath(result.Root, change.Path)),
			color.Red.Render(change.OldVersion),
			color.Green.Render(change.NewVersion),
		)
	}

	if dryRun {
		_, _ = fmt.Fprintln(out, "Dry run: no manifest was written.")
	}
	for _, failure := range result.Report.Failed {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n",
			color.Red.Render("not written:"), relativePath(result.Root, failure.Path))
	}
	return err
}
