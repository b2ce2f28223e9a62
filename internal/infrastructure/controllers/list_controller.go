package controllers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/monorhyme/internal/color"
	"github.com/rios0rios0/monorhyme/internal/domain/commands"
	"github.com/rios0rios0/monorhyme/internal/domain/entities"
)

const headerRow = -1

//nolint:gochecknoglobals // fixed table layout
var listColumns = []string{
	"project", "group", "version", "source", "ref", "python", "markers", "allow-prereleases", "extras", "optional",
}

// ListController handles the "ls" subcommand.
type ListController struct {
	command        commands.List
	settingsLoader entities.SettingsLoader
}

// NewListController creates a new ListController.
func NewListController(command commands.List, settingsLoader entities.SettingsLoader) *ListController {
	return &ListController{command: command, settingsLoader: settingsLoader}
}

// GetBind returns the Cobra command metadata for the list controller.
func (it *ListController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "ls [dependency]",
		Short: "List the dependencies of every project",
		Long: `Without an argument, print every dependency declared by any project
of the repository, one per line and sorted.

With a dependency name, print how each project declaring it does so.`,
		Args: cobra.MaximumNArgs(1),
	}
}

// AddFlags adds list-specific flags to the given Cobra command.
func (it *ListController) AddFlags(_ *cobra.Command) {}

// Execute runs the listing.
func (it *ListController) Execute(cmd *cobra.Command, args []string) error {
	settings, startDir, err := loadSettings(cmd, it.settingsLoader)
	if err != nil {
		return err
	}

	opts := commands.ListOptions{StartDir: startDir}
	if len(args) > 0 {
		opts.Dependency = args[0]
	}

	result, err := it.command.Execute(context.Background(), settings, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.Dependency == "" {
		for _, name := range result.Names {
			_, _ = fmt.Fprintln(out, name)
		}
		return nil
	}

	_, _ = fmt.Fprintln(out, renderVersions(result.Root, result.Versions))
	return nil
}

// renderVersions builds the table of the projects declaring a dependency.
func renderVersions(root string, versions []entities.ProjectDependency) string {
	rows := make([][]string, 0, len(versions))
	for _, version := range versions {
		if version.Dependency == nil {
			continue
		}
		dependency := version.Dependency
		rows = append(rows, []string{
			relativePath(root, version.Path),
			dependency.Group,
			dependency.Version,
			dependency.SourceString(),
			dependency.RefString(),
			dependency.Python,
			dependency.Markers,
			strconv.FormatBool(dependency.AllowPrereleases),
			dependency.ExtrasString(),
			strconv.FormatBool(dependency.Optional),
		})
	}

	headerStyle := color.Cyan.Style().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(color.Yellow.Style()).
		Headers(listColumns...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == headerRow {
				return headerStyle
			}
			return cellStyle
		}).
		Render()
}
