package main

import (
	"context"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/antigravity-tools/antigravity-skills/pkg/artifacts"
	"github.com/antigravity-tools/antigravity-skills/pkg/config"
	"github.com/antigravity-tools/antigravity-skills/pkg/presenter"
	"github.com/antigravity-tools/antigravity-skills/pkg/rulesdoc"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed workflows and rules",
	Long:  `List installed workflows, workspace rules, and global rules.`,
	Run: func(cmd *cobra.Command, _ []string) {
		runList(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(_ context.Context) {
	paths, err := config.ResolvePaths()
	if err != nil {
		presenter.Error(err, "Failed to resolve paths")
		os.Exit(exitInternal)
	}

	workflows, err := artifacts.List(paths.WorkflowsDir)
	if err != nil {
		presenter.Error(err, "Failed to list workflows")
		os.Exit(exitInternal)
	}

	rules, err := artifacts.List(paths.RulesDir)
	if err != nil {
		presenter.Error(err, "Failed to list workspace rules")
		os.Exit(exitInternal)
	}

	doc, err := rulesdoc.Load(paths.GlobalRulesFile)
	if err != nil {
		presenter.Error(err, "Failed to read global rules")
		os.Exit(exitInternal)
	}
	globals := doc.Names()
	sort.Strings(globals)

	printSection("Installed Workflows", workflows)
	presenter.Info("")
	printSection("Installed Workspace Rules", rules)
	presenter.Info("")
	printSection("Installed Global Rules", globals)
}

func printSection(title string, names []string) {
	presenter.Section(title)
	if len(names) == 0 {
		presenter.Info("  (none)")
		return
	}
	for _, name := range names {
		presenter.Info("  - " + name)
	}
}
