package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/antigravity-tools/antigravity-skills/pkg/config"
	"github.com/antigravity-tools/antigravity-skills/pkg/presenter"
)

var addSourceCmd = &cobra.Command{
	Use:   "add-source <url> [name]",
	Short: "Register a git repository that hosts skills",
	Long: `Register a git repository as a skill source. When no name is given it is
derived from the last path segment of the URL with any ".git" suffix
stripped. Re-adding an existing name overwrites its URL.

Examples:
  agskills add-source https://github.com/anthropics/skills
  agskills add-source https://github.com/acme/agent-skills.git acme`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		name := ""
		if len(args) == 2 {
			name = args[1]
		}
		runAddSource(cmd.Context(), args[0], name)
	},
}

var listSourcesCmd = &cobra.Command{
	Use:   "list-sources",
	Short: "List registered skill sources",
	Run: func(cmd *cobra.Command, _ []string) {
		runListSources(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(addSourceCmd)
	rootCmd.AddCommand(listSourcesCmd)
}

func runAddSource(ctx context.Context, url, name string) {
	paths, err := config.ResolvePaths()
	if err != nil {
		presenter.Error(err, "Failed to resolve paths")
		os.Exit(exitInternal)
	}

	if name == "" {
		name = config.SourceNameFromURL(url)
	}
	if name == "" {
		presenter.Error(errors.Errorf("could not derive a source name from %q, pass one explicitly", url), "Invalid source")
		os.Exit(exitUsage)
	}

	cfg := config.Load(ctx, paths.ConfigFile)
	cfg.Sources[name] = url
	if err := cfg.Save(paths.ConfigFile); err != nil {
		presenter.Error(err, "Failed to save config")
		os.Exit(exitInternal)
	}

	presenter.Success(fmt.Sprintf("Added source '%s': %s", name, url))
}

func runListSources(ctx context.Context) {
	paths, err := config.ResolvePaths()
	if err != nil {
		presenter.Error(err, "Failed to resolve paths")
		os.Exit(exitInternal)
	}

	cfg := config.Load(ctx, paths.ConfigFile)

	presenter.Section("Registered Sources")
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range cfg.SourceNames() {
		fmt.Fprintf(tw, "%s\t%s\n", name, cfg.Sources[name])
	}
	tw.Flush()
}
