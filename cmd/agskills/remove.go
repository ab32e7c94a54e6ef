package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/antigravity-tools/antigravity-skills/pkg/artifacts"
	"github.com/antigravity-tools/antigravity-skills/pkg/config"
	"github.com/antigravity-tools/antigravity-skills/pkg/presenter"
	"github.com/antigravity-tools/antigravity-skills/pkg/rulesdoc"
)

type RemoveConfig struct {
	Type  string
	Scope string
}

func NewRemoveConfig() *RemoveConfig {
	return &RemoveConfig{
		Scope: scopeWorkspace,
	}
}

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an installed workflow or rule",
	Long: `Remove an installed artifact by skill name.

Examples:
  agskills remove webapp-testing --type workflow
  agskills remove code-review --type rule --scope global`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getRemoveConfigFromFlags(cmd)
		runRemove(cmd.Context(), args[0], config)
	},
}

func init() {
	defaults := NewRemoveConfig()
	removeCmd.Flags().String("type", "", "Type of artifact: 'workflow' or 'rule' (required)")
	removeCmd.Flags().String("scope", defaults.Scope, "Scope for rules (global or workspace)")
	removeCmd.MarkFlagRequired("type")

	rootCmd.AddCommand(removeCmd)
}

func getRemoveConfigFromFlags(cmd *cobra.Command) *RemoveConfig {
	config := NewRemoveConfig()
	if typ, err := cmd.Flags().GetString("type"); err == nil {
		config.Type = typ
	}
	if scope, err := cmd.Flags().GetString("scope"); err == nil && scope != "" {
		config.Scope = scope
	}
	return config
}

func runRemove(_ context.Context, name string, cfg *RemoveConfig) {
	if cfg.Type != asWorkflow && cfg.Type != asRule {
		presenter.Error(errors.Errorf("unknown artifact type %q: expected 'workflow' or 'rule'", cfg.Type), "Invalid --type")
		os.Exit(exitUsage)
	}
	if cfg.Scope != scopeWorkspace && cfg.Scope != scopeGlobal {
		presenter.Error(errors.Errorf("unknown scope %q: expected 'global' or 'workspace'", cfg.Scope), "Invalid --scope")
		os.Exit(exitUsage)
	}

	paths, err := config.ResolvePaths()
	if err != nil {
		presenter.Error(err, "Failed to resolve paths")
		os.Exit(exitInternal)
	}

	switch {
	case cfg.Type == asWorkflow:
		removeFileArtifact(paths.WorkflowsDir, name, "workflow")
	case cfg.Scope == scopeGlobal:
		removeGlobalRule(paths, name)
	default:
		removeFileArtifact(paths.RulesDir, name, "workspace rule")
	}
}

// removeFileArtifact deletes a workflow or workspace rule file. A missing
// artifact is informational, not a failure.
func removeFileArtifact(dir, name, kind string) {
	if err := artifacts.Remove(dir, name); err != nil {
		if errors.Is(err, artifacts.ErrNotFound) {
			presenter.Warning(fmt.Sprintf("%s '%s' not found", capitalize(kind), name))
			return
		}
		presenter.Error(err, fmt.Sprintf("Failed to remove %s '%s'", kind, name))
		os.Exit(exitInternal)
	}
	presenter.Success(fmt.Sprintf("Removed %s: %s", kind, name))
}

func removeGlobalRule(paths *config.Paths, name string) {
	doc, err := rulesdoc.Load(paths.GlobalRulesFile)
	if err != nil {
		presenter.Error(err, "Failed to read global rules")
		os.Exit(exitInternal)
	}

	doc, err = doc.Remove(name)
	if err != nil {
		if errors.Is(err, rulesdoc.ErrNotFound) {
			presenter.Warning(fmt.Sprintf("Global rule '%s' not found", name))
			return
		}
		presenter.Error(err, "Failed to update global rules")
		os.Exit(exitInternal)
	}

	if err := doc.Save(paths.GlobalRulesFile); err != nil {
		presenter.Error(err, "Failed to save global rules")
		os.Exit(exitInternal)
	}
	presenter.Success("Removed global rule: " + name)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
