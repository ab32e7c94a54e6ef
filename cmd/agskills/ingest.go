package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/antigravity-tools/antigravity-skills/pkg/artifacts"
	"github.com/antigravity-tools/antigravity-skills/pkg/config"
	"github.com/antigravity-tools/antigravity-skills/pkg/gitrepo"
	"github.com/antigravity-tools/antigravity-skills/pkg/presenter"
	"github.com/antigravity-tools/antigravity-skills/pkg/rulesdoc"
	"github.com/antigravity-tools/antigravity-skills/pkg/skills"
)

// Artifact kinds accepted by --as.
const (
	asWorkflow = "workflow"
	asRule     = "rule"
)

// Rule scopes accepted by --scope.
const (
	scopeWorkspace = "workspace"
	scopeGlobal    = "global"
)

type IngestConfig struct {
	As         string
	Source     string
	Scope      string
	Activation string
	Glob       string
}

func NewIngestConfig() *IngestConfig {
	return &IngestConfig{
		Scope: scopeWorkspace,
	}
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <skill-name>",
	Short: "Ingest a skill as a workflow or rule",
	Long: `Ingest a skill from a registered source, converting it into a workflow or
a rule. The source repository is synced to its default branch tip first.

Examples:
  agskills ingest webapp-testing --as workflow
  agskills ingest webapp-testing --as rule --scope workspace --activation glob --glob "**/*.test.js"
  agskills ingest code-review --as rule --scope global --source acme`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getIngestConfigFromFlags(cmd)
		runIngest(cmd.Context(), args[0], config)
	},
}

func init() {
	defaults := NewIngestConfig()
	ingestCmd.Flags().String("as", "", "Convert to 'workflow' or 'rule' (required)")
	ingestCmd.Flags().String("source", "", "Specific source to pull from (default: 'anthropics' if registered, else first registered)")
	ingestCmd.Flags().String("scope", defaults.Scope, "Scope for rules (global or workspace)")
	ingestCmd.Flags().String("activation", "", "Activation type for workspace rules (manual, always-on, model-decision, glob)")
	ingestCmd.Flags().String("glob", "", "Glob pattern (required when activation is 'glob')")
	ingestCmd.MarkFlagRequired("as")

	rootCmd.AddCommand(ingestCmd)
}

func getIngestConfigFromFlags(cmd *cobra.Command) *IngestConfig {
	config := NewIngestConfig()
	if as, err := cmd.Flags().GetString("as"); err == nil {
		config.As = as
	}
	if source, err := cmd.Flags().GetString("source"); err == nil {
		config.Source = source
	}
	if scope, err := cmd.Flags().GetString("scope"); err == nil && scope != "" {
		config.Scope = scope
	}
	if activation, err := cmd.Flags().GetString("activation"); err == nil {
		config.Activation = activation
	}
	if glob, err := cmd.Flags().GetString("glob"); err == nil {
		config.Glob = glob
	}
	return config
}

func runIngest(ctx context.Context, skillName string, cfg *IngestConfig) {
	if cfg.As != asWorkflow && cfg.As != asRule {
		presenter.Error(errors.Errorf("unknown artifact type %q: expected 'workflow' or 'rule'", cfg.As), "Invalid --as")
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

	conf := config.Load(ctx, paths.ConfigFile)
	sourceName, sourceURL, err := resolveSource(conf, cfg.Source)
	if err != nil {
		presenter.Error(err, "Failed to resolve source")
		os.Exit(exitUsage)
	}

	presenter.Info(fmt.Sprintf("Syncing %s (%s)...", sourceName, sourceURL))
	cache := gitrepo.NewCache(paths.CacheDir)
	repoPath, err := cache.Sync(ctx, sourceName, sourceURL)
	if err != nil {
		presenter.Error(err, "Failed to sync source repository")
		os.Exit(exitCode(err))
	}

	skillDir, err := skills.ResolveDir(repoPath, skillName)
	if err != nil {
		presenter.Error(err, fmt.Sprintf("Skill '%s' not found in %s", skillName, sourceName))
		os.Exit(exitCode(err))
	}

	skill, err := skills.Parse(skillDir)
	if err != nil {
		presenter.Error(err, "Failed to parse skill")
		os.Exit(exitCode(err))
	}

	switch {
	case cfg.As == asWorkflow:
		ingestWorkflow(paths, skillName, skill)
	case cfg.Scope == scopeGlobal:
		ingestGlobalRule(paths, skillName, skill)
	default:
		ingestWorkspaceRule(paths, skillName, skill, cfg)
	}
}

// resolveSource picks the source to pull from. An explicitly requested
// source must be registered; otherwise the registry default applies.
func resolveSource(conf *config.Config, requested string) (string, string, error) {
	if requested != "" {
		url, err := conf.Resolve(requested)
		if err != nil {
			return "", "", err
		}
		return requested, url, nil
	}
	return conf.DefaultSource()
}

func ingestWorkflow(paths *config.Paths, name string, skill *skills.Skill) {
	path, err := artifacts.WriteWorkflow(paths.WorkflowsDir, name, skill)
	if err != nil {
		presenter.Error(err, "Failed to write workflow")
		os.Exit(exitInternal)
	}
	presenter.Success("Created workflow: " + path)
}

func ingestWorkspaceRule(paths *config.Paths, name string, skill *skills.Skill, cfg *IngestConfig) {
	var activation *artifacts.Activation
	if cfg.Activation != "" {
		activation = &artifacts.Activation{Type: cfg.Activation, Glob: cfg.Glob}
		if err := activation.Validate(); err != nil {
			presenter.Error(err, "Invalid activation")
			os.Exit(exitUsage)
		}
	}

	path, err := artifacts.WriteWorkspaceRule(paths.RulesDir, name, skill, activation)
	if err != nil {
		presenter.Error(err, "Failed to write workspace rule")
		os.Exit(exitInternal)
	}
	presenter.Success("Created workspace rule: " + path)
}

func ingestGlobalRule(paths *config.Paths, name string, skill *skills.Skill) {
	if err := rulesdoc.ValidateName(name); err != nil {
		presenter.Error(err, "Invalid skill name for global rule")
		os.Exit(exitUsage)
	}

	doc, err := rulesdoc.Load(paths.GlobalRulesFile)
	if err != nil {
		presenter.Error(err, "Failed to load global rules")
		os.Exit(exitInternal)
	}

	doc, replaced, err := doc.Upsert(name, artifacts.GlobalRuleContent(skill))
	if err != nil {
		presenter.Error(err, "Failed to update global rules")
		os.Exit(exitUsage)
	}
	if replaced {
		presenter.Info("Updating existing global rule: " + name)
	} else {
		presenter.Info("Appending new global rule: " + name)
	}

	if err := doc.Save(paths.GlobalRulesFile); err != nil {
		presenter.Error(err, "Failed to save global rules")
		os.Exit(exitInternal)
	}
	presenter.Success("Saved global rule to " + paths.GlobalRulesFile)
}
