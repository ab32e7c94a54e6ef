package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Paths holds the resolved on-disk locations the tool reads and writes.
type Paths struct {
	// ConfigDir holds the sources registry and the repository cache.
	ConfigDir string
	// ConfigFile is the sources registry JSON document.
	ConfigFile string
	// CacheDir holds one git checkout per source.
	CacheDir string
	// WorkflowsDir is the workspace workflows directory.
	WorkflowsDir string
	// RulesDir is the workspace rules directory.
	RulesDir string
	// GlobalRulesFile is the shared global rules markdown document.
	GlobalRulesFile string
}

// ResolvePaths computes the default locations, anchored at the user's home
// directory for global state and the working directory for workspace
// artifacts. Each location can be overridden through viper (config_dir,
// cache_dir, workflows_dir, rules_dir, global_rules_file).
func ResolvePaths() (*Paths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user home directory")
	}

	p := &Paths{
		ConfigDir:       filepath.Join(homeDir, ".gemini", "antigravity-skills"),
		WorkflowsDir:    filepath.Join(".agent", "workflows"),
		RulesDir:        filepath.Join(".agent", "rules"),
		GlobalRulesFile: filepath.Join(homeDir, ".gemini", "GEMINI.md"),
	}

	if dir := viper.GetString("config_dir"); dir != "" {
		p.ConfigDir = dir
	}
	if dir := viper.GetString("workflows_dir"); dir != "" {
		p.WorkflowsDir = dir
	}
	if dir := viper.GetString("rules_dir"); dir != "" {
		p.RulesDir = dir
	}
	if file := viper.GetString("global_rules_file"); file != "" {
		p.GlobalRulesFile = file
	}

	p.ConfigFile = filepath.Join(p.ConfigDir, "skills_config.json")
	p.CacheDir = filepath.Join(p.ConfigDir, "skills_cache")
	if dir := viper.GetString("cache_dir"); dir != "" {
		p.CacheDir = dir
	}

	return p, nil
}
