package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/antigravity-tools/antigravity-skills/pkg/gitrepo"
	"github.com/antigravity-tools/antigravity-skills/pkg/logger"
	"github.com/antigravity-tools/antigravity-skills/pkg/presenter"
	"github.com/antigravity-tools/antigravity-skills/pkg/rulesdoc"
	"github.com/antigravity-tools/antigravity-skills/pkg/skills"
)

// Exit codes, stable across releases.
const (
	exitInternal = 1
	exitUsage    = 2
	exitGit      = 3
	exitNotFound = 4
)

// exitCode classifies an error into the exit-code taxonomy.
func exitCode(err error) int {
	var cmdErr *gitrepo.CommandError
	switch {
	case errors.As(err, &cmdErr):
		return exitGit
	case errors.Is(err, skills.ErrNotFound), errors.Is(err, rulesdoc.ErrNotFound):
		return exitNotFound
	default:
		return exitInternal
	}
}

var rootCmd = &cobra.Command{
	Use:   "agskills",
	Short: "Manage and ingest Antigravity skills from external repositories",
	Long: `agskills synchronizes skill definitions (SKILL.md files) hosted in git
repositories into the local agent configuration, converting them into
workflows (.agent/workflows/) or rules (.agent/rules/ or the global
~/.gemini/GEMINI.md).`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			presenter.Warning(fmt.Sprintf("Invalid log level %q, keeping default", viper.GetString("log_level")))
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		presenter.SetQuiet(viper.GetBool("quiet"))
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
		os.Exit(exitUsage)
	},
}

func init() {
	viper.SetEnvPrefix("AGSKILLS")
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.gemini/antigravity-skills")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig()
}

func bindGlobalFlags(flags *pflag.FlagSet) {
	flags.String("log-level", "warning", "Log level (debug, info, warning, error)")
	flags.String("log-format", "fmt", "Log format (fmt, json)")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")

	viper.BindPFlag("log_level", flags.Lookup("log-level"))
	viper.BindPFlag("log_format", flags.Lookup("log-format"))
	viper.BindPFlag("quiet", flags.Lookup("quiet"))
}

func main() {
	bindGlobalFlags(rootCmd.PersistentFlags())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
}
