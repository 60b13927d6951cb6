// Command claude-skills selects, composes, and manages skills for AI coding
// agents. A skill is a markdown document loaded into model context; selection
// maps task descriptions and command names to skill identifiers through an
// immutable keyword-rule table.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Drcollinjc/claude-skills/pkg/config"
	"github.com/Drcollinjc/claude-skills/pkg/logger"
	"github.com/Drcollinjc/claude-skills/pkg/presenter"
)

func init() {
	viper.SetEnvPrefix("CLAUDE_SKILLS")
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.claude-skills")
	viper.AddConfigPath(".")

	config.SetDefaults()

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "claude-skills",
	Short: "Keyword-driven skill selection for AI coding agents",
	Long: `claude-skills maps free-text task descriptions and command names to
ordered lists of skill identifiers, resolves them to markdown skill content,
and composes prompt context documents for AI coding agents.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			return err
		}
		logger.SetLogFormat(viper.GetString("log_format"))

		if quiet, err := cmd.Flags().GetBool("quiet"); err == nil {
			presenter.SetQuiet(quiet)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

func bindPersistentFlags(flags *pflag.FlagSet) {
	viper.BindPFlag("log_level", flags.Lookup("log-level"))
	viper.BindPFlag("log_format", flags.Lookup("log-format"))
	viper.BindPFlag("rules_file", flags.Lookup("rules-file"))
	viper.BindPFlag("profile", flags.Lookup("profile"))
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().String("rules-file", "", "Path to a YAML selection ruleset (overrides the builtin table)")
	rootCmd.PersistentFlags().String("profile", "", "Configuration profile to apply")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-essential output")

	bindPersistentFlags(rootCmd.PersistentFlags())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
