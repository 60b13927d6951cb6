package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Drcollinjc/claude-skills/pkg/history"
)

// CommandConfig holds configuration for the command subcommand.
type CommandConfig struct {
	JSON      bool
	NoHistory bool
}

// NewCommandConfig creates a CommandConfig with default values.
func NewCommandConfig() *CommandConfig {
	return &CommandConfig{
		JSON:      false,
		NoHistory: false,
	}
}

var commandCmd = &cobra.Command{
	Use:   "command <name> [description]",
	Short: "Select skills for a named command",
	Long: `Select the ordered skill identifiers for a named command such as
"implement" or "plan". Unknown command names fall back to the default skill
rather than failing. An optional description adds keyword-triggered skills.

Examples:
  claude-skills command implement
  claude-skills command plan "plan the data migration"`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		flags := getCommandConfigFromFlags(cmd)
		name := args[0]
		description := strings.Join(args[1:], " ")

		cfg := mustConfig()
		ruleset := mustRuleset(cfg)

		selection := ruleset.SelectForCommand(name, description)
		recordSelection(ctx, cfg, history.KindCommand, name, description, selection, flags.NoHistory)
		printSelection(selection, flags.JSON)
	},
}

func init() {
	defaults := NewCommandConfig()
	commandCmd.Flags().Bool("json", defaults.JSON, "Output the selection as a JSON array")
	commandCmd.Flags().Bool("no-history", defaults.NoHistory, "Skip recording this selection in history")
	rootCmd.AddCommand(commandCmd)
}

func getCommandConfigFromFlags(cmd *cobra.Command) *CommandConfig {
	config := NewCommandConfig()
	if asJSON, err := cmd.Flags().GetBool("json"); err == nil {
		config.JSON = asJSON
	}
	if noHistory, err := cmd.Flags().GetBool("no-history"); err == nil {
		config.NoHistory = noHistory
	}
	return config
}
