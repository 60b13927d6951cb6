package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Drcollinjc/claude-skills/pkg/history"
)

// SelectConfig holds configuration for the select command.
type SelectConfig struct {
	JSON      bool
	NoHistory bool
}

// NewSelectConfig creates a SelectConfig with default values.
func NewSelectConfig() *SelectConfig {
	return &SelectConfig{
		JSON:      false,
		NoHistory: false,
	}
}

var selectCmd = &cobra.Command{
	Use:   "select <description>",
	Short: "Select skills for a free-text task description",
	Long: `Select the ordered skill identifiers for a task description. The result
always contains the baseline skills and the trailing retrospective skill;
keyword matches over the description add further skills in rule order.

Examples:
  claude-skills select "Write unit tests for the login flow"
  claude-skills select --json "Deploy a lambda for the checkout API"`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		flags := getSelectConfigFromFlags(cmd)
		description := strings.Join(args, " ")

		cfg := mustConfig()
		ruleset := mustRuleset(cfg)

		selection := ruleset.Select(description)
		recordSelection(ctx, cfg, history.KindTask, "", description, selection, flags.NoHistory)
		printSelection(selection, flags.JSON)
	},
}

func init() {
	defaults := NewSelectConfig()
	selectCmd.Flags().Bool("json", defaults.JSON, "Output the selection as a JSON array")
	selectCmd.Flags().Bool("no-history", defaults.NoHistory, "Skip recording this selection in history")
	rootCmd.AddCommand(selectCmd)
}

func getSelectConfigFromFlags(cmd *cobra.Command) *SelectConfig {
	config := NewSelectConfig()
	if asJSON, err := cmd.Flags().GetBool("json"); err == nil {
		config.JSON = asJSON
	}
	if noHistory, err := cmd.Flags().GetBool("no-history"); err == nil {
		config.NoHistory = noHistory
	}
	return config
}
