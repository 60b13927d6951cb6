package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Drcollinjc/claude-skills/pkg/compose"
	"github.com/Drcollinjc/claude-skills/pkg/presenter"
)

// ComposeConfig holds configuration for the compose command.
type ComposeConfig struct {
	Command string
	JSON    bool
}

// NewComposeConfig creates a ComposeConfig with default values.
func NewComposeConfig() *ComposeConfig {
	return &ComposeConfig{
		Command: "",
		JSON:    false,
	}
}

var composeCmd = &cobra.Command{
	Use:   "compose [description]",
	Short: "Compose a prompt context document from a skill selection",
	Long: `Select skills for a description (or a named command via --command),
resolve them to skill content, and print the assembled context document.
The selection is truncated to the configured maximum active skill count, and
a project CONSTITUTION.md is merged in when present.

Examples:
  claude-skills compose "Debug the failing error in data migration"
  claude-skills compose --command implement
  claude-skills compose --json "Write unit tests"`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		flags := getComposeConfigFromFlags(cmd)
		description := strings.Join(args, " ")

		if flags.Command == "" && description == "" {
			presenter.Error(fmt.Errorf("a description or --command is required"), "Nothing to compose")
			os.Exit(1)
		}

		cfg := mustConfig()
		ruleset := mustRuleset(cfg)

		discovery, err := cfg.Discovery()
		if err != nil {
			presenter.Error(err, "Failed to initialize skill discovery")
			os.Exit(1)
		}

		var selection []string
		if flags.Command != "" {
			selection = ruleset.SelectForCommand(flags.Command, description)
		} else {
			selection = ruleset.Select(description)
		}

		composer := compose.NewComposer(discovery,
			compose.WithMaxActive(cfg.MaxActiveSkills),
			compose.WithConstitutionPath(cfg.Constitution),
		)

		result, composeErr := composer.Compose(ctx, selection)
		if result == nil {
			presenter.Error(composeErr, "Failed to compose context")
			os.Exit(1)
		}

		for _, name := range result.Missing {
			presenter.Warning(fmt.Sprintf("Skill '%s' has no content and was skipped", name))
		}
		for _, name := range result.Truncated {
			presenter.Warning(fmt.Sprintf("Skill '%s' dropped by max active skills limit", name))
		}

		if flags.JSON {
			encoded, err := json.MarshalIndent(map[string]interface{}{
				"document":  result.Document,
				"included":  result.Included,
				"truncated": result.Truncated,
				"missing":   result.Missing,
			}, "", "  ")
			if err != nil {
				presenter.Error(err, "Failed to encode composition")
				os.Exit(1)
			}
			fmt.Println(string(encoded))
			return
		}

		fmt.Print(result.Document)
	},
}

func init() {
	defaults := NewComposeConfig()
	composeCmd.Flags().StringP("command", "c", defaults.Command, "Compose for a named command instead of a description")
	composeCmd.Flags().Bool("json", defaults.JSON, "Output the composition as JSON")
	rootCmd.AddCommand(composeCmd)
}

func getComposeConfigFromFlags(cmd *cobra.Command) *ComposeConfig {
	config := NewComposeConfig()
	if command, err := cmd.Flags().GetString("command"); err == nil {
		config.Command = command
	}
	if asJSON, err := cmd.Flags().GetBool("json"); err == nil {
		config.JSON = asJSON
	}
	return config
}
