package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Drcollinjc/claude-skills/pkg/presenter"
	"github.com/Drcollinjc/claude-skills/pkg/selector"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the active selection ruleset",
	Long:  `Show and validate the keyword-rule table that drives skill selection.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the active ruleset",
	Long: `Show the active ruleset: defaults, keyword rules, trailing skill,
command mappings, and the fallback skill. The ruleset comes from the
configured rules file, or the built-in table when none is set.`,
	Run: func(_ *cobra.Command, _ []string) {
		listRulesCmd()
	},
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a ruleset file",
	Long: `Validate a YAML ruleset file without activating it. With no argument,
validates the configured rules file or the built-in table.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		validateRulesCmd(path)
	},
}

func init() {
	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesValidateCmd)
	rootCmd.AddCommand(rulesCmd)
}

func listRulesCmd() {
	cfg := mustConfig()
	ruleset := mustRuleset(cfg)

	source := "builtin"
	if cfg.RulesFile != "" {
		source = cfg.RulesFile
	}
	presenter.Section(fmt.Sprintf("Ruleset (%s)", source))

	fmt.Printf("Defaults: %s\n", strings.Join(ruleset.Defaults, ", "))
	fmt.Printf("Trailing: %s\n", ruleset.Trailing)
	fmt.Printf("Fallback: %s\n", ruleset.Fallback)
	fmt.Println()

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SKILL\tTRIGGERS")
	fmt.Fprintln(tw, "-----\t--------")
	for _, rule := range ruleset.Rules {
		fmt.Fprintf(tw, "%s\t%s\n", rule.Skill, strings.Join(rule.Triggers, ", "))
	}
	tw.Flush()

	if len(ruleset.Commands) == 0 {
		return
	}

	names := make([]string, 0, len(ruleset.Commands))
	for name := range ruleset.Commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println()
	tw = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COMMAND\tSKILLS")
	fmt.Fprintln(tw, "-------\t------")
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%s\n", name, strings.Join(ruleset.Commands[name], ", "))
	}
	tw.Flush()
}

func validateRulesCmd(path string) {
	if path == "" {
		cfg := mustConfig()
		path = cfg.RulesFile
	}

	if path == "" {
		if err := selector.Builtin().Validate(); err != nil {
			presenter.Error(err, "Built-in ruleset is invalid")
			os.Exit(1)
		}
		presenter.Success("Built-in ruleset is valid")
		return
	}

	ruleset, err := selector.Load(path)
	if err != nil {
		presenter.Error(err, fmt.Sprintf("Ruleset %s is invalid", path))
		os.Exit(1)
	}

	presenter.Success(fmt.Sprintf("Ruleset %s is valid (%d keyword rules, %d commands)",
		path, len(ruleset.Rules), len(ruleset.Commands)))
}
