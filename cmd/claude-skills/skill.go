package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Drcollinjc/claude-skills/pkg/presenter"
	"github.com/Drcollinjc/claude-skills/pkg/skills"
)

// SkillAddConfig holds configuration for the skill add command.
type SkillAddConfig struct {
	Global bool
}

// NewSkillAddConfig creates a SkillAddConfig with default values.
func NewSkillAddConfig() *SkillAddConfig {
	return &SkillAddConfig{
		Global: false,
	}
}

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Manage installed skills",
	Long:  `List, show, add, and remove skills from the local and global skill roots.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all installed skills",
	Long:  `List all installed skills with their identifiers, directories, and descriptions.`,
	Run: func(_ *cobra.Command, _ []string) {
		listSkillsCmd()
	},
}

var skillShowCmd = &cobra.Command{
	Use:   "show <skill>",
	Short: "Print the content of a skill",
	Long: `Print the markdown body of a skill by its namespaced identifier.

Example:
  claude-skills skill show core/thinking`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		showSkillCmd(args[0])
	},
}

var skillAddCmd = &cobra.Command{
	Use:   "add <org/repo[@ref]>",
	Short: "Add skills from a GitHub repository",
	Long: `Download a GitHub repository snapshot and install every directory
containing a SKILL.md into the local skill root.

Examples:
  claude-skills skill add orgname/skills
  claude-skills skill add orgname/skills@v0.1.0
  claude-skills skill add orgname/skills -g`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getSkillAddConfigFromFlags(cmd)
		addSkillCmd(cmd, args[0], config)
	},
}

var skillRemoveCmd = &cobra.Command{
	Use:   "remove <skill>",
	Short: "Remove an installed skill",
	Long: `Remove an installed skill by its namespaced identifier.

Examples:
  claude-skills skill remove community/deploy-helper
  claude-skills skill remove community/deploy-helper -g`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		global, _ := cmd.Flags().GetBool("global")
		removeSkillCmd(args[0], global)
	},
}

func init() {
	addDefaults := NewSkillAddConfig()
	skillAddCmd.Flags().BoolP("global", "g", addDefaults.Global, "Install to the global ~/.claude-skills/skills root instead of ./.claude-skills/skills")
	skillRemoveCmd.Flags().BoolP("global", "g", false, "Remove from the global ~/.claude-skills/skills root instead of ./.claude-skills/skills")

	skillCmd.AddCommand(skillListCmd)
	skillCmd.AddCommand(skillShowCmd)
	skillCmd.AddCommand(skillAddCmd)
	skillCmd.AddCommand(skillRemoveCmd)
	rootCmd.AddCommand(skillCmd)
}

func getSkillAddConfigFromFlags(cmd *cobra.Command) *SkillAddConfig {
	config := NewSkillAddConfig()
	if global, err := cmd.Flags().GetBool("global"); err == nil {
		config.Global = global
	}
	return config
}

func skillsRoot(global bool) (string, error) {
	if global {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "failed to get user home directory")
		}
		return filepath.Join(homeDir, ".claude-skills", "skills"), nil
	}
	return filepath.Join(".claude-skills", "skills"), nil
}

func listSkillsCmd() {
	cfg := mustConfig()

	discovery, err := cfg.Discovery()
	if err != nil {
		presenter.Error(err, "Failed to initialize skill discovery")
		os.Exit(1)
	}

	allSkills, err := discovery.DiscoverSkills()
	if err != nil {
		presenter.Error(err, "Failed to discover skills")
		os.Exit(1)
	}

	allSkills, err = skills.FilterByPatterns(allSkills, cfg.AllowedSkills)
	if err != nil {
		presenter.Error(err, "Failed to apply skill allowlist")
		os.Exit(1)
	}

	if len(allSkills) == 0 {
		presenter.Info("No skills installed. Run 'claude-skills init' to install the builtin pack.")
		return
	}

	names := make([]string, 0, len(allSkills))
	for name := range allSkills {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDIRECTORY\tDESCRIPTION")
	fmt.Fprintln(tw, "----\t---------\t-----------")

	for _, name := range names {
		skill := allSkills[name]
		description := skill.Description
		if len(description) > 60 {
			description = description[:57] + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", skill.Name, skill.Directory, description)
	}
	tw.Flush()
}

func showSkillCmd(name string) {
	cfg := mustConfig()

	discovery, err := cfg.Discovery()
	if err != nil {
		presenter.Error(err, "Failed to initialize skill discovery")
		os.Exit(1)
	}

	skill, err := discovery.GetSkill(name)
	if err != nil {
		presenter.Error(err, "Skill not found")
		os.Exit(1)
	}

	fmt.Print(skill.Content)
}

func addSkillCmd(cmd *cobra.Command, repoRef string, config *SkillAddConfig) {
	ctx := cmd.Context()

	destRoot, err := skillsRoot(config.Global)
	if err != nil {
		presenter.Error(err, "Failed to determine skills directory")
		os.Exit(1)
	}

	if err := os.MkdirAll(destRoot, 0o755); err != nil {
		presenter.Error(err, "Failed to create skills directory")
		os.Exit(1)
	}

	installer := skills.NewInstaller()
	installed, err := installer.Install(ctx, repoRef, destRoot)
	if err != nil {
		presenter.Error(err, "Failed to install skill pack")
		os.Exit(1)
	}

	if len(installed) == 0 {
		presenter.Warning("No new skills found in the repository")
		return
	}

	for _, name := range installed {
		presenter.Success(fmt.Sprintf("Installed skill '%s'", name))
	}
	presenter.Info(fmt.Sprintf("Successfully installed %d skill(s) to %s", len(installed), destRoot))
}

func removeSkillCmd(name string, global bool) {
	root, err := skillsRoot(global)
	if err != nil {
		presenter.Error(err, "Failed to determine skills directory")
		os.Exit(1)
	}

	skillDir := filepath.Join(root, filepath.FromSlash(name))
	skillFile := filepath.Join(skillDir, "SKILL.md")
	if _, err := os.Stat(skillFile); os.IsNotExist(err) {
		location := "local"
		if global {
			location = "global"
		}
		presenter.Error(errors.Errorf("skill '%s' not found in %s skills root", name, location), "Skill not found")
		os.Exit(1)
	}

	if err := os.RemoveAll(skillDir); err != nil {
		presenter.Error(err, fmt.Sprintf("Failed to remove skill '%s'", name))
		os.Exit(1)
	}

	presenter.Success(fmt.Sprintf("Removed skill '%s' from %s", name, skillDir))
}
