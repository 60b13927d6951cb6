package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Drcollinjc/claude-skills/pkg/presenter"
	"github.com/Drcollinjc/claude-skills/pkg/skills"
)

// InitConfig holds configuration for the init command.
type InitConfig struct {
	Global bool
}

// NewInitConfig creates an InitConfig with default values.
func NewInitConfig() *InitConfig {
	return &InitConfig{
		Global: false,
	}
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Install the builtin skill pack",
	Long: `Install the builtin skill pack into the local ./.claude-skills/skills
root (or the global ~/.claude-skills/skills root with -g). Skills that already
exist are left untouched, so local edits survive re-running init.

Examples:
  claude-skills init
  claude-skills init -g`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getInitConfigFromFlags(cmd)
		initSkillsCmd(config)
	},
}

func init() {
	defaults := NewInitConfig()
	initCmd.Flags().BoolP("global", "g", defaults.Global, "Install to the global ~/.claude-skills/skills root instead of ./.claude-skills/skills")
	rootCmd.AddCommand(initCmd)
}

func getInitConfigFromFlags(cmd *cobra.Command) *InitConfig {
	config := NewInitConfig()
	if global, err := cmd.Flags().GetBool("global"); err == nil {
		config.Global = global
	}
	return config
}

func initSkillsCmd(config *InitConfig) {
	destRoot, err := skillsRoot(config.Global)
	if err != nil {
		presenter.Error(err, "Failed to determine skills directory")
		os.Exit(1)
	}

	if err := os.MkdirAll(destRoot, 0o755); err != nil {
		presenter.Error(err, "Failed to create skills directory")
		os.Exit(1)
	}

	installed, err := skills.InstallBuiltins(destRoot)
	if err != nil {
		presenter.Error(err, "Failed to install builtin skills")
		os.Exit(1)
	}

	if len(installed) == 0 {
		presenter.Info(fmt.Sprintf("Builtin skills already present in %s", destRoot))
		return
	}

	for _, name := range installed {
		presenter.Success(fmt.Sprintf("Installed skill '%s'", name))
	}
	presenter.Info(fmt.Sprintf("Installed %d builtin skill(s) to %s", len(installed), filepath.Clean(destRoot)))
}
