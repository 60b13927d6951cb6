package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Drcollinjc/claude-skills/pkg/config"
	"github.com/Drcollinjc/claude-skills/pkg/history"
	"github.com/Drcollinjc/claude-skills/pkg/presenter"
)

// HistoryListConfig holds configuration for the history list command.
type HistoryListConfig struct {
	Limit int
}

// NewHistoryListConfig creates a HistoryListConfig with default values.
func NewHistoryListConfig() *HistoryListConfig {
	return &HistoryListConfig{
		Limit: 20,
	}
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded skill selections",
	Long:  `List and prune the selection history recorded by select and command.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent selections",
	Long:  `List recent selections, newest first.`,
	Run: func(cmd *cobra.Command, _ []string) {
		flags := getHistoryListConfigFromFlags(cmd)
		listHistoryCmd(cmd, flags)
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete selections older than a retention window",
	Long: `Delete selections recorded before the retention window.

Example:
  claude-skills history prune --older-than 720h`,
	Run: func(cmd *cobra.Command, _ []string) {
		olderThan, err := cmd.Flags().GetDuration("older-than")
		if err != nil {
			presenter.Error(err, "Invalid --older-than value")
			os.Exit(1)
		}
		pruneHistoryCmd(cmd, olderThan)
	},
}

func init() {
	listDefaults := NewHistoryListConfig()
	historyListCmd.Flags().IntP("limit", "n", listDefaults.Limit, "Maximum number of selections to show (0 for all)")
	historyPruneCmd.Flags().Duration("older-than", 30*24*time.Hour, "Delete selections older than this duration")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

func getHistoryListConfigFromFlags(cmd *cobra.Command) *HistoryListConfig {
	config := NewHistoryListConfig()
	if limit, err := cmd.Flags().GetInt("limit"); err == nil {
		config.Limit = limit
	}
	return config
}

func openHistoryStore(cmd *cobra.Command, cfg *config.Config) *history.Store {
	path := cfg.History.Path
	if path == "" {
		var err error
		path, err = history.DefaultPath()
		if err != nil {
			presenter.Error(err, "Failed to resolve history path")
			os.Exit(1)
		}
	}

	store, err := history.Open(cmd.Context(), path)
	if err != nil {
		presenter.Error(err, "Failed to open selection history")
		os.Exit(1)
	}
	return store
}

func listHistoryCmd(cmd *cobra.Command, flags *HistoryListConfig) {
	cfg := mustConfig()
	store := openHistoryStore(cmd, cfg)
	defer store.Close()

	selections, err := store.List(cmd.Context(), flags.Limit)
	if err != nil {
		presenter.Error(err, "Failed to list selection history")
		os.Exit(1)
	}

	if len(selections) == 0 {
		presenter.Info("No selections recorded yet")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tKIND\tINPUT\tSKILLS")
	fmt.Fprintln(tw, "----\t----\t-----\t------")
	for _, sel := range selections {
		input := sel.Description
		if sel.Kind == history.KindCommand {
			input = sel.Command
			if sel.Description != "" {
				input += " " + sel.Description
			}
		}
		if len(input) > 40 {
			input = input[:37] + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			sel.CreatedAt.Local().Format("2006-01-02 15:04"),
			sel.Kind,
			input,
			strings.Join(sel.Skills, ", "),
		)
	}
	tw.Flush()
}

func pruneHistoryCmd(cmd *cobra.Command, olderThan time.Duration) {
	cfg := mustConfig()
	store := openHistoryStore(cmd, cfg)
	defer store.Close()

	cutoff := time.Now().Add(-olderThan)
	pruned, err := store.Prune(cmd.Context(), cutoff)
	if err != nil {
		presenter.Error(err, "Failed to prune selection history")
		os.Exit(1)
	}

	presenter.Success(fmt.Sprintf("Pruned %d selection(s) older than %s", pruned, olderThan))
}
