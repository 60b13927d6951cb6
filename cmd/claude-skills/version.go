package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Drcollinjc/claude-skills/pkg/presenter"
	"github.com/Drcollinjc/claude-skills/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			encoded, err := version.Get().JSON()
			if err != nil {
				presenter.Error(err, "Failed to encode version information")
				os.Exit(1)
			}
			fmt.Println(encoded)
			return
		}
		fmt.Println(version.Get().String())
	},
}

func init() {
	versionCmd.Flags().Bool("json", false, "Output version information as JSON")
	rootCmd.AddCommand(versionCmd)
}
