package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the tradeops CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tradeops version %s\n", version)
		fmt.Fprintln(cmd.OutOrStdout(), "Trade cost and risk analytics for operator spreadsheets")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
