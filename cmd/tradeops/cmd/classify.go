package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeops/schema"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <file>",
	Short: "Report whether a spreadsheet holds equity or FX trades",
	Long: `Read a CSV or XLSX file and infer its trade type from the header row.

Example:
  tradeops classify trades.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().StringVar(&ingestSheet, "sheet", "", "XLSX sheet name (default first sheet)")
	classifyCmd.Flags().StringVar(&ingestEncoding, "encoding", "", "CSV encoding: utf-8 or windows-1252")
}

func runClassify(cmd *cobra.Command, args []string) error {
	ds, err := readSheet(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "type:    %s\n", schema.Classify(ds))
	fmt.Fprintf(out, "rows:    %d\n", ds.Len())
	fmt.Fprintf(out, "headers: %s\n", strings.Join(ds.Headers, ", "))
	return nil
}
