package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var mapCmd = &cobra.Command{
	Use:   "map <file>",
	Short: "Show how spreadsheet headers map onto canonical fields",
	Long: `Build the field mapping for a file and print one line per canonical field.

Required fields are marked with *. Use --set to correct a mapping and
--strategy exact to disable alias matching. --interactive opens an editor
on stdin that accepts set, clear, type, auto, status, done and quit.

Examples:
  tradeops map trades.csv
  tradeops map trades.csv --set counterparty="Broker Name"
  tradeops map trades.csv --interactive`,
	Args: cobra.ExactArgs(1),
	RunE: runMap,
}

var (
	mapRequireComplete bool
	mapInteractive     bool
)

func init() {
	rootCmd.AddCommand(mapCmd)
	addIngestFlags(mapCmd)
	mapCmd.Flags().BoolVar(&mapRequireComplete, "require-complete", false, "fail when a required field is unmapped")
	mapCmd.Flags().BoolVarP(&mapInteractive, "interactive", "i", false, "edit the mapping from stdin before printing it")
}

func runMap(cmd *cobra.Command, args []string) error {
	b, err := mapBatch(args[0])
	if err != nil {
		return err
	}
	defer sessions.Close(b.Session.ID)

	out := cmd.OutOrStdout()
	if mapInteractive {
		if err := editSession(cmd.InOrStdin(), out, b.Session.ID); err != nil {
			return err
		}
		b.Type = b.Session.Type
		b.Mapping = b.Session.Mapping()
	}
	fmt.Fprintf(out, "type: %s (session %s)\n\n", b.Type, b.Session.ID)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tLABEL\tHEADER")
	for _, f := range b.Session.Fields() {
		label := f.Label
		if f.Required {
			label += " *"
		}
		header := b.Mapping[f.Key]
		if header == "" {
			header = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", f.Key, label, header)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	st := b.Session.Status()
	fmt.Fprintln(out)
	printStatus(out, st)
	if !st.Complete() {
		if mapRequireComplete {
			return fmt.Errorf("mapping incomplete: %d required fields unmapped", len(st.MissingRequired))
		}
	}
	return nil
}
