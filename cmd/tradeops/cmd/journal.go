package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeops/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query imported uploads and trades",
	Long: `Query and display upload batches and trade records from the SQLite journal.

Subcommands:
  uploads  - List upload batches, newest first
  trades   - List the records of one upload
  trade    - Get the latest record of a trade ID

Examples:
  tradeops journal uploads
  tradeops journal trades <upload-id> --csv
  tradeops journal trade T-1001`,
}

var journalUploadsCmd = &cobra.Command{
	Use:   "uploads",
	Short: "List upload batches",
	Args:  cobra.NoArgs,
	RunE:  runJournalUploads,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades <upload-id>",
	Short: "List the records of an upload",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrades,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <trade-id>",
	Short: "Get details of a specific trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrade,
}

var (
	journalDBPath string
	journalCSV    bool
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalUploadsCmd)
	journalCmd.AddCommand(journalTradesCmd)
	journalCmd.AddCommand(journalTradeCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "", "path to SQLite journal DB (default from config)")
	journalTradesCmd.Flags().BoolVar(&journalCSV, "csv", false, "print CSV instead of Org-mode")
}

func openJournal() (*journal.SQLite, error) {
	path := journalDBPath
	if path == "" {
		path = cfg.Journal.DBPath
	}
	j, err := journal.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalUploads(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	ups, err := j.ListUploads(cmd.Context())
	if err != nil {
		return fmt.Errorf("list uploads: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tSOURCE\tTYPE\tROWS\tSTUBS")
	for _, u := range ups {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n", u.ID, u.Created.Format("2006-01-02 15:04"), u.Source, u.DataType, u.Rows, u.Stubs)
	}
	return w.Flush()
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	if _, err := j.GetUpload(cmd.Context(), args[0]); err != nil {
		return err
	}
	recs, err := j.ListTrades(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	if journalCSV {
		return journal.WriteCSV(cmd.OutOrStdout(), recs)
	}
	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(recs))
	return nil
}

func runJournalTrade(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetTrade(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
	return nil
}
