package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeops/anomaly"
	"github.com/rustyeddy/tradeops/journal"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Normalize a spreadsheet and record it in the journal",
	Long: `Run the full ingestion pipeline over a file and store the resulting
records as one upload batch in the configured journal.

Examples:
  tradeops import trades.xlsx
  tradeops import fx.csv --type fx --org fx-report.org`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var importOrg string

func init() {
	rootCmd.AddCommand(importCmd)
	addIngestFlags(importCmd)
	importCmd.Flags().StringVar(&importOrg, "org", "", "also write an Org-mode report to this path")
}

func runImport(cmd *cobra.Command, args []string) error {
	b, err := loadBatch(args[0])
	if err != nil {
		return err
	}

	j, err := journal.New(cfg.Journal.Type, cfg.Journal.TradesFile, cfg.Journal.DBPath)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	u := journal.NewUpload(b.Source, b.Type, b.Session.Strategy, b.Mapping)
	if err := j.RecordUpload(u, b.Records); err != nil {
		return fmt.Errorf("record upload: %w", err)
	}
	log.Info("upload recorded", "upload", u.ID, "journal", cfg.Journal.Type)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Imported %s as upload %s\n", b.Source, u.ID)
	fmt.Fprintf(out, "  Type: %s  Records: %d  Stubs: %d\n", b.Type, len(b.Records), stubCount(b))

	if importOrg != "" {
		opts := cfg.AnalyticsOptions()
		r := &journal.Report{
			Upload:    u,
			KPI:       opts.ComputeKPIs(b.Records),
			KRI:       opts.ComputeKRIs(b.Records),
			Anomalies: anomaly.Detect(b.Records),
			Disputes:  anomaly.AssignDisputes(b.Records),
			Created:   u.Created,
		}
		r.Upload.Rows = len(b.Records)
		r.Upload.Stubs = stubCount(b)
		if err := r.WriteOrgFile(importOrg); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(out, "  Report: %s\n", importOrg)
	}
	return nil
}
