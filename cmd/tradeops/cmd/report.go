package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeops/analytics"
	"github.com/rustyeddy/tradeops/anomaly"
	"github.com/rustyeddy/tradeops/journal"
	"github.com/rustyeddy/tradeops/trade"
)

var reportCmd = &cobra.Command{
	Use:   "report [file]",
	Short: "Compute commission KPIs and cost risk indicators",
	Long: `Compute KPIs and KRIs for a spreadsheet, or for an upload already stored
in the SQLite journal.

Examples:
  tradeops report trades.xlsx
  tradeops report --upload 01HZY3R5J8K9QW2T4B6N8M0P1R --format org`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

var (
	reportUpload string
	reportFormat string
)

func init() {
	rootCmd.AddCommand(reportCmd)
	addIngestFlags(reportCmd)
	reportCmd.Flags().StringVarP(&reportUpload, "upload", "u", "", "report on a journaled upload instead of a file")
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "json", "output format: json or org")
}

type reportJSON struct {
	KPI analytics.KPIResult `json:"kpi"`
	KRI analytics.KRIResult `json:"kri"`
}

func runReport(cmd *cobra.Command, args []string) error {
	if (len(args) == 1) == (reportUpload != "") {
		return errors.New("give either a file or --upload")
	}
	if reportFormat != "json" && reportFormat != "org" {
		return fmt.Errorf("unknown format %q", reportFormat)
	}

	var (
		u       journal.Upload
		records []trade.Record
	)
	if reportUpload != "" {
		j, err := journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer j.Close()

		if u, err = j.GetUpload(cmd.Context(), reportUpload); err != nil {
			return err
		}
		if records, err = j.ListTrades(cmd.Context(), reportUpload); err != nil {
			return fmt.Errorf("list trades: %w", err)
		}
	} else {
		b, err := loadBatch(args[0])
		if err != nil {
			return err
		}
		records = b.Records
		u = journal.Upload{Source: b.Source, DataType: b.Type, Strategy: b.Session.Strategy, Mapping: b.Mapping, Rows: len(records), Stubs: stubCount(b), Created: time.Now().UTC()}
	}

	opts := cfg.AnalyticsOptions()
	kpi, kri := opts.ComputeKPIs(records), opts.ComputeKRIs(records)
	log.Info("report computed", "records", len(records), "brokers", len(kpi.Brokers), "overruns", kri.CostOverrunCount)

	if reportFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), reportJSON{KPI: kpi, KRI: kri})
	}
	r := &journal.Report{
		Upload:    u,
		KPI:       kpi,
		KRI:       kri,
		Anomalies: anomaly.Detect(records),
		Created:   u.Created,
	}
	return r.WriteOrg(cmd.OutOrStdout())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

