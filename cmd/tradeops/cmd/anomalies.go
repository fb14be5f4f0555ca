package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeops/anomaly"
)

var anomaliesCmd = &cobra.Command{
	Use:   "anomalies <file>",
	Short: "Flag large trades and missing data",
	Long: `Normalize a spreadsheet and list large-trade and missing-data anomalies.

With --disputes, also list the synthetic dispute annotations assigned to
each trade for document rendering.

Example:
  tradeops anomalies trades.csv --disputes`,
	Args: cobra.ExactArgs(1),
	RunE: runAnomalies,
}

var anomaliesDisputes bool

func init() {
	rootCmd.AddCommand(anomaliesCmd)
	addIngestFlags(anomaliesCmd)
	anomaliesCmd.Flags().BoolVar(&anomaliesDisputes, "disputes", false, "include dispute annotations")
}

type anomaliesJSON struct {
	Anomalies []anomaly.Anomaly `json:"anomalies"`
	Disputes  []anomaly.Dispute `json:"disputes,omitempty"`
}

func runAnomalies(cmd *cobra.Command, args []string) error {
	b, err := loadBatch(args[0])
	if err != nil {
		return err
	}

	res := anomaliesJSON{Anomalies: anomaly.Detect(b.Records)}
	if anomaliesDisputes {
		for _, d := range anomaly.AssignDisputes(b.Records) {
			if d.Disputed {
				res.Disputes = append(res.Disputes, d)
			}
		}
	}
	log.Info("anomalies detected", "anomalies", len(res.Anomalies), "disputes", len(res.Disputes))

	if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
		return fmt.Errorf("write anomalies: %w", err)
	}
	return nil
}
