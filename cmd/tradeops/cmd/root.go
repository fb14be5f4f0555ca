package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeops/config"
	"github.com/rustyeddy/tradeops/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tradeops",
	Short: "Trade cost and risk analytics for operator spreadsheets",
	Long: `Tradeops ingests equity and FX trade spreadsheets of arbitrary layout.

It provides tools for:
  - Classifying a file as equity or FX trades
  - Mapping arbitrary headers onto the canonical trade schema
  - Normalizing rows into canonical trade records
  - Commission KPIs and cost risk indicators
  - Large-trade and missing-data anomalies
  - Journaling imported batches to SQLite or CSV`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	cfgFile   string
	envFile   string
	logLevel  string
	logFormat string

	cfg *config.Config
	log *slog.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON); defaults apply when empty")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with TRADEOPS_* overrides")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, text)")
}

// setup resolves configuration in increasing precedence: defaults or the
// config file, .env and TRADEOPS_* variables, then command-line flags.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = config.Default()
	}

	if err := cfg.ApplyEnv(envFile); err != nil {
		return fmt.Errorf("apply env: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log = logger.Init(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	return nil
}
