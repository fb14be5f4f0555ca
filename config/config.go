package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradeops/analytics"
	"github.com/rustyeddy/tradeops/mapping"
	"github.com/rustyeddy/tradeops/sheet"
	"github.com/rustyeddy/tradeops/trade"
)

// Config represents the complete ingestion and reporting configuration
type Config struct {
	Ingest    IngestConfig    `json:"ingest" yaml:"ingest"`
	Analytics AnalyticsConfig `json:"analytics" yaml:"analytics"`
	Journal   JournalConfig   `json:"journal" yaml:"journal"`
	Log       LogConfig       `json:"log" yaml:"log"`
}

// IngestConfig controls how uploaded spreadsheets are read and mapped
type IngestConfig struct {
	DataType string `json:"data_type" yaml:"data_type" validate:"required,oneof=auto equity fx"`
	Strategy string `json:"strategy" yaml:"strategy" validate:"required,oneof=flexible exact"`
	Encoding string `json:"encoding" yaml:"encoding" validate:"required,oneof=utf-8 windows-1252"`
	Sheet    string `json:"sheet,omitempty" yaml:"sheet,omitempty"`
}

// AnalyticsConfig carries the KPI/KRI constants
type AnalyticsConfig struct {
	CostOverrunBenchmark float64  `json:"cost_overrun_benchmark" yaml:"cost_overrun_benchmark" validate:"gte=0"`
	AllocatedStatuses    []string `json:"allocated_statuses" yaml:"allocated_statuses" validate:"required,min=1,dive,required"`
	TrendMonths          []string `json:"trend_months,omitempty" yaml:"trend_months,omitempty" validate:"omitempty,len=2,dive,datetime=2006-01"`
	TopBrokers           int      `json:"top_brokers" yaml:"top_brokers" validate:"gte=1"`
	TopTrend             int      `json:"top_trend" yaml:"top_trend" validate:"gte=1"`
	RateOutlierPct       float64  `json:"rate_outlier_pct" yaml:"rate_outlier_pct" validate:"gt=0"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `json:"format" yaml:"format" validate:"omitempty,oneof=json text"`
}

// LoadFromFile loads configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return describe(verrs[0])
		}
		return err
	}

	if c.Journal.Type != "csv" && c.Journal.Type != "sqlite" {
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	if c.Journal.Type == "csv" && c.Journal.TradesFile == "" {
		return fmt.Errorf("journal trades_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	if m := c.Analytics.TrendMonths; len(m) == 2 && m[0] >= m[1] {
		return fmt.Errorf("analytics.trend_months must be in ascending order")
	}
	return nil
}

func describe(fe validator.FieldError) error {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", field, fe.Param())
	case "gt":
		return fmt.Errorf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Errorf("%s must be at least %s", field, fe.Param())
	case "min":
		return fmt.Errorf("%s must have at least %s entries", field, fe.Param())
	case "len":
		return fmt.Errorf("%s must have exactly %s entries", field, fe.Param())
	case "datetime":
		return fmt.Errorf("%s must be a YYYY-MM month", field)
	}
	return fmt.Errorf("%s failed %s validation", field, fe.Tag())
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	o := analytics.DefaultOptions()
	return &Config{
		Ingest: IngestConfig{
			DataType: "auto",
			Strategy: string(mapping.Flexible),
			Encoding: sheet.UTF8,
		},
		Analytics: AnalyticsConfig{
			CostOverrunBenchmark: o.CostOverrunBenchmark,
			AllocatedStatuses:    o.AllocatedStatuses,
			TopBrokers:           o.TopBrokers,
			TopTrend:             o.TopTrend,
			RateOutlierPct:       o.RateOutlierPct,
		},
		Journal: JournalConfig{
			Type:       "sqlite",
			TradesFile: "./trades.csv",
			DBPath:     "./tradeops.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TRADEOPS_"

// ApplyEnv loads the given .env files (missing files are skipped) and then
// applies TRADEOPS_* overrides from the environment. Variables already set
// in the process environment win over .env values.
func (c *Config) ApplyEnv(envFiles ...string) error {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	strs := map[string]*string{
		"DATA_TYPE":    &c.Ingest.DataType,
		"STRATEGY":     &c.Ingest.Strategy,
		"ENCODING":     &c.Ingest.Encoding,
		"SHEET":        &c.Ingest.Sheet,
		"JOURNAL_TYPE": &c.Journal.Type,
		"TRADES_FILE":  &c.Journal.TradesFile,
		"DB_PATH":      &c.Journal.DBPath,
		"LOG_LEVEL":    &c.Log.Level,
		"LOG_FORMAT":   &c.Log.Format,
	}
	for k, p := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + k); ok {
			*p = strings.TrimSpace(v)
		}
	}

	floats := map[string]*float64{
		"COST_OVERRUN_BENCHMARK": &c.Analytics.CostOverrunBenchmark,
		"RATE_OUTLIER_PCT":       &c.Analytics.RateOutlierPct,
	}
	for k, p := range floats {
		if v, ok := os.LookupEnv(EnvPrefix + k); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, k, err)
			}
			*p = f
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "ALLOCATED_STATUSES"); ok {
		var list []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				list = append(list, s)
			}
		}
		c.Analytics.AllocatedStatuses = list
	}
	return nil
}

// AnalyticsOptions converts the analytics section for the analytics engine.
func (c *Config) AnalyticsOptions() analytics.Options {
	a := c.Analytics
	return analytics.Options{
		CostOverrunBenchmark: a.CostOverrunBenchmark,
		AllocatedStatuses:    append([]string(nil), a.AllocatedStatuses...),
		TrendMonths:          append([]string(nil), a.TrendMonths...),
		TopBrokers:           a.TopBrokers,
		TopTrend:             a.TopTrend,
		RateOutlierPct:       a.RateOutlierPct,
	}
}

// DataType returns the forced data type, or false when it should be
// inferred from the headers.
func (c *Config) DataType() (trade.DataType, bool) {
	if c.Ingest.DataType == "" || c.Ingest.DataType == "auto" {
		return "", false
	}
	dt, err := trade.ParseDataType(c.Ingest.DataType)
	return dt, err == nil
}

func (c *Config) Strategy() (mapping.Strategy, error) {
	return mapping.ParseStrategy(c.Ingest.Strategy)
}

func (c *Config) SheetOptions() sheet.Options {
	return sheet.Options{Encoding: c.Ingest.Encoding, Sheet: c.Ingest.Sheet}
}
