package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const equityCSV = `Trade ID,Symbol,Trade Type,Quantity,Price,Trade Value,Trade Date,Counterparty,Commission
T1,AAPL,Buy,100,150,15000,2024-06-03,Goldman,150
T2,GOOG,Sell,50,1000,50000,2024-06-04,Citi,80
T3,MSFT,Buy,10,5000,50000,2024-06-05,Goldman,20
`

// execute runs the CLI with fresh flag state.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	cfgFile, envFile, logLevel, logFormat = "", filepath.Join(t.TempDir(), ".env"), "", ""
	ingestType, ingestStrategy, ingestSheet, ingestEncoding, ingestSet = "", "", "", "", nil
	mapRequireComplete, mapInteractive, importOrg = false, false, ""
	reportUpload, reportFormat = "", "json"
	anomaliesDisputes, journalDBPath, journalCSV = false, "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func workspace(t *testing.T) (dir, csvPath string) {
	t.Helper()
	dir = t.TempDir()
	csvPath = filepath.Join(dir, "trades.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(equityCSV), 0o644))
	t.Setenv("TRADEOPS_DB_PATH", filepath.Join(dir, "journal.db"))
	return dir, csvPath
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tradeops version "+version)
}

func TestClassify(t *testing.T) {
	_, path := workspace(t)

	out, err := execute(t, "classify", path)
	require.NoError(t, err)
	assert.Contains(t, out, "type:    equity")
	assert.Contains(t, out, "rows:    3")
}

func TestMap(t *testing.T) {
	_, path := workspace(t)

	out, err := execute(t, "map", path, "--require-complete")
	require.NoError(t, err)
	assert.Contains(t, out, "mapped 9/25 fields, required 7/7")
	assert.NotContains(t, out, "missing required")
}

func TestMapIncomplete(t *testing.T) {
	dir, _ := workspace(t)
	path := filepath.Join(dir, "thin.csv")
	require.NoError(t, os.WriteFile(path, []byte("Trade ID,Symbol\nT1,AAPL\n"), 0o644))

	out, err := execute(t, "map", path)
	require.NoError(t, err)
	assert.Contains(t, out, "missing required: tradeType, quantity, price, tradeValue, tradeDate")

	_, err = execute(t, "map", path, "--require-complete")
	assert.ErrorContains(t, err, "mapping incomplete")
}

func TestMapOverride(t *testing.T) {
	_, path := workspace(t)

	out, err := execute(t, "map", path, "--set", "traderName=Counterparty")
	require.NoError(t, err)
	assert.Regexp(t, `traderName\s+Trader Name\s+Counterparty`, out)

	_, err = execute(t, "map", path, "--set", "traderName=Nope")
	assert.Error(t, err)
}

func TestMapInteractive(t *testing.T) {
	_, path := workspace(t)

	input := "clear tradeDate\nset tradeDate=Nope\ndone\nset tradeDate=Trade Date\nset traderName=Counterparty\ndone\n"
	out, err := executeWithInput(t, input, "map", path, "--interactive")
	require.NoError(t, err)
	assert.Contains(t, out, "missing required: tradeDate")
	assert.Contains(t, out, "error: mapping references unknown header")
	assert.Regexp(t, `traderName\s+Trader Name\s+Counterparty`, out)
	assert.Contains(t, out, "mapped 10/25 fields, required 7/7")
	assert.Zero(t, sessions.Len())
}

func TestMapInteractiveSwitchType(t *testing.T) {
	_, path := workspace(t)

	out, err := executeWithInput(t, "type fx\nstatus\n", "map", path, "-i")
	require.NoError(t, err)
	assert.Contains(t, out, "type: fx")
	assert.Contains(t, out, "missing required:")
}

func TestMapInteractiveQuit(t *testing.T) {
	_, path := workspace(t)

	_, err := executeWithInput(t, "bogus\nquit\n", "map", path, "--interactive")
	assert.ErrorIs(t, err, errAbandoned)
	assert.Zero(t, sessions.Len())
}

func TestImportReportAndJournal(t *testing.T) {
	dir, path := workspace(t)
	org := filepath.Join(dir, "report.org")

	out, err := execute(t, "import", path, "--org", org)
	require.NoError(t, err)
	require.Contains(t, out, "✓ Imported trades.csv as upload ")
	fields := strings.Fields(strings.SplitN(out, "\n", 2)[0])
	uploadID := fields[len(fields)-1]
	assert.Contains(t, out, "Records: 3  Stubs: 0")

	data, err := os.ReadFile(org)
	require.NoError(t, err)
	assert.Contains(t, string(data), "* UPLOAD: trades.csv")

	out, err = execute(t, "journal", "uploads")
	require.NoError(t, err)
	assert.Contains(t, out, uploadID)
	assert.Contains(t, out, "trades.csv")

	out, err = execute(t, "journal", "trade", "T2")
	require.NoError(t, err)
	assert.Contains(t, out, ":COUNTERPARTY: Citi")

	out, err = execute(t, "journal", "trades", uploadID, "--csv")
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(out, "\n"))

	out, err = execute(t, "report", "--upload", uploadID, "--format", "org")
	require.NoError(t, err)
	assert.Contains(t, out, "** Broker Expenses")

	_, err = execute(t, "journal", "trades", "missing")
	assert.Error(t, err)
}

func TestReportJSON(t *testing.T) {
	_, path := workspace(t)

	out, err := execute(t, "report", path)
	require.NoError(t, err)

	var res struct {
		KPI struct {
			TotalCommissionFees float64 `json:"totalCommissionFees"`
			TotalNotional       float64 `json:"totalNotional"`
		} `json:"kpi"`
		KRI struct {
			CostOverrunCount int `json:"costOverrunCount"`
		} `json:"kri"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 250.0, res.KPI.TotalCommissionFees)
	assert.Equal(t, 115000.0, res.KPI.TotalNotional)
	assert.Equal(t, 1, res.KRI.CostOverrunCount)
}

func TestReportArgs(t *testing.T) {
	_, path := workspace(t)

	_, err := execute(t, "report")
	assert.Error(t, err)
	_, err = execute(t, "report", path, "--upload", "x")
	assert.Error(t, err)
	_, err = execute(t, "report", path, "--format", "xml")
	assert.Error(t, err)
}

func TestAnomalies(t *testing.T) {
	_, path := workspace(t)

	out, err := execute(t, "anomalies", path, "--disputes")
	require.NoError(t, err)

	var res anomaliesJSON
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Empty(t, res.Anomalies)
	for _, d := range res.Disputes {
		assert.True(t, d.Disputed)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tradeops.yaml")

	out, err := execute(t, "config", "init", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")

	out, err = execute(t, "config", "validate", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")

	_, err = execute(t, "--config", path, "version")
	assert.NoError(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("journal:\n  type: mongo\n"), 0o644))
	_, err = execute(t, "--config", bad, "version")
	assert.ErrorContains(t, err, "load config")
}
