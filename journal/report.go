package journal

import (
	"io"
	"os"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rustyeddy/tradeops/analytics"
	"github.com/rustyeddy/tradeops/anomaly"
)

// Report bundles everything rendered for one upload.
type Report struct {
	Upload    Upload
	KPI       analytics.KPIResult
	KRI       analytics.KRIResult
	Anomalies []anomaly.Anomaly
	Disputes  []anomaly.Dispute
	Created   time.Time
}

var reportOrgFuncs = template.FuncMap{
	"money": func(x float64) string { return humanize.FormatFloat("#,###.##", x) },
	"count": func(n int) string { return humanize.Comma(int64(n)) },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
	"short": shortID,
}

var reportOrg = template.Must(template.New("report").Funcs(reportOrgFuncs).Parse(ReportOrgTemplate))

// WriteOrg renders the report as Org-mode text.
func (r *Report) WriteOrg(w io.Writer) error {
	return reportOrg.Execute(w, r)
}

// WriteOrgFile renders the report into path.
func (r *Report) WriteOrgFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.WriteOrg(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

const ReportOrgTemplate = `* UPLOAD: {{if .Upload.Source}}{{.Upload.Source}}{{else}}(source?){{end}} ({{short .Upload.ID}})
:PROPERTIES:
:UPLOAD_ID:   {{if .Upload.ID}}{{.Upload.ID}}{{else}}(upload-id?){{end}}
:DATA_TYPE:   {{.Upload.DataType}}
:STRATEGY:    {{.Upload.Strategy}}
:ROWS:        {{count .Upload.Rows}}
:STUBS:       {{count .Upload.Stubs}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Summary
| Metric              | Value |
|---------------------+-------|
| Trades              | {{count .KPI.Summary.TradeCount}} |
| Total trade value   | {{money .KPI.Summary.TotalTradeValue}} |
| Avg trade value     | {{money .KPI.Summary.AvgTradeValue}} |
| Counterparties      | {{.KPI.Summary.Counterparties}} |
| Venues              | {{.KPI.Summary.Venues}} |
| Taxes               | {{money .KPI.Summary.TotalTaxes}} |
| Settlement cost     | {{money .KPI.Summary.TotalSettlementCost}} |

** Commission KPIs
- Total commission:       *{{money .KPI.TotalCommissionFees}}*
- Avg commission / trade: *{{money .KPI.AvgCommissionFeePerTrade}}*
- Total brokerage:        *{{money .KPI.TotalBrokeragePaid}}*
- Commission % notional:  *{{printf "%.4f" .KPI.CommissionCostAsPercentOfTradeNotional}}%*

** Broker Expenses
| Broker | Trades | Commission | Brokerage | Settlement | Total |
|--------+--------+------------+-----------+------------+-------|
{{- range .KPI.Brokers }}
| {{.Broker}} | {{.Trades}} | {{money .Commission}} | {{money .Brokerage}} | {{money .SettlementCost}} | {{money .TotalExpense}} |
{{- end }}

{{- if .KPI.Trend.Months }}

** Fee Trend {{range $i, $m := .KPI.Trend.Months}}{{if $i}} / {{end}}{{$m}}{{end}}
{{- range .KPI.Trend.Brokers }}
- {{.Broker}}: {{range $i, $m := .Months}}{{if $i}}, {{end}}{{$m.Month}} {{money $m.Commission}}+{{money $m.Brokerage}}{{end}} (total {{money .TotalFees}})
{{- end }}
{{- end }}

** Risk Indicators
| Indicator              | Count | Rate % |
|------------------------+-------+--------|
| Cost overruns (>{{money .KRI.CostOverrunBenchmark}}) | {{.KRI.CostOverrunCount}} | {{printf "%.2f" .KRI.CostOverrunRate}} |
| Unallocated costs      | {{.KRI.UnallocatedCount}} | {{printf "%.2f" .KRI.PercentageUnallocated}} |
| Incomplete data        | {{.KRI.IncompleteCount}} | {{printf "%.2f" .KRI.IncompleteRate}} |
| FX rate outliers       | {{.KRI.RateOutlierCount}} | |
| Currency mismatches    | {{.KRI.CurrencyMismatchCount}} | |
| Reconciliation breaks  | {{.KRI.ReconciliationFailureCount}} | |

- Overrun excess:    *{{money .KRI.CostOverrunExcess}}*
- Unallocated cost:  *{{money .KRI.UnallocatedCost}}*

{{- if .Anomalies }}

** Anomalies
{{- range .Anomalies }}
{{- if .TradeID }}
- [{{.Severity}}] {{.Type}}: {{.TradeID}} value {{money .Value}} over {{money .Threshold}}
{{- else }}
- [{{.Severity}}] {{.Type}}: {{.Count}} records
{{- end }}
{{- end }}
{{- end }}

{{- if .Disputes }}

** Disputes
{{- range .Disputes }}
{{- if .Disputed }}
- {{.TradeID}}: {{range $i, $c := .Categories}}{{if $i}}, {{end}}{{$c}}{{end}} ({{money .DisputedAmount}})
{{- end }}
{{- end }}
{{- end }}
`
