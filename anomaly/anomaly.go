// Package anomaly flags unusual individual trade records and assigns the
// reproducible synthetic disputes used when rendering trade documents.
package anomaly

import (
	"github.com/rustyeddy/tradeops/analytics"
	"github.com/rustyeddy/tradeops/normalize"
	"github.com/rustyeddy/tradeops/trade"
)

type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

const (
	TypeLargeTrade  = "Large Trade"
	TypeMissingData = "Missing Data"
)

// LargeTradeFactor is the multiple of the mean value above which a trade
// is flagged.
const LargeTradeFactor = 3

// Anomaly is one finding. Large-trade findings carry TradeID, Value and
// Threshold; the missing-data finding carries Count.
type Anomaly struct {
	Type      string   `json:"type"`
	TradeID   string   `json:"tradeId,omitempty"`
	Value     float64  `json:"value,omitempty"`
	Threshold float64  `json:"threshold,omitempty"`
	Count     int      `json:"count,omitempty"`
	Severity  Severity `json:"severity"`
}

// Value returns the record's tradeValue, falling back to notionalAmount.
func Value(r trade.Record) (float64, bool) {
	for _, k := range []string{"tradeValue", "notionalAmount"} {
		if v, ok := r.Get(k); ok {
			return normalize.ParseNumeric(v), true
		}
	}
	return 0, false
}

// Missing reports whether the record lacks a counterparty, a trade date or
// any value field.
func Missing(r trade.Record) bool {
	_, ok := Value(r)
	return !ok || analytics.Counterparty(r) == "" || r.TradeDate == ""
}

// Detect returns large-trade findings in record order followed by at most
// one aggregate missing-data finding. Records without a value count as 0
// toward the mean.
func Detect(records []trade.Record) []Anomaly {
	out := []Anomaly{}
	if len(records) == 0 {
		return out
	}

	values := make([]float64, len(records))
	var total float64
	for i, r := range records {
		values[i], _ = Value(r)
		total += values[i]
	}
	threshold := total / float64(len(records)) * LargeTradeFactor

	missing := 0
	for i, r := range records {
		if v := values[i]; v > 0 && v > threshold {
			out = append(out, Anomaly{
				Type:      TypeLargeTrade,
				TradeID:   r.TradeID,
				Value:     v,
				Threshold: threshold,
				Severity:  SeverityMedium,
			})
		}
		if Missing(r) {
			missing++
		}
	}
	if missing > 0 {
		out = append(out, Anomaly{Type: TypeMissingData, Count: missing, Severity: SeverityHigh})
	}
	return out
}
