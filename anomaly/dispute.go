package anomaly

import (
	"math"
	"unicode/utf16"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradeops/analytics"
	"github.com/rustyeddy/tradeops/trade"
)

// Dispute categories, in hash index order.
var Categories = [10]string{
	"Overcharging",
	"Duplicate Billing",
	"Incorrect Rate Applied",
	"Unauthorized Fee",
	"Settlement Delay Charge",
	"Custody Fee Discrepancy",
	"Missing Rebate",
	"Incorrect Volume Tier",
	"FX Conversion Error",
	"Service Not Rendered",
}

// Fees are the cost lines a dispute can perturb.
type Fees struct {
	Commission     float64 `json:"commission"`
	BrokerageFee   float64 `json:"brokerageFee"`
	CustodyFee     float64 `json:"custodyFee"`
	SettlementCost float64 `json:"settlementCost"`
	Taxes          float64 `json:"taxes"`
}

func (f Fees) Total() float64 {
	return decimal.Sum(
		amount(f.Commission),
		amount(f.BrokerageFee),
		amount(f.CustodyFee),
		amount(f.SettlementCost),
		amount(f.Taxes),
	).InexactFloat64()
}

// amount is v as a decimal, with non-finite values read as zero.
func amount(v float64) decimal.Decimal {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// FeesOf reads the fee lines from a record.
func FeesOf(r trade.Record) Fees {
	return Fees{
		Commission:     analytics.Commission(r),
		BrokerageFee:   analytics.Brokerage(r),
		CustodyFee:     analytics.Number(r, []string{"custodyFee", "Custody Fee"}),
		SettlementCost: analytics.SettlementCost(r),
		Taxes:          analytics.Number(r, []string{"taxes", "Taxes"}),
	}
}

// factors multiply fee lines; a zero entry leaves the line unchanged.
type factors struct{ commission, brokerage, custody, settlement, taxes float64 }

var perturbations = map[string]factors{
	"Overcharging":            {commission: 1.25, brokerage: 1.15, custody: 1.10},
	"Duplicate Billing":       {commission: 2},
	"Incorrect Rate Applied":  {commission: 1.18, brokerage: 1.12},
	"Unauthorized Fee":        {brokerage: 1.5, settlement: 1.3},
	"Settlement Delay Charge": {settlement: 1.6},
	"Custody Fee Discrepancy": {custody: 1.35},
	"Missing Rebate":          {commission: 1.08, brokerage: 1.08},
	"Incorrect Volume Tier":   {commission: 1.22},
	"FX Conversion Error":     {commission: 1.05, settlement: 1.1, taxes: 1.05},
	"Service Not Rendered":    {custody: 1.2, settlement: 1.2},
}

func scale(v, m float64) float64 {
	if m == 0 {
		return v
	}
	return amount(v).Mul(amount(m)).Round(2).InexactFloat64()
}

func (f Fees) apply(x factors) Fees {
	return Fees{
		Commission:     scale(f.Commission, x.commission),
		BrokerageFee:   scale(f.BrokerageFee, x.brokerage),
		CustodyFee:     scale(f.CustodyFee, x.custody),
		SettlementCost: scale(f.SettlementCost, x.settlement),
		Taxes:          scale(f.Taxes, x.taxes),
	}
}

// Dispute is the synthetic dispute annotation of one record. Undisputed
// records carry equal Original and Adjusted fees.
type Dispute struct {
	TradeID        string   `json:"tradeId"`
	Disputed       bool     `json:"disputed"`
	Categories     []string `json:"categories,omitempty"`
	Original       Fees     `json:"original"`
	Adjusted       Fees     `json:"adjusted"`
	DisputedAmount float64  `json:"disputedAmount"`
}

// Hash sums the UTF-16 code units of s.
func Hash(s string) int {
	h := 0
	for _, u := range utf16.Encode([]rune(s)) {
		h += int(u)
	}
	return h
}

// IsDisputed reports whether an id lands on one of the two disputed
// positions of a 15-record batch.
func IsDisputed(id string) bool {
	switch Hash(id) % 15 {
	case 3, 11:
		return true
	}
	return false
}

// CategoriesFor picks one or two categories for a hash.
func CategoriesFor(h int) []string {
	first := (h * 7) % 10
	second := (h*13 + 17) % 10
	if first == second {
		return []string{Categories[first]}
	}
	return []string{Categories[first], Categories[second]}
}

// AssignDispute annotates a record. The outcome depends only on its trade
// ID and fee lines.
func AssignDispute(r trade.Record) Dispute {
	fees := FeesOf(r)
	d := Dispute{TradeID: r.TradeID, Original: fees, Adjusted: fees}
	if !IsDisputed(r.TradeID) {
		return d
	}
	d.Disputed = true
	d.Categories = CategoriesFor(Hash(r.TradeID))
	for _, c := range d.Categories {
		d.Adjusted = d.Adjusted.apply(perturbations[c])
	}
	d.DisputedAmount = amount(d.Adjusted.Total()).
		Sub(amount(d.Original.Total())).Round(2).InexactFloat64()
	return d
}

func AssignDisputes(records []trade.Record) []Dispute {
	out := make([]Dispute, len(records))
	for i, r := range records {
		out[i] = AssignDispute(r)
	}
	return out
}
