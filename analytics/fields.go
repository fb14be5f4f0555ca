// Package analytics computes commission and cost KPIs and key risk
// indicators over normalized trade records. Every function recomputes from
// scratch.
package analytics

import (
	"strings"

	"github.com/rustyeddy/tradeops/normalize"
	"github.com/rustyeddy/tradeops/trade"
)

// Candidate names per metric, tried in order against a record. They cover
// the canonical key and the raw header spellings that reach Extra.
var (
	commissionFields     = []string{"commission", "commissionAmount", "Commission", "Commission Amount", "commission_amount", "Commissions", "fees"}
	brokerageFields      = []string{"brokerageFee", "Brokerage Fee", "brokerage", "Brokerage", "brokerage_fee"}
	settlementCostFields = []string{"settlementCost", "Settlement Cost", "settlement_cost", "settlementFee"}
	notionalFields       = []string{"tradeValue", "notionalAmount", "Trade Value", "Notional Amount", "trade_value", "notional_amount", "notional"}
	taxFields            = []string{"taxes", "Taxes", "tax"}
	brokerFields         = []string{"counterparty", "broker", "executionVenue", "tradingVenue", "Counterparty", "Broker", "Execution Venue", "Trading Venue"}
	counterpartyFields   = []string{"counterparty", "Counterparty", "broker", "Broker"}
	venueFields          = []string{"executionVenue", "tradingVenue", "Execution Venue", "Trading Venue", "venue", "Venue"}
	statusFields         = []string{"costAllocationStatus", "allocationStatus", "settlementStatus", "Cost Allocation Status", "Allocation Status", "Settlement Status", "status"}
	fxRateFields         = []string{"fxRate", "fxRateApplied", "FX Rate", "rate"}
	pairFields           = []string{"currencyPair", "Currency Pair", "pair"}
	dealtFields          = []string{"dealtCurrency", "Dealt Currency"}
	baseFields           = []string{"baseCurrency", "Base Currency"}
	termFields           = []string{"termCurrency", "Term Currency"}
	reconcileFields      = []string{"tradeStatus", "settlementStatus", "Trade Status", "Settlement Status"}
)

// Number returns the first present candidate parsed like a numeric cell,
// or 0 when none is present.
func Number(r trade.Record, candidates []string) float64 {
	for _, c := range candidates {
		if v, ok := r.Get(c); ok {
			return normalize.ParseNumeric(v)
		}
	}
	return 0
}

// Text returns the first non-blank candidate as trimmed text.
func Text(r trade.Record, candidates []string) string {
	for _, c := range candidates {
		if s := r.GetString(c); s != "" {
			return s
		}
	}
	return ""
}

func Commission(r trade.Record) float64     { return Number(r, commissionFields) }
func Brokerage(r trade.Record) float64      { return Number(r, brokerageFields) }
func SettlementCost(r trade.Record) float64 { return Number(r, settlementCostFields) }
func Notional(r trade.Record) float64       { return Number(r, notionalFields) }

// Broker resolves the party a record's costs are attributed to.
func Broker(r trade.Record) string { return Text(r, brokerFields) }

// Counterparty resolves the trading counterparty, falling back to the broker.
func Counterparty(r trade.Record) string { return Text(r, counterpartyFields) }

// Status resolves the allocation or settlement status.
func Status(r trade.Record) string { return Text(r, statusFields) }

// month returns the YYYY-MM bucket of the trade date.
func month(r trade.Record) (string, bool) {
	t, ok := normalize.ParseTime(r.TradeDate)
	if !ok {
		return "", false
	}
	return t.Format("2006-01"), true
}

var pairNoise = strings.NewReplacer("/", "", "-", "", "_", "", " ", "", ".", "")

// splitPair reads "EUR/USD", "EURUSD" or "eur-usd" into its two legs.
func splitPair(p string) (base, term string, ok bool) {
	p = strings.ToUpper(pairNoise.Replace(p))
	if len(p) != 6 {
		return "", "", false
	}
	return p[:3], p[3:], true
}
