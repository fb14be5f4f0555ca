// Package schema holds the canonical trade field sets, the header alias
// table used for flexible mapping, and the dataset classifier.
package schema

import "github.com/rustyeddy/tradeops/trade"

// Field is one canonical slot in a trade schema.
type Field struct {
	Key      string `json:"key" yaml:"key"`
	Label    string `json:"label" yaml:"label"`
	Required bool   `json:"required" yaml:"required"`
}

// FieldSet is the ordered list of canonical fields for one data type.
type FieldSet []Field

// Keys returns the field keys in declaration order.
func (fs FieldSet) Keys() []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Key
	}
	return out
}

// Lookup finds a field by key.
func (fs FieldSet) Lookup(key string) (Field, bool) {
	for _, f := range fs {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Required returns the required subset in declaration order.
func (fs FieldSet) Required() FieldSet {
	var out FieldSet
	for _, f := range fs {
		if f.Required {
			out = append(out, f)
		}
	}
	return out
}

var equityFields = FieldSet{
	{"tradeId", "Trade ID", true},
	{"orderId", "Order ID", false},
	{"clientId", "Client ID", false},
	{"isin", "ISIN", false},
	{"symbol", "Symbol", true},
	{"tradeType", "Trade Type", true},
	{"quantity", "Quantity", true},
	{"price", "Price", true},
	{"tradeValue", "Trade Value", true},
	{"currency", "Currency", false},
	{"tradeDate", "Trade Date", true},
	{"settlementDate", "Settlement Date", false},
	{"settlementStatus", "Settlement Status", false},
	{"counterparty", "Counterparty", false},
	{"tradingVenue", "Trading Venue", false},
	{"traderName", "Trader Name", false},
	{"commission", "Commission", false},
	{"taxes", "Taxes", false},
	{"totalCost", "Total Cost", false},
	{"marketImpactCost", "Market Impact Cost", false},
	{"fxRateApplied", "FX Rate Applied", false},
	{"netAmount", "Net Amount", false},
	{"collateralRequired", "Collateral Required", false},
	{"costAllocationStatus", "Cost Allocation Status", false},
	{"costBookedDate", "Cost Booked Date", false},
}

var fxFields = FieldSet{
	{"tradeId", "Trade ID", true},
	{"orderId", "Order ID", false},
	{"clientId", "Client ID", false},
	{"tradeDate", "Trade Date", true},
	{"settlementDate", "Settlement Date", true},
	{"counterparty", "Counterparty", true},
	{"currencyPair", "Currency Pair", true},
	{"buySell", "Buy/Sell", true},
	{"dealtCurrency", "Dealt Currency", false},
	{"baseCurrency", "Base Currency", false},
	{"termCurrency", "Term Currency", false},
	{"notionalAmount", "Notional Amount", true},
	{"fxRate", "FX Rate", true},
	{"tradeStatus", "Trade Status", false},
	{"settlementStatus", "Settlement Status", false},
	{"executionVenue", "Execution Venue", false},
	{"maturityDate", "Maturity Date", false},
	{"commissionAmount", "Commission Amount", false},
	{"brokerageFee", "Brokerage Fee", false},
	{"custodyFee", "Custody Fee", false},
	{"settlementCost", "Settlement Cost", false},
	{"fxGainLoss", "FX Gain/Loss", false},
	{"pnlCalculated", "PnL Calculated", false},
	{"costAllocationStatus", "Cost Allocation Status", false},
	{"costBookedDate", "Cost Booked Date", false},
	{"traderId", "Trader ID", false},
}

// For returns a copy of the field set for dt; unknown types get the equity set.
func For(dt trade.DataType) FieldSet {
	src := equityFields
	if dt == trade.FX {
		src = fxFields
	}
	out := make(FieldSet, len(src))
	copy(out, src)
	return out
}

// Equity returns a copy of the equity field set.
func Equity() FieldSet { return For(trade.Equity) }

// FX returns a copy of the FX field set.
func FX() FieldSet { return For(trade.FX) }

var numericKeys = map[string]bool{
	"quantity": true, "price": true, "tradeValue": true, "commission": true,
	"taxes": true, "totalCost": true, "marketImpactCost": true, "fxRateApplied": true,
	"netAmount": true, "collateralRequired": true, "notionalAmount": true, "fxRate": true,
	"commissionAmount": true, "brokerageFee": true, "custodyFee": true,
	"settlementCost": true, "fxGainLoss": true, "pnlCalculated": true,
}

var dateKeys = map[string]bool{
	"tradeDate": true, "settlementDate": true, "maturityDate": true, "costBookedDate": true,
}

// IsNumeric reports whether key is coerced as a number during normalization.
func IsNumeric(key string) bool { return numericKeys[key] }

// IsDate reports whether key is coerced as a date during normalization.
func IsDate(key string) bool { return dateKeys[key] }

// NumericKeys lists the numeric keys in no particular order.
func NumericKeys() []string { return setKeys(numericKeys) }

// DateKeys lists the date keys in no particular order.
func DateKeys() []string { return setKeys(dateKeys) }

func setKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
