package schema

import "strings"

// aliases lists known header synonyms per canonical key, already in
// normalized form. Order matters: the first alias present in the headers wins.
var aliases = map[string][]string{
	"tradeId":              {"tradeid", "tradereference", "traderef", "dealid", "transactionid"},
	"orderId":              {"orderid", "ordernumber", "orderref"},
	"clientId":             {"clientid", "customerid", "accountid", "account"},
	"isin":                 {"isin", "securityid"},
	"symbol":               {"symbol", "ticker", "instrument", "security", "stock"},
	"tradeType":            {"tradetype", "side", "buysell", "direction"},
	"quantity":             {"quantity", "qty", "shares", "units", "volume"},
	"price":                {"price", "executionprice", "tradeprice"},
	"tradeValue":           {"tradevalue", "notionalamount", "amount", "value"},
	"currency":             {"currency", "ccy", "tradecurrency", "dealtcurrency"},
	"tradeDate":            {"tradedate", "executiondate", "dealdate", "date"},
	"settlementDate":       {"settlementdate", "valuedate", "settledate"},
	"settlementStatus":     {"settlementstatus", "status"},
	"counterparty":         {"counterparty", "broker", "cpty", "counterpartyname"},
	"tradingVenue":         {"tradingvenue", "venue", "exchange", "executionvenue"},
	"traderName":           {"tradername", "trader"},
	"commission":           {"commission", "commissionamount", "fees"},
	"taxes":                {"taxes", "tax", "stampduty"},
	"totalCost":            {"totalcost", "totalcharges", "cost"},
	"marketImpactCost":     {"marketimpactcost", "marketimpact"},
	"fxRateApplied":        {"fxrateapplied", "fxrate", "exchangerate"},
	"netAmount":            {"netamount", "netvalue", "net"},
	"collateralRequired":   {"collateralrequired", "collateral", "margin"},
	"costAllocationStatus": {"costallocationstatus", "allocationstatus"},
	"costBookedDate":       {"costbookeddate", "bookeddate", "bookingdate"},
	"currencyPair":         {"currencypair", "ccypair", "pair", "symbol"},
	"buySell":              {"buysell", "side", "direction", "tradetype"},
	"dealtCurrency":        {"dealtcurrency", "currency", "ccy"},
	"baseCurrency":         {"basecurrency", "base"},
	"termCurrency":         {"termcurrency", "quotecurrency", "term"},
	"notionalAmount":       {"notionalamount", "notional", "tradevalue", "amount"},
	"fxRate":               {"fxrate", "exchangerate", "rate", "price"},
	"tradeStatus":          {"tradestatus", "status"},
	"executionVenue":       {"executionvenue", "venue", "tradingvenue"},
	"maturityDate":         {"maturitydate", "maturity"},
	"commissionAmount":     {"commissionamount", "commission", "fees"},
	"brokerageFee":         {"brokeragefee", "brokerage"},
	"custodyFee":           {"custodyfee", "custody"},
	"settlementCost":       {"settlementcost", "settlementfee"},
	"fxGainLoss":           {"fxgainloss", "gainloss", "fxpnl"},
	"pnlCalculated":        {"pnlcalculated", "pnl", "profitloss"},
	"traderId":             {"traderid", "trader"},
}

// Aliases returns a copy of the alias list for key.
func Aliases(key string) []string {
	src := aliases[key]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

var headerNoise = strings.NewReplacer("_", "", "-", "", " ", "", "\t", "", "\n", "", "\r", "")

// NormalizeHeader lower-cases s and strips underscores, hyphens and whitespace.
func NormalizeHeader(s string) string {
	return headerNoise.Replace(strings.ToLower(s))
}
