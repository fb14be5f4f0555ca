package schema

import (
	"strings"

	"github.com/rustyeddy/tradeops/trade"
)

// fxIndicators are lower-cased header names that mark a dataset as FX.
var fxIndicators = map[string]bool{
	"tradeid":        true,
	"currencypair":   true,
	"buysell":        true,
	"dealtcurrency":  true,
	"basecurrency":   true,
	"termcurrency":   true,
	"notionalamount": true,
	"fxrate":         true,
}

// Classify decides whether ds holds FX or equity trades from the first row's
// headers. An empty dataset is equity. The heuristic favours precision; callers
// let the user override it.
func Classify(ds trade.Dataset) trade.DataType {
	if len(ds.Rows) == 0 {
		return trade.Equity
	}
	headers := make([]string, 0, len(ds.Rows[0]))
	for h := range ds.Rows[0] {
		headers = append(headers, h)
	}
	return ClassifyHeaders(headers)
}

// ClassifyHeaders applies the FX indicator test to a header list. Headers are
// only lower-cased, so "Trade ID" does not count as "tradeid".
func ClassifyHeaders(headers []string) trade.DataType {
	for _, h := range headers {
		if fxIndicators[strings.ToLower(h)] {
			return trade.FX
		}
	}
	return trade.Equity
}
