package journal

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/rustyeddy/tradeops/trade"
)

// FormatTradeOrg renders a record as an Org-mode block. Every present
// canonical field goes into the PROPERTIES drawer; extras follow in a table.
func FormatTradeOrg(r trade.Record) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("** Trade: %s (%s)\n", instrument(r), shortID(r.TradeID)))
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ID: %s\n", r.TradeID))
	for _, c := range Columns() {
		if v := cell(r, c); v != "" {
			b.WriteString(fmt.Sprintf(":%s: %s\n", orgKey(c), v))
		}
	}
	b.WriteString(":END:\n")

	if len(r.Extra) > 0 {
		b.WriteString("\n*** Unmapped columns\n")
		b.WriteString("| Column | Value |\n|--------+-------|\n")
		keys := make([]string, 0, len(r.Extra))
		for k := range r.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(fmt.Sprintf("| %s | %v |\n", k, r.Extra[k]))
		}
	}
	b.WriteString("\n*** Review\n- \n")

	return b.String()
}

// FormatTradesOrg renders multiple records separated by blank lines.
func FormatTradesOrg(records []trade.Record) string {
	var b strings.Builder
	for i, r := range records {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(r))
	}
	return b.String()
}

func instrument(r trade.Record) string {
	switch {
	case r.Symbol != "":
		return r.Symbol
	case r.CurrencyPair != "":
		return r.CurrencyPair
	case r.ISIN != "":
		return r.ISIN
	}
	return "?"
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}

// orgKey turns tradeId into TRADE_ID and pnlCalculated into PNL_CALCULATED.
func orgKey(key string) string {
	var b strings.Builder
	for i, c := range key {
		if unicode.IsUpper(c) && i > 0 && !unicode.IsUpper(rune(key[i-1])) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(c))
	}
	return b.String()
}
