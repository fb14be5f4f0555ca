// Package normalize applies a field mapping to raw spreadsheet rows and
// produces canonical trade records.
package normalize

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rustyeddy/tradeops/mapping"
	"github.com/rustyeddy/tradeops/schema"
	"github.com/rustyeddy/tradeops/trade"
)

// Normalizer coerces rows for one data type.
type Normalizer struct {
	Type trade.DataType
	// Now supplies "today" for date defaults.
	Now func() time.Time
	Log *slog.Logger
}

func New(dt trade.DataType) *Normalizer {
	return &Normalizer{Type: dt, Now: time.Now}
}

// Normalize is New(dt).Normalize(ds, m).
func Normalize(ds trade.Dataset, m mapping.Mapping, dt trade.DataType) ([]trade.Record, error) {
	return New(dt).Normalize(ds, m)
}

// Normalize returns exactly one record per row, in order. It fails only
// when m references a header the dataset does not have. Rows that cannot be
// coerced are replaced by ERROR-n stubs.
func (n *Normalizer) Normalize(ds trade.Dataset, m mapping.Mapping) ([]trade.Record, error) {
	out := make([]trade.Record, 0, len(ds.Rows))
	if len(ds.Rows) == 0 {
		return out, nil
	}

	headers := ds.Headers
	if len(headers) == 0 {
		headers = trade.NewDataset(ds.Rows).Headers
	}
	if err := mapping.Validate(m, headers); err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	today := n.today()
	keys := m.Keys()
	mapped := make(map[string]bool, len(m))
	for _, h := range m {
		mapped[h] = true
	}

	for i, row := range ds.Rows {
		rec, err := n.row(i, row, m, keys, mapped, today)
		if err != nil {
			n.logger().Warn("row replaced by stub", "row", i+1, "tradeId", rec.TradeID, "err", err)
			rec = n.stub(i, today)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (n *Normalizer) row(i int, row trade.Row, m mapping.Mapping, keys []string, mapped map[string]bool, today time.Time) (rec trade.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	rec.DataSource = n.Type
	for _, key := range keys {
		v, ok := row[m[key]]
		if !ok || trade.IsEmpty(v) {
			continue
		}
		switch {
		case schema.IsNumeric(key):
			f, err := coerceNumeric(v)
			if err != nil {
				return rec, fmt.Errorf("%s: %w", key, err)
			}
			rec.Set(key, f)
		case schema.IsDate(key):
			rec.Set(key, ParseDate(v, today))
		default:
			rec.Set(key, passthrough(v))
		}
	}

	for h, v := range row {
		if mapped[h] || trade.IsEmpty(v) {
			continue
		}
		rec.SetExtra(h, passthrough(v))
	}

	if rec.TradeID == "" {
		rec.TradeID = fmt.Sprintf("TRADE-%06d", i+1)
	}
	if rec.TradeDate == "" {
		rec.TradeDate = today.Format(DateLayout)
	}
	if rec.SettlementDate == "" {
		rec.SettlementDate = n.defaultSettlement(rec.TradeDate, today)
	}
	return rec, nil
}

// defaultSettlement is T+2 for equities. FX has no better signal than the
// trade date itself.
func (n *Normalizer) defaultSettlement(tradeDate string, today time.Time) string {
	if n.Type == trade.FX {
		return tradeDate
	}
	base, ok := parseDateString(tradeDate)
	if !ok {
		base = today
	}
	return base.AddDate(0, 0, 2).Format(DateLayout)
}

// StubPrefix starts the trade ID of every stub record.
const StubPrefix = "ERROR-"

// IsStub reports whether r replaced a row that could not be normalized.
func IsStub(r trade.Record) bool { return strings.HasPrefix(r.TradeID, StubPrefix) }

func (n *Normalizer) stub(i int, today time.Time) trade.Record {
	d := today.Format(DateLayout)
	return trade.Record{
		TradeID:        fmt.Sprintf("%s%d", StubPrefix, i+1),
		DataSource:     n.Type,
		TradeDate:      d,
		SettlementDate: d,
	}
}

func (n *Normalizer) today() time.Time {
	if n.Now == nil {
		return time.Now()
	}
	return n.Now()
}

func (n *Normalizer) logger() *slog.Logger {
	if n.Log == nil {
		return slog.Default()
	}
	return n.Log
}

func passthrough(v any) any {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case time.Time:
		return t.Format(DateLayout)
	}
	return v
}
