// Package journal persists imported trade batches and renders them for
// review.
package journal

import (
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/tradeops/mapping"
	"github.com/rustyeddy/tradeops/pkg/id"
	"github.com/rustyeddy/tradeops/schema"
	"github.com/rustyeddy/tradeops/trade"
)

var ErrNotFound = errors.New("not found")

// Upload describes one imported spreadsheet.
type Upload struct {
	ID       string           `json:"id"`
	Source   string           `json:"source"`
	DataType trade.DataType   `json:"dataType"`
	Strategy mapping.Strategy `json:"strategy"`
	Mapping  mapping.Mapping  `json:"mapping"`
	Rows     int              `json:"rows"`
	Stubs    int              `json:"stubs"`
	Created  time.Time        `json:"created"`
}

// NewUpload stamps a fresh batch ID and creation time.
func NewUpload(source string, dt trade.DataType, s mapping.Strategy, m mapping.Mapping) Upload {
	now := time.Now().UTC()
	return Upload{
		ID:       id.At(now),
		Source:   source,
		DataType: dt,
		Strategy: s,
		Mapping:  m.Clone(),
		Created:  now,
	}
}

type Journal interface {
	RecordUpload(Upload, []trade.Record) error
	Close() error
}

// New opens the journal named by typ, "csv" or "sqlite".
func New(typ, tradesFile, dbPath string) (Journal, error) {
	switch typ {
	case "csv":
		return NewCSV(tradesFile)
	case "sqlite":
		return NewSQLite(dbPath)
	}
	return nil, fmt.Errorf("unknown journal type %q", typ)
}

// Columns lists every canonical key, equity fields first. It is the column
// order of CSV exports and Org property drawers.
func Columns() []string {
	seen := map[string]bool{}
	cols := []string{"tradeId", "dataSource"}
	for _, c := range cols {
		seen[c] = true
	}
	for _, fs := range []schema.FieldSet{schema.Equity(), schema.FX()} {
		for _, k := range fs.Keys() {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	return cols
}
