package trade

import (
	"sort"
	"strings"
)

// Row is one spreadsheet row keyed by source header. Cells hold whatever
// the upstream parser produced: strings, numbers, time.Time or nil.
type Row map[string]any

// Dataset is an ordered sequence of rows sharing one header set.
type Dataset struct {
	Headers []string
	Rows    []Row
}

// NewDataset builds a Dataset from rows alone. Headers come from the first
// row's keys, sorted, since map order carries no meaning.
func NewDataset(rows []Row) Dataset {
	ds := Dataset{Rows: rows}
	if len(rows) == 0 {
		return ds
	}
	for k := range rows[0] {
		ds.Headers = append(ds.Headers, k)
	}
	sort.Strings(ds.Headers)
	return ds
}

func (d Dataset) Len() int { return len(d.Rows) }

// HasHeader reports whether h is one of the dataset headers, compared exactly.
func (d Dataset) HasHeader(h string) bool {
	for _, x := range d.Headers {
		if x == h {
			return true
		}
	}
	return false
}

// IsEmpty reports whether a cell carries no data: nil, or a string that is
// blank after trimming.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}
