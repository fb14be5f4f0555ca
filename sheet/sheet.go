// Package sheet reads operator spreadsheets into raw datasets. The first
// row is the header row; cell values are kept as text.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/rustyeddy/tradeops/trade"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoHeader          = errors.New("no header row")
)

const (
	UTF8        = "utf-8"
	Windows1252 = "windows-1252"
)

// Options select how a file is decoded. Encoding applies to CSV only and
// Sheet to XLSX only; an empty Sheet selects the first sheet.
type Options struct {
	Encoding string
	Sheet    string
}

// Open reads path, picking the reader from its extension.
func Open(path string, opts Options) (trade.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return trade.Dataset{}, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return ReadCSV(f, opts.Encoding)
	case ".xlsx", ".xlsm":
		return ReadXLSX(f, opts.Sheet)
	default:
		return trade.Dataset{}, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

// ReadCSV reads comma separated rows, decoding Windows-1252 input when asked.
func ReadCSV(r io.Reader, encoding string) (trade.Dataset, error) {
	switch strings.ToLower(encoding) {
	case "", UTF8, "utf8":
	case Windows1252, "cp1252":
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	default:
		return trade.Dataset{}, fmt.Errorf("encoding %q: %w", encoding, ErrUnsupportedFormat)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	grid, err := cr.ReadAll()
	if err != nil {
		return trade.Dataset{}, fmt.Errorf("read csv: %w", err)
	}
	if len(grid) > 0 && len(grid[0]) > 0 {
		grid[0][0] = strings.TrimPrefix(grid[0][0], "\ufeff")
	}
	return FromGrid(grid)
}

// ReadXLSX reads the named sheet of a workbook, or its first sheet.
func ReadXLSX(r io.Reader, sheet string) (trade.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return trade.Dataset{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return trade.Dataset{}, ErrNoHeader
		}
		sheet = sheets[0]
	}
	grid, err := f.GetRows(sheet)
	if err != nil {
		return trade.Dataset{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return FromGrid(grid)
}

// FromGrid turns a header row plus data rows into a dataset. Headers are
// trimmed and blank or repeated headers drop their column. Blank rows are
// skipped and short rows padded with empty cells.
func FromGrid(grid [][]string) (trade.Dataset, error) {
	if len(grid) == 0 {
		return trade.Dataset{}, ErrNoHeader
	}

	var ds trade.Dataset
	cols := make([]string, len(grid[0]))
	seen := map[string]bool{}
	for i, h := range grid[0] {
		h = strings.TrimSpace(h)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		cols[i] = h
		ds.Headers = append(ds.Headers, h)
	}
	if len(ds.Headers) == 0 {
		return trade.Dataset{}, ErrNoHeader
	}

	for _, cells := range grid[1:] {
		if blank(cells) {
			continue
		}
		row := make(trade.Row, len(ds.Headers))
		for i, h := range cols {
			if h == "" {
				continue
			}
			v := ""
			if i < len(cells) {
				v = cells[i]
			}
			row[h] = v
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
