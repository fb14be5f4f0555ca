package normalize

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the display format for every resolved date.
const DateLayout = "2006-01-02"

// excelEpochOffset is the serial of 1970-01-01 in the Excel 1900 date system.
const excelEpochOffset = 25569

var (
	moneyNoise   = regexp.MustCompile(`[$€£¥₹,\s]`)
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

	errUnsupportedCell = errors.New("unsupported cell type")
)

// dateLayouts are tried in order when a cell holds a date as text. US
// month-first forms come before day-first ones.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"01-02-2006",
	"02.01.2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"02-Jan-2006",
	"2-Jan-06",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon Jan 2 2006",
	"20060102",
}

// ParseNumeric turns a cell into a number. Numbers pass through. Strings
// lose currency symbols, thousands separators and whitespace, then their
// leading numeric part is parsed. Anything else, and any result that is not
// finite, is 0.
func ParseNumeric(v any) float64 {
	return finite(parseNumeric(v))
}

func finite(f float64) float64 {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}

func parseNumeric(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case int32:
		return float64(t)
	case uint:
		return float64(t)
	case uint64:
		return float64(t)
	case uint32:
		return float64(t)
	case decimal.Decimal:
		return t.InexactFloat64()
	case string:
		return parseNumericString(t)
	}
	return 0
}

func parseNumericString(s string) float64 {
	clean := moneyNoise.ReplaceAllString(s, "")
	lead := leadingFloat.FindString(clean)
	if lead == "" {
		return 0
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(lead, "."))
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// coerceNumeric is ParseNumeric for normalization: cells of a kind no
// spreadsheet parser produces are reported so the row can be stubbed.
func coerceNumeric(v any) (float64, error) {
	switch v.(type) {
	case nil, bool, string, time.Time, decimal.Decimal,
		float64, float32, int, int64, int32, uint, uint64, uint32:
		return ParseNumeric(v), nil
	}
	return 0, fmt.Errorf("%w: %T", errUnsupportedCell, v)
}

// ParseDate resolves a date cell to display text. time.Time values are
// formatted; strings are parsed against known layouts and passed through
// unchanged when none fit; numbers are read as Excel serial dates. Anything
// unusable becomes today.
func ParseDate(v any, today time.Time) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return today.Format(DateLayout)
		}
		return t.Format(DateLayout)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return today.Format(DateLayout)
		}
		if d, ok := parseDateString(s); ok {
			return d.Format(DateLayout)
		}
		return s
	}
	if isNumber(v) {
		if d, ok := fromExcelSerial(ParseNumeric(v)); ok {
			return d.Format(DateLayout)
		}
	}
	return today.Format(DateLayout)
}

func parseDateString(s string) (time.Time, bool) {
	for _, l := range dateLayouts {
		if d, err := time.Parse(l, s); err == nil {
			return d, true
		}
	}
	if len(s) > 10 {
		if d, err := time.Parse(DateLayout, s[:10]); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// maxExcelSerial is 9999-12-31.
const maxExcelSerial = 2958465

func fromExcelSerial(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 1 || serial > maxExcelSerial {
		return time.Time{}, false
	}
	ms := (serial - excelEpochOffset) * 86400 * 1000
	return time.UnixMilli(int64(math.Round(ms))).UTC(), true
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int64, int32, uint, uint64, uint32, decimal.Decimal:
		return true
	}
	return false
}

// ParseTime parses a resolved date string back into a time, using the same
// layouts as ParseDate.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	return parseDateString(s)
}
