package journal

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/rustyeddy/tradeops/trade"
)

// CSVJournal appends every recorded batch to one trades file, each row
// tagged with its upload ID.
type CSVJournal struct {
	trades *csv.Writer
	tf     *os.File
	cols   []string
}

func NewCSV(tradesPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}

	cols := Columns()
	tw := csv.NewWriter(tf)
	if err := tw.Write(append([]string{"upload_id"}, cols...)); err != nil {
		_ = tf.Close()
		return nil, err
	}
	tw.Flush()
	if err := tw.Error(); err != nil {
		_ = tf.Close()
		return nil, err
	}

	return &CSVJournal{trades: tw, tf: tf, cols: cols}, nil
}

func (j *CSVJournal) RecordUpload(u Upload, records []trade.Record) error {
	for _, r := range records {
		if err := j.trades.Write(append([]string{u.ID}, row(r, j.cols)...)); err != nil {
			return err
		}
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	return j.tf.Close()
}

// WriteCSV exports records with a header of all canonical columns.
func WriteCSV(w io.Writer, records []trade.Record) error {
	cols := Columns()
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(row(r, cols)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func row(r trade.Record, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = cell(r, c)
	}
	return out
}

func cell(r trade.Record, key string) string {
	v, ok := r.Get(key)
	if !ok {
		return ""
	}
	if x, ok := v.(float64); ok {
		return f(x)
	}
	return r.GetString(key)
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
