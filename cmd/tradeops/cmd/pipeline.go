package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeops/mapping"
	"github.com/rustyeddy/tradeops/normalize"
	"github.com/rustyeddy/tradeops/schema"
	"github.com/rustyeddy/tradeops/sheet"
	"github.com/rustyeddy/tradeops/trade"
)

var (
	ingestType     string
	ingestStrategy string
	ingestSheet    string
	ingestEncoding string
	ingestSet      []string
)

// addIngestFlags registers the flags shared by every command that reads a
// spreadsheet.
func addIngestFlags(c *cobra.Command) {
	c.Flags().StringVarP(&ingestType, "type", "t", "", "data type: auto, equity or fx (default from config)")
	c.Flags().StringVarP(&ingestStrategy, "strategy", "s", "", "mapping strategy: flexible or exact (default from config)")
	c.Flags().StringVar(&ingestSheet, "sheet", "", "XLSX sheet name (default first sheet)")
	c.Flags().StringVar(&ingestEncoding, "encoding", "", "CSV encoding: utf-8 or windows-1252")
	c.Flags().StringArrayVar(&ingestSet, "set", nil, "override a mapping as field=Header (repeatable)")
}

// batch is one spreadsheet carried through classification, mapping and
// normalization.
type batch struct {
	Source   string
	Dataset  trade.Dataset
	Type     trade.DataType
	Session  *mapping.Session
	Mapping  mapping.Mapping
	Records  []trade.Record
	Inferred bool
}

func readSheet(path string) (trade.Dataset, error) {
	opts := cfg.SheetOptions()
	if ingestSheet != "" {
		opts.Sheet = ingestSheet
	}
	if ingestEncoding != "" {
		opts.Encoding = ingestEncoding
	}
	ds, err := sheet.Open(path, opts)
	if err != nil {
		return trade.Dataset{}, fmt.Errorf("read %s: %w", path, err)
	}
	log.Info("sheet loaded", "file", filepath.Base(path), "rows", ds.Len(), "headers", len(ds.Headers))
	return ds, nil
}

func resolveType(ds trade.Dataset) (trade.DataType, bool, error) {
	t := ingestType
	if t == "" {
		t = cfg.Ingest.DataType
	}
	if t == "" || t == "auto" {
		return schema.Classify(ds), true, nil
	}
	dt, err := trade.ParseDataType(t)
	return dt, false, err
}

func resolveStrategy() (mapping.Strategy, error) {
	if ingestStrategy != "" {
		return mapping.ParseStrategy(ingestStrategy)
	}
	return cfg.Strategy()
}

// mapBatch reads, classifies and maps path without normalizing it. The
// batch's session stays registered until the caller closes it.
func mapBatch(path string) (*batch, error) {
	ds, err := readSheet(path)
	if err != nil {
		return nil, err
	}
	dt, inferred, err := resolveType(ds)
	if err != nil {
		return nil, err
	}
	strat, err := resolveStrategy()
	if err != nil {
		return nil, err
	}

	sess := sessions.Open(ds, dt, strat)
	for _, kv := range ingestSet {
		key, header, ok := strings.Cut(kv, "=")
		if !ok {
			sessions.Close(sess.ID)
			return nil, fmt.Errorf("--set %q: want field=Header", kv)
		}
		if err := sess.Set(strings.TrimSpace(key), strings.TrimSpace(header)); err != nil {
			sessions.Close(sess.ID)
			return nil, fmt.Errorf("--set %q: %w", kv, err)
		}
	}

	st := sess.Status()
	log.Info("mapping built",
		"session", sess.ID, "type", dt, "inferred", inferred, "strategy", strat,
		"mapped", st.Mapped, "total", st.Total, "missingRequired", st.MissingRequired)

	return &batch{
		Source:   filepath.Base(path),
		Dataset:  ds,
		Type:     dt,
		Session:  sess,
		Mapping:  sess.Mapping(),
		Inferred: inferred,
	}, nil
}

// loadBatch runs the full pipeline over path.
func loadBatch(path string) (*batch, error) {
	b, err := mapBatch(path)
	if err != nil {
		return nil, err
	}
	defer sessions.Close(b.Session.ID)

	n := normalize.New(b.Type)
	n.Log = log
	b.Records, err = n.Normalize(b.Dataset, b.Mapping)
	if err != nil {
		return nil, err
	}
	log.Info("records normalized", "records", len(b.Records))
	return b, nil
}

func stubCount(b *batch) int {
	n := 0
	for _, r := range b.Records {
		if normalize.IsStub(r) {
			n++
		}
	}
	return n
}
