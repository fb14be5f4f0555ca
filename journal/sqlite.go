package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/tradeops/normalize"
	"github.com/rustyeddy/tradeops/trade"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// RecordUpload stores the batch and its records in one transaction. Rows
// and Stubs are taken from records.
func (j *SQLite) RecordUpload(u Upload, records []trade.Record) (err error) {
	u.Rows, u.Stubs = len(records), countStubs(records)
	m, err := json.Marshal(u.Mapping)
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}

	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`
		INSERT INTO uploads
		(id, source, data_type, strategy, mapping, rows, stubs, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Source, string(u.DataType), string(u.Strategy), string(m), u.Rows, u.Stubs, u.Created,
	); err != nil {
		return fmt.Errorf("insert upload %s: %w", u.ID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO trades
		(upload_id, seq, trade_id, trade_date, counterparty, data)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal trade %s: %w", r.TradeID, err)
		}
		if _, err = stmt.Exec(u.ID, i, r.TradeID, r.TradeDate, r.Counterparty, string(data)); err != nil {
			return fmt.Errorf("insert trade %s: %w", r.TradeID, err)
		}
	}
	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func countStubs(records []trade.Record) int {
	n := 0
	for _, r := range records {
		if normalize.IsStub(r) {
			n++
		}
	}
	return n
}
