package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rustyeddy/tradeops/mapping"
	"github.com/rustyeddy/tradeops/trade"
)

type scanner interface {
	Scan(dest ...any) error
}

func scanUpload(s scanner) (Upload, error) {
	var (
		u         Upload
		dt, strat string
		m         string
	)
	if err := s.Scan(&u.ID, &u.Source, &dt, &strat, &m, &u.Rows, &u.Stubs, &u.Created); err != nil {
		return Upload{}, err
	}
	u.DataType = trade.DataType(dt)
	u.Strategy = mapping.Strategy(strat)
	if err := json.Unmarshal([]byte(m), &u.Mapping); err != nil {
		return Upload{}, fmt.Errorf("decode mapping of %s: %w", u.ID, err)
	}
	return u, nil
}

const uploadColumns = `id, source, data_type, strategy, mapping, rows, stubs, created`

// GetUpload returns one upload batch by ID.
func (j *SQLite) GetUpload(ctx context.Context, uploadID string) (Upload, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+uploadColumns+` FROM uploads WHERE id = ?`, uploadID)
	u, err := scanUpload(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Upload{}, fmt.Errorf("upload %q: %w", uploadID, ErrNotFound)
	}
	return u, err
}

// ListUploads returns every upload, newest first.
func (j *SQLite) ListUploads(ctx context.Context) ([]Upload, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT `+uploadColumns+` FROM uploads ORDER BY created DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Upload
	for rows.Next() {
		u, err := scanUpload(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTrades returns the records of one upload in file order.
func (j *SQLite) ListTrades(ctx context.Context, uploadID string) ([]trade.Record, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT data FROM trades
		WHERE upload_id = ?
		ORDER BY seq ASC`, uploadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []trade.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTrade returns the most recently imported record with the trade ID.
func (j *SQLite) GetTrade(ctx context.Context, tradeID string) (trade.Record, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT t.data FROM trades t
		JOIN uploads u ON u.id = t.upload_id
		WHERE t.trade_id = ?
		ORDER BY u.created DESC, u.id DESC, t.seq ASC
		LIMIT 1`, tradeID)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return trade.Record{}, fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
	}
	return r, err
}

func scanRecord(s scanner) (trade.Record, error) {
	var data string
	if err := s.Scan(&data); err != nil {
		return trade.Record{}, err
	}
	var r trade.Record
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return trade.Record{}, fmt.Errorf("decode trade: %w", err)
	}
	return r, nil
}
