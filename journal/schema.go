package journal

const Schema = `
CREATE TABLE IF NOT EXISTS uploads (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	data_type TEXT NOT NULL,
	strategy TEXT NOT NULL,
	mapping TEXT NOT NULL,
	rows INTEGER NOT NULL,
	stubs INTEGER NOT NULL,
	created DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	upload_id TEXT NOT NULL REFERENCES uploads(id),
	seq INTEGER NOT NULL,
	trade_id TEXT NOT NULL,
	trade_date TEXT NOT NULL,
	counterparty TEXT NOT NULL,
	data TEXT NOT NULL,
	PRIMARY KEY (upload_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_trades_trade_id ON trades(trade_id);
`
