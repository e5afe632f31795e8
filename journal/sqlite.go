package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
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
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, symbol, side, quantity, price, total, time)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Symbol, t.Side,
		t.Quantity.String(), t.Price.String(), t.Total.String(), t.Time.UTC(),
	)
	return err
}

func (j *SQLite) RecordValuation(v ValuationSnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO valuations
		(time, total_value, total_gain, day_change, positions)
		VALUES (?, ?, ?, ?, ?)`,
		v.Time.UTC(), v.TotalValue.String(), v.TotalGain.String(), v.DayChange.String(), v.Positions,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
