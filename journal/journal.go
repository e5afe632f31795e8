// Package journal records executed trades and portfolio valuations to an
// external sink. The ledger writes to it; nothing reads it back to rebuild
// ledger state.
package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeRecord is the journaled form of one executed trade.
type TradeRecord struct {
	TradeID  string
	Symbol   string
	Side     string
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Total    decimal.Decimal
	Time     time.Time
}

// ValuationSnapshot is the portfolio summary after a revaluation.
type ValuationSnapshot struct {
	Time       time.Time
	TotalValue decimal.Decimal
	TotalGain  decimal.Decimal
	DayChange  decimal.Decimal
	Positions  int
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordValuation(ValuationSnapshot) error
	Close() error
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error           { return nil }
func (Nop) RecordValuation(ValuationSnapshot) error { return nil }
func (Nop) Close() error                            { return nil }
