package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// ParseSide accepts buy or sell in any case.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	}
	return "", fmt.Errorf("parse side %q: %w", s, ErrInvalidSide)
}

// Position is one held symbol. Shares and AveragePrice are the stored state;
// every other numeric field is derived from them and the latest quote.
type Position struct {
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name,omitempty"`
	Shares       decimal.Decimal `json:"shares"`
	AveragePrice decimal.Decimal `json:"average_price"`

	CurrentPrice     decimal.Decimal `json:"current_price"`
	TotalValue       decimal.Decimal `json:"total_value"`
	TotalGain        decimal.Decimal `json:"total_gain"`
	TotalGainPercent decimal.Decimal `json:"total_gain_percent"`
	DayChange        decimal.Decimal `json:"day_change"`
	DayChangePercent decimal.Decimal `json:"day_change_percent"`

	// Stale is set when the last revaluation carried no quote for Symbol.
	Stale    bool      `json:"stale"`
	QuotedAt time.Time `json:"quoted_at"`
}

// CostBasis is what the held shares cost.
func (p Position) CostBasis() decimal.Decimal {
	return p.Shares.Mul(p.AveragePrice)
}

type Trade struct {
	ID       string          `json:"id"`
	Symbol   string          `json:"symbol"`
	Side     Side            `json:"side"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
	Time     time.Time       `json:"time"`
}

// Result is the outcome of a successful trade. When Closed is true the
// position was removed and Position holds its final state with zero shares.
type Result struct {
	Trade    Trade    `json:"trade"`
	Position Position `json:"position"`
	Closed   bool     `json:"closed"`
}

// Summary aggregates every open position.
type Summary struct {
	TotalValue       decimal.Decimal `json:"total_value"`
	TotalGain        decimal.Decimal `json:"total_gain"`
	TotalGainPercent decimal.Decimal `json:"total_gain_percent"`
	DayChange        decimal.Decimal `json:"day_change"`
	DayChangePercent decimal.Decimal `json:"day_change_percent"`
	Positions        int             `json:"positions"`
}

// TradeListener is notified after each successful trade, outside the
// ledger lock, so it may call back into the ledger.
type TradeListener interface {
	OnTrade(Result)
}

// ListenerFunc adapts a function to TradeListener.
type ListenerFunc func(Result)

func (f ListenerFunc) OnTrade(r Result) { f(r) }
