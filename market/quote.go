// Package market holds the quote data model shared by the feed, the ledger
// and the presentation layer.
package market

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Stock is the static description of a listed symbol.
type Stock struct {
	Symbol    string `json:"symbol" yaml:"symbol"`
	Name      string `json:"name" yaml:"name"`
	Sector    string `json:"sector" yaml:"sector"`
	MarketCap int64  `json:"market_cap" yaml:"market_cap"`
}

// Quote is the live price state of one symbol.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	PreviousPrice decimal.Decimal `json:"previous_price"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	Volume        int64           `json:"volume"`
	Time          time.Time       `json:"time"`
}

// Change is the absolute move from the previous price.
func (q Quote) Change() decimal.Decimal {
	return q.Price.Sub(q.PreviousPrice)
}

// Up reports whether the quote is trading above its previous price.
func (q Quote) Up() bool {
	return q.ChangePercent.IsPositive()
}

// Listing pairs a stock with its latest quote.
type Listing struct {
	Stock
	Quote Quote `json:"quote"`
}

// Snapshot maps symbol to quote. A snapshot handed out by the feed is a copy
// and is safe to read without locking.
type Snapshot map[string]Quote

// Symbols returns the snapshot's symbols in sorted order.
func (s Snapshot) Symbols() []string {
	out := make([]string, 0, len(s))
	for sym := range s {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of s.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
