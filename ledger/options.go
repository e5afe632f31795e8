package ledger

import (
	"fmt"
	"time"

	"github.com/rustyeddy/tradedesk/journal"
	"github.com/rustyeddy/tradedesk/market"
	"github.com/shopspring/decimal"
)

type Option func(*Ledger) error

func WithJournal(j journal.Journal) Option {
	return func(l *Ledger) error {
		if j != nil {
			l.journal = j
		}
		return nil
	}
}

// WithClock replaces time.Now for trade and valuation timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) error {
		if now != nil {
			l.now = now
		}
		return nil
	}
}

func WithListener(tl TradeListener) Option {
	return func(l *Ledger) error {
		l.listener = tl
		return nil
	}
}

// WithCatalog supplies display names for positions.
func WithCatalog(c market.Catalog) Option {
	return func(l *Ledger) error {
		l.catalog = c
		return nil
	}
}

func WithWatchlist(symbols ...string) Option {
	return func(l *Ledger) error {
		for _, s := range symbols {
			sym, err := NormalizeSymbol(s)
			if err != nil {
				return fmt.Errorf("watchlist: %w", err)
			}
			l.watchLocked(sym)
		}
		return nil
	}
}

// WithPosition seeds an opening position without recording a trade. Until
// the first quote for symbol arrives it is valued at its average price and
// marked stale.
func WithPosition(symbol string, shares, averagePrice decimal.Decimal) Option {
	return func(l *Ledger) error {
		sym, err := NormalizeSymbol(symbol)
		if err != nil {
			return fmt.Errorf("seed position: %w", err)
		}
		if !shares.IsPositive() {
			return fmt.Errorf("seed position %s: %w", sym, ErrInvalidQuantity)
		}
		if !averagePrice.IsPositive() {
			return fmt.Errorf("seed position %s: %w", sym, ErrInvalidPrice)
		}
		if _, ok := l.positions[sym]; ok {
			return fmt.Errorf("seed position %s: %w", sym, ErrPositionExists)
		}

		p := &Position{Symbol: sym, Shares: shares, AveragePrice: averagePrice}
		value(p, standIn(sym, averagePrice))
		p.Stale = true
		l.positions[sym] = p
		l.order = append(l.order, sym)
		return nil
	}
}
