// Package ledger is the portfolio ledger: open positions, the append-only
// trade history, the watchlist, and the valuation of positions against the
// latest quotes.
//
// All mutations are serialized by one mutex, so timer-driven revaluations and
// user trades are applied one at a time in arrival order.
package ledger

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/rustyeddy/tradedesk/internal/id"
	"github.com/rustyeddy/tradedesk/journal"
	"github.com/rustyeddy/tradedesk/market"
	"github.com/shopspring/decimal"
)

type Ledger struct {
	mu        sync.Mutex
	positions map[string]*Position
	order     []string // insertion order of live positions
	trades    []Trade  // oldest first
	watchlist []string
	quotes    map[string]market.Quote

	catalog  market.Catalog
	journal  journal.Journal
	listener TradeListener
	now      func() time.Time
}

func New(opts ...Option) (*Ledger, error) {
	l := &Ledger{
		positions: make(map[string]*Position),
		quotes:    make(map[string]market.Quote),
		journal:   journal.Nop{},
		now:       time.Now,
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	for _, p := range l.positions {
		p.Name = l.catalog.Name(p.Symbol)
	}
	return l, nil
}

// NormalizeSymbol trims and upper-cases symbol. A blank symbol is
// ErrInvalidSymbol.
func NormalizeSymbol(symbol string) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if sym == "" {
		return "", ErrInvalidSymbol
	}
	return sym, nil
}

// ExecuteTrade buys or sells quantity shares of symbol at price. The caller
// supplies the price, normally the live quote. A rejected trade leaves the
// ledger untouched.
func (l *Ledger) ExecuteTrade(symbol string, price, quantity decimal.Decimal, side Side) (Result, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return Result{}, fmt.Errorf("execute trade: %w", err)
	}
	if !quantity.IsPositive() {
		return Result{}, fmt.Errorf("execute trade %s: %w", sym, ErrInvalidQuantity)
	}
	if !price.IsPositive() {
		return Result{}, fmt.Errorf("execute trade %s: %w", sym, ErrInvalidPrice)
	}
	if side != Buy && side != Sell {
		return Result{}, fmt.Errorf("execute trade %s: %w", sym, ErrInvalidSide)
	}

	l.mu.Lock()

	var res Result
	switch side {
	case Buy:
		res = l.buyLocked(sym, price, quantity)
	case Sell:
		res, err = l.sellLocked(sym, price, quantity)
		if err != nil {
			l.mu.Unlock()
			return Result{}, err
		}
	}

	now := l.now()
	res.Trade = Trade{
		ID:       id.New(now),
		Symbol:   sym,
		Side:     side,
		Price:    price,
		Quantity: quantity,
		Total:    price.Mul(quantity),
		Time:     now,
	}
	l.trades = append(l.trades, res.Trade)

	if err := l.journal.RecordTrade(journal.TradeRecord{
		TradeID:  res.Trade.ID,
		Symbol:   res.Trade.Symbol,
		Side:     string(res.Trade.Side),
		Quantity: res.Trade.Quantity,
		Price:    res.Trade.Price,
		Total:    res.Trade.Total,
		Time:     res.Trade.Time,
	}); err != nil {
		log.Printf("ledger: journal trade %s: %v", res.Trade.ID, err)
	}

	listener := l.listener
	l.mu.Unlock()

	if listener != nil {
		listener.OnTrade(res)
	}
	return res, nil
}

func (l *Ledger) buyLocked(sym string, price, quantity decimal.Decimal) Result {
	p, ok := l.positions[sym]
	if !ok {
		p = &Position{
			Symbol:       sym,
			Name:         l.catalog.Name(sym),
			Shares:       quantity,
			AveragePrice: price,
		}
		l.positions[sym] = p
		l.order = append(l.order, sym)
	} else {
		shares := p.Shares.Add(quantity)
		cost := p.Shares.Mul(p.AveragePrice).Add(quantity.Mul(price))
		p.AveragePrice = cost.Div(shares)
		p.Shares = shares
	}
	l.valueLocked(p, price)
	return Result{Position: *p}
}

func (l *Ledger) sellLocked(sym string, price, quantity decimal.Decimal) (Result, error) {
	p, ok := l.positions[sym]
	if !ok {
		return Result{}, fmt.Errorf("sell %s: %w", sym, ErrInsufficientPosition)
	}
	if quantity.GreaterThan(p.Shares) {
		return Result{}, fmt.Errorf("sell %s %s, holding %s: %w",
			quantity, sym, p.Shares, ErrInsufficientShares)
	}

	p.Shares = p.Shares.Sub(quantity)
	l.valueLocked(p, price)
	if !p.Shares.IsZero() {
		return Result{Position: *p}, nil
	}

	delete(l.positions, sym)
	for i, s := range l.order {
		if s == sym {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return Result{Position: *p, Closed: true}, nil
}

// valueLocked values p against its latest known quote, falling back to the
// execution price when the symbol has never been quoted.
func (l *Ledger) valueLocked(p *Position, price decimal.Decimal) {
	q, ok := l.quotes[p.Symbol]
	if !ok {
		q = standIn(p.Symbol, price)
	}
	value(p, q)
}

// Revalue applies a quote snapshot. Every position with a quote in s is
// recomputed; positions without one keep their last values and are marked
// stale. Shares and average prices are never changed.
func (l *Ledger) Revalue(s market.Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for sym, q := range s {
		q.Symbol = sym
		l.quotes[sym] = q
	}

	for _, sym := range l.order {
		p := l.positions[sym]
		q, ok := s[sym]
		if !ok {
			p.Stale = true
			continue
		}
		q.Symbol = sym
		value(p, q)
	}

	sum := summarize(l.positionsLocked())
	if err := l.journal.RecordValuation(journal.ValuationSnapshot{
		Time:       l.now(),
		TotalValue: sum.TotalValue,
		TotalGain:  sum.TotalGain,
		DayChange:  sum.DayChange,
		Positions:  sum.Positions,
	}); err != nil {
		log.Printf("ledger: journal valuation: %v", err)
	}
}

// AddToWatchlist is a no-op when symbol is already watched.
func (l *Ledger) AddToWatchlist(symbol string) error {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.watchLocked(sym)
	return nil
}

// RemoveFromWatchlist is a no-op when symbol is not watched.
func (l *Ledger) RemoveFromWatchlist(symbol string) error {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return fmt.Errorf("unwatch: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, s := range l.watchlist {
		if s == sym {
			l.watchlist = append(l.watchlist[:i], l.watchlist[i+1:]...)
			return nil
		}
	}
	return nil
}

func (l *Ledger) watchLocked(sym string) {
	for _, s := range l.watchlist {
		if s == sym {
			return
		}
	}
	l.watchlist = append(l.watchlist, sym)
}

func (l *Ledger) Watching(symbol string) bool {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.watchlist {
		if s == sym {
			return true
		}
	}
	return false
}

// Watchlist returns the watched symbols in the order they were added.
func (l *Ledger) Watchlist() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.watchlist...)
}

// Positions returns copies of the open positions in the order they were opened.
func (l *Ledger) Positions() []Position {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.positionsLocked()
}

func (l *Ledger) positionsLocked() []Position {
	out := make([]Position, 0, len(l.order))
	for _, sym := range l.order {
		out = append(out, *l.positions[sym])
	}
	return out
}

func (l *Ledger) Position(symbol string) (Position, bool) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return Position{}, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.positions[sym]
	if !ok {
		return Position{}, false
	}
	return *p, true
}

// Trades returns the trade history, newest first.
func (l *Ledger) Trades() []Trade {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Trade, len(l.trades))
	for i, t := range l.trades {
		out[len(l.trades)-1-i] = t
	}
	return out
}

func (l *Ledger) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return summarize(l.positionsLocked())
}
