// Package desk runs a trading session: one ledger revalued by one price feed,
// with user trades priced from the feed's live quotes.
package desk

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/rustyeddy/tradedesk/feed"
	"github.com/rustyeddy/tradedesk/journal"
	"github.com/rustyeddy/tradedesk/ledger"
	"github.com/rustyeddy/tradedesk/market"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownSymbol = errors.New("unknown symbol")
	ErrRunning       = errors.New("desk already running")
	ErrNotRunning    = errors.New("desk not running")
)

type Desk struct {
	ledger  *ledger.Ledger
	feed    *feed.Feed
	journal journal.Journal

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New wires an existing ledger and feed. j is closed by Close and may be nil.
func New(l *ledger.Ledger, f *feed.Feed, j journal.Journal) *Desk {
	if j == nil {
		j = journal.Nop{}
	}
	return &Desk{ledger: l, feed: f, journal: j}
}

func (d *Desk) Ledger() *ledger.Ledger { return d.ledger }
func (d *Desk) Feed() *feed.Feed       { return d.feed }

// Start runs the feed loop in the background, revaluing the ledger on every
// tick until Stop is called or ctx is cancelled.
func (d *Desk) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		return ErrRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	d.cancel = cancel
	d.done = done

	go func() {
		defer close(done)
		err := d.feed.Run(ctx, d.ledger.Revalue)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("desk: feed stopped: %v", err)
		}
	}()
	return nil
}

// Stop cancels the feed loop and waits for it to exit.
func (d *Desk) Stop() error {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel, d.done = nil, nil
	d.mu.Unlock()

	if cancel == nil {
		return ErrNotRunning
	}
	cancel()
	<-done
	return nil
}

func (d *Desk) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancel != nil
}

// Close stops the feed if it is running and closes the journal.
func (d *Desk) Close() error {
	if err := d.Stop(); err != nil && !errors.Is(err, ErrNotRunning) {
		return err
	}
	return d.journal.Close()
}

// Trade executes at the symbol's live quote.
func (d *Desk) Trade(symbol string, quantity decimal.Decimal, side ledger.Side) (ledger.Result, error) {
	sym, err := ledger.NormalizeSymbol(symbol)
	if err != nil {
		return ledger.Result{}, fmt.Errorf("trade: %w", err)
	}
	q, err := d.feed.Quote(sym)
	if err != nil {
		return ledger.Result{}, fmt.Errorf("trade %s: %w", sym, ErrUnknownSymbol)
	}
	return d.ledger.ExecuteTrade(sym, q.Price, quantity, side)
}

func (d *Desk) Watch(symbol string) error {
	sym, err := d.known(symbol)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return d.ledger.AddToWatchlist(sym)
}

// Unwatch accepts symbols the feed no longer lists so stale entries can be
// cleared.
func (d *Desk) Unwatch(symbol string) error {
	return d.ledger.RemoveFromWatchlist(symbol)
}

func (d *Desk) known(symbol string) (string, error) {
	sym, err := ledger.NormalizeSymbol(symbol)
	if err != nil {
		return "", err
	}
	if _, ok := d.feed.Stock(sym); !ok {
		return "", fmt.Errorf("%q: %w", symbol, ErrUnknownSymbol)
	}
	return sym, nil
}

// Step ticks the feed once and revalues the ledger with the result.
func (d *Desk) Step() market.Snapshot {
	snap := d.feed.Tick()
	d.ledger.Revalue(snap)
	return snap
}

// ApplyQuotes injects externally sourced quotes, then revalues.
func (d *Desk) ApplyQuotes(s market.Snapshot) {
	d.feed.Set(s)
	d.ledger.Revalue(d.feed.Snapshot())
}

// Overview summarizes the feed's current quotes.
func (d *Desk) Overview() market.MarketOverview {
	snap := d.feed.Snapshot()
	quotes := make([]market.Quote, 0, len(snap))
	for _, sym := range snap.Symbols() {
		quotes = append(quotes, snap[sym])
	}
	return market.Overview(quotes)
}

// Watched returns the watchlist with live quotes, skipping symbols the feed
// does not list.
func (d *Desk) Watched() []market.Listing {
	var out []market.Listing
	for _, sym := range d.ledger.Watchlist() {
		s, ok := d.feed.Stock(sym)
		if !ok {
			continue
		}
		q, err := d.feed.Quote(sym)
		if err != nil {
			continue
		}
		out = append(out, market.Listing{Stock: s, Quote: q})
	}
	return out
}
