// Package feed is the simulated price feed. Every tick moves each listed
// stock by a bounded random step and hands the resulting snapshot to its
// consumer.
package feed

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rustyeddy/tradedesk/market"
	"github.com/shopspring/decimal"
)

const (
	DefaultInterval       = 3 * time.Second
	DefaultVolatility     = 0.01
	DefaultAlertThreshold = 0.5
)

var hundred = decimal.NewFromInt(100)

// Alert reports a tick whose change percent jumped by more than the alert
// threshold.
type Alert struct {
	Symbol        string
	Price         decimal.Decimal
	ChangePercent decimal.Decimal
	Up            bool
	Time          time.Time
}

func (a Alert) String() string {
	dir := "Down"
	if a.Up {
		dir = "Up"
	}
	sign := ""
	if a.ChangePercent.IsPositive() {
		sign = "+"
	}
	return fmt.Sprintf("%s %s to $%s (%s%s%%)", a.Symbol, dir, a.Price.StringFixed(2), sign, a.ChangePercent.StringFixed(2))
}

type Feed struct {
	mu         sync.Mutex
	stocks     []market.Stock
	quotes     *market.QuoteStore
	rng        *rand.Rand
	interval   time.Duration
	volatility float64
	threshold  decimal.Decimal
	onAlert    func(Alert)
	now        func() time.Time
}

type Option func(*Feed)

func WithInterval(d time.Duration) Option {
	return func(f *Feed) {
		if d > 0 {
			f.interval = d
		}
	}
}

// WithVolatility sets the largest fractional move of a single tick.
func WithVolatility(v float64) Option {
	return func(f *Feed) {
		if v > 0 {
			f.volatility = v
		}
	}
}

func WithSeed(seed int64) Option {
	return func(f *Feed) { f.rng = rand.New(rand.NewSource(seed)) }
}

// WithAlertThreshold is in percentage points of change percent.
func WithAlertThreshold(pp float64) Option {
	return func(f *Feed) { f.threshold = decimal.NewFromFloat(pp) }
}

func WithAlertHandler(h func(Alert)) Option {
	return func(f *Feed) { f.onAlert = h }
}

func WithClock(now func() time.Time) Option {
	return func(f *Feed) {
		if now != nil {
			f.now = now
		}
	}
}

func New(listings []market.Listing, opts ...Option) *Feed {
	f := &Feed{
		quotes:     market.NewQuoteStore(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		interval:   DefaultInterval,
		volatility: DefaultVolatility,
		threshold:  decimal.NewFromFloat(DefaultAlertThreshold),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	for _, l := range listings {
		f.stocks = append(f.stocks, l.Stock)
		q := l.Quote
		q.Symbol = l.Symbol
		f.quotes.Set(q)
	}
	return f
}

func (f *Feed) Interval() time.Duration { return f.interval }

// Tick advances every stock one step and returns the new snapshot.
func (f *Feed) Tick() market.Snapshot {
	f.mu.Lock()

	now := f.now()
	var alerts []Alert
	for _, s := range f.stocks {
		old, err := f.quotes.Quote(s.Symbol)
		if err != nil {
			continue
		}
		q := f.step(old, now)
		f.quotes.Set(q)

		if q.ChangePercent.Sub(old.ChangePercent).Abs().GreaterThan(f.threshold) && f.rng.Float64() > 0.7 {
			alerts = append(alerts, Alert{
				Symbol:        q.Symbol,
				Price:         q.Price,
				ChangePercent: q.ChangePercent,
				Up:            q.ChangePercent.GreaterThan(old.ChangePercent),
				Time:          now,
			})
		}
	}
	snap := f.quotes.Snapshot()
	onAlert := f.onAlert
	f.mu.Unlock()

	if onAlert != nil {
		for _, a := range alerts {
			onAlert(a)
		}
	}
	return snap
}

// step moves one quote. Change percent is measured against the previous
// price the quote carried before this step.
func (f *Feed) step(old market.Quote, now time.Time) market.Quote {
	move := decimal.NewFromFloat((f.rng.Float64() - 0.5) * f.volatility * 2)
	price := old.Price.Add(old.Price.Mul(move)).Round(2)
	if !price.IsPositive() {
		price = decimal.New(1, -2)
	}

	var pct decimal.Decimal
	if !old.PreviousPrice.IsZero() {
		pct = price.Sub(old.PreviousPrice).Div(old.PreviousPrice).Mul(hundred).Round(2)
	}

	return market.Quote{
		Symbol:        old.Symbol,
		Price:         price,
		PreviousPrice: old.Price,
		ChangePercent: pct,
		Volume:        old.Volume + f.rng.Int63n(10000),
		Time:          now,
	}
}

// Run ticks every interval and passes each snapshot to handle until ctx is
// cancelled. The ticker is released before Run returns.
func (f *Feed) Run(ctx context.Context, handle func(market.Snapshot)) error {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			snap := f.Tick()
			if handle != nil {
				handle(snap)
			}
		}
	}
}

// Set overwrites quotes. Symbols the feed does not list yet are added.
func (f *Feed) Set(s market.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sym := range s.Symbols() {
		if _, err := f.quotes.Quote(sym); err != nil {
			f.stocks = append(f.stocks, market.Stock{Symbol: sym})
		}
	}
	f.quotes.Apply(s)
}

func (f *Feed) Quote(symbol string) (market.Quote, error) {
	q, err := f.quotes.Quote(symbol)
	if err != nil {
		return market.Quote{}, fmt.Errorf("quote %s: %w", symbol, err)
	}
	return q, nil
}

func (f *Feed) Snapshot() market.Snapshot {
	return f.quotes.Snapshot()
}

func (f *Feed) Stock(symbol string) (market.Stock, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.stocks {
		if s.Symbol == symbol {
			return s, true
		}
	}
	return market.Stock{}, false
}

// Listings returns every stock with its latest quote, in listing order.
func (f *Feed) Listings() []market.Listing {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]market.Listing, 0, len(f.stocks))
	for _, s := range f.stocks {
		q, _ := f.quotes.Quote(s.Symbol)
		out = append(out, market.Listing{Stock: s, Quote: q})
	}
	return out
}

// Chart generates a mock price series for symbol ending near its live price.
func (f *Feed) Chart(symbol string, r Range) ([]Point, error) {
	q, err := f.Quote(symbol)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return Chart(r, q.Price, f.rng, f.now())
}
