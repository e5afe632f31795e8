package desk

import (
	"fmt"
	"log"

	"github.com/rustyeddy/tradedesk/config"
	"github.com/rustyeddy/tradedesk/feed"
	"github.com/rustyeddy/tradedesk/journal"
	"github.com/rustyeddy/tradedesk/ledger"
	"github.com/rustyeddy/tradedesk/market"
)

// Open builds a desk over the default listings from cfg. The seeded
// positions are valued against the opening quotes before Open returns.
// extra options are applied to the ledger after the configured ones.
func Open(cfg *config.Config, extra ...ledger.Option) (*Desk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("open desk: %w", err)
	}

	j, err := OpenJournal(cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("open desk: %w", err)
	}

	listings := market.DefaultListings()
	interval, _ := cfg.Feed.ParseInterval()
	fopts := []feed.Option{
		feed.WithInterval(interval),
		feed.WithVolatility(cfg.Feed.Volatility),
		feed.WithAlertThreshold(cfg.Feed.AlertThreshold),
		feed.WithAlertHandler(func(a feed.Alert) {
			log.Printf("alert: %s", a)
		}),
	}
	if cfg.Feed.Seed != 0 {
		fopts = append(fopts, feed.WithSeed(cfg.Feed.Seed))
	}
	f := feed.New(listings, fopts...)

	lopts := []ledger.Option{
		ledger.WithJournal(j),
		ledger.WithCatalog(market.NewCatalog(listings)),
		ledger.WithListener(ledger.ListenerFunc(logTrade)),
		ledger.WithWatchlist(cfg.Portfolio.Watchlist...),
	}
	for _, p := range cfg.Portfolio.Positions {
		lopts = append(lopts, ledger.WithPosition(p.Symbol, p.Shares, p.AveragePrice))
	}
	lopts = append(lopts, extra...)
	l, err := ledger.New(lopts...)
	if err != nil {
		j.Close()
		return nil, fmt.Errorf("open desk: %w", err)
	}

	l.Revalue(f.Snapshot())
	return New(l, f, j), nil
}

// OpenJournal returns the sink named by cfg.Type.
func OpenJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch cfg.Type {
	case "", "none":
		return journal.Nop{}, nil
	case "csv":
		j, err := journal.NewCSV(cfg.TradesFile, cfg.ValuationsFile)
		if err != nil {
			return nil, err
		}
		return j, nil
	case "sqlite":
		j, err := journal.NewSQLite(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return j, nil
	}
	return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
}

func logTrade(r ledger.Result) {
	t := r.Trade
	log.Printf("trade %s: %s %s %s @ %s", t.ID, t.Side, t.Quantity, t.Symbol, t.Price.StringFixed(2))
}
