package desk

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rustyeddy/tradedesk/config"
	"github.com/rustyeddy/tradedesk/feed"
	"github.com/rustyeddy/tradedesk/journal"
	"github.com/rustyeddy/tradedesk/ledger"
	"github.com/rustyeddy/tradedesk/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testJournal struct {
	mu         sync.Mutex
	trades     int
	valuations int
	closed     bool
}

func (j *testJournal) RecordTrade(journal.TradeRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.trades++
	return nil
}

func (j *testJournal) RecordValuation(journal.ValuationSnapshot) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.valuations++
	return nil
}

func (j *testJournal) Close() error {
	j.closed = true
	return nil
}

func (j *testJournal) count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.valuations
}

func newDesk(t *testing.T, interval time.Duration) (*Desk, *testJournal) {
	t.Helper()

	j := &testJournal{}
	l, err := ledger.New(ledger.WithJournal(j))
	require.NoError(t, err)
	f := feed.New(market.DefaultListings(), feed.WithSeed(1), feed.WithInterval(interval))
	return New(l, f, j), j
}

func TestStartStop(t *testing.T) {
	t.Parallel()

	d, j := newDesk(t, 5*time.Millisecond)

	assert.ErrorIs(t, d.Stop(), ErrNotRunning)
	require.NoError(t, d.Start(context.Background()))
	assert.True(t, d.Running())
	assert.ErrorIs(t, d.Start(context.Background()), ErrRunning)

	assert.Eventually(t, func() bool { return j.count() >= 2 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, d.Stop())
	assert.False(t, d.Running())
	assert.ErrorIs(t, d.Stop(), ErrNotRunning)

	n := j.count()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, j.count(), "no revaluations after Stop")

	// restartable
	require.NoError(t, d.Start(context.Background()))
	require.NoError(t, d.Close())
	assert.True(t, j.closed)
}

func TestStartStopsWithParentContext(t *testing.T) {
	t.Parallel()

	d, _ := newDesk(t, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, d.Start(ctx))
	cancel()

	// Stop still reports a running desk and waits for the loop.
	require.NoError(t, d.Stop())
}

func TestTradeUsesLiveQuote(t *testing.T) {
	t.Parallel()

	d, _ := newDesk(t, time.Hour)

	res, err := d.Trade("aapl", decimal.NewFromInt(10), ledger.Buy)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", res.Trade.Symbol)
	assert.Equal(t, "175.43", res.Trade.Price.StringFixed(2))

	snap := d.Step()
	p, ok := d.Ledger().Position("AAPL")
	require.True(t, ok)
	assert.True(t, snap["AAPL"].Price.Equal(p.CurrentPrice))

	res, err = d.Trade("AAPL", decimal.NewFromInt(10), ledger.Sell)
	require.NoError(t, err)
	assert.True(t, res.Closed)
	assert.True(t, snap["AAPL"].Price.Equal(res.Trade.Price))
}

func TestTradeUnknownSymbol(t *testing.T) {
	t.Parallel()

	d, j := newDesk(t, time.Hour)
	_, err := d.Trade("ZZZZ", decimal.NewFromInt(1), ledger.Buy)
	assert.True(t, errors.Is(err, ErrUnknownSymbol))
	assert.Equal(t, 0, j.trades)
}

func TestTradeBlankSymbol(t *testing.T) {
	t.Parallel()

	d, j := newDesk(t, time.Hour)
	for _, sym := range []string{"", "   "} {
		_, err := d.Trade(sym, decimal.NewFromInt(1), ledger.Buy)
		assert.ErrorIs(t, err, ledger.ErrInvalidSymbol)
		assert.False(t, errors.Is(err, ErrUnknownSymbol))

		assert.ErrorIs(t, d.Watch(sym), ledger.ErrInvalidSymbol)
	}
	assert.Equal(t, 0, j.trades)
}

func TestTradeRejectedByLedger(t *testing.T) {
	t.Parallel()

	d, _ := newDesk(t, time.Hour)
	_, err := d.Trade("MSFT", decimal.NewFromInt(1), ledger.Sell)
	assert.ErrorIs(t, err, ledger.ErrInsufficientPosition)
}

func TestWatch(t *testing.T) {
	t.Parallel()

	d, _ := newDesk(t, time.Hour)

	require.NoError(t, d.Watch("nflx"))
	require.NoError(t, d.Watch("NFLX"))
	assert.ErrorIs(t, d.Watch("ZZZZ"), ErrUnknownSymbol)
	assert.Equal(t, []string{"NFLX"}, d.Ledger().Watchlist())

	w := d.Watched()
	require.Len(t, w, 1)
	assert.Equal(t, "Netflix, Inc.", w[0].Name)

	require.NoError(t, d.Unwatch("NFLX"))
	assert.Empty(t, d.Ledger().Watchlist())
}

func TestApplyQuotes(t *testing.T) {
	t.Parallel()

	d, _ := newDesk(t, time.Hour)
	_, err := d.Trade("TSLA", decimal.NewFromInt(2), ledger.Buy)
	require.NoError(t, err)

	d.ApplyQuotes(market.Snapshot{
		"TSLA": {Price: decimal.NewFromInt(200), PreviousPrice: decimal.NewFromInt(190), ChangePercent: decimal.RequireFromString("5.26")},
	})

	p, _ := d.Ledger().Position("TSLA")
	assert.Equal(t, "400.00", p.TotalValue.StringFixed(2))
	assert.Equal(t, "20.00", p.DayChange.StringFixed(2))

	q, err := d.Feed().Quote("TSLA")
	require.NoError(t, err)
	assert.True(t, q.Price.Equal(decimal.NewFromInt(200)))
}

func TestOverview(t *testing.T) {
	t.Parallel()

	d, _ := newDesk(t, time.Hour)
	o := d.Overview()
	assert.Equal(t, 5, o.Advancers)
	assert.Equal(t, 3, o.Decliners)
	assert.Len(t, o.TopMovers, 3)
}

func TestOpenDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Feed.Seed = 42
	d, err := Open(cfg)
	require.NoError(t, err)
	defer d.Close()

	ps := d.Ledger().Positions()
	require.Len(t, ps, 3)
	for _, p := range ps {
		assert.False(t, p.Stale, "%s valued against the opening quote", p.Symbol)
		assert.NotEmpty(t, p.Name)
	}
	aapl, _ := d.Ledger().Position("AAPL")
	assert.Equal(t, "1754.30", aapl.TotalValue.StringFixed(2))
	assert.Equal(t, []string{"GOOGL", "AMZN", "META", "NFLX"}, d.Ledger().Watchlist())
	assert.Equal(t, 3*time.Second, d.Feed().Interval())
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Feed.Volatility = 0
	_, err := Open(cfg)
	assert.Error(t, err)
}

func TestOpenWithSQLiteJournal(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Journal = config.JournalConfig{Type: "sqlite", DBPath: filepath.Join(t.TempDir(), "desk.db")}

	d, err := Open(cfg)
	require.NoError(t, err)
	res, err := d.Trade("GOOGL", decimal.NewFromInt(3), ledger.Buy)
	require.NoError(t, err)
	require.NoError(t, d.Close())

	j, err := journal.NewSQLite(cfg.Journal.DBPath)
	require.NoError(t, err)
	defer j.Close()

	rec, err := j.GetTrade(res.Trade.ID)
	require.NoError(t, err)
	assert.Equal(t, "GOOGL", rec.Symbol)
	assert.Equal(t, "buy", rec.Side)
}

func TestOpenJournal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	j, err := OpenJournal(config.JournalConfig{})
	require.NoError(t, err)
	assert.IsType(t, journal.Nop{}, j)

	j, err = OpenJournal(config.JournalConfig{Type: "csv", TradesFile: filepath.Join(dir, "t.csv"), ValuationsFile: filepath.Join(dir, "v.csv")})
	require.NoError(t, err)
	assert.IsType(t, &journal.CSV{}, j)
	require.NoError(t, j.Close())

	_, err = OpenJournal(config.JournalConfig{Type: "kafka"})
	assert.Error(t, err)
}
