package replay

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rustyeddy/tradedesk/desk"
	"github.com/rustyeddy/tradedesk/feed"
	"github.com/rustyeddy/tradedesk/ledger"
	"github.com/rustyeddy/tradedesk/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDesk(t *testing.T, clock *Clock) *desk.Desk {
	t.Helper()

	opts := []ledger.Option{}
	if clock != nil {
		opts = append(opts, ledger.WithClock(clock.Now))
	}
	l, err := ledger.New(opts...)
	require.NoError(t, err)
	f := feed.New(market.DefaultListings(), feed.WithSeed(1))
	return desk.New(l, f, nil)
}

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quotes.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestReplayBuyRevalueSell(t *testing.T) {
	t.Parallel()

	csv := `time,symbol,price,previous_price,change_percent,volume,event,arg1,arg2
2024-01-02T14:30:00Z,AAPL,155.50,155.50,0,1000,BUY,AAPL,10
2024-01-02T14:30:03Z,AAPL,160.00,155.50,2.89,2000,BUY,AAPL,5
2024-01-02T14:30:06Z,AAPL,162.00,160.00,1.25,3000,,,
2024-01-02T14:30:09Z,MSFT,321.87,325.12,-1.00,500,WATCH,msft,
2024-01-02T14:30:12Z,AAPL,165.00,162.00,1.85,4000,SELL,AAPL,15
`
	clock := &Clock{}
	d := newDesk(t, clock)

	st, err := CSV(context.Background(), writeCSV(t, csv), d, Options{Clock: clock})
	require.NoError(t, err)
	assert.Equal(t, Stats{Rows: 5, Events: 4}, st)

	l := d.Ledger()
	_, ok := l.Position("AAPL")
	assert.False(t, ok, "selling every share closes the position")
	assert.Equal(t, []string{"MSFT"}, l.Watchlist())

	trades := l.Trades()
	require.Len(t, trades, 3)
	assert.Equal(t, "2475.00", trades[0].Total.StringFixed(2))
	assert.Equal(t, "800.00", trades[1].Total.StringFixed(2))
	assert.Equal(t, "1555.00", trades[2].Total.StringFixed(2))
	assert.Equal(t, time.Date(2024, 1, 2, 14, 30, 12, 0, time.UTC), trades[0].Time)

	q, err := d.Feed().Quote("AAPL")
	require.NoError(t, err)
	assert.Equal(t, "165.00", q.Price.StringFixed(2))
	assert.Equal(t, int64(4000), q.Volume)
}

func TestReplayRevaluesHeldPosition(t *testing.T) {
	t.Parallel()

	csv := `2024-01-02T14:30:00Z,TSLA,200,200,0,1,BUY,TSLA,2
2024-01-02T14:30:03Z,TSLA,210,200,5,2
`
	d := newDesk(t, nil)
	_, err := Read(context.Background(), strings.NewReader(csv), d, Options{})
	require.NoError(t, err)

	p, ok := d.Ledger().Position("TSLA")
	require.True(t, ok)
	assert.Equal(t, "420.00", p.TotalValue.StringFixed(2))
	assert.Equal(t, "20.00", p.TotalGain.StringFixed(2))
	assert.Equal(t, "5", p.DayChangePercent.String())
}

func TestReplayRejectedEventsContinue(t *testing.T) {
	t.Parallel()

	csv := `time,symbol,price,previous_price,change_percent,volume,event,arg1,arg2
2024-01-02T14:30:00Z,AAPL,150,150,0,1,SELL,AAPL,1
2024-01-02T14:30:01Z,AAPL,150,150,0,1,HOLD,AAPL,1
2024-01-02T14:30:02Z,AAPL,150,150,0,1,BUY,AAPL,0
2024-01-02T14:30:03Z,AAPL,150,150,0,1,BUY,AAPL,2
`
	var lines []int
	d := newDesk(t, nil)
	st, err := Read(context.Background(), strings.NewReader(csv), d, Options{
		OnReject: func(line int, err error) { lines = append(lines, line) },
	})
	require.NoError(t, err)
	assert.Equal(t, Stats{Rows: 4, Events: 4, Rejected: 3}, st)
	assert.Equal(t, []int{2, 3, 4}, lines)
	assert.Len(t, d.Ledger().Trades(), 1)
}

func TestReplayStrictStopsAtRejection(t *testing.T) {
	t.Parallel()

	csv := `2024-01-02T14:30:00Z,AAPL,150,150,0,1,SELL,AAPL,1
2024-01-02T14:30:01Z,AAPL,150,150,0,1,BUY,AAPL,2
`
	d := newDesk(t, nil)
	st, err := Read(context.Background(), strings.NewReader(csv), d, Options{Strict: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrInsufficientPosition)
	assert.Contains(t, err.Error(), "line 1")
	assert.Equal(t, 1, st.Rows)
	assert.Empty(t, d.Ledger().Trades())
}

func TestReplayBadRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		row  string
		want string
	}{
		{"short row", "2024-01-02T14:30:00Z,AAPL,150", "need at least 6 cols"},
		{"bad time", "yesterday,AAPL,150,150,0,1", "bad time"},
		{"bad price", "2024-01-02T14:30:00Z,AAPL,abc,150,0,1", "bad price"},
		{"zero price", "2024-01-02T14:30:00Z,AAPL,0,150,0,1", "price must be positive"},
		{"bad volume", "2024-01-02T14:30:00Z,AAPL,150,150,0,many", "bad volume"},
		{"empty symbol", "2024-01-02T14:30:00Z,,150,150,0,1", "symbol is empty"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newDesk(t, nil)
			_, err := Read(context.Background(), strings.NewReader(tt.row+"\n"), d, Options{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReplayUnlistedSymbolBecomesTradable(t *testing.T) {
	t.Parallel()

	csv := `2024-01-02T14:30:00Z,IBM,150,148,1.35,100,BUY,IBM,3
2024-01-02T14:30:01Z,IBM,151,150,2.03,100,WATCH,IBM,
`
	d := newDesk(t, nil)
	_, err := Read(context.Background(), strings.NewReader(csv), d, Options{Strict: true})
	require.NoError(t, err)

	p, ok := d.Ledger().Position("IBM")
	require.True(t, ok)
	assert.Equal(t, "453.00", p.TotalValue.StringFixed(2))
	assert.True(t, d.Ledger().Watching("IBM"))
}

func TestReplayCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := newDesk(t, nil)
	_, err := Read(ctx, strings.NewReader("2024-01-02T14:30:00Z,AAPL,150,150,0,1\n"), d, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCSVMissingFile(t *testing.T) {
	t.Parallel()

	_, err := CSV(context.Background(), "/nonexistent/quotes.csv", newDesk(t, nil), Options{})
	assert.Error(t, err)
}

func TestClock(t *testing.T) {
	t.Parallel()

	var c Clock
	assert.WithinDuration(t, time.Now(), c.Now(), time.Minute)

	ts := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	c.Set(ts)
	assert.Equal(t, ts, c.Now())
}
