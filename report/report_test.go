package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rustyeddy/tradedesk/journal"
	"github.com/rustyeddy/tradedesk/ledger"
	"github.com/rustyeddy/tradedesk/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestMoney(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want, signed string
	}{
		{"1555", "$1,555.00", "+$1,555.00"},
		{"0", "$0.00", "$0.00"},
		{"-22.2", "-$22.20", "-$22.20"},
		{"157.005", "$157.01", "+$157.01"},
		{"1234567.891", "$1,234,567.89", "+$1,234,567.89"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Money(dec(tt.in)), tt.in)
		assert.Equal(t, tt.signed, SignedMoney(dec(tt.in)), tt.in)
	}
}

func TestPercent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "+1.28%", Percent(dec("1.28")))
	assert.Equal(t, "-1.00%", Percent(dec("-1")))
	assert.Equal(t, "0.00%", Percent(decimal.Zero))
	assert.Equal(t, "+12.82%", Percent(dec("12.8167")))
}

func TestPrintQuotes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintQuotes(&buf, market.DefaultListings())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 9)
	assert.True(t, strings.HasPrefix(lines[0], "SYMBOL"))
	assert.Contains(t, lines[1], "AAPL")
	assert.Contains(t, lines[1], "$175.43")
	assert.Contains(t, lines[1], "+1.28%")
	assert.Contains(t, lines[2], "-1.00%")
}

func TestPrintPortfolio(t *testing.T) {
	t.Parallel()

	l, err := ledger.New(ledger.WithPosition("AAPL", dec("10"), dec("155.50")))
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintPortfolio(&buf, l.Summary(), l.Positions())
	out := buf.String()
	assert.Contains(t, out, "Total value: $1,555.00")
	assert.Contains(t, out, "AAPL*", "unquoted seed is flagged")
	assert.Contains(t, out, "COST")
	assert.Contains(t, out, "$1,555.00", "cost basis is shares times average price")

	l.Revalue(market.Snapshot{"AAPL": {Price: dec("175.43"), PreviousPrice: dec("173.21"), ChangePercent: dec("1.28")}})
	buf.Reset()
	PrintPortfolio(&buf, l.Summary(), l.Positions())
	out = buf.String()
	assert.Contains(t, out, "Total value: $1,754.30")
	assert.Contains(t, out, "Total gain:  +$199.30 (+12.82%)")
	assert.Contains(t, out, "Day change:  +$22.20 (+1.28%)")
	assert.NotContains(t, out, "AAPL*")
	assert.Regexp(t, `AAPL\s+10\s+\$155\.50\s+\$1,555\.00\s+\$175\.43\s+\$1,754\.30\s+\+\$199\.30`, out)

	buf.Reset()
	PrintPortfolio(&buf, ledger.Summary{}, nil)
	assert.NotContains(t, buf.String(), "SYMBOL")
}

func TestPrintValuations(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintValuations(&buf, nil)
	assert.Equal(t, "No valuations.\n", buf.String())

	buf.Reset()
	PrintValuations(&buf, []journal.ValuationSnapshot{{
		Time:       time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC),
		TotalValue: dec("4848.77"),
		TotalGain:  dec("141.32"),
		DayChange:  dec("-61.33"),
		Positions:  3,
	}})
	out := buf.String()
	assert.Contains(t, out, "DAY CHANGE")
	assert.Regexp(t, `2024-01-02 14:30:00\s+\$4,848\.77\s+\+\$141\.32\s+-\$61\.33\s+3`, out)
}

func TestPrintTrades(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintTrades(&buf, nil)
	assert.Equal(t, "No trades.\n", buf.String())

	buf.Reset()
	PrintTrades(&buf, []ledger.Trade{{
		Symbol:   "AAPL",
		Side:     ledger.Buy,
		Quantity: dec("10"),
		Price:    dec("155.5"),
		Total:    dec("1555"),
		Time:     time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC),
	}})
	out := buf.String()
	assert.Contains(t, out, "2024-01-02 14:30:00")
	assert.Contains(t, out, "buy")
	assert.Contains(t, out, "$155.50")
	assert.Contains(t, out, "$1,555.00")
}

func TestPrintWatchlistAndOverview(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintWatchlist(&buf, nil)
	assert.Equal(t, "Watchlist is empty.\n", buf.String())

	ls := market.DefaultListings()
	buf.Reset()
	PrintWatchlist(&buf, ls[:2])
	assert.Contains(t, buf.String(), "Microsoft Corporation")

	quotes := make([]market.Quote, 0, len(ls))
	for _, l := range ls {
		quotes = append(quotes, l.Quote)
	}
	buf.Reset()
	PrintOverview(&buf, market.Overview(quotes))
	out := buf.String()
	assert.Contains(t, out, "Market is bullish: 5 advancing, 3 declining, average +0.11%")
	assert.Contains(t, out, "TSLA")
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", truncate("short", 26))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
