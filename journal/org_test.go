package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	trade := TradeRecord{
		TradeID:  "01HV3Z8K2M0000000000ABCDEF",
		Symbol:   "AAPL",
		Side:     "buy",
		Quantity: dec("10"),
		Price:    dec("155.5"),
		Total:    dec("1555"),
		Time:     time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC),
	}

	result := FormatTradeOrg(trade)

	assert.Contains(t, result, "** BUY 10 AAPL @ 155.50 (00ABCDEF)")
	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":TRADE_ID: 01HV3Z8K2M0000000000ABCDEF")
	assert.Contains(t, result, ":SYMBOL: AAPL")
	assert.Contains(t, result, ":SIDE: buy")
	assert.Contains(t, result, ":QUANTITY: 10")
	assert.Contains(t, result, ":PRICE: 155.50")
	assert.Contains(t, result, ":TOTAL: 1555.00")
	assert.Contains(t, result, ":TIME: 2024-03-15T10:30:45Z")
	assert.Contains(t, result, ":END:")
	assert.Contains(t, result, "*** Thesis")
	assert.Contains(t, result, "*** Review")
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", FormatTradesOrg(nil))

	trades := []TradeRecord{
		{TradeID: "A", Symbol: "AAPL", Side: "buy", Quantity: dec("1"), Price: dec("1"), Total: dec("1")},
		{TradeID: "B", Symbol: "MSFT", Side: "sell", Quantity: dec("2"), Price: dec("3"), Total: dec("6")},
	}
	out := FormatTradesOrg(trades)
	assert.Equal(t, 2, strings.Count(out, ":PROPERTIES:"))
	assert.Contains(t, out, "** SELL 2 MSFT @ 3.00 (B)")
	assert.Less(t, strings.Index(out, "AAPL"), strings.Index(out, "MSFT"))
}

func TestShortID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"short", "short"},
		{"exactly8", "exactly8"},
		{"01HV3Z8K2M0000000000ABCDEF", "00ABCDEF"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, shortID(tt.in), tt.in)
	}
}
