package market

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Sentiment summarizes the average direction of the market.
type Sentiment string

const (
	Bullish Sentiment = "bullish"
	Bearish Sentiment = "bearish"
)

// MarketOverview is the breadth summary shown on the market page.
type MarketOverview struct {
	Advancers     int             `json:"advancers"`
	Decliners     int             `json:"decliners"`
	AverageChange decimal.Decimal `json:"average_change"`
	Sentiment     Sentiment       `json:"sentiment"`
	TopMovers     []Quote         `json:"top_movers"`
}

const topMovers = 3

// Overview computes market breadth over quotes. Unchanged quotes count as
// neither advancers nor decliners. Top movers are ranked by absolute change
// percent, ties broken by symbol so the result is stable.
func Overview(quotes []Quote) MarketOverview {
	var ov MarketOverview
	if len(quotes) == 0 {
		ov.Sentiment = Bearish
		return ov
	}

	sum := decimal.Zero
	for _, q := range quotes {
		switch q.ChangePercent.Sign() {
		case 1:
			ov.Advancers++
		case -1:
			ov.Decliners++
		}
		sum = sum.Add(q.ChangePercent)
	}
	ov.AverageChange = sum.Div(decimal.NewFromInt(int64(len(quotes))))
	ov.Sentiment = Bearish
	if ov.AverageChange.IsPositive() {
		ov.Sentiment = Bullish
	}

	sorted := make([]Quote, len(quotes))
	copy(sorted, quotes)
	sort.Slice(sorted, func(i, j int) bool {
		ai, aj := sorted[i].ChangePercent.Abs(), sorted[j].ChangePercent.Abs()
		if !ai.Equal(aj) {
			return ai.GreaterThan(aj)
		}
		return sorted[i].Symbol < sorted[j].Symbol
	})
	n := topMovers
	if len(sorted) < n {
		n = len(sorted)
	}
	ov.TopMovers = sorted[:n]
	return ov
}

// Search returns the listings whose symbol or name contains term, ignoring
// case. An empty term matches everything.
func Search(listings []Listing, term string) []Listing {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if term == "" ||
			strings.Contains(strings.ToLower(l.Symbol), term) ||
			strings.Contains(strings.ToLower(l.Name), term) {
			out = append(out, l)
		}
	}
	return out
}
