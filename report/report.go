// Package report renders desk state as aligned plain text.
package report

import (
	"fmt"
	"io"

	"github.com/Rhymond/go-money"
	"github.com/rustyeddy/tradedesk/journal"
	"github.com/rustyeddy/tradedesk/ledger"
	"github.com/rustyeddy/tradedesk/market"
	"github.com/shopspring/decimal"
)

// Currency is the display currency for every amount.
const Currency = money.USD

// Money formats amount as currency, rounded to the currency's minor unit.
func Money(amount decimal.Decimal) string {
	cur := money.GetCurrency(Currency)
	factor := decimal.New(1, int32(cur.Fraction))
	return money.New(amount.Mul(factor).Round(0).IntPart(), Currency).Display()
}

// SignedMoney is Money with an explicit plus sign on gains.
func SignedMoney(amount decimal.Decimal) string {
	s := Money(amount)
	if amount.Round(2).IsPositive() {
		return "+" + s
	}
	return s
}

// Percent formats p with a sign and two decimals, e.g. +1.28%.
func Percent(p decimal.Decimal) string {
	p = p.Round(2)
	if p.IsPositive() {
		return "+" + p.StringFixed(2) + "%"
	}
	return p.StringFixed(2) + "%"
}

func PrintQuotes(w io.Writer, listings []market.Listing) {
	fmt.Fprintf(w, "%-6s %-26s %12s %12s %9s %12s\n", "SYMBOL", "NAME", "PRICE", "CHANGE", "CHANGE%", "VOLUME")
	for _, l := range listings {
		fmt.Fprintf(w, "%-6s %-26s %12s %12s %9s %12d\n",
			l.Symbol, truncate(l.Name, 26), Money(l.Quote.Price), SignedMoney(l.Quote.Change()),
			Percent(l.Quote.ChangePercent), l.Quote.Volume)
	}
}

// PrintPortfolio writes the summary followed by one line per position.
// Positions valued from an old quote are flagged with '*'.
func PrintPortfolio(w io.Writer, s ledger.Summary, positions []ledger.Position) {
	fmt.Fprintf(w, "Total value: %s\n", Money(s.TotalValue))
	fmt.Fprintf(w, "Total gain:  %s (%s)\n", SignedMoney(s.TotalGain), Percent(s.TotalGainPercent))
	fmt.Fprintf(w, "Day change:  %s (%s)\n", SignedMoney(s.DayChange), Percent(s.DayChangePercent))
	fmt.Fprintf(w, "Positions:   %d\n", s.Positions)
	if len(positions) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-7s %10s %12s %14s %12s %14s %14s %9s\n", "SYMBOL", "SHARES", "AVG PRICE", "COST", "PRICE", "VALUE", "GAIN", "GAIN%")
	for _, p := range positions {
		sym := p.Symbol
		if p.Stale {
			sym += "*"
		}
		fmt.Fprintf(w, "%-7s %10s %12s %14s %12s %14s %14s %9s\n",
			sym, p.Shares.String(), Money(p.AveragePrice), Money(p.CostBasis()), Money(p.CurrentPrice),
			Money(p.TotalValue), SignedMoney(p.TotalGain), Percent(p.TotalGainPercent))
	}
}

// PrintTrades writes trades in the order given.
func PrintTrades(w io.Writer, trades []ledger.Trade) {
	if len(trades) == 0 {
		fmt.Fprintln(w, "No trades.")
		return
	}
	fmt.Fprintf(w, "%-20s %-4s %-6s %10s %12s %14s\n", "TIME", "SIDE", "SYMBOL", "QTY", "PRICE", "TOTAL")
	for _, t := range trades {
		fmt.Fprintf(w, "%-20s %-4s %-6s %10s %12s %14s\n",
			t.Time.UTC().Format("2006-01-02 15:04:05"), string(t.Side), t.Symbol,
			t.Quantity.String(), Money(t.Price), Money(t.Total))
	}
}

// PrintValuations writes journaled portfolio valuations in the order given.
func PrintValuations(w io.Writer, vals []journal.ValuationSnapshot) {
	if len(vals) == 0 {
		fmt.Fprintln(w, "No valuations.")
		return
	}
	fmt.Fprintf(w, "%-20s %14s %14s %14s %9s\n", "TIME", "VALUE", "GAIN", "DAY CHANGE", "POSITIONS")
	for _, v := range vals {
		fmt.Fprintf(w, "%-20s %14s %14s %14s %9d\n",
			v.Time.UTC().Format("2006-01-02 15:04:05"), Money(v.TotalValue),
			SignedMoney(v.TotalGain), SignedMoney(v.DayChange), v.Positions)
	}
}

func PrintWatchlist(w io.Writer, listings []market.Listing) {
	if len(listings) == 0 {
		fmt.Fprintln(w, "Watchlist is empty.")
		return
	}
	for _, l := range listings {
		fmt.Fprintf(w, "%-6s %-26s %12s %9s\n", l.Symbol, truncate(l.Name, 26), Money(l.Quote.Price), Percent(l.Quote.ChangePercent))
	}
}

func PrintOverview(w io.Writer, o market.MarketOverview) {
	fmt.Fprintf(w, "Market is %s: %d advancing, %d declining, average %s\n",
		o.Sentiment, o.Advancers, o.Decliners, Percent(o.AverageChange))
	if len(o.TopMovers) == 0 {
		return
	}
	fmt.Fprintln(w, "Top movers:")
	for _, q := range o.TopMovers {
		fmt.Fprintf(w, "  %-6s %12s %9s\n", q.Symbol, Money(q.Price), Percent(q.ChangePercent))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
