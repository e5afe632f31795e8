package ledger

import (
	"github.com/rustyeddy/tradedesk/market"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// value recomputes every derived field of p from its stored shares and
// average price and the quote q. It never touches Shares or AveragePrice.
func value(p *Position, q market.Quote) {
	p.CurrentPrice = q.Price
	p.TotalValue = p.Shares.Mul(q.Price)
	p.TotalGain = q.Price.Sub(p.AveragePrice).Mul(p.Shares)
	p.TotalGainPercent = percent(q.Price.Sub(p.AveragePrice), p.AveragePrice)
	p.DayChange = p.Shares.Mul(q.Price.Sub(q.PreviousPrice))
	p.DayChangePercent = q.ChangePercent
	p.QuotedAt = q.Time
	p.Stale = false
}

// percent returns num/den*100, or zero when den is zero.
func percent(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den).Mul(hundred)
}

// standIn is the quote used for a symbol the ledger has never seen quoted.
func standIn(symbol string, price decimal.Decimal) market.Quote {
	return market.Quote{
		Symbol:        symbol,
		Price:         price,
		PreviousPrice: price,
		ChangePercent: decimal.Zero,
	}
}

func summarize(positions []Position) Summary {
	var s Summary
	weighted := decimal.Zero
	for _, p := range positions {
		s.TotalValue = s.TotalValue.Add(p.TotalValue)
		s.TotalGain = s.TotalGain.Add(p.TotalGain)
		s.DayChange = s.DayChange.Add(p.DayChange)
		weighted = weighted.Add(p.DayChangePercent.Mul(p.TotalValue))
	}
	s.Positions = len(positions)
	s.TotalGainPercent = percent(s.TotalGain, s.TotalValue.Sub(s.TotalGain))
	if !s.TotalValue.IsZero() {
		s.DayChangePercent = weighted.Div(s.TotalValue)
	}
	return s
}
