package feed

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Range string

const (
	Range1D Range = "1D"
	Range1W Range = "1W"
	Range1M Range = "1M"
	Range3M Range = "3M"
	Range1Y Range = "1Y"
	Range5Y Range = "5Y"
)

// Ranges lists every supported chart range, shortest first.
var Ranges = []Range{Range1D, Range1W, Range1M, Range3M, Range1Y, Range5Y}

// intradayMinutes is one 09:30 to 16:00 session.
const intradayMinutes = 390

var daily = map[Range]struct {
	days       int
	volatility float64
}{
	Range1W: {7, 0.02},
	Range1M: {30, 0.025},
	Range3M: {90, 0.03},
	Range1Y: {365, 0.04},
	Range5Y: {365 * 5, 0.05},
}

type Point struct {
	Time  time.Time       `json:"time"`
	Price decimal.Decimal `json:"price"`
}

func ParseRange(s string) (Range, error) {
	r := Range(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Ranges {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown chart range %q", s)
}

// Chart generates a random-walk series for r starting from price. 1D is
// minute bars for the session of now's date; longer ranges are one point per
// day ending the day before now.
func Chart(r Range, price decimal.Decimal, rng *rand.Rand, now time.Time) ([]Point, error) {
	start, _ := price.Float64()

	if r == Range1D {
		return intraday(start*0.97, 0.0015, rng, now), nil
	}
	d, ok := daily[r]
	if !ok {
		return nil, fmt.Errorf("unknown chart range %q", r)
	}
	return walk(d.days, d.volatility, start, rng, now), nil
}

func walk(days int, volatility, price float64, rng *rand.Rand, now time.Time) []Point {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	out := make([]Point, 0, days)
	for i := 0; i < days; i++ {
		price += price * volatility * (rng.Float64() - 0.5)
		out = append(out, Point{
			Time:  today.AddDate(0, 0, i-days),
			Price: decimal.NewFromFloat(price).Round(2),
		})
	}
	return out
}

func intraday(price, volatility float64, rng *rand.Rand, now time.Time) []Point {
	open := time.Date(now.Year(), now.Month(), now.Day(), 9, 30, 0, 0, now.Location())

	out := make([]Point, 0, intradayMinutes)
	for i := 0; i < intradayMinutes; i++ {
		trend := math.Sin(float64(i)/(intradayMinutes/4.0)) * volatility * 0.8
		price += price * volatility * (rng.Float64() - 0.5 + trend)
		out = append(out, Point{
			Time:  open.Add(time.Duration(i) * time.Minute),
			Price: decimal.NewFromFloat(price).Round(2),
		})
	}
	return out
}
