// Package replay drives a desk from a recorded CSV of quotes instead of the
// random feed, optionally applying scripted trades and watchlist edits.
package replay

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rustyeddy/tradedesk/desk"
	"github.com/rustyeddy/tradedesk/ledger"
	"github.com/rustyeddy/tradedesk/market"
	"github.com/shopspring/decimal"
)

// Options controls how replay behaves.
type Options struct {
	// Strict stops the replay at the first rejected event. Otherwise
	// rejected events go to OnReject and the replay continues.
	Strict bool

	// OnReject receives events the desk refused, with their 1-based line.
	OnReject func(line int, err error)

	// Clock, when set, is moved to each row's time before the row is applied.
	Clock *Clock
}

// Stats counts what a replay did.
type Stats struct {
	Rows     int
	Events   int
	Rejected int
}

// Clock is a settable time source for stamping replayed trades with the
// recorded time rather than the wall clock.
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// Now returns the last time set, or the wall clock before the first Set.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.t.IsZero() {
		return time.Now()
	}
	return c.t
}

// CSV replays quotes from a CSV file and applies optional scripted events.
//
// Row format:
//
//	time,symbol,price,previous_price,change_percent,volume[,event,arg1,arg2]
//
// Events (case-insensitive):
//
//	BUY:      arg1=symbol  arg2=quantity
//	SELL:     arg1=symbol  arg2=quantity
//	WATCH:    arg1=symbol
//	UNWATCH:  arg1=symbol
//
// Each row's quote is applied before its event, so trades execute at the
// row's price. A first row whose first column is "time" is a header.
func CSV(ctx context.Context, csvPath string, d *desk.Desk, opts Options) (Stats, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return Stats{}, err
	}
	defer f.Close()
	return Read(ctx, f, d, opts)
}

// Read is CSV over any reader.
func Read(ctx context.Context, in io.Reader, d *desk.Desk, opts Options) (Stats, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	var st Stats
	for first := true; ; first = false {
		row, err := r.Read()
		if err == io.EOF {
			return st, nil
		}
		if err != nil {
			return st, err
		}
		if err := ctx.Err(); err != nil {
			return st, err
		}
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		if first && strings.EqualFold(strings.TrimSpace(row[0]), "time") {
			continue
		}

		line, _ := r.FieldPos(0)
		if err := handleRow(d, row, line, opts, &st); err != nil {
			return st, err
		}
	}
}

func handleRow(d *desk.Desk, row []string, line int, opts Options, st *Stats) error {
	if len(row) < 6 {
		return fmt.Errorf("line %d: bad row (need at least 6 cols time,symbol,price,previous_price,change_percent,volume): %v", line, row)
	}
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}

	q, err := parseQuote(row)
	if err != nil {
		return fmt.Errorf("line %d: %w", line, err)
	}

	if opts.Clock != nil {
		opts.Clock.Set(q.Time)
	}
	d.ApplyQuotes(market.Snapshot{q.Symbol: q})
	st.Rows++

	if len(row) < 7 || row[6] == "" {
		return nil
	}
	st.Events++

	if err := handleEvent(d, row[6], row[7:]); err != nil {
		st.Rejected++
		err = fmt.Errorf("line %d: %s: %w", line, strings.ToUpper(row[6]), err)
		if opts.Strict {
			return err
		}
		if opts.OnReject != nil {
			opts.OnReject(line, err)
		}
	}
	return nil
}

func parseQuote(row []string) (market.Quote, error) {
	t, err := time.Parse(time.RFC3339, row[0])
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339Nano, row[0])
		if err2 != nil {
			return market.Quote{}, fmt.Errorf("bad time %q: %w", row[0], err)
		}
		t = t2
	}

	sym := strings.ToUpper(row[1])
	if sym == "" {
		return market.Quote{}, fmt.Errorf("symbol is empty")
	}

	price, err := decimal.NewFromString(row[2])
	if err != nil {
		return market.Quote{}, fmt.Errorf("bad price %q: %w", row[2], err)
	}
	if !price.IsPositive() {
		return market.Quote{}, fmt.Errorf("price must be positive, got %s", row[2])
	}
	prev, err := decimal.NewFromString(row[3])
	if err != nil {
		return market.Quote{}, fmt.Errorf("bad previous_price %q: %w", row[3], err)
	}
	pct, err := decimal.NewFromString(row[4])
	if err != nil {
		return market.Quote{}, fmt.Errorf("bad change_percent %q: %w", row[4], err)
	}
	vol, err := strconv.ParseInt(row[5], 10, 64)
	if err != nil {
		return market.Quote{}, fmt.Errorf("bad volume %q: %w", row[5], err)
	}

	return market.Quote{
		Symbol:        sym,
		Price:         price,
		PreviousPrice: prev,
		ChangePercent: pct,
		Volume:        vol,
		Time:          t,
	}, nil
}

func handleEvent(d *desk.Desk, event string, args []string) error {
	switch strings.ToUpper(event) {
	case "BUY", "SELL":
		// BUY,AAPL,10
		sym, qty, err := parseTradeArgs(args)
		if err != nil {
			return err
		}
		side := ledger.Buy
		if strings.EqualFold(event, "SELL") {
			side = ledger.Sell
		}
		_, err = d.Trade(sym, qty, side)
		return err

	case "WATCH":
		if len(args) < 1 || args[0] == "" {
			return fmt.Errorf("missing symbol")
		}
		return d.Watch(args[0])

	case "UNWATCH":
		if len(args) < 1 || args[0] == "" {
			return fmt.Errorf("missing symbol")
		}
		return d.Unwatch(args[0])

	default:
		return fmt.Errorf("unknown event %q", event)
	}
}

func parseTradeArgs(args []string) (string, decimal.Decimal, error) {
	if len(args) < 2 {
		return "", decimal.Zero, fmt.Errorf("need arg1=symbol arg2=quantity")
	}
	if args[0] == "" {
		return "", decimal.Zero, fmt.Errorf("symbol is empty")
	}
	qty, err := decimal.NewFromString(args[1])
	if err != nil {
		return "", decimal.Zero, fmt.Errorf("bad quantity %q: %w", args[1], err)
	}
	return args[0], qty, nil
}
