package cli

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/tradedesk/desk"
	"github.com/rustyeddy/tradedesk/ledger"
	"github.com/rustyeddy/tradedesk/report"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newRunCmd(ro *rootOptions) *cobra.Command {
	var (
		ticks int
		buys  []string
		sells []string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a short offline session and print the portfolio",
		Long: `Place the given orders at the opening quotes, advance the feed a
number of ticks, then print the portfolio and trade history.

Example:
  tradedesk run --ticks 20 --buy AAPL:10 --buy NFLX:2.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ticks < 0 {
				return fmt.Errorf("--ticks must not be negative")
			}
			cfg, err := ro.load()
			if err != nil {
				return err
			}
			d, err := desk.Open(cfg)
			if err != nil {
				return err
			}
			defer d.Close()

			for _, o := range buys {
				if err := placeOrder(d, o, ledger.Buy); err != nil {
					return err
				}
			}
			for _, o := range sells {
				if err := placeOrder(d, o, ledger.Sell); err != nil {
					return err
				}
			}
			for i := 0; i < ticks; i++ {
				d.Step()
			}

			out := cmd.OutOrStdout()
			l := d.Ledger()
			report.PrintPortfolio(out, l.Summary(), l.Positions())
			fmt.Fprintln(out)
			report.PrintTrades(out, l.Trades())
			return nil
		},
	}

	cmd.Flags().IntVarP(&ticks, "ticks", "n", 10, "number of feed ticks to run")
	cmd.Flags().StringArrayVar(&buys, "buy", nil, "order SYMBOL:QTY to buy (repeatable)")
	cmd.Flags().StringArrayVar(&sells, "sell", nil, "order SYMBOL:QTY to sell (repeatable)")
	return cmd
}

func placeOrder(d *desk.Desk, order string, side ledger.Side) error {
	sym, qty, err := parseOrder(order)
	if err != nil {
		return err
	}
	if _, err := d.Trade(sym, qty, side); err != nil {
		return fmt.Errorf("%s %s: %w", side, order, err)
	}
	return nil
}

// parseOrder splits SYMBOL:QTY.
func parseOrder(s string) (string, decimal.Decimal, error) {
	sym, q, ok := strings.Cut(s, ":")
	if !ok || strings.TrimSpace(sym) == "" {
		return "", decimal.Zero, fmt.Errorf("bad order %q (want SYMBOL:QTY)", s)
	}
	qty, err := decimal.NewFromString(strings.TrimSpace(q))
	if err != nil {
		return "", decimal.Zero, fmt.Errorf("bad quantity in %q: %w", s, err)
	}
	return strings.TrimSpace(sym), qty, nil
}
