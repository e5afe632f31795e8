package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/rustyeddy/tradedesk/desk"
	"github.com/rustyeddy/tradedesk/ledger"
	"github.com/rustyeddy/tradedesk/replay"
	"github.com/rustyeddy/tradedesk/report"
	"github.com/spf13/cobra"
)

func newReplayCmd(ro *rootOptions) *cobra.Command {
	var (
		strict        bool
		withPortfolio bool
	)

	cmd := &cobra.Command{
		Use:   "replay <quotes.csv>",
		Short: "Replay recorded quotes and scripted orders",
		Long: `Replay a quote CSV through the desk and print the final portfolio.

Row format:
  time,symbol,price,previous_price,change_percent,volume[,event,arg1,arg2]

Events: BUY sym qty, SELL sym qty, WATCH sym, UNWATCH sym.

Example:
  tradedesk replay session.csv --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ro.load()
			if err != nil {
				return err
			}
			if !withPortfolio {
				cfg.Portfolio.Positions = nil
			}

			clock := &replay.Clock{}
			d, err := desk.Open(cfg, ledger.WithClock(clock.Now))
			if err != nil {
				return err
			}
			defer d.Close()

			st, err := replay.CSV(context.Background(), args[0], d, replay.Options{
				Strict: strict,
				Clock:  clock,
				OnReject: func(line int, err error) {
					log.Printf("replay: rejected: %v", err)
				},
			})
			if err != nil {
				return fmt.Errorf("replay: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Replayed %d rows, %d events (%d rejected)\n\n", st.Rows, st.Events, st.Rejected)
			l := d.Ledger()
			report.PrintPortfolio(out, l.Summary(), l.Positions())
			fmt.Fprintln(out)
			report.PrintTrades(out, l.Trades())
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "stop at the first rejected event")
	cmd.Flags().BoolVar(&withPortfolio, "with-portfolio", false, "start from the configured positions instead of an empty ledger")
	return cmd
}
