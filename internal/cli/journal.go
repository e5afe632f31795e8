package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/tradedesk/journal"
	"github.com/rustyeddy/tradedesk/report"
	"github.com/spf13/cobra"
)

func newJournalCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Query trade journal data",
		Long: `Query and display trade journal records from a SQLite database.

Subcommands:
  trade   - Get details of a specific trade by ID
  today   - List trades executed today
  day     - List trades executed on a specific day
  symbol  - List every trade of one symbol
  valuations - List portfolio valuations recorded on a day (default today)

Examples:
  tradedesk journal trade <trade-id>
  tradedesk journal day 2024-01-15`,
	}
	cmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "./tradedesk.sqlite", "path to SQLite journal DB")

	open := func() (*journal.SQLite, error) {
		j, err := journal.NewSQLite(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		return j, nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "trade <trade-id>",
			Short: "Get details of a specific trade",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				j, err := open()
				if err != nil {
					return err
				}
				defer j.Close()

				rec, err := j.GetTrade(args[0])
				if err != nil {
					return fmt.Errorf("get trade: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
				return nil
			},
		},
		&cobra.Command{
			Use:   "today",
			Short: "List trades executed today",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return printDay(cmd, open, time.Now().In(time.Local).Format("2006-01-02"))
			},
		},
		&cobra.Command{
			Use:   "day <YYYY-MM-DD>",
			Short: "List trades executed on a specific day",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return printDay(cmd, open, args[0])
			},
		},
		&cobra.Command{
			Use:   "valuations [YYYY-MM-DD]",
			Short: "List portfolio valuations recorded on a day",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				day := time.Now().In(time.Local).Format("2006-01-02")
				if len(args) == 1 {
					day = args[0]
				}
				start, end, err := dayBounds(time.Local, day)
				if err != nil {
					return fmt.Errorf("date: %w", err)
				}

				j, err := open()
				if err != nil {
					return err
				}
				defer j.Close()

				vals, err := j.ListValuationsBetween(start, end)
				if err != nil {
					return fmt.Errorf("query valuations: %w", err)
				}
				report.PrintValuations(cmd.OutOrStdout(), vals)
				return nil
			},
		},
		&cobra.Command{
			Use:   "symbol <SYMBOL>",
			Short: "List every trade of one symbol",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				j, err := open()
				if err != nil {
					return err
				}
				defer j.Close()

				recs, err := j.ListTradesBySymbol(strings.ToUpper(args[0]))
				if err != nil {
					return fmt.Errorf("query trades: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(recs))
				return nil
			},
		},
	)
	return cmd
}

func printDay(cmd *cobra.Command, open func() (*journal.SQLite, error), day string) error {
	start, end, err := dayBounds(time.Local, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	j, err := open()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListTradesBetween(start, end)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(recs))
	return nil
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}
