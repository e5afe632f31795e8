package cli

import (
	"github.com/rustyeddy/tradedesk/desk"
	"github.com/rustyeddy/tradedesk/market"
	"github.com/rustyeddy/tradedesk/report"
	"github.com/spf13/cobra"
)

func newQuotesCmd(ro *rootOptions) *cobra.Command {
	var (
		search   string
		overview bool
	)

	cmd := &cobra.Command{
		Use:   "quotes",
		Short: "Print the listed stocks and their opening quotes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ro.load()
			if err != nil {
				return err
			}
			d, err := desk.Open(cfg)
			if err != nil {
				return err
			}
			defer d.Close()

			out := cmd.OutOrStdout()
			listings := d.Feed().Listings()
			if search != "" {
				listings = market.Search(listings, search)
			}
			report.PrintQuotes(out, listings)

			if overview {
				report.PrintOverview(out, d.Overview())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "only stocks whose symbol or name contains this")
	cmd.Flags().BoolVar(&overview, "overview", false, "also print the market overview")
	return cmd
}
