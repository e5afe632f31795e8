package cli

import (
	"fmt"
	"os"

	"github.com/rustyeddy/tradedesk/config"
	"github.com/spf13/cobra"
)

const version = "0.3.0"

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	ConfigPath string
}

// load returns the config named by --config, or the defaults.
func (ro *rootOptions) load() (*config.Config, error) {
	if ro.ConfigPath == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(ro.ConfigPath)
}

func NewRootCmd() *cobra.Command {
	ro := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "tradedesk",
		Short: "Tradedesk: a simulated stock trading desk",
		Long: `Tradedesk simulates a stock trading desk: a random-walk quote feed,
a portfolio ledger that revalues on every tick, a watchlist, and an
optional trade journal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global / persistent flags
	cmd.PersistentFlags().StringVar(&ro.ConfigPath, "config", "", "Path to config file (optional)")

	cmd.AddCommand(
		newServeCmd(ro),
		newRunCmd(ro),
		newQuotesCmd(ro),
		newReplayCmd(ro),
		newConfigCmd(),
		newJournalCmd(),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tradedesk version %s\n", version)
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
