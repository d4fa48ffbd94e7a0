package cli

import (
	"github.com/spf13/cobra"

	"gamma-profiler/internal/feed"
	"gamma-profiler/internal/report"
)

func newProbeCmd(app *App) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "probe [tickers...]",
		Short: "Check which underlyings publish an option chain",
		Long: `Request the delayed chain of each ticker and report whether it is
available, its spot and how many contracts it lists. Without arguments
a built-in list of liquid indices and ETFs is probed.`,
		Example: `  gex probe
  gex probe SPX NDX VIX`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			tickers := NormalizeTickers(args, feed.CatalogTickers())

			logger := app.Logger.With().Str("operation", "probe").Logger()
			logger.Info().Int("tickers", len(tickers)).Msg("Probing feed")

			results := feed.Probe(cmd.Context(), app.feed(), tickers, concurrency)
			app.logFeedStats(logger)

			if output.IsJSON() {
				return output.JSON(results)
			}
			report.WriteProbeTable(output.Writer(), results)
			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "requests in flight")

	return cmd
}
