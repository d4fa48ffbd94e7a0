package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"gamma-profiler/internal/errors"
	"gamma-profiler/internal/report"
)

// batchJSON is the JSON form of one batch row.
type batchJSON struct {
	Ticker        string   `json:"ticker"`
	OK            bool     `json:"ok"`
	Error         string   `json:"error,omitempty"`
	Spot          float64  `json:"spot,omitempty"`
	TotalExposure float64  `json:"total_exposure,omitempty"`
	FlipFound     bool     `json:"flip_found"`
	FlipLevel     float64  `json:"flip_level,omitempty"`
	Files         []string `json:"files,omitempty"`
}

func newBatchCmd(app *App) *cobra.Command {
	var (
		outputDir   string
		date        string
		concurrency int
		noExport    bool
		save        bool
	)

	cmd := &cobra.Command{
		Use:   "batch [tickers...]",
		Short: "Analyze a list of underlyings",
		Long: `Fetch and analyze each ticker from the live feed, writing strike and
profile CSVs under <output-dir>/<ticker>. A failed ticker is logged and
skipped. Without arguments the configured batch.tickers are used.`,
		Example: `  gex batch
  gex batch SPX NDX --output-dir /tmp/gex
  gex batch SPY,QQQ,IWM --concurrency 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			tickers := NormalizeTickers(args, app.Config.Batch.Tickers)
			if len(tickers) == 0 {
				return errors.NewValidationError("tickers", args, "no tickers to analyze")
			}

			evalDate, err := ParseEvaluationDate(date, app.Config.Today)
			if err != nil {
				return err
			}
			opts := app.Config.ModelOptions()
			if outputDir == "" {
				outputDir = app.Config.Batch.OutputDir
			}

			// Shared dependencies are resolved before fanning out.
			src := app.feed()
			if save || app.Config.Store.Enabled {
				if _, err := app.history(save); err != nil {
					return err
				}
			}

			logger := app.Logger.With().Str("operation", "batch").Int("tickers", len(tickers)).Logger()
			logger.Info().Strs("symbols", tickers).Msg("Batch started")

			rows := make([]report.BatchRow, len(tickers))
			if concurrency < 1 {
				concurrency = 1
			}
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(concurrency)
			for i, t := range tickers {
				g.Go(func() error {
					req := runRequest{Ticker: t, Source: src, Date: evalDate, Opts: opts, Save: save}
					if !noExport {
						req.Export = filepath.Join(outputDir, strings.ToLower(t))
					}
					res, err := app.run(ctx, req)
					rows[i] = report.BatchRow{Ticker: t, Err: err}
					if err != nil {
						logger.Warn().Err(err).Str("ticker", t).Msg("Ticker skipped")
						return nil
					}
					rows[i].Report = res.Report
					rows[i].Files = res.Files
					return nil
				})
			}
			_ = g.Wait()

			failed := 0
			for _, row := range rows {
				if row.Err != nil {
					failed++
				}
			}
			logger.Info().Int("failed", failed).Msg("Batch finished")
			app.logFeedStats(logger)

			if output.IsJSON() {
				if err := output.JSON(batchRowsJSON(rows)); err != nil {
					return err
				}
			} else {
				report.WriteBatchTable(output.Writer(), rows)
				if !noExport && failed < len(rows) {
					output.Println()
					output.Dim("Reports written under %s", outputDir)
				}
			}

			if failed == len(rows) {
				return errors.Wrapf(rows[0].Err, "all %d tickers failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for CSV reports (default: batch.output_dir)")
	cmd.Flags().StringVar(&date, "date", "", "evaluation date YYYY-MM-DD (default: today)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "tickers fetched at once")
	cmd.Flags().BoolVar(&noExport, "no-export", false, "skip writing CSV reports")
	cmd.Flags().BoolVar(&save, "save", false, "record each run in the local history")

	return cmd
}

func batchRowsJSON(rows []report.BatchRow) []batchJSON {
	out := make([]batchJSON, 0, len(rows))
	for _, row := range rows {
		j := batchJSON{Ticker: row.Ticker, Files: row.Files}
		if row.Err != nil {
			j.Error = row.Err.Error()
		} else {
			r := row.Report
			j.OK = true
			j.Spot = r.Spot
			j.TotalExposure = r.TotalExposure
			j.FlipFound = r.Flip.Found
			j.FlipLevel = r.Flip.Level
		}
		out = append(out, j)
	}
	return out
}
