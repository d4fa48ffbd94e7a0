package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gamma-profiler/internal/errors"
	"gamma-profiler/internal/feed"
	"gamma-profiler/internal/gex"
	"gamma-profiler/internal/logging"
	"gamma-profiler/internal/models"
	"gamma-profiler/internal/report"
	"gamma-profiler/pkg/utils"
)

// addAnalysisCommands adds the analyze, batch and probe commands.
func addAnalysisCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newBatchCmd(app))
	rootCmd.AddCommand(newProbeCmd(app))
}

// runRequest describes one analysis run.
type runRequest struct {
	Ticker string
	Source feed.Source
	Date   time.Time
	Opts   gex.Options
	Export string
	Save   bool
}

// runResult is the outcome of one analysis run.
type runResult struct {
	Report *models.Report
	Files  []string
	RunID  int64
}

// analysisOptions applies --levels, --band and --move-bps on top of the
// configured model options.
func analysisOptions(cmd *cobra.Command, app *App) (gex.Options, error) {
	opts := app.Config.ModelOptions()

	if cmd.Flags().Changed("levels") {
		n, _ := cmd.Flags().GetInt("levels")
		if n < 2 {
			return opts, errors.NewValidationError("levels", n, "must be at least 2")
		}
		opts.LevelCount = n
	}
	if cmd.Flags().Changed("band") {
		b, _ := cmd.Flags().GetFloat64("band")
		if b <= 0 || b >= 1 {
			return opts, errors.NewValidationError("band", b, "must be in (0, 1)")
		}
		opts.Band = b
	}
	if cmd.Flags().Changed("move-bps") {
		bps, _ := cmd.Flags().GetFloat64("move-bps")
		if bps <= 0 {
			return opts, errors.NewValidationError("move-bps", bps, "must be positive")
		}
		opts.Model.MoveFraction = gex.MoveFractionFromBps(bps)
	}
	return opts, nil
}

// run fetches, analyzes and optionally exports and saves one ticker.
func (app *App) run(ctx context.Context, req runRequest) (*runResult, error) {
	logger := logging.WithTicker(logging.WithOperation(app.Logger, "analyze"), req.Ticker)

	started := time.Now()
	snap, err := req.Source.Fetch(ctx, req.Ticker)
	if err != nil {
		return nil, err
	}
	snap.EvaluationDate = req.Date
	logger.Debug().
		Float64("spot", snap.Spot).
		Int("calls", len(snap.Calls)).
		Int("puts", len(snap.Puts)).
		Dur("fetch", time.Since(started)).
		Msg("Snapshot loaded")

	r, err := gex.Analyze(*snap, req.Opts)
	if err != nil {
		logger.Error().Err(err).Msg("Analysis failed")
		return nil, errors.Wrapf(err, "analyzing %s", req.Ticker)
	}
	logging.LogReport(logger, r)

	res := &runResult{Report: r}
	if req.Export != "" {
		files, err := report.ExportCSV(req.Export, r)
		if err != nil {
			return nil, errors.Wrapf(err, "exporting %s", req.Ticker)
		}
		res.Files = files
		logger.Debug().Strs("files", files).Msg("Report exported")
	}

	if req.Save || app.Config.Store.Enabled {
		s, err := app.history(req.Save)
		if err != nil {
			return nil, err
		}
		id, err := s.SaveRun(ctx, r, r.MoveFraction*1e4)
		if err != nil {
			return nil, errors.Wrapf(err, "saving %s", req.Ticker)
		}
		res.RunID = id
		logger.Debug().Int64("run_id", id).Msg("Run saved")
	}

	return res, nil
}

func newAnalyzeCmd(app *App) *cobra.Command {
	var (
		file    string
		csvPath string
		spot    float64
		date    string
		export  string
		save    bool
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <ticker>",
		Short: "Analyze gamma exposure for one underlying",
		Long: `Fetch an option chain and report gamma exposure.

By default the delayed CBOE chain is downloaded. Use --file to replay a
saved CBOE payload or --csv with --spot for a plain contract table.`,
		Example: `  gex analyze SPX
  gex analyze SPX --date 2025-01-13 --move-bps 25
  gex analyze SPX --file spx.json --export reports
  gex analyze SPX --csv chain.csv --spot 5000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ticker := feed.NormalizeTicker(args[0])

			if file != "" && csvPath != "" {
				return errors.NewValidationError("file", file, "--file and --csv are mutually exclusive")
			}

			var src feed.Source
			tag := SourceCBOE
			switch {
			case file != "":
				src, tag = feed.FileSource{Path: file}, SourceFile
			case csvPath != "":
				src, tag = feed.CSVSource{Path: csvPath, Spot: spot}, SourceCSV
			default:
				src = app.feed()
			}

			evalDate, err := ParseEvaluationDate(date, app.Config.Today)
			if err != nil {
				return err
			}
			opts, err := analysisOptions(cmd, app)
			if err != nil {
				return err
			}

			res, err := app.run(cmd.Context(), runRequest{
				Ticker: ticker,
				Source: src,
				Date:   evalDate,
				Opts:   opts,
				Export: export,
				Save:   save,
			})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(res.Report)
			}
			writeAnalysis(output, res, tag, summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "saved CBOE payload to analyze instead of fetching")
	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV contract table (symbol,iv,gamma,open_interest)")
	cmd.Flags().Float64Var(&spot, "spot", 0, "underlying spot for --csv input")
	cmd.Flags().StringVar(&date, "date", "", "evaluation date YYYY-MM-DD (default: today)")
	cmd.Flags().Int("levels", gex.DefaultLevelCount, "number of hypothetical spot levels")
	cmd.Flags().Float64("band", gex.DefaultBand, "half-width of the level band as a fraction of spot")
	cmd.Flags().Float64("move-bps", 10, "spot move in basis points that exposure is quoted for")
	cmd.Flags().StringVar(&export, "export", "", "write strike and profile CSVs to this directory")
	cmd.Flags().BoolVar(&save, "save", false, "record the run in the local history")
	cmd.Flags().BoolVar(&summary, "summary", false, "print only the summary")

	return cmd
}

func writeAnalysis(output *Output, res *runResult, tag string, summaryOnly bool) {
	r := res.Report
	w := output.Writer()

	output.Printf("%s ", output.SourceTag(tag))
	report.WriteSummary(w, r)
	output.Printf("  Per 1%% move:         %s\n", utils.FormatCompact(PerPercentMove(r)))
	output.Printf("  Flip distance:       %s\n", FormatFlip(r))
	output.Printf("  Regime:              %s\n", output.ColoredString(output.ExposureColor(r.TotalExposure), Regime(r)))
	if tag == SourceCBOE {
		output.Printf("  Market:              %s\n", output.MarketStatus(utils.GetMarketStatus(time.Now())))
	}

	if !summaryOnly {
		fmt.Fprintf(w, "\nExposure by strike ($Bn per %s)\n", report.MoveLabel(r.MoveFraction))
		report.WriteStrikeTable(w, r)
		fmt.Fprintf(w, "\nGamma exposure profile ($Bn per %s)\n", report.MoveLabel(r.MoveFraction))
		report.WriteCurveTable(w, r)
	}

	if len(res.Files) > 0 {
		output.Println()
		for _, f := range res.Files {
			output.Dim("Wrote %s", f)
		}
	}
	if res.RunID > 0 {
		output.Dim("Saved run #%d", res.RunID)
	}
}
