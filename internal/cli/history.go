package cli

import (
	"os"

	"github.com/spf13/cobra"

	"gamma-profiler/internal/errors"
	"gamma-profiler/internal/feed"
	"gamma-profiler/internal/models"
	"gamma-profiler/internal/report"
	"gamma-profiler/internal/store"
)

// addHistoryCommands adds the run history command.
func addHistoryCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newHistoryCmd(app))
}

func newHistoryCmd(app *App) *cobra.Command {
	var (
		limit   int
		from    string
		to      string
		strikes int64
	)

	cmd := &cobra.Command{
		Use:   "history [ticker]",
		Short: "Show stored analysis runs",
		Long: `List runs recorded with store.enabled or 'analyze --save'. Use --strikes
to print the strike table captured with one run.`,
		Example: `  gex history
  gex history SPX --limit 5
  gex history --from 2025-01-01 --to 2025-01-31
  gex history --strikes 42`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			s, err := app.openHistory()
			if err != nil {
				return err
			}

			if strikes > 0 {
				rows, err := s.RunStrikes(cmd.Context(), strikes)
				if err != nil {
					return err
				}
				if output.IsJSON() {
					return output.JSON(rows)
				}
				if len(rows) == 0 {
					output.Warning("No strikes stored for run #%d", strikes)
					return nil
				}
				report.WriteStrikeTable(output.Writer(), &models.Report{Strikes: rows})
				return nil
			}

			filter := store.RunFilter{Limit: limit}
			if len(args) == 1 {
				filter.Ticker = feed.NormalizeTicker(args[0])
			}
			if from != "" {
				if filter.StartDate, err = ParseEvaluationDate(from, nil); err != nil {
					return err
				}
			}
			if to != "" {
				if filter.EndDate, err = ParseEvaluationDate(to, nil); err != nil {
					return err
				}
			}

			runs, err := s.ListRuns(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(runs)
			}
			if len(runs) == 0 {
				output.Info("No runs recorded")
				return nil
			}
			report.WriteHistoryTable(output.Writer(), runs)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to show")
	cmd.Flags().StringVar(&from, "from", "", "earliest evaluation date YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "latest evaluation date YYYY-MM-DD")
	cmd.Flags().Int64Var(&strikes, "strikes", 0, "show the strike table of this run id")

	return cmd
}

// openHistory opens the run store for reading. A database left by earlier
// --save runs is read even when store.enabled is off.
func (app *App) openHistory() (store.RunStore, error) {
	if app.Store != nil || app.Config.Store.Enabled {
		return app.history(false)
	}
	if _, err := os.Stat(app.Config.Store.Path); err != nil {
		return nil, errors.Wrapf(errors.ErrStoreDisabled, "no history at %s", app.Config.Store.Path)
	}
	return app.history(true)
}
