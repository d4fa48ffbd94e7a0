package gex

import (
	"gamma-profiler/internal/errors"
	"gamma-profiler/internal/models"
)

// Options configures a full analysis run.
type Options struct {
	Model      ModelParams
	LevelCount int
	Band       float64
	Workers    int
}

// DefaultOptions returns the 10 bps, 30 level, ±20% configuration with flat
// zero rate and dividend yield.
func DefaultOptions() Options {
	return Options{
		Model:      ModelParams{MoveFraction: MoveFractionFromBps(10)},
		LevelCount: DefaultLevelCount,
		Band:       DefaultBand,
	}
}

// Analyze runs the full pipeline over one snapshot: parse, pair, aggregate
// by strike, scan the profile and locate the flip. Any malformed or
// misaligned row fails the whole run.
func Analyze(snap models.Snapshot, opts Options) (*models.Report, error) {
	if snap.Spot <= 0 {
		return nil, errors.NewValidationError("spot", snap.Spot, "must be positive")
	}
	if snap.EvaluationDate.IsZero() {
		return nil, errors.NewValidationError("evaluation_date", snap.EvaluationDate, "must be set")
	}
	if opts.Model.MoveFraction <= 0 {
		return nil, errors.NewValidationError("move_fraction", opts.Model.MoveFraction, "must be positive")
	}

	calls, err := ParseQuotes(snap.Calls)
	if err != nil {
		return nil, errors.Wrap(err, "parsing calls")
	}
	puts, err := ParseQuotes(snap.Puts)
	if err != nil {
		return nil, errors.Wrap(err, "parsing puts")
	}

	pairs, err := MergePairs(calls, puts)
	if err != nil {
		return nil, err
	}

	levels, err := Levels(snap.Spot, opts.Band, opts.LevelCount)
	if err != nil {
		return nil, err
	}

	// Contracts already expired at the evaluation date carry no gamma.
	live := Unexpired(pairs, snap.EvaluationDate)
	strikes, total := AggregateByStrike(live, snap.Spot, opts.Model.MoveFraction)

	next, _ := NextExpiry(pairs, snap.EvaluationDate)
	monthly, _ := NextMonthlyExpiry(pairs, snap.EvaluationDate)

	curves, err := BuildProfile(live, levels, ProfileParams{
		EvaluationDate:    snap.EvaluationDate,
		NextExpiry:        next,
		NextMonthlyExpiry: monthly,
		Model:             opts.Model,
		Workers:           opts.Workers,
	})
	if err != nil {
		return nil, err
	}

	return &models.Report{
		Ticker:            snap.Ticker,
		Spot:              snap.Spot,
		EvaluationDate:    CivilDate(snap.EvaluationDate),
		MoveFraction:      opts.Model.MoveFraction,
		PairCount:         len(pairs),
		Strikes:           strikes,
		TotalExposure:     total,
		Levels:            levels,
		Curves:            curves,
		Flip:              LocateFlip(levels, curves[0].Values()),
		NextExpiry:        next,
		NextMonthlyExpiry: monthly,
	}, nil
}
