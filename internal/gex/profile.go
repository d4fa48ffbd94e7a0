package gex

import (
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"gamma-profiler/internal/errors"
	"gamma-profiler/internal/models"
)

const (
	DefaultLevelCount = 30
	DefaultBand       = 0.20
)

// Levels returns n evenly spaced spot levels covering spot*(1-band) to
// spot*(1+band), both ends included.
func Levels(spot, band float64, n int) ([]float64, error) {
	if spot <= 0 {
		return nil, errors.NewValidationError("spot", spot, "must be positive")
	}
	if band <= 0 || band >= 1 {
		return nil, errors.NewValidationError("band", band, "must be in (0, 1)")
	}
	if n < 2 {
		return nil, errors.NewValidationError("levels", n, "need at least 2 levels")
	}

	lo, hi := spot*(1-band), spot*(1+band)
	step := (hi - lo) / float64(n-1)
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out, nil
}

// IsMonthlyExpiration reports whether d is a third-Friday style expiration:
// a Friday falling on day 15 through 21.
func IsMonthlyExpiration(d time.Time) bool {
	return d.Weekday() == time.Friday && d.Day() >= 15 && d.Day() <= 21
}

// NextExpiry returns the earliest expiration on or after the evaluation
// date. If every contract has already expired, the earliest overall is used.
func NextExpiry(pairs []models.PairedContract, evaluationDate time.Time) (time.Time, bool) {
	return earliest(pairs, evaluationDate, func(time.Time) bool { return true })
}

// NextMonthlyExpiry returns the earliest monthly expiration on or after the
// evaluation date, falling back to NextExpiry when the book holds none.
func NextMonthlyExpiry(pairs []models.PairedContract, evaluationDate time.Time) (time.Time, bool) {
	if d, ok := earliest(pairs, evaluationDate, IsMonthlyExpiration); ok {
		return d, true
	}
	return NextExpiry(pairs, evaluationDate)
}

func earliest(pairs []models.PairedContract, evaluationDate time.Time, match func(time.Time) bool) (time.Time, bool) {
	eval := CivilDate(evaluationDate)
	var upcoming, first time.Time
	for _, p := range pairs {
		exp := CivilDate(p.Expiration)
		if !match(exp) {
			continue
		}
		if first.IsZero() || exp.Before(first) {
			first = exp
		}
		if !exp.Before(eval) && (upcoming.IsZero() || exp.Before(upcoming)) {
			upcoming = exp
		}
	}
	if !upcoming.IsZero() {
		return upcoming, true
	}
	return first, !first.IsZero()
}

// Unexpired returns the pairs expiring on or after the evaluation date.
// The input is not modified.
func Unexpired(pairs []models.PairedContract, evaluationDate time.Time) []models.PairedContract {
	eval := CivilDate(evaluationDate)
	out := make([]models.PairedContract, 0, len(pairs))
	for _, p := range pairs {
		if !CivilDate(p.Expiration).Before(eval) {
			out = append(out, p)
		}
	}
	return out
}

// ProfileParams configures a profile scan.
type ProfileParams struct {
	EvaluationDate    time.Time
	NextExpiry        time.Time
	NextMonthlyExpiry time.Time
	Model             ModelParams
	// Workers bounds concurrent level evaluation. 0 uses every CPU, 1 runs
	// sequentially. The result does not depend on this value.
	Workers int
}

type profileLeg struct {
	strike    float64
	callVol   float64
	putVol    float64
	callOI    float64
	putOI     float64
	years     float64
	exNext    bool
	exMonthly bool
}

// BuildProfile recomputes model exposure for every contract at every level
// and returns the all, ex-next-expiry and ex-next-monthly curves. Contracts
// that expired before the evaluation date contribute nothing.
func BuildProfile(pairs []models.PairedContract, levels []float64, params ProfileParams) ([]models.ExposureCurve, error) {
	if len(levels) < 2 {
		return nil, errors.NewValidationError("levels", len(levels), "need at least 2 levels")
	}

	next := CivilDate(params.NextExpiry)
	monthly := CivilDate(params.NextMonthlyExpiry)
	live := Unexpired(pairs, params.EvaluationDate)
	legs := make([]profileLeg, len(live))
	for i, p := range live {
		exp := CivilDate(p.Expiration)
		legs[i] = profileLeg{
			strike:    p.Strike.InexactFloat64(),
			callVol:   p.Call.ImpliedVol,
			putVol:    p.Put.ImpliedVol,
			callOI:    p.Call.OpenInterest,
			putOI:     p.Put.OpenInterest,
			years:     YearsToExpiry(params.EvaluationDate, exp),
			exNext:    !params.NextExpiry.IsZero() && exp.Equal(next),
			exMonthly: !params.NextMonthlyExpiry.IsZero() && exp.Equal(monthly),
		}
	}

	totals := make([][len(models.Scenarios)]float64, len(levels))
	m := params.Model
	scan := func(i int) {
		level := levels[i]
		var all, exNext, exMonthly float64
		for _, l := range legs {
			net := Exposure(level, l.strike, l.callVol, l.years, m.RiskFreeRate, m.DividendYield, models.RightCall, l.callOI, m.MoveFraction) +
				Exposure(level, l.strike, l.putVol, l.years, m.RiskFreeRate, m.DividendYield, models.RightPut, l.putOI, m.MoveFraction)
			all += net
			if !l.exNext {
				exNext += net
			}
			if !l.exMonthly {
				exMonthly += net
			}
		}
		totals[i] = [len(models.Scenarios)]float64{all, exNext, exMonthly}
	}

	workers := params.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers == 1 {
		for i := range levels {
			scan(i)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(workers)
		for i := range levels {
			i := i
			g.Go(func() error {
				scan(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	curves := make([]models.ExposureCurve, len(models.Scenarios))
	for s, scenario := range models.Scenarios {
		points := make([]models.CurvePoint, len(levels))
		for i, level := range levels {
			points[i] = models.CurvePoint{Level: level, NetExposure: totals[i][s]}
		}
		curves[s] = models.ExposureCurve{Scenario: scenario, Points: points}
	}
	return curves, nil
}
