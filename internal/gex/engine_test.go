package gex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamma-profiler/internal/errors"
	"gamma-profiler/internal/models"
)

func TestAnalyzeSkewedBook(t *testing.T) {
	report, err := Analyze(skewedBook(), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "SPX", report.Ticker)
	assert.Equal(t, 28, report.PairCount)
	assert.Len(t, report.Strikes, 7)
	require.Len(t, report.Levels, DefaultLevelCount)
	require.Len(t, report.Curves, 3)
	assert.True(t, date("2025-01-13").Equal(report.NextExpiry))
	assert.True(t, date("2025-01-17").Equal(report.NextMonthlyExpiry))

	all := report.Curve(models.ScenarioAll)
	require.NotNil(t, all)
	values := all.Values()
	assert.Less(t, values[0], 0.0, "put-heavy wing should be short gamma")
	assert.Greater(t, values[len(values)-1], 0.0, "call-heavy wing should be long gamma")

	require.True(t, report.Flip.Found)
	assert.Greater(t, report.Flip.Level, report.Levels[0])
	assert.Less(t, report.Flip.Level, report.Levels[len(report.Levels)-1])

	// The flip sits between the first pair of levels that changes sign.
	for i := 0; i+1 < len(values); i++ {
		if values[i] < 0 && values[i+1] >= 0 {
			assert.GreaterOrEqual(t, report.Flip.Level, report.Levels[i])
			assert.LessOrEqual(t, report.Flip.Level, report.Levels[i+1])
			break
		}
	}

	sum := 0.0
	for _, s := range report.Strikes {
		sum += s.NetExposure
	}
	assert.InDelta(t, sum, report.TotalExposure, 1e-6)
}

func TestAnalyzeMoveFractionScalesEverything(t *testing.T) {
	const k = 2.5
	base := DefaultOptions()
	scaled := DefaultOptions()
	scaled.Model.MoveFraction *= k

	a, err := Analyze(skewedBook(), base)
	require.NoError(t, err)
	b, err := Analyze(skewedBook(), scaled)
	require.NoError(t, err)

	assert.True(t, relClose(k*a.TotalExposure, b.TotalExposure, 1e-12))
	for i := range a.Strikes {
		assert.True(t, relClose(k*a.Strikes[i].NetExposure, b.Strikes[i].NetExposure, 1e-12), "strike %s", a.Strikes[i].Strike)
	}
	for s := range a.Curves {
		av, bv := a.Curves[s].Values(), b.Curves[s].Values()
		for i := range av {
			assert.True(t, relClose(k*av[i], bv[i], 1e-12), "%s level %d", a.Curves[s].Scenario, i)
		}
	}
	assert.InDelta(t, a.Flip.Level, b.Flip.Level, 1e-9)
}

func TestAnalyzeFailsWholeRun(t *testing.T) {
	t.Run("bad identifier", func(t *testing.T) {
		snap := skewedBook()
		snap.Puts[3].Symbol = "XX"
		report, err := Analyze(snap, DefaultOptions())
		assert.Nil(t, report)
		assert.True(t, errors.Is(err, errors.ErrDataFormat))
	})

	t.Run("misaligned legs", func(t *testing.T) {
		snap := skewedBook()
		snap.Puts[3].Symbol = symbol("SPXW", date("2025-01-13"), models.RightPut, 101)
		report, err := Analyze(snap, DefaultOptions())
		assert.Nil(t, report)
		assert.True(t, errors.Is(err, errors.ErrPairAlignment))
	})

	t.Run("non-positive spot", func(t *testing.T) {
		snap := skewedBook()
		snap.Spot = 0
		_, err := Analyze(snap, DefaultOptions())
		assert.True(t, errors.Is(err, errors.ErrInputValidation))
	})

	t.Run("missing evaluation date", func(t *testing.T) {
		snap := skewedBook()
		snap.EvaluationDate = time.Time{}
		_, err := Analyze(snap, DefaultOptions())
		assert.True(t, errors.Is(err, errors.ErrInputValidation))
	})
}

func TestAnalyzeEmptyBook(t *testing.T) {
	snap := models.Snapshot{Ticker: "SPX", Spot: 100, EvaluationDate: date("2025-01-13")}
	report, err := Analyze(snap, DefaultOptions())
	require.NoError(t, err)
	assert.Zero(t, report.PairCount)
	assert.False(t, report.Flip.Found)
	for _, c := range report.Curves {
		assert.Len(t, c.Points, DefaultLevelCount)
	}
}

func TestAnalyzeDropsExpiredContracts(t *testing.T) {
	book := skewedBook()
	book.EvaluationDate = date("2025-01-21")

	report, err := Analyze(book, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 28, report.PairCount)
	assert.True(t, date("2025-02-21").Equal(report.NextExpiry))

	// January legs have expired; the result matches a February-only book.
	live := snapshotOf(100, book.EvaluationDate, nil)
	for i, row := range book.Calls {
		id, err := ParseContract(row.Symbol)
		require.NoError(t, err)
		if id.Expiration.Equal(date("2025-02-21")) {
			live.Calls = append(live.Calls, row)
			live.Puts = append(live.Puts, book.Puts[i])
		}
	}
	want, err := Analyze(live, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, want.Strikes, report.Strikes)
	assert.InDelta(t, want.TotalExposure, report.TotalExposure, 1e-9)
	assert.Equal(t, want.Curves, report.Curves)
}
