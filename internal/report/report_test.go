package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamma-profiler/internal/models"
)

func sampleReport() *models.Report {
	levels := []float64{90, 100, 110}
	curve := func(s models.Scenario, vals ...float64) models.ExposureCurve {
		c := models.ExposureCurve{Scenario: s}
		for i, v := range vals {
			c.Points = append(c.Points, models.CurvePoint{Level: levels[i], NetExposure: v})
		}
		return c
	}
	return &models.Report{
		Ticker:         "SPX",
		Spot:           100,
		EvaluationDate: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
		MoveFraction:   0.001,
		PairCount:      3,
		Strikes: []models.StrikeExposure{
			{Strike: decimal.NewFromInt(50), CallExposure: 1e9, NetExposure: 1e9},
			{Strike: decimal.RequireFromString("97.5"), CallExposure: 2e9, PutExposure: -5e9, NetExposure: -3e9, CallOpenInterest: 1200, PutOpenInterest: 4000},
			{Strike: decimal.NewFromInt(105), CallExposure: 4e9, PutExposure: -1e9, NetExposure: 3e9, CallOpenInterest: 3000, PutOpenInterest: 800},
		},
		TotalExposure: 1e9,
		Levels:        levels,
		Curves: []models.ExposureCurve{
			curve(models.ScenarioAll, -2e9, 3e9, 5e9),
			curve(models.ScenarioExNextExpiry, -1e9, 1e9, 2e9),
			curve(models.ScenarioExNextMonthly, -1e9, -0.5e9, 1e9),
		},
		Flip:              models.FlipPoint{Found: true, Level: 94},
		NextExpiry:        time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
		NextMonthlyExpiry: time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC),
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, sampleReport())
	out := buf.String()

	assert.Contains(t, out, "SPX  2025-01-13")
	assert.Contains(t, out, "$1.00 Bn per 10bps move")
	assert.Contains(t, out, "Gamma flip:          94.00")
	assert.Contains(t, out, "Next monthly expiry: 2025-01-17")
}

func TestFlipLabelNotFound(t *testing.T) {
	r := sampleReport()
	r.Flip = models.FlipPoint{}
	assert.Equal(t, "none in band", FlipLabel(r))
}

func TestStrikesInBand(t *testing.T) {
	got := StrikesInBand(sampleReport())
	require.Len(t, got, 2)
	assert.Equal(t, "97.5", got[0].Strike.String())
	assert.Equal(t, "105", got[1].Strike.String())
}

func TestTables(t *testing.T) {
	var buf bytes.Buffer
	Write(&buf, sampleReport())
	out := buf.String()

	assert.Contains(t, out, "Exposure by strike ($Bn per 10bps)")
	assert.Contains(t, out, "97.5")
	assert.NotContains(t, out, " 50 ")
	assert.Contains(t, out, "-3.0000")
	assert.Contains(t, out, "All Expiries")
	assert.Contains(t, out, "Ex-Next Monthly")
	assert.Contains(t, out, "<- flip 94.00")
}

func TestExportCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "spx")
	paths, err := ExportCSV(dir, sampleReport())
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "spx_20250113_strikes.csv"), paths[0])

	f, err := os.Open(paths[0])
	require.NoError(t, err)
	defer f.Close()
	var strikes []*StrikeRow
	require.NoError(t, gocsv.UnmarshalFile(f, &strikes))
	require.Len(t, strikes, 3)
	assert.Equal(t, "97.5", strikes[1].Strike)
	assert.InDelta(t, -3e9, strikes[1].NetExposure, 0)

	g, err := os.Open(paths[1])
	require.NoError(t, err)
	defer g.Close()
	var profile []*ProfileRow
	require.NoError(t, gocsv.UnmarshalFile(g, &profile))
	require.Len(t, profile, 3)
	assert.InDelta(t, 110, profile[2].Level, 0)
	assert.InDelta(t, 5e9, profile[2].All, 0)
	assert.InDelta(t, -0.5e9, profile[1].ExNextMonthly, 0)
}

func TestWriteBatchTable(t *testing.T) {
	var buf bytes.Buffer
	WriteBatchTable(&buf, []BatchRow{
		{Ticker: "SPX", Report: sampleReport()},
		{Ticker: "VIX", Err: errors.New("no option chain published\nsecond line")},
	})
	out := buf.String()
	assert.Contains(t, out, "SPX")
	assert.Contains(t, out, "FAILED: no option chain published")
	assert.NotContains(t, out, "second line")
}
