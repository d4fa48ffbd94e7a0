package gex

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"gamma-profiler/internal/models"
)

func relClose(a, b, tol float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= tol*scale
}

// Exposure is exactly zero for zero vol or zero maturity.
func TestProperty_ExposureDegenerateInputs(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	rightGen := gen.OneConstOf(models.RightCall, models.RightPut)

	properties.Property("zero vol yields zero exposure", prop.ForAll(
		func(spot, strike, years, oi float64, right models.Right) bool {
			return Exposure(spot, strike, 0, years, 0.05, 0.01, right, oi, 0.001) == 0
		},
		gen.Float64Range(1, 10000),
		gen.Float64Range(1, 10000),
		gen.Float64Range(0, 3),
		gen.Float64Range(0, 1e6),
		rightGen,
	))

	properties.Property("zero maturity yields zero exposure", prop.ForAll(
		func(spot, strike, vol, oi float64, right models.Right) bool {
			return Exposure(spot, strike, vol, 0, 0.05, 0.01, right, oi, 0.001) == 0
		},
		gen.Float64Range(1, 10000),
		gen.Float64Range(1, 10000),
		gen.Float64Range(0, 3),
		gen.Float64Range(0, 1e6),
		rightGen,
	))

	properties.TestingRun(t)
}

// Calls and puts carry the same unsigned gamma; their exposures differ only in sign.
func TestProperty_PutCallGammaParity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("call gamma equals put gamma", prop.ForAll(
		func(spot, moneyness, vol, years, rate float64) bool {
			strike := spot * moneyness
			c := ModelGamma(spot, strike, vol, years, rate, rate, models.RightCall)
			p := ModelGamma(spot, strike, vol, years, rate, rate, models.RightPut)
			if !relClose(c, p, 1e-9) {
				t.Logf("call %g put %g (S=%g K=%g vol=%g T=%g)", c, p, spot, strike, vol, years)
				return false
			}
			return true
		},
		gen.Float64Range(10, 10000),
		gen.Float64Range(0.9, 1.1),
		gen.Float64Range(0.1, 1.0),
		gen.Float64Range(0.02, 2),
		gen.Float64Range(0, 0.08),
	))

	properties.Property("put exposure is negated call exposure", prop.ForAll(
		func(spot, moneyness, vol, years, oi float64) bool {
			strike := spot * moneyness
			c := Exposure(spot, strike, vol, years, 0, 0, models.RightCall, oi, 0.001)
			p := Exposure(spot, strike, vol, years, 0, 0, models.RightPut, oi, 0.001)
			return c >= 0 && p <= 0 && relClose(c, -p, 1e-9)
		},
		gen.Float64Range(10, 10000),
		gen.Float64Range(0.9, 1.1),
		gen.Float64Range(0.1, 1.0),
		gen.Float64Range(0.02, 2),
		gen.Float64Range(0, 1e5),
	))

	properties.TestingRun(t)
}

// Scaling the move fraction scales exposure by the same factor.
func TestProperty_MoveFractionScaling(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("exposure is linear in move fraction", prop.ForAll(
		func(spot, moneyness, vol, years, k float64) bool {
			strike := spot * moneyness
			base := Exposure(spot, strike, vol, years, 0, 0, models.RightCall, 500, 0.001)
			scaled := Exposure(spot, strike, vol, years, 0, 0, models.RightCall, 500, 0.001*k)
			return relClose(scaled, k*base, 1e-12)
		},
		gen.Float64Range(10, 10000),
		gen.Float64Range(0.9, 1.1),
		gen.Float64Range(0.1, 1.0),
		gen.Float64Range(0.02, 2),
		gen.Float64Range(0.1, 100),
	))

	properties.TestingRun(t)
}

func TestModelGammaKnownValue(t *testing.T) {
	// ATM, 20% vol, one year, zero carry: d1 = 0.1.
	g := ModelGamma(100, 100, 0.2, 1, 0, 0, models.RightCall)
	want := math.Exp(-0.005) / math.Sqrt(2*math.Pi) / (100 * 0.2)
	assert.InDelta(t, want, g, 1e-12)

	e := Exposure(100, 100, 0.2, 1, 0, 0, models.RightCall, 1000, 0.001)
	assert.InDelta(t, 1000*100*100*100*0.001*want, e, 1e-6)
}

func TestBusinessDaysBetween(t *testing.T) {
	tests := []struct {
		from, to string
		want     int
	}{
		{"2025-01-13", "2025-01-13", 0}, // Mon, same day
		{"2025-01-13", "2025-01-17", 4}, // Mon -> Fri
		{"2025-01-17", "2025-01-20", 1}, // Fri -> Mon
		{"2025-01-18", "2025-01-20", 0}, // Sat -> Mon
		{"2025-01-13", "2025-01-27", 10},
		{"2025-01-13", "2025-02-21", 29},
		{"2025-01-17", "2025-01-13", -4},
	}
	for _, tt := range tests {
		t.Run(tt.from+"_"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, BusinessDaysBetween(date(tt.from), date(tt.to)))
		})
	}
}

func TestBusinessDaysIgnoresTimeOfDay(t *testing.T) {
	from := time.Date(2025, 1, 13, 15, 30, 0, 0, time.UTC)
	to := time.Date(2025, 1, 17, 16, 0, 0, 0, time.UTC)
	assert.Equal(t, 4, BusinessDaysBetween(from, to))
}

func TestYearsToExpiry(t *testing.T) {
	d := date("2025-01-17")
	assert.Equal(t, 1.0/262, YearsToExpiry(d, d))
	assert.Equal(t, 1.0/262, YearsToExpiry(date("2025-01-18"), date("2025-01-20")))
	assert.Equal(t, 1.0/262, YearsToExpiry(date("2025-01-20"), date("2025-01-17")))
	assert.Equal(t, 4.0/262, YearsToExpiry(date("2025-01-13"), d))
}

func TestMoveFractionFromBps(t *testing.T) {
	assert.Equal(t, 0.001, MoveFractionFromBps(10))
	assert.Equal(t, 0.01, MoveFractionFromBps(100))
}
