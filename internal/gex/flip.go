package gex

import (
	"math"

	"gamma-profiler/internal/models"
)

// LocateFlip finds the first sign change of values across levels and
// interpolates linearly between the two bracketing levels. Crossings after
// the first are ignored, and nothing is extrapolated beyond the grid.
func LocateFlip(levels, values []float64) models.FlipPoint {
	n := len(levels)
	if len(values) < n {
		n = len(values)
	}

	for i := 0; i+1 < n; i++ {
		g0, g1 := values[i], values[i+1]
		if math.IsNaN(g0) || math.IsNaN(g1) || sign(g0) == sign(g1) {
			continue
		}
		l0, l1 := levels[i], levels[i+1]
		return models.FlipPoint{Found: true, Level: l1 - (l1-l0)*g1/(g1-g0)}
	}
	return models.FlipPoint{}
}

// FlipFromCurve locates the flip of a single exposure curve.
func FlipFromCurve(c models.ExposureCurve) models.FlipPoint {
	levels := make([]float64, len(c.Points))
	for i, p := range c.Points {
		levels[i] = p.Level
	}
	return LocateFlip(levels, c.Values())
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
