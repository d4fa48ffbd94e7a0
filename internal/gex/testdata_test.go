package gex

import (
	"time"

	"gamma-profiler/internal/models"
)

type leg struct {
	exp    time.Time
	strike float64
	vol    float64
	callOI float64
	putOI  float64
	gamma  float64
}

// snapshotOf builds a snapshot with one call and one put row per leg.
func snapshotOf(spot float64, eval time.Time, legs []leg) models.Snapshot {
	snap := models.Snapshot{Ticker: "SPX", Spot: spot, EvaluationDate: eval}
	for _, l := range legs {
		snap.Calls = append(snap.Calls, models.QuoteRow{
			Symbol:       symbol("SPXW", l.exp, models.RightCall, l.strike),
			ImpliedVol:   l.vol,
			Gamma:        l.gamma,
			OpenInterest: l.callOI,
		})
		snap.Puts = append(snap.Puts, models.QuoteRow{
			Symbol:       symbol("SPXW", l.exp, models.RightPut, l.strike),
			ImpliedVol:   l.vol,
			Gamma:        l.gamma,
			OpenInterest: l.putOI,
		})
	}
	return snap
}

// skewedBook is put-heavy below spot and call-heavy above it, so its
// all-expiry curve crosses zero inside a ±20% band around 100.
func skewedBook() models.Snapshot {
	eval := date("2025-01-13")
	var legs []leg
	for _, exp := range []time.Time{date("2025-01-13"), date("2025-01-15"), date("2025-01-17"), date("2025-02-21")} {
		for _, k := range []float64{85, 90, 95, 100, 105, 110, 115} {
			l := leg{exp: exp, strike: k, vol: 0.25, gamma: 0.01}
			switch {
			case k < 100:
				l.putOI, l.callOI = 5000, 200
			case k > 100:
				l.putOI, l.callOI = 200, 5000
			default:
				l.putOI, l.callOI = 1000, 1000
			}
			legs = append(legs, l)
		}
	}
	return snapshotOf(100, eval, legs)
}

func pairsOf(snap models.Snapshot) []models.PairedContract {
	calls, err := ParseQuotes(snap.Calls)
	if err != nil {
		panic(err)
	}
	puts, err := ParseQuotes(snap.Puts)
	if err != nil {
		panic(err)
	}
	pairs, err := MergePairs(calls, puts)
	if err != nil {
		panic(err)
	}
	return pairs
}
