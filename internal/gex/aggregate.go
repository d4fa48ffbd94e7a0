package gex

import (
	"sort"

	"gamma-profiler/internal/models"
)

// AggregateByStrike sums current-spot exposure and open interest per strike,
// using the provider's reported gamma. Results are sorted by strike.
func AggregateByStrike(pairs []models.PairedContract, spot, moveFraction float64) ([]models.StrikeExposure, float64) {
	byStrike := make(map[string]*models.StrikeExposure)
	total := 0.0

	for _, p := range pairs {
		callGEX := DollarGamma(p.Call.ReportedGamma, spot, p.Call.OpenInterest, moveFraction)
		putGEX := -DollarGamma(p.Put.ReportedGamma, spot, p.Put.OpenInterest, moveFraction)

		k := p.Strike.String()
		agg, ok := byStrike[k]
		if !ok {
			agg = &models.StrikeExposure{Strike: p.Strike}
			byStrike[k] = agg
		}
		agg.CallExposure += callGEX
		agg.PutExposure += putGEX
		agg.NetExposure += callGEX + putGEX
		agg.CallOpenInterest += p.Call.OpenInterest
		agg.PutOpenInterest += p.Put.OpenInterest

		total += callGEX + putGEX
	}

	out := make([]models.StrikeExposure, 0, len(byStrike))
	for _, agg := range byStrike {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Strike.LessThan(out[j].Strike)
	})

	return out, total
}
