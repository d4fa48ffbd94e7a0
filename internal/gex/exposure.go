package gex

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"gamma-profiler/internal/models"
)

const (
	// ContractMultiplier is the number of shares per index option contract.
	ContractMultiplier = 100
	// BusinessDaysPerYear is the day count used for maturity fractions.
	BusinessDaysPerYear = 262
)

// ModelParams are the flat model inputs shared by every contract in a run.
type ModelParams struct {
	RiskFreeRate  float64
	DividendYield float64
	MoveFraction  float64 // 0.001 for a 10 bps move
}

// MoveFractionFromBps converts a basis-point move into a fractional move.
func MoveFractionFromBps(bps float64) float64 {
	return bps / 10000
}

// ModelGamma returns the unsigned Black-Scholes gamma of a European option.
// It is 0 when vol or t is 0.
func ModelGamma(spot, strike, vol, t, r, q float64, right models.Right) float64 {
	if t == 0 || vol == 0 {
		return 0
	}

	sqrtT := math.Sqrt(t)
	volSqrtT := vol * sqrtT
	d1 := (math.Log(spot/strike) + (r-q+0.5*vol*vol)*t) / volSqrtT

	if right == models.RightPut {
		d2 := d1 - volSqrtT
		return strike * math.Exp(-r*t) * distuv.UnitNormal.Prob(d2) / (spot * spot * volSqrtT)
	}
	return math.Exp(-q*t) * distuv.UnitNormal.Prob(d1) / (spot * volSqrtT)
}

// DollarGamma scales a unit gamma into currency per move of the underlying.
// The result is unsigned.
func DollarGamma(gamma, spot, openInterest, moveFraction float64) float64 {
	return openInterest * ContractMultiplier * spot * spot * moveFraction * gamma
}

// Exposure is the signed dealer gamma exposure of one contract at a
// hypothetical spot. Puts are negated. It is exactly 0 when vol or t is 0.
func Exposure(spot, strike, vol, t, r, q float64, right models.Right, openInterest, moveFraction float64) float64 {
	if t == 0 || vol == 0 {
		return 0
	}
	g := DollarGamma(ModelGamma(spot, strike, vol, t, r, q, right), spot, openInterest, moveFraction)
	if right == models.RightPut {
		return -g
	}
	return g
}

// CivilDate truncates t to its calendar date at UTC midnight.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BusinessDaysBetween counts weekdays in [from, to). It is negative when
// to precedes from. Holidays are not modelled.
func BusinessDaysBetween(from, to time.Time) int {
	from, to = CivilDate(from), CivilDate(to)
	if to.Before(from) {
		return -BusinessDaysBetween(to, from)
	}

	days := int(to.Sub(from).Hours() / 24)
	weeks, rem := days/7, days%7
	count := weeks * 5

	wd := from.Weekday()
	for i := 0; i < rem; i++ {
		if wd != time.Saturday && wd != time.Sunday {
			count++
		}
		wd = (wd + 1) % 7
	}
	return count
}

// YearsToExpiry is the business-day maturity fraction. A count of zero or
// less is floored to one business day so same-day contracts stay in the model.
func YearsToExpiry(evaluationDate, expiration time.Time) float64 {
	days := BusinessDaysBetween(evaluationDate, expiration)
	if days <= 0 {
		return 1.0 / BusinessDaysPerYear
	}
	return float64(days) / BusinessDaysPerYear
}
