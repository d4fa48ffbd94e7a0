// Package models provides domain models for gamma exposure analysis.
package models

import (
	"time"
)

// Right is the exercise right of an option contract.
type Right string

const (
	RightCall Right = "CALL"
	RightPut  Right = "PUT"
)

// Scenario selects which expirations contribute to an exposure curve.
type Scenario string

const (
	ScenarioAll           Scenario = "all"
	ScenarioExNextExpiry  Scenario = "ex_next_expiry"
	ScenarioExNextMonthly Scenario = "ex_next_monthly"
)

// Scenarios lists every scenario in curve order.
var Scenarios = [...]Scenario{ScenarioAll, ScenarioExNextExpiry, ScenarioExNextMonthly}

// QuoteRow is a raw per-contract row as delivered by a data provider.
type QuoteRow struct {
	Symbol       string  `json:"option" csv:"symbol"`
	ImpliedVol   float64 `json:"iv" csv:"iv"`
	Gamma        float64 `json:"gamma" csv:"gamma"`
	OpenInterest float64 `json:"open_interest" csv:"open_interest"`
}

// Snapshot is the immutable input of a single analysis run.
type Snapshot struct {
	Ticker         string
	Spot           float64
	EvaluationDate time.Time
	Calls          []QuoteRow
	Puts           []QuoteRow
}

// Report is the full output of a single analysis run.
type Report struct {
	Ticker            string           `json:"ticker"`
	Spot              float64          `json:"spot"`
	EvaluationDate    time.Time        `json:"evaluation_date"`
	MoveFraction      float64          `json:"move_fraction"`
	PairCount         int              `json:"pair_count"`
	Strikes           []StrikeExposure `json:"strikes"`
	TotalExposure     float64          `json:"total_exposure"`
	Levels            []float64        `json:"levels"`
	Curves            []ExposureCurve  `json:"curves"`
	Flip              FlipPoint        `json:"flip"`
	NextExpiry        time.Time        `json:"next_expiry"`
	NextMonthlyExpiry time.Time        `json:"next_monthly_expiry"`
}

// Curve returns the curve for the given scenario, or nil.
func (r *Report) Curve(s Scenario) *ExposureCurve {
	for i := range r.Curves {
		if r.Curves[i].Scenario == s {
			return &r.Curves[i]
		}
	}
	return nil
}
