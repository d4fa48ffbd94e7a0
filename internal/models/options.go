package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractIdentifier identifies a single listed option contract.
type ContractIdentifier struct {
	Underlying string
	Expiration time.Time // civil date at UTC midnight
	Strike     decimal.Decimal
	Right      Right
}

// ContractQuote is a parsed contract with its market fields.
type ContractQuote struct {
	ContractIdentifier
	Symbol        string
	ImpliedVol    float64
	ReportedGamma float64 // provider unit gamma, valid at current spot only
	OpenInterest  float64
}

// PairedContract joins the call and put legs sharing an expiration and strike.
type PairedContract struct {
	Expiration time.Time
	Strike     decimal.Decimal
	Call       ContractQuote
	Put        ContractQuote
}

// StrikeExposure is the current-spot exposure summed over one strike.
type StrikeExposure struct {
	Strike           decimal.Decimal `json:"strike"`
	CallExposure     float64         `json:"call_exposure"`
	PutExposure      float64         `json:"put_exposure"`
	NetExposure      float64         `json:"net_exposure"`
	CallOpenInterest float64         `json:"call_open_interest"`
	PutOpenInterest  float64         `json:"put_open_interest"`
}

// CurvePoint is one sample of an exposure curve.
type CurvePoint struct {
	Level       float64 `json:"level"`
	NetExposure float64 `json:"net_exposure"`
}

// ExposureCurve is aggregate exposure across a grid of hypothetical spot levels.
type ExposureCurve struct {
	Scenario Scenario     `json:"scenario"`
	Points   []CurvePoint `json:"points"`
}

// Values returns the curve's exposures in level order.
func (c ExposureCurve) Values() []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.NetExposure
	}
	return out
}

// FlipPoint is the interpolated spot where exposure changes sign.
// Found is false when the scanned band holds no sign change.
type FlipPoint struct {
	Found bool    `json:"found"`
	Level float64 `json:"level,omitempty"`
}
