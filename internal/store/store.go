// Package store provides persistence for analysis run history.
package store

import (
	"context"
	"time"

	"gamma-profiler/internal/models"
)

// RunStore defines the interface for run history persistence.
type RunStore interface {
	// SaveRun records a finished analysis with its strike table and returns
	// the new run id.
	SaveRun(ctx context.Context, report *models.Report, moveBps float64) (int64, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]Run, error)
	RunStrikes(ctx context.Context, runID int64) ([]models.StrikeExposure, error)

	// Lifecycle
	Close() error
}

// Run is the stored summary of one analysis.
type Run struct {
	ID             int64     `json:"id"`
	Ticker         string    `json:"ticker"`
	EvaluationDate time.Time `json:"evaluation_date"`
	Spot           float64   `json:"spot"`
	TotalExposure  float64   `json:"total_exposure"`
	FlipFound      bool      `json:"flip_found"`
	FlipLevel      float64   `json:"flip_level,omitempty"`
	PairCount      int       `json:"pair_count"`
	MoveBps        float64   `json:"move_bps"`
	CreatedAt      time.Time `json:"created_at"`
}

// RunFilter represents filters for querying runs.
type RunFilter struct {
	Ticker    string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}
