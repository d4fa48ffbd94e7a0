package feed

import (
	"context"
	"os"

	"github.com/gocarina/gocsv"

	"gamma-profiler/internal/errors"
	"gamma-profiler/internal/models"
)

// CSVSource reads rows of symbol,iv,gamma,open_interest. CSV exports carry
// no spot, so the caller supplies it.
type CSVSource struct {
	Path string
	Spot float64
}

// Fetch decodes the rows at Path.
func (c CSVSource) Fetch(ctx context.Context, ticker string) (*models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ticker = NormalizeTicker(ticker)
	if c.Spot <= 0 {
		return nil, errors.NewValidationError("spot", c.Spot, "CSV input requires a positive spot")
	}

	file, err := os.Open(c.Path)
	if err != nil {
		return nil, errors.NewDataError("csv", ticker, "opening rows", err)
	}
	defer file.Close()

	var rows []models.QuoteRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, errors.NewDataError("csv", ticker, "decoding rows", err)
	}

	calls, puts, err := Partition(rows)
	if err != nil {
		return nil, errors.NewDataError("csv", ticker, "partitioning rows", err)
	}
	return &models.Snapshot{
		Ticker: ticker,
		Spot:   c.Spot,
		Calls:  calls,
		Puts:   puts,
	}, nil
}
