// Package feed loads option chain snapshots from the CBOE delayed quotes
// endpoint, from saved payloads, and from CSV files.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gamma-profiler/internal/errors"
	"gamma-profiler/internal/gex"
	"gamma-profiler/internal/models"
)

// Source produces a snapshot for a ticker. The returned snapshot carries no
// evaluation date; callers set it explicitly before analysis.
type Source interface {
	Fetch(ctx context.Context, ticker string) (*models.Snapshot, error)
}

// Payload is the subset of the CBOE delayed quotes document the analysis
// reads.
type Payload struct {
	Timestamp string `json:"timestamp"`
	Data      struct {
		Symbol  string            `json:"symbol"`
		Close   float64           `json:"close"`
		Options []models.QuoteRow `json:"options"`
	} `json:"data"`
}

// NormalizeTicker upper-cases a ticker and strips a leading index marker.
func NormalizeTicker(ticker string) string {
	return strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(ticker)), "_")
}

// DecodePayload reads a CBOE payload into a snapshot.
func DecodePayload(r io.Reader, source, ticker string) (*models.Snapshot, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, errors.NewDataError(source, ticker, "invalid JSON", err)
	}
	if p.Data.Options == nil {
		return nil, errors.NewDataError(source, ticker, "invalid data structure: missing data.options", nil)
	}
	return snapshotFromPayload(&p, source, ticker)
}

func snapshotFromPayload(p *Payload, source, ticker string) (*models.Snapshot, error) {
	if ticker == "" {
		ticker = NormalizeTicker(p.Data.Symbol)
	}
	calls, puts, err := Partition(p.Data.Options)
	if err != nil {
		return nil, errors.NewDataError(source, ticker, "partitioning rows", err)
	}
	return &models.Snapshot{
		Ticker: ticker,
		Spot:   p.Data.Close,
		Calls:  calls,
		Puts:   puts,
	}, nil
}

// Partition splits rows into calls and puts by the right flag. A row with
// no recognisable flag is a data format error.
func Partition(rows []models.QuoteRow) (calls, puts []models.QuoteRow, err error) {
	for i, row := range rows {
		right, ok := gex.RightFlag(row.Symbol)
		if !ok {
			return nil, nil, errors.Wrap(
				errors.NewDataFormatError(row.Symbol, "right", "no C/P flag at offset -9", nil),
				fmt.Sprintf("row %d", i))
		}
		if right == models.RightCall {
			calls = append(calls, row)
		} else {
			puts = append(puts, row)
		}
	}
	return calls, puts, nil
}
