package feed

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"gamma-profiler/internal/errors"
	"gamma-profiler/internal/logging"
	"gamma-profiler/internal/resilience"
)

// ProbeResult reports whether a ticker's chain could be loaded.
type ProbeResult struct {
	Ticker      string  `json:"ticker"`
	Available   bool    `json:"available"`
	Message     string  `json:"message"`
	Spot        float64 `json:"spot"`
	OptionCount int     `json:"option_count"`
}

// Probe fetches every ticker with at most concurrency requests in flight.
// Failures are reported per ticker, never as an error. Results follow the
// input order. Each result is logged at debug level on the context logger.
func Probe(ctx context.Context, src Source, tickers []string, concurrency int) []ProbeResult {
	logger := logging.FromContext(ctx)
	results := make([]ProbeResult, len(tickers))
	if concurrency < 1 {
		concurrency = 1
	}

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, t := range tickers {
		g.Go(func() error {
			res := probeOne(ctx, src, t)
			logger.Debug().
				Str("ticker", res.Ticker).
				Bool("available", res.Available).
				Str("message", res.Message).
				Msg("Probe result")
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func probeOne(ctx context.Context, src Source, ticker string) ProbeResult {
	ticker = NormalizeTicker(ticker)
	res := ProbeResult{Ticker: ticker}

	snap, err := src.Fetch(ctx, ticker)
	if err != nil {
		res.Message = probeMessage(err)
		return res
	}

	res.Available = true
	res.Spot = snap.Spot
	res.OptionCount = len(snap.Calls) + len(snap.Puts)
	res.Message = fmt.Sprintf("Found %d options", res.OptionCount)
	return res
}

func probeMessage(err error) string {
	var se *StatusError
	switch {
	case errors.Is(err, errors.ErrTickerNotFound):
		return "Not published"
	case errors.As(err, &se):
		return fmt.Sprintf("HTTP %d", se.Code)
	case errors.Is(err, resilience.ErrCircuitOpen):
		return "Feed unavailable (circuit open)"
	case errors.Is(err, context.DeadlineExceeded):
		return "Timeout"
	case errors.Is(err, errors.ErrDataFormat):
		return "Invalid data structure"
	}
	var de *errors.DataError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
