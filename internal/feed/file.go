package feed

import (
	"context"
	"os"

	"gamma-profiler/internal/errors"
	"gamma-profiler/internal/models"
)

// FileSource replays a saved CBOE payload from disk.
type FileSource struct {
	Path string
}

// Fetch decodes the payload at Path. An empty ticker falls back to the
// payload's own symbol.
func (f FileSource) Fetch(ctx context.Context, ticker string) (*models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, errors.NewDataError("file", ticker, "opening payload", err)
	}
	defer file.Close()

	return DecodePayload(file, "file", NormalizeTicker(ticker))
}
