package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamma-profiler/internal/models"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithConfig(LogConfig{Level: "info", Console: true, Out: &buf})

	logger.Debug().Msg("hidden")
	tickerLogger := WithTicker(logger, "SPX")
	tickerLogger.Info().Msg("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "SPX")
}

func TestFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gex.log")
	logger := NewLoggerWithConfig(LogConfig{Level: "debug", File: true, FilePath: path, MaxSize: 1})

	batchLogger := WithOperation(logger, "batch")
	batchLogger.Debug().Msg("written")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"operation":"batch"`)
	assert.Contains(t, string(data), `"message":"written"`)
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := WithLogger(context.Background(), logger)

	fromCtx := FromContext(ctx)
	fromCtx.Info().Msg("from context")
	assert.Contains(t, buf.String(), "from context")

	// A bare context yields a no-op logger rather than panicking.
	nop := FromContext(context.Background())
	nop.Info().Msg("dropped")
}

func TestLogReport(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	LogReport(logger, &models.Report{
		Ticker:    "NDX",
		Spot:      20000,
		PairCount: 4,
		Flip:      models.FlipPoint{Found: true, Level: 19850},
	})

	out := buf.String()
	assert.Contains(t, out, `"ticker":"NDX"`)
	assert.Contains(t, out, `"flip_found":true`)
	assert.Contains(t, out, `"flip_level":19850`)
}
