package gex

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamma-profiler/internal/errors"
	"gamma-profiler/internal/models"
)

func symbol(root string, exp time.Time, right models.Right, strike float64) string {
	flag := 'C'
	if right == models.RightPut {
		flag = 'P'
	}
	return fmt.Sprintf("%s%s%c%08d", root, exp.Format("060102"), flag, int64(strike*1000+0.5))
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestParseContract(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		underlying string
		exp        string
		strike     string
		right      models.Right
	}{
		{"weekly call", "SPXW250117C05000000", "SPXW", "2025-01-17", "5000", models.RightCall},
		{"put", "SPX250321P04800000", "SPX", "2025-03-21", "4800", models.RightPut},
		{"half strike", "NDX250117C21002500", "NDX", "2025-01-17", "21002.5", models.RightCall},
		{"small strike", "SPY250117P00005500", "SPY", "2025-01-17", "5.5", models.RightPut},
		{"no underlying", "250117C05000000", "", "2025-01-17", "5000", models.RightCall},
		{"surrounding space", " SPX250117C05000000 ", "SPX", "2025-01-17", "5000", models.RightCall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseContract(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.underlying, id.Underlying)
			assert.True(t, date(tt.exp).Equal(id.Expiration), "expiration %s", id.Expiration)
			assert.True(t, decimal.RequireFromString(tt.strike).Equal(id.Strike), "strike %s", id.Strike)
			assert.Equal(t, tt.right, id.Right)
		})
	}
}

func TestParseContractRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"too short", "C05000000", "length"},
		{"empty", "", "length"},
		{"bad month", "SPX251317C05000000", "expiration"},
		{"letters in date", "SPX25AB17C05000000", "expiration"},
		{"bad right", "SPX250117X05000000", "right"},
		{"letters in strike", "SPX250117C05A00000", "strike"},
		{"zero strike", "SPX250117C00000000", "strike"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseContract(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrDataFormat))

			var dfe *errors.DataFormatError
			require.True(t, errors.As(err, &dfe))
			assert.Equal(t, tt.field, dfe.Field)
		})
	}
}

func TestParseQuotesReportsRow(t *testing.T) {
	rows := []models.QuoteRow{
		{Symbol: "SPX250117C05000000", ImpliedVol: 0.2, Gamma: 0.001, OpenInterest: 10},
		{Symbol: "garbage"},
	}
	_, err := ParseQuotes(rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
	assert.True(t, errors.Is(err, errors.ErrDataFormat))
}

func TestRightFlag(t *testing.T) {
	r, ok := RightFlag("SPXW250117P05000000")
	assert.True(t, ok)
	assert.Equal(t, models.RightPut, r)

	_, ok = RightFlag("short")
	assert.False(t, ok)

	_, ok = RightFlag("SPXW250117Z05000000")
	assert.False(t, ok)
}
