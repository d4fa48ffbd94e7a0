package gex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamma-profiler/internal/errors"
	"gamma-profiler/internal/models"
)

func quote(t *testing.T, exp time.Time, right models.Right, strike float64) models.ContractQuote {
	t.Helper()
	q, err := ParseQuote(models.QuoteRow{
		Symbol:       symbol("SPX", exp, right, strike),
		ImpliedVol:   0.2,
		Gamma:        0.001,
		OpenInterest: 100,
	})
	require.NoError(t, err)
	return q
}

func TestMergePairsAligned(t *testing.T) {
	exp1, exp2 := date("2025-01-17"), date("2025-02-21")
	calls := []models.ContractQuote{
		quote(t, exp1, models.RightCall, 100),
		quote(t, exp1, models.RightCall, 105),
		quote(t, exp2, models.RightCall, 100),
	}
	// Put order differs from call order; pairing is by key.
	puts := []models.ContractQuote{
		quote(t, exp2, models.RightPut, 100),
		quote(t, exp1, models.RightPut, 100),
		quote(t, exp1, models.RightPut, 105),
	}

	pairs, err := MergePairs(calls, puts)
	require.NoError(t, err)
	require.Len(t, pairs, 3)

	for i, p := range pairs {
		assert.True(t, p.Expiration.Equal(calls[i].Expiration))
		assert.True(t, p.Strike.Equal(calls[i].Strike))
		assert.True(t, p.Put.Expiration.Equal(p.Call.Expiration))
		assert.True(t, p.Put.Strike.Equal(p.Call.Strike))
		assert.Equal(t, models.RightPut, p.Put.Right)
	}
}

func TestMergePairsRejectsMismatchedStrike(t *testing.T) {
	exp := date("2025-01-17")
	calls := []models.ContractQuote{
		quote(t, exp, models.RightCall, 95),
		quote(t, exp, models.RightCall, 100),
		quote(t, exp, models.RightCall, 110),
	}
	puts := []models.ContractQuote{
		quote(t, exp, models.RightPut, 95),
		quote(t, exp, models.RightPut, 105),
		quote(t, exp, models.RightPut, 110),
	}

	pairs, err := MergePairs(calls, puts)
	require.Error(t, err)
	assert.Nil(t, pairs)
	assert.True(t, errors.Is(err, errors.ErrPairAlignment))

	var pae *errors.PairAlignmentError
	require.True(t, errors.As(err, &pae))
	assert.Equal(t, 1, pae.Position)
	assert.Contains(t, pae.Call, "strike=100")
	assert.Contains(t, pae.Put, "strike=105")
}

func TestMergePairsRejects(t *testing.T) {
	exp := date("2025-01-17")
	tests := []struct {
		name  string
		calls []models.ContractQuote
		puts  []models.ContractQuote
	}{
		{
			name:  "length mismatch",
			calls: []models.ContractQuote{quote(t, exp, models.RightCall, 100), quote(t, exp, models.RightCall, 105)},
			puts:  []models.ContractQuote{quote(t, exp, models.RightPut, 100)},
		},
		{
			name:  "duplicate put",
			calls: []models.ContractQuote{quote(t, exp, models.RightCall, 100), quote(t, exp, models.RightCall, 105)},
			puts:  []models.ContractQuote{quote(t, exp, models.RightPut, 100), quote(t, exp, models.RightPut, 100)},
		},
		{
			name:  "duplicate call",
			calls: []models.ContractQuote{quote(t, exp, models.RightCall, 100), quote(t, exp, models.RightCall, 100)},
			puts:  []models.ContractQuote{quote(t, exp, models.RightPut, 100), quote(t, exp, models.RightPut, 105)},
		},
		{
			name:  "expiration mismatch",
			calls: []models.ContractQuote{quote(t, exp, models.RightCall, 100)},
			puts:  []models.ContractQuote{quote(t, date("2025-01-24"), models.RightPut, 100)},
		},
		{
			name:  "call in put list",
			calls: []models.ContractQuote{quote(t, exp, models.RightCall, 100)},
			puts:  []models.ContractQuote{quote(t, exp, models.RightCall, 100)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, err := MergePairs(tt.calls, tt.puts)
			assert.Nil(t, pairs)
			assert.True(t, errors.Is(err, errors.ErrPairAlignment), "got %v", err)
		})
	}
}

func TestMergePairsEmpty(t *testing.T) {
	pairs, err := MergePairs(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}
