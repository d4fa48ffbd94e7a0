package gex

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"gamma-profiler/internal/errors"
	"gamma-profiler/internal/models"
)

type pairKey struct {
	expiration string
	strike     string
}

func keyOf(exp time.Time, strike decimal.Decimal) pairKey {
	return pairKey{expiration: exp.Format("2006-01-02"), strike: strike.String()}
}

func describe(q models.ContractQuote) string {
	return fmt.Sprintf("{exp=%s,strike=%s}", q.Expiration.Format("2006-01-02"), q.Strike.String())
}

// MergePairs joins call and put legs on (expiration, strike).
//
// Both sides must hold the same set of keys, each exactly once. Any
// mismatch rejects the whole input; no partial result is returned.
// Output follows the order of calls.
func MergePairs(calls, puts []models.ContractQuote) ([]models.PairedContract, error) {
	if len(calls) != len(puts) {
		return nil, errors.NewPairAlignmentError(-1, "", "",
			fmt.Sprintf("%d calls vs %d puts", len(calls), len(puts)))
	}

	putsByKey := make(map[pairKey]int, len(puts))
	for i, p := range puts {
		if p.Right != models.RightPut {
			return nil, errors.NewPairAlignmentError(i, "", describe(p), "non-put row in put list")
		}
		k := keyOf(p.Expiration, p.Strike)
		if _, dup := putsByKey[k]; dup {
			return nil, errors.NewPairAlignmentError(i, "", describe(p), "duplicate put contract")
		}
		putsByKey[k] = i
	}

	seen := make(map[pairKey]struct{}, len(calls))
	pairs := make([]models.PairedContract, 0, len(calls))
	for i, c := range calls {
		if c.Right != models.RightCall {
			return nil, errors.NewPairAlignmentError(i, describe(c), "", "non-call row in call list")
		}
		k := keyOf(c.Expiration, c.Strike)
		if _, dup := seen[k]; dup {
			return nil, errors.NewPairAlignmentError(i, describe(c), "", "duplicate call contract")
		}
		seen[k] = struct{}{}

		j, ok := putsByKey[k]
		if !ok {
			put := ""
			if i < len(puts) {
				put = describe(puts[i])
			}
			return nil, errors.NewPairAlignmentError(i, describe(c), put, "no put with matching expiration and strike")
		}
		pairs = append(pairs, models.PairedContract{
			Expiration: c.Expiration,
			Strike:     c.Strike,
			Call:       c,
			Put:        puts[j],
		})
	}

	return pairs, nil
}
