// Package gex computes dealer gamma exposure for an option book.
//
// Everything in this package is pure: it reads an immutable snapshot and
// returns freshly built values. It performs no I/O and does not log.
package gex

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gamma-profiler/internal/errors"
	"gamma-profiler/internal/models"
)

// Identifier layout, as offsets from the end of the string:
// <underlying><YYMMDD><C|P><strike * 1000, 8 digits>
const (
	identifierSuffixLen = 15
	dateLen             = 6
	strikeLen           = 8
	strikeScale         = -3
	expirationLayout    = "060102"
)

// ParseContract decodes a compact contract identifier such as SPXW250117C05000000.
func ParseContract(symbol string) (models.ContractIdentifier, error) {
	s := strings.TrimSpace(symbol)
	if len(s) < identifierSuffixLen {
		return models.ContractIdentifier{}, errors.NewDataFormatError(symbol, "length", "identifier too short", nil)
	}

	n := len(s)
	dateStr := s[n-identifierSuffixLen : n-identifierSuffixLen+dateLen]
	flag := s[n-strikeLen-1]
	strikeStr := s[n-strikeLen:]

	exp, err := time.ParseInLocation(expirationLayout, dateStr, time.UTC)
	if err != nil {
		return models.ContractIdentifier{}, errors.NewDataFormatError(symbol, "expiration", "invalid date "+dateStr, err)
	}

	var right models.Right
	switch flag {
	case 'C':
		right = models.RightCall
	case 'P':
		right = models.RightPut
	default:
		return models.ContractIdentifier{}, errors.NewDataFormatError(symbol, "right", "unknown right flag "+string(flag), nil)
	}

	strike, err := parseStrike(strikeStr)
	if err != nil {
		return models.ContractIdentifier{}, errors.NewDataFormatError(symbol, "strike", err.Error(), nil)
	}

	return models.ContractIdentifier{
		Underlying: s[:n-identifierSuffixLen],
		Expiration: exp,
		Strike:     strike,
		Right:      right,
	}, nil
}

func parseStrike(raw string) (decimal.Decimal, error) {
	for _, r := range raw {
		if r < '0' || r > '9' {
			return decimal.Zero, errors.NewValidationError("strike", raw, "non-digit in strike field")
		}
	}
	digits := strings.TrimLeft(raw, "0")
	if digits == "" {
		return decimal.Zero, errors.NewValidationError("strike", raw, "strike is zero")
	}
	d, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Shift(strikeScale), nil
}

// ParseQuote decodes a raw row into a quote.
func ParseQuote(row models.QuoteRow) (models.ContractQuote, error) {
	id, err := ParseContract(row.Symbol)
	if err != nil {
		return models.ContractQuote{}, err
	}
	return models.ContractQuote{
		ContractIdentifier: id,
		Symbol:             row.Symbol,
		ImpliedVol:         row.ImpliedVol,
		ReportedGamma:      row.Gamma,
		OpenInterest:       row.OpenInterest,
	}, nil
}

// ParseQuotes decodes every row, failing on the first malformed identifier.
func ParseQuotes(rows []models.QuoteRow) ([]models.ContractQuote, error) {
	out := make([]models.ContractQuote, 0, len(rows))
	for i, row := range rows {
		q, err := ParseQuote(row)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		out = append(out, q)
	}
	return out, nil
}

// RightFlag returns the right encoded in an identifier without a full parse.
// It is used by feeds to partition rows; ok is false if the flag is absent.
func RightFlag(symbol string) (models.Right, bool) {
	s := strings.TrimSpace(symbol)
	if len(s) < identifierSuffixLen {
		return "", false
	}
	switch s[len(s)-strikeLen-1] {
	case 'C':
		return models.RightCall, true
	case 'P':
		return models.RightPut, true
	}
	return "", false
}
