// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Billion is the display unit for dollar gamma.
const Billion = 1e9

// FormatBillions formats a dollar amount in billions, e.g. "$-1.23 Bn".
func FormatBillions(amount float64) string {
	return fmt.Sprintf("$%.2f Bn", amount/Billion)
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatLevel formats a spot level, dropping decimals for large indices.
func FormatLevel(level float64) string {
	if math.Abs(level) >= 1000 {
		return printer.Sprintf("%.0f", math.Round(level))
	}
	return fmt.Sprintf("%.2f", level)
}

// FormatCompact formats a dollar amount in compact form (K/M/Bn).
func FormatCompact(amount float64) string {
	abs := math.Abs(amount)
	switch {
	case abs >= Billion:
		return FormatBillions(amount)
	case abs >= 1e6:
		return fmt.Sprintf("$%.2f M", amount/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("$%.2f K", amount/1e3)
	}
	return fmt.Sprintf("$%.2f", amount)
}

// FormatOpenInterest formats a contract count with thousands separators.
func FormatOpenInterest(oi float64) string {
	return printer.Sprintf("%.0f", oi)
}
