package utils

import (
	"time"
)

// MarketStatus is the US equity options session state.
type MarketStatus string

const (
	MarketPreOpen MarketStatus = "PRE_OPEN"
	MarketOpen    MarketStatus = "OPEN"
	MarketClosed  MarketStatus = "CLOSED"
)

// NewYork is the exchange timezone for CBOE listed options.
var NewYork *time.Location

func init() {
	var err error
	NewYork, err = time.LoadLocation("America/New_York")
	if err != nil {
		// Fallback to EST; DST is lost but weekday checks still hold.
		NewYork = time.FixedZone("EST", -5*60*60)
	}
}

// GetMarketStatus returns the session state at now.
func GetMarketStatus(now time.Time) MarketStatus {
	now = now.In(NewYork)

	if IsWeekend(now) {
		return MarketClosed
	}

	timeMinutes := now.Hour()*60 + now.Minute()

	// Pre-open: 4:00 - 9:30
	if timeMinutes >= 240 && timeMinutes < 570 {
		return MarketPreOpen
	}

	// Regular session: 9:30 - 16:15 (index options trade to 16:15)
	if timeMinutes >= 570 && timeMinutes < 975 {
		return MarketOpen
	}

	return MarketClosed
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}
