package cli

import (
	"fmt"
	"strings"
	"time"

	"gamma-profiler/internal/errors"
	"gamma-profiler/internal/feed"
	"gamma-profiler/internal/models"
	"gamma-profiler/pkg/utils"
)

const dateLayout = "2006-01-02"

// ParseEvaluationDate parses a --date value. An empty value means today in
// the configured time zone.
func ParseEvaluationDate(s string, today func() time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return today(), nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, errors.NewValidationError("date", s, "expected YYYY-MM-DD")
	}
	return d, nil
}

// NormalizeTickers upper-cases and de-duplicates tickers, splitting comma
// lists. An empty result falls back to defaults.
func NormalizeTickers(args, defaults []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(list []string) {
		for _, a := range list {
			for _, part := range strings.Split(a, ",") {
				t := feed.NormalizeTicker(part)
				if t == "" || seen[t] {
					continue
				}
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	add(args)
	if len(out) == 0 {
		add(defaults)
	}
	return out
}

// FormatFlip renders the flip and its distance from spot, e.g.
// "4,950 (-1.00% from spot)".
func FormatFlip(r *models.Report) string {
	if !r.Flip.Found {
		return "none in band"
	}
	pct := (r.Flip.Level/r.Spot - 1) * 100
	return fmt.Sprintf("%s (%s from spot)", utils.FormatLevel(r.Flip.Level), utils.FormatPercent(pct))
}

// PerPercentMove rescales total exposure to a 1% spot move. Exposure is
// linear in the move fraction, so this is independent of --move-bps.
func PerPercentMove(r *models.Report) float64 {
	if r.MoveFraction == 0 {
		return 0
	}
	return r.TotalExposure / r.MoveFraction * 0.01
}

// Regime describes which side of the flip spot sits on.
func Regime(r *models.Report) string {
	if r.TotalExposure >= 0 {
		return "long gamma (dealers dampen moves)"
	}
	return "short gamma (dealers amplify moves)"
}
