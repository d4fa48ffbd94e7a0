package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"gamma-profiler/internal/errors"
	"gamma-profiler/internal/models"
)

// StrikeRow is a CSV line of the strike export.
type StrikeRow struct {
	Strike           string  `csv:"strike"`
	CallOpenInterest float64 `csv:"call_open_interest"`
	PutOpenInterest  float64 `csv:"put_open_interest"`
	CallExposure     float64 `csv:"call_exposure"`
	PutExposure      float64 `csv:"put_exposure"`
	NetExposure      float64 `csv:"net_exposure"`
}

// ProfileRow is a CSV line of the profile export.
type ProfileRow struct {
	Level         float64 `csv:"level"`
	All           float64 `csv:"all"`
	ExNextExpiry  float64 `csv:"ex_next_expiry"`
	ExNextMonthly float64 `csv:"ex_next_monthly"`
}

// StrikeRows flattens the report's strikes.
func StrikeRows(r *models.Report) []*StrikeRow {
	rows := make([]*StrikeRow, 0, len(r.Strikes))
	for _, s := range r.Strikes {
		rows = append(rows, &StrikeRow{
			Strike:           s.Strike.String(),
			CallOpenInterest: s.CallOpenInterest,
			PutOpenInterest:  s.PutOpenInterest,
			CallExposure:     s.CallExposure,
			PutExposure:      s.PutExposure,
			NetExposure:      s.NetExposure,
		})
	}
	return rows
}

// ProfileRows flattens the report's curves, one row per level.
func ProfileRows(r *models.Report) []*ProfileRow {
	rows := make([]*ProfileRow, len(r.Levels))
	for i, level := range r.Levels {
		rows[i] = &ProfileRow{Level: level}
	}
	for _, c := range r.Curves {
		for i, p := range c.Points {
			if i >= len(rows) {
				break
			}
			switch c.Scenario {
			case models.ScenarioAll:
				rows[i].All = p.NetExposure
			case models.ScenarioExNextExpiry:
				rows[i].ExNextExpiry = p.NetExposure
			case models.ScenarioExNextMonthly:
				rows[i].ExNextMonthly = p.NetExposure
			}
		}
	}
	return rows
}

// ExportCSV writes <ticker>_<date>_strikes.csv and <ticker>_<date>_profile.csv
// under dir and returns the paths written.
func ExportCSV(dir string, r *models.Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "creating export directory")
	}

	stem := strings.ToLower(r.Ticker)
	if !r.EvaluationDate.IsZero() {
		stem += "_" + r.EvaluationDate.Format("20060102")
	}

	strikes := filepath.Join(dir, stem+"_strikes.csv")
	strikeRows := StrikeRows(r)
	if err := writeCSV(strikes, &strikeRows); err != nil {
		return nil, err
	}
	profile := filepath.Join(dir, stem+"_profile.csv")
	profileRows := ProfileRows(r)
	if err := writeCSV(profile, &profileRows); err != nil {
		return nil, err
	}
	return []string{strikes, profile}, nil
}

func writeCSV(path string, rows interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(rows, file); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
