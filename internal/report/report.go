// Package report renders analysis results as text, terminal tables and CSV.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"gamma-profiler/internal/models"
	"gamma-profiler/pkg/utils"
)

const dateLayout = "2006-01-02"

var scenarioTitles = map[models.Scenario]string{
	models.ScenarioAll:           "All Expiries",
	models.ScenarioExNextExpiry:  "Ex-Next Expiry",
	models.ScenarioExNextMonthly: "Ex-Next Monthly",
}

// ScenarioTitle returns the display title of a scenario.
func ScenarioTitle(s models.Scenario) string {
	if t, ok := scenarioTitles[s]; ok {
		return t
	}
	return string(s)
}

// MoveLabel renders the move fraction as basis points, e.g. "10bps".
func MoveLabel(moveFraction float64) string {
	return fmt.Sprintf("%gbps", math.Round(moveFraction*1e8)/1e4)
}

// FlipLabel renders the flip level or "none in band".
func FlipLabel(r *models.Report) string {
	if !r.Flip.Found {
		return "none in band"
	}
	return utils.FormatLevel(r.Flip.Level)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

// WriteSummary writes the headline numbers of a report.
func WriteSummary(w io.Writer, r *models.Report) {
	fmt.Fprintf(w, "%s  %s\n", r.Ticker, formatDate(r.EvaluationDate))
	fmt.Fprintf(w, "  Spot:                %s\n", utils.FormatLevel(r.Spot))
	fmt.Fprintf(w, "  Total GEX:           %s per %s move\n", utils.FormatBillions(r.TotalExposure), MoveLabel(r.MoveFraction))
	fmt.Fprintf(w, "  Gamma flip:          %s\n", FlipLabel(r))
	fmt.Fprintf(w, "  Next expiry:         %s\n", formatDate(r.NextExpiry))
	fmt.Fprintf(w, "  Next monthly expiry: %s\n", formatDate(r.NextMonthlyExpiry))
	fmt.Fprintf(w, "  Contracts paired:    %d\n", r.PairCount)
}

// StrikesInBand returns the strikes inside the scanned level range.
func StrikesInBand(r *models.Report) []models.StrikeExposure {
	if len(r.Levels) == 0 {
		return r.Strikes
	}
	lo := decimal.NewFromFloat(r.Levels[0])
	hi := decimal.NewFromFloat(r.Levels[len(r.Levels)-1])

	var out []models.StrikeExposure
	for _, s := range r.Strikes {
		if s.Strike.LessThan(lo) || s.Strike.GreaterThan(hi) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetBorder(false)
	table.SetColumnSeparator("")
	return table
}

// WriteStrikeTable writes per-strike exposure ($Bn) and open interest for
// strikes inside the scanned band.
func WriteStrikeTable(w io.Writer, r *models.Report) {
	table := newTable(w, []string{"Strike", "Call OI", "Put OI", "Call GEX", "Put GEX", "Net GEX"})
	for _, s := range StrikesInBand(r) {
		table.Append([]string{
			s.Strike.String(),
			utils.FormatOpenInterest(s.CallOpenInterest),
			utils.FormatOpenInterest(s.PutOpenInterest),
			billions(s.CallExposure),
			billions(s.PutExposure),
			billions(s.NetExposure),
		})
	}
	table.Render()
}

// WriteCurveTable writes the three scenario curves side by side, one row
// per level. The row bracketing the flip is marked.
func WriteCurveTable(w io.Writer, r *models.Report) {
	header := []string{"Level"}
	for _, c := range r.Curves {
		header = append(header, ScenarioTitle(c.Scenario))
	}
	header = append(header, "")
	table := newTable(w, header)

	for i, level := range r.Levels {
		row := []string{utils.FormatLevel(level)}
		for _, c := range r.Curves {
			if i < len(c.Points) {
				row = append(row, billions(c.Points[i].NetExposure))
			} else {
				row = append(row, "-")
			}
		}
		row = append(row, flipMarker(r, i))
		table.Append(row)
	}
	table.Render()
}

func flipMarker(r *models.Report, i int) string {
	if !r.Flip.Found || i+1 >= len(r.Levels) {
		return ""
	}
	if r.Flip.Level >= r.Levels[i] && r.Flip.Level < r.Levels[i+1] {
		return "<- flip " + utils.FormatLevel(r.Flip.Level)
	}
	return ""
}

func billions(v float64) string {
	return fmt.Sprintf("%.4f", v/utils.Billion)
}

// Write renders the summary followed by both tables.
func Write(w io.Writer, r *models.Report) {
	WriteSummary(w, r)
	fmt.Fprintf(w, "\nExposure by strike ($Bn per %s)\n", MoveLabel(r.MoveFraction))
	WriteStrikeTable(w, r)
	fmt.Fprintf(w, "\nGamma exposure profile ($Bn per %s)\n", MoveLabel(r.MoveFraction))
	WriteCurveTable(w, r)
}

// BatchRow is one line of the batch summary.
type BatchRow struct {
	Ticker string
	Report *models.Report
	Err    error
	Files  []string
}

// WriteBatchTable writes one row per ticker with its headline numbers or
// its failure.
func WriteBatchTable(w io.Writer, rows []BatchRow) {
	table := newTable(w, []string{"Ticker", "Spot", "Total GEX ($Bn)", "Flip", "Status"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
	})
	for _, row := range rows {
		if row.Err != nil {
			table.Append([]string{row.Ticker, "-", "-", "-", "FAILED: " + firstLine(row.Err.Error())})
			continue
		}
		r := row.Report
		table.Append([]string{
			r.Ticker,
			utils.FormatLevel(r.Spot),
			billions(r.TotalExposure),
			FlipLabel(r),
			"ok",
		})
	}
	table.Render()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
