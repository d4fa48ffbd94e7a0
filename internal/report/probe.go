package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"gamma-profiler/internal/feed"
	"gamma-profiler/pkg/utils"
)

// WriteProbeTable writes availability results, available tickers first,
// followed by a comma-separated list ready for the batch command.
func WriteProbeTable(w io.Writer, results []feed.ProbeResult) {
	table := newTable(w, []string{"Ticker", "Description", "Spot", "Options", "Status"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
	})

	var working []string
	for _, pass := range []bool{true, false} {
		for _, res := range results {
			if res.Available != pass {
				continue
			}
			spot, count := "-", "-"
			status := "✗ " + res.Message
			if res.Available {
				spot = utils.FormatLevel(res.Spot)
				count = fmt.Sprintf("%d", res.OptionCount)
				status = "✓ " + res.Message
				working = append(working, res.Ticker)
			}
			table.Append([]string{res.Ticker, feed.Describe(res.Ticker), spot, count, status})
		}
	}
	table.Render()

	fmt.Fprintf(w, "\n%d of %d tickers available\n", len(working), len(results))
	if len(working) > 0 {
		fmt.Fprintf(w, "Available: %s\n", strings.Join(working, ","))
	}
}
