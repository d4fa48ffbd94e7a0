package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"gamma-profiler/internal/store"
	"gamma-profiler/pkg/utils"
)

// WriteHistoryTable writes stored runs, newest first.
func WriteHistoryTable(w io.Writer, runs []store.Run) {
	table := newTable(w, []string{"ID", "Date", "Ticker", "Spot", "Total GEX ($Bn)", "Flip", "Move", "Pairs"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})
	for _, run := range runs {
		flip := "-"
		if run.FlipFound {
			flip = utils.FormatLevel(run.FlipLevel)
		}
		table.Append([]string{
			fmt.Sprintf("%d", run.ID),
			formatDate(run.EvaluationDate),
			run.Ticker,
			utils.FormatLevel(run.Spot),
			billions(run.TotalExposure),
			flip,
			fmt.Sprintf("%gbps", run.MoveBps),
			fmt.Sprintf("%d", run.PairCount),
		})
	}
	table.Render()
}
