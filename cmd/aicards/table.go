package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"ai_card_generator/batch"
)

const frontColumnWidth = 40

// renderReport formats the per-note outcomes of a run as a table.
func renderReport(report batch.Report) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Note", "Deck", "Front", "Outcome", "Mirror", "Reason"})

	for _, res := range report.Results {
		reason := res.Reason
		if reason == "" {
			reason = res.MirrorReason
		}
		tw.AppendRow(table.Row{
			strconv.FormatInt(res.NoteID, 10),
			res.Deck,
			res.Front,
			string(res.Outcome),
			string(res.Mirror),
			reason,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, WidthMax: frontColumnWidth},
		{Number: 6, WidthMax: 60},
	})
	return tw.Render()
}
