package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"market-scout/models"
)

const maxTitleWidth = 48

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func renderListings(w io.Writer, listings []models.AnnotatedListing) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Title", "Price", "Resale", "Score", "Estimate", "Time to sell", "Link"})
	for _, l := range listings {
		row := table.Row{text.Trim(l.Title, maxTitleWidth), euros(l.Price)}
		if rec := l.Recommendation; rec != nil {
			row = append(row, rec.Label, rec.Score,
				fmt.Sprintf("%s - %s", euros(rec.EstimatedRange.Low), euros(rec.EstimatedRange.High)),
				rec.TimeToSell)
		} else {
			row = append(row, "", "", "", "")
		}
		t.AppendRow(append(row, l.Link))
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	t.Render()
}

func renderStats(w io.Writer, stats *models.MarketStats, saturation string) {
	if stats == nil {
		fmt.Fprintln(w, "No listings found.")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"Listings", "Average", "Min", "Max", "Saturation"})
	t.AppendRow(table.Row{stats.Count, euros(stats.Average), euros(stats.Min), euros(stats.Max), saturation})
	t.Render()
}

func euros(v float64) string {
	return fmt.Sprintf("%.2f €", v)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}
