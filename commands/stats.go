package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"market-scout/services"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats <path/to/prices.csv>",
	Short: "Labels each row of a CSV with a price column against the sheet's average.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		report, err := services.AnalyzeCSV(f)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		renderStats(out, report.Stats, "")

		t := newTable(out)
		header := table.Row{}
		for _, h := range report.Header {
			header = append(header, h)
		}
		t.AppendHeader(append(header, "Resale"))
		for _, row := range report.Rows {
			r := table.Row{}
			for _, v := range row.Values {
				r = append(r, v)
			}
			t.AppendRow(append(r, row.Label))
		}
		t.Render()
		return nil
	},
}
