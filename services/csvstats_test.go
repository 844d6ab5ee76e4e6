package services

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"market-scout/models"
)

func TestAnalyzeCSV(t *testing.T) {
	in := "title,price,link\n" +
		"Cap,10,https://x/1\n" +
		"Hoodie,30,https://x/2\n" +
		"Mystery,n/a,https://x/3\n" +
		"Coat,50,https://x/4\n"

	report, err := AnalyzeCSV(strings.NewReader(in))
	require.NoError(t, err)

	require.NotNil(t, report.Stats)
	if report.Stats.Average != 30 || report.Stats.Count != 3 {
		t.Errorf("stats: got %+v, want avg 30 count 3", *report.Stats)
	}
	require.Len(t, report.Rows, 4)

	want := []models.ResaleLabel{
		models.LabelFastResale,   // 10/30
		models.LabelGoodResale,   // 30/30
		models.LabelUnknown,      // n/a
		models.LabelVerySlowSale, // 50/30
	}
	for i, row := range report.Rows {
		if row.Label != want[i] {
			t.Errorf("row %d label: got %q, want %q", i, row.Label, want[i])
		}
	}
	if report.Rows[2].Price != nil {
		t.Errorf("row 2 price: got %v, want nil", *report.Rows[2].Price)
	}
}

func TestAnalyzeCSVMissingPriceColumn(t *testing.T) {
	for _, in := range []string{"", "title,link\nCap,https://x/1\n"} {
		_, err := AnalyzeCSV(strings.NewReader(in))
		if !errors.Is(err, ErrMissingPriceColumn) {
			t.Errorf("input %q: got %v, want ErrMissingPriceColumn", in, err)
		}
	}
}

func TestAnalyzeCSVNoNumericPrices(t *testing.T) {
	report, err := AnalyzeCSV(strings.NewReader("Price\nfree\n\n"))
	require.NoError(t, err)
	require.Nil(t, report.Stats)
	for _, row := range report.Rows {
		if row.Label != models.LabelUnknown {
			t.Errorf("label: got %q, want Unknown", row.Label)
		}
	}
}

func TestAnalyzeCSVNonFinitePrices(t *testing.T) {
	in := "title,price\nA,10\nB,inf\nC,NaN\nD,-Infinity\nE,20\n"

	report, err := AnalyzeCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.NotNil(t, report.Stats)
	if report.Stats.Count != 2 || report.Stats.Average != 15 {
		t.Errorf("stats: got %+v, want count 2 avg 15", *report.Stats)
	}
	for _, i := range []int{1, 2, 3} {
		row := report.Rows[i]
		if row.Price != nil {
			t.Errorf("row %d price: got %v, want nil", i, *row.Price)
		}
		if row.Label != models.LabelUnknown {
			t.Errorf("row %d label: got %q, want Unknown", i, row.Label)
		}
	}

	_, err = json.Marshal(report)
	require.NoError(t, err)
}
