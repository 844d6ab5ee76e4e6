package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"market-scout/models"
)

// PriceReport is the analysis of an uploaded price sheet.
type PriceReport struct {
	Header []string            `json:"header"`
	Stats  *models.MarketStats `json:"stats"`
	Rows   []LabeledRow        `json:"rows"`
}

// LabeledRow is one input row with its resale label. Rows whose price did not parse are
// labelled Unknown and do not count toward Stats.
type LabeledRow struct {
	Values []string           `json:"values"`
	Price  *float64           `json:"price,omitempty"`
	Label  models.ResaleLabel `json:"label"`
}

// AnalyzeCSV reads a CSV with a header row containing a "price" column and labels each
// row against the sheet's own average price.
func AnalyzeCSV(r io.Reader) (*PriceReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingPriceColumn
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	priceCol := -1
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		if strings.EqualFold(strings.TrimSpace(name), "price") {
			priceCol = i
			break
		}
	}
	if priceCol < 0 {
		return nil, ErrMissingPriceColumn
	}

	var (
		rows   []LabeledRow
		prices []float64
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row %d: %w", len(rows)+2, err)
		}

		row := LabeledRow{Values: record, Label: models.LabelUnknown}
		if priceCol < len(record) {
			if p, ok := parseCell(record[priceCol]); ok {
				row.Price = &p
				prices = append(prices, p)
			}
		}
		rows = append(rows, row)
	}

	report := &PriceReport{Header: header, Stats: AnalyzeValues(prices), Rows: rows}
	if report.Stats != nil {
		for i := range report.Rows {
			if p := report.Rows[i].Price; p != nil {
				report.Rows[i].Label = Recommend(*p, report.Stats.Average).Label
			}
		}
	}
	return report, nil
}

// parseCell reads a numeric cell. NaN and infinities count as unparseable.
func parseCell(cell string) (float64, bool) {
	p, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, false
	}
	return p, true
}
