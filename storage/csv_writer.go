package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"market-scout/models"
)

// ResultsHeader is the column order of exported search results.
var ResultsHeader = []string{
	"title", "price", "link", "resale_label", "resale_score", "resale_min", "resale_max", "time_to_sell",
}

// SearchLogHeader is the column order of search_log.csv and its export.
var SearchLogHeader = []string{"timestamp", "query", "brand", "user"}

// SubscribersHeader is the column order of subscribers.csv and its export.
var SubscribersHeader = []string{"email", "start_date", "expiry_date"}

// WriteResultsCSV serializes annotated listings, header first. Listings without a
// recommendation leave the resale columns empty.
func WriteResultsCSV(w io.Writer, listings []models.AnnotatedListing) error {
	return writeCSV(w, ResultsHeader, listings, resultRow)
}

// WriteSearchLogCSV serializes search events in the search_log.csv layout.
func WriteSearchLogCSV(w io.Writer, events []models.SearchEvent) error {
	return writeCSV(w, SearchLogHeader, events, searchRow)
}

// WriteSubscribersCSV serializes subscribers in the subscribers.csv layout.
func WriteSubscribersCSV(w io.Writer, subs []models.Subscriber) error {
	return writeCSV(w, SubscribersHeader, subs, subscriberRow)
}

func writeCSV[T any](w io.Writer, header []string, items []T, row func(T) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, it := range items {
		if err := cw.Write(row(it)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func searchRow(ev models.SearchEvent) []string {
	return []string{formatTime(ev.Timestamp), ev.Query, ev.Brand, ev.User}
}

func subscriberRow(sub models.Subscriber) []string {
	return []string{sub.Email, formatTime(sub.StartDate), formatTime(sub.ExpiryDate)}
}

func resultRow(l models.AnnotatedListing) []string {
	row := []string{l.Title, formatFloat(l.Price), l.Link, "", "", "", "", ""}
	if rec := l.Recommendation; rec != nil {
		row[3] = string(rec.Label)
		row[4] = strconv.Itoa(rec.Score)
		row[5] = formatFloat(rec.EstimatedRange.Low)
		row[6] = formatFloat(rec.EstimatedRange.High)
		row[7] = rec.TimeToSell
	}
	return row
}

// CSVWriter writes annotated search results to a file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(ResultsHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends rows for listings.
func (c *CSVWriter) Write(listings []models.AnnotatedListing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		if err := c.writer.Write(resultRow(l)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
