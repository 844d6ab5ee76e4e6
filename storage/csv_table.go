package storage

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// csvTable is one flat CSV file with a fixed header. The header is written once, when
// the file is first created or found empty. It is safe for concurrent use.
type csvTable struct {
	mu     sync.Mutex
	path   string
	header []string
}

func newCSVTable(path string, header ...string) *csvTable {
	return &csvTable{path: path, header: header}
}

func (t *csvTable) ensureHeader() error {
	if fi, err := os.Stat(t.path); err == nil && fi.Size() > 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(t.path), 0755); err != nil {
		return fmt.Errorf("csv: create dir for %q: %w", t.path, err)
	}
	f, err := os.OpenFile(t.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("csv: create %q: %w", t.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()
	return w.Error()
}

// append adds rows at the end of the file.
func (t *csvTable) append(rows ...[]string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ensureHeader(); err != nil {
		return err
	}
	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("csv: open %q: %w", t.path, err)
	}
	defer f.Close()

	bufw := bufio.NewWriter(f)
	w := csv.NewWriter(bufw)
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv: write row: %w", err)
	}
	return bufw.Flush()
}

// rows returns every data row. A missing file has no rows.
func (t *csvTable) rows() ([][]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.readLocked()
}

func (t *csvTable) readLocked() ([][]string, error) {
	f, err := os.Open(t.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", t.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	var out [][]string
	first := true
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read %q: %w", t.path, err)
		}
		if first {
			first = false
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// update rewrites the whole file from fn's result, atomically.
func (t *csvTable) update(fn func(rows [][]string) ([][]string, error)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	current, err := t.readLocked()
	if err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(t.path), 0755); err != nil {
		return fmt.Errorf("csv: create dir for %q: %w", t.path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(t.path), filepath.Base(t.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("csv: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(append([][]string{t.header}, next...)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("csv: write %q: %w", t.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("csv: close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), t.path); err != nil {
		return fmt.Errorf("csv: replace %q: %w", t.path, err)
	}
	return nil
}

// clear deletes the file.
func (t *csvTable) clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := os.Remove(t.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("csv: remove %q: %w", t.path, err)
	}
	return nil
}
