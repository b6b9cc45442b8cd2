package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/orderflow/internal/model"
)

// ErrMissingColumn is returned when an artifact lacks a derived column.
var ErrMissingColumn = errors.New("report is missing derived column")

// WriteCSV writes the header and one row per record in input order.
func WriteCSV(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ColumnNames()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(columns))
	for i := range records {
		for j, c := range columns {
			row[j] = c.Get(&records[i])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}
	return nil
}

// WriteFile writes the artifact atomically: a temporary file in the target
// directory is renamed over path once fully written.
func WriteFile(path string, records []model.Record) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	defer func() {
		if err != nil {
			if removeErr := os.Remove(tmp.Name()); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
				slog.Warn("failed to remove temp file", "path", tmp.Name(), "error", removeErr)
			}
		}
	}()

	if err = WriteCSV(tmp, records); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set report permissions: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move report into place: %w", err)
	}

	slog.Info("wrote report", "path", path, "records", len(records))
	return nil
}

// ReadCSV decodes an artifact. Reporting columns may be absent and decode as
// blanks; every derived column must be present.
func ReadCSV(r io.Reader) ([]model.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty report", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	setters := make([]*Column, len(header))
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if idx, ok := columnIndex[name]; ok {
			setters[i] = &columns[idx]
			seen[name] = true
		}
	}

	var missing []string
	for _, c := range columns {
		if c.Derived && !seen[c.Name] {
			missing = append(missing, c.Name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	var records []model.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read report: %w", err)
		}

		var rec model.Record
		for i, cell := range row {
			if i >= len(setters) || setters[i] == nil {
				continue
			}
			if err := setters[i].Set(&rec, cell); err != nil {
				return nil, fmt.Errorf("line %d, column %q: %w", line, setters[i].Name, err)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadFile decodes the artifact at path.
func ReadFile(path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close report", "path", path, "error", closeErr)
		}
	}()
	return ReadCSV(f)
}
