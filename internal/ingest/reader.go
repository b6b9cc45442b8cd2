package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither CSV nor a workbook.
	ErrUnsupportedFormat = errors.New("unsupported input format")
	// ErrEmptyInput is returned when the input has no header row.
	ErrEmptyInput = errors.New("input has no header row")
	// ErrSheetNotFound is returned when a requested worksheet does not exist.
	ErrSheetNotFound = errors.New("worksheet not found")
)

// Table is a header row plus data rows. Every row has exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Index returns the position of column name, or -1.
func (t *Table) Index(name string) int {
	return slices.Index(t.Columns, name)
}

// ReadOptions control how an input file is read.
type ReadOptions struct {
	// Sheet selects a worksheet; empty means the first one.
	Sheet string
}

// ReadFile loads a CSV or Excel workbook into a Table.
func ReadFile(ctx context.Context, path string, opts ReadOptions) (*Table, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil {
				slog.Warn("failed to close input", "path", path, "error", closeErr)
			}
		}()
		return ReadCSV(ctx, f)
	case ".xlsx", ".xlsm":
		return readWorkbook(ctx, path, opts.Sheet)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// ReadCSV reads a comma separated table. A UTF-8 byte order mark on the
// header row is ignored.
func ReadCSV(ctx context.Context, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var raw [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		raw = append(raw, rec)
	}
	if len(raw) > 0 && len(raw[0]) > 0 {
		raw[0][0] = strings.TrimPrefix(raw[0][0], "\ufeff")
	}
	return newTable(raw)
}

func readWorkbook(ctx context.Context, path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close workbook", "path", path, "error", closeErr)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyInput
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrSheetNotFound, sheet, strings.Join(sheets, ", "))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Raw values keep date cells as serials rather than locale formatted text.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	slog.Debug("read workbook", "path", path, "sheet", sheet, "rows", len(rows))
	return newTable(rows)
}

// newTable trims header names, pads ragged rows and drops blank rows.
func newTable(raw [][]string) (*Table, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyInput
	}

	columns := make([]string, len(raw[0]))
	for i, name := range raw[0] {
		columns[i] = strings.TrimSpace(name)
	}
	if !slices.ContainsFunc(columns, func(c string) bool { return c != "" }) {
		return nil, ErrEmptyInput
	}

	t := &Table{Columns: columns, Rows: make([][]string, 0, len(raw)-1)}
	for _, rec := range raw[1:] {
		if isBlank(rec) {
			continue
		}
		row := make([]string, len(columns))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func isBlank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
