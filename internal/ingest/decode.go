package ingest

import (
	"fmt"

	"github.com/Veraticus/orderflow/internal/model"
)

// Decode maps the columns of a projected table onto orders. Columns the
// schema does not know are ignored; schema columns absent from the table
// decode as blanks.
func Decode(t *Table, schema Schema) ([]model.Order, error) {
	setters := make([]func(*model.Order, string), len(t.Columns))
	for _, f := range schema {
		if idx := t.Index(f.Name); idx >= 0 {
			setters[idx] = f.Set
		}
	}

	orders := make([]model.Order, len(t.Rows))
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i+1, len(row), len(t.Columns))
		}
		for j, cell := range row {
			if setters[j] != nil {
				setters[j](&orders[i], cell)
			}
		}
	}
	return orders, nil
}
