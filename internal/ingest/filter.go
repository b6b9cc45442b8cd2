package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/orderflow/internal/model"
)

// ErrMissingColumn is returned when required columns are absent from the export.
var ErrMissingColumn = errors.New("missing required column")

// FilterStats counts rows at each retention step.
type FilterStats struct {
	Read       int
	Dispatched int
	Kept       int
}

// Filter keeps dispatched rows with a non-blank final status and projects
// them onto schema in schema order. Row order is preserved.
func Filter(t *Table, schema Schema) (*Table, FilterStats, error) {
	var stats FilterStats

	var missing []string
	dispatchedIdx := t.Index(ColDispatched)
	if dispatchedIdx < 0 {
		missing = append(missing, ColDispatched)
	}
	statusIdx := t.Index(ColFinalStatus)
	if statusIdx < 0 {
		missing = append(missing, ColFinalStatus)
	}

	sources := make([]int, len(schema))
	for i, f := range schema {
		sources[i] = t.Index(f.Name)
		if sources[i] < 0 && !f.Optional && f.Name != ColFinalStatus {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return nil, stats, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	out := &Table{Columns: schema.Names(), Rows: make([][]string, 0, len(t.Rows))}
	for _, row := range t.Rows {
		stats.Read++
		if model.NormalizeText(row[dispatchedIdx]) != "yes" {
			continue
		}
		stats.Dispatched++
		if strings.TrimSpace(row[statusIdx]) == "" {
			continue
		}
		stats.Kept++

		projected := make([]string, len(sources))
		for i, src := range sources {
			if src >= 0 {
				projected[i] = row[src]
			}
		}
		out.Rows = append(out.Rows, projected)
	}

	slog.Info("filtered orders",
		"read", stats.Read,
		"dispatched", stats.Dispatched,
		"kept", stats.Kept)
	return out, stats, nil
}
