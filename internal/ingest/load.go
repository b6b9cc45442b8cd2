package ingest

import (
	"context"

	"github.com/Veraticus/orderflow/internal/model"
)

// Load reads path, applies the retention filter against the reporting
// schema and decodes the surviving rows.
func Load(ctx context.Context, path string, opts ReadOptions) ([]model.Order, FilterStats, error) {
	table, err := ReadFile(ctx, path, opts)
	if err != nil {
		return nil, FilterStats{}, err
	}

	schema := ReportingSchema()
	projected, stats, err := Filter(table, schema)
	if err != nil {
		return nil, stats, err
	}

	orders, err := Decode(projected, schema)
	if err != nil {
		return nil, stats, err
	}
	return orders, stats, nil
}
