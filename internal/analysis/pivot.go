package analysis

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/orderflow/internal/model"
	"github.com/Veraticus/orderflow/internal/report"
)

var (
	// ErrUnknownColumn is returned when grouping by a column the report lacks.
	ErrUnknownColumn = errors.New("unknown report column")
	// ErrUnknownTAT is returned for a TAT kind a pivot cannot judge.
	ErrUnknownTAT = errors.New("unknown TAT kind")
)

// BlankKey labels groups whose key cell is empty.
const BlankKey = "(blank)"

// BreakdownRow is one group of a breakdown.
type BreakdownRow struct {
	Keys  []string
	Count int
	// Share is Count as a percentage of its parent group: every key but the
	// last. A single-key breakdown shares against the whole set.
	Share float64
}

// Breakdown counts records per distinct combination of the given columns,
// sorted by key.
func Breakdown(records []model.Record, columns ...string) ([]BreakdownRow, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no columns given", ErrUnknownColumn)
	}
	if err := checkColumns(columns...); err != nil {
		return nil, err
	}

	counts := make(map[string]*BreakdownRow)
	parents := make(map[string]int)
	for i := range records {
		keys := make([]string, len(columns))
		for j, c := range columns {
			keys[j] = groupKey(&records[i], c)
		}
		id := strings.Join(keys, "\x00")
		row, ok := counts[id]
		if !ok {
			row = &BreakdownRow{Keys: keys}
			counts[id] = row
		}
		row.Count++
		parents[strings.Join(keys[:len(keys)-1], "\x00")]++
	}

	rows := make([]BreakdownRow, 0, len(counts))
	for _, row := range counts {
		row.Share = Pct(row.Count, parents[strings.Join(row.Keys[:len(row.Keys)-1], "\x00")], 1)
		rows = append(rows, *row)
	}
	slices.SortFunc(rows, func(a, b BreakdownRow) int {
		return slices.Compare(a.Keys, b.Keys)
	})
	return rows, nil
}

// TATPivotRow summarises one value of the pivot column.
type TATPivotRow struct {
	Key    string
	Total  int
	Volume float64

	Delivered       int
	DeliveredInTAT  int
	DeliveredOutTAT int
	Transit         int
	TransitInTAT    int
	TransitOutTAT   int

	// Percentages of Total.
	DeliveredInPct  float64
	DeliveredOutPct float64
	TransitInPct    float64
	TransitOutPct   float64
}

// TATPivot groups records by column and splits delivered and in-transit
// orders by the verdict of kind. Rows are sorted by total descending, then key.
func TATPivot(records []model.Record, column string, kind model.TATKind) ([]TATPivotRow, error) {
	if err := checkColumns(column); err != nil {
		return nil, err
	}
	if !slices.Contains([]model.TATKind{model.TATDispatch, model.TATPlaced, model.TATConsumer, model.TATPickup}, kind) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTAT, kind)
	}

	groups := make(map[string]*TATPivotRow)
	for i := range records {
		r := &records[i]
		key := groupKey(r, column)
		row, ok := groups[key]
		if !ok {
			row = &TATPivotRow{Key: key}
			groups[key] = row
		}
		row.Total++

		switch r.StatusClass {
		case model.StatusDelivered:
			row.Delivered++
			count(r.Verdict(kind), &row.DeliveredInTAT, &row.DeliveredOutTAT)
		case model.StatusTransit:
			row.Transit++
			count(r.Verdict(kind), &row.TransitInTAT, &row.TransitOutTAT)
		}
	}

	rows := make([]TATPivotRow, 0, len(groups))
	for _, row := range groups {
		row.Volume = Pct(row.Total, len(records), 2)
		row.DeliveredInPct = Pct(row.DeliveredInTAT, row.Total, 2)
		row.DeliveredOutPct = Pct(row.DeliveredOutTAT, row.Total, 2)
		row.TransitInPct = Pct(row.TransitInTAT, row.Total, 2)
		row.TransitOutPct = Pct(row.TransitOutTAT, row.Total, 2)
		rows = append(rows, *row)
	}
	slices.SortFunc(rows, func(a, b TATPivotRow) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return rows, nil
}

// DispatchRow is the dispatch verdict split of one facility.
type DispatchRow struct {
	Facility string
	Total    int
	Volume   float64
	InTAT    int
	OutTAT   int
	InPct    float64
	OutPct   float64
}

// DispatchPivot splits records by Facility on the dispatch verdict, sorted by
// facility.
func DispatchPivot(records []model.Record) []DispatchRow {
	groups := make(map[string]*DispatchRow)
	for i := range records {
		r := &records[i]
		key := groupKey(r, "Facility")
		row, ok := groups[key]
		if !ok {
			row = &DispatchRow{Facility: key}
			groups[key] = row
		}
		row.Total++
		count(r.DispatchStatus, &row.InTAT, &row.OutTAT)
	}

	rows := make([]DispatchRow, 0, len(groups))
	for _, row := range groups {
		row.Volume = Pct(row.Total, len(records), 2)
		row.InPct = Pct(row.InTAT, row.Total, 2)
		row.OutPct = Pct(row.OutTAT, row.Total, 2)
		rows = append(rows, *row)
	}
	slices.SortFunc(rows, func(a, b DispatchRow) int {
		return cmp.Compare(a.Facility, b.Facility)
	})
	return rows
}

// ZoneRow is the Pickup-to-Delivery split of one provider, courier and zone.
type ZoneRow struct {
	Provider string
	Courier  string
	Zone     string
	Total    int
	InTAT    int
	OutTAT   int
	InPct    float64
	OutPct   float64
}

// ZonePivot groups records by Shipping provider, Shipping Courier and Zone.
func ZonePivot(records []model.Record) []ZoneRow {
	groups := make(map[[3]string]*ZoneRow)
	for i := range records {
		r := &records[i]
		key := [3]string{
			groupKey(r, "Shipping provider"),
			groupKey(r, "Shipping Courier"),
			groupKey(r, "Zone"),
		}
		row, ok := groups[key]
		if !ok {
			row = &ZoneRow{Provider: key[0], Courier: key[1], Zone: key[2]}
			groups[key] = row
		}
		row.Total++
		count(r.PickupStatus, &row.InTAT, &row.OutTAT)
	}

	rows := make([]ZoneRow, 0, len(groups))
	for _, row := range groups {
		row.InPct = Pct(row.InTAT, row.Total, 2)
		row.OutPct = Pct(row.OutTAT, row.Total, 2)
		rows = append(rows, *row)
	}
	slices.SortFunc(rows, func(a, b ZoneRow) int {
		return cmp.Or(
			cmp.Compare(a.Provider, b.Provider),
			cmp.Compare(a.Courier, b.Courier),
			cmp.Compare(a.Zone, b.Zone),
		)
	})
	return rows
}

func checkColumns(columns ...string) error {
	names := report.ColumnNames()
	for _, c := range columns {
		if !slices.Contains(names, c) {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, c)
		}
	}
	return nil
}

func groupKey(r *model.Record, column string) string {
	v, _ := report.Value(r, column)
	if v = strings.TrimSpace(v); v == "" {
		return BlankKey
	}
	return v
}
