// Package analysis aggregates derived records into KPI summaries, grouped
// breakdowns and TAT pivots.
package analysis

import (
	"slices"
	"time"

	"github.com/Veraticus/orderflow/internal/model"
)

// Filter narrows records before aggregation. Zero values impose no constraint.
type Filter struct {
	// From and To bound the order-placed date, inclusive.
	From time.Time
	To   time.Time

	Facilities []string
	Couriers   []string
	Zones      []string
	Statuses   []string
}

// Apply returns the matching records in their original order.
func (f Filter) Apply(records []model.Record) []model.Record {
	facilities := normalizeSet(f.Facilities)
	couriers := normalizeSet(f.Couriers)
	zones := normalizeSet(f.Zones)
	statuses := normalizeSet(f.Statuses)

	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if !f.inRange(r.Dates.Placed) {
			continue
		}
		if !matches(facilities, r.Facility) ||
			!matches(couriers, r.ShippingCourier) ||
			!matches(zones, r.Zone) ||
			!matches(statuses, r.FinalStatus) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// IsZero reports whether the filter keeps every record.
func (f Filter) IsZero() bool {
	return f.From.IsZero() && f.To.IsZero() &&
		len(f.Facilities) == 0 && len(f.Couriers) == 0 &&
		len(f.Zones) == 0 && len(f.Statuses) == 0
}

func (f Filter) inRange(placed time.Time) bool {
	if f.From.IsZero() && f.To.IsZero() {
		return true
	}
	if placed.IsZero() {
		return false
	}
	if !f.From.IsZero() && placed.Before(f.From) {
		return false
	}
	return f.To.IsZero() || !placed.After(f.To)
}

func normalizeSet(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if n := model.NormalizeText(v); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func matches(set []string, value string) bool {
	return len(set) == 0 || slices.Contains(set, model.NormalizeText(value))
}
