package analysis

import "github.com/Veraticus/orderflow/internal/report"

// Sheet names of the pivot workbook.
const (
	SheetTATPivot = "TAT Pivot"
	SheetDispatch = "Dispatch"
	SheetZone     = "Zone"
)

// TATPivotSheet lays out a TAT pivot as a worksheet.
func TATPivotSheet(column string, rows []TATPivotRow) report.Sheet {
	s := report.Sheet{
		Name: SheetTATPivot,
		Header: []string{
			column, "Total Orders", "% Volume",
			"Delivered", "Delivered InTAT", "Delivered OutTAT",
			"Transit", "Transit InTAT", "Transit OutTAT",
			"Delivered InTAT %", "Delivered OutTAT %", "Transit InTAT %", "Transit OutTAT %",
		},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []any{
			r.Key, r.Total, r.Volume,
			r.Delivered, r.DeliveredInTAT, r.DeliveredOutTAT,
			r.Transit, r.TransitInTAT, r.TransitOutTAT,
			r.DeliveredInPct, r.DeliveredOutPct, r.TransitInPct, r.TransitOutPct,
		})
	}
	return s
}

// DispatchSheet lays out the facility dispatch pivot.
func DispatchSheet(rows []DispatchRow) report.Sheet {
	s := report.Sheet{
		Name:   SheetDispatch,
		Header: []string{"Facility", "Total Orders", "% Volume", "InTAT", "OutTAT", "InTAT %", "OutTAT %"},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []any{r.Facility, r.Total, r.Volume, r.InTAT, r.OutTAT, r.InPct, r.OutPct})
	}
	return s
}

// ZoneSheet lays out the provider, courier and zone pivot.
func ZoneSheet(rows []ZoneRow) report.Sheet {
	s := report.Sheet{
		Name:   SheetZone,
		Header: []string{"Shipping provider", "Shipping Courier", "Zone", "Total Orders", "InTAT", "OutTAT", "InTAT %", "OutTAT %"},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []any{r.Provider, r.Courier, r.Zone, r.Total, r.InTAT, r.OutTAT, r.InPct, r.OutPct})
	}
	return s
}

// BreakdownSheet lays out a breakdown under the given sheet name.
func BreakdownSheet(name string, columns []string, rows []BreakdownRow) report.Sheet {
	s := report.Sheet{Name: name, Header: append(append([]string(nil), columns...), "Count", "Share %")}
	for _, r := range rows {
		cells := make([]any, 0, len(r.Keys)+2)
		for _, k := range r.Keys {
			cells = append(cells, k)
		}
		s.Rows = append(s.Rows, append(cells, r.Count, r.Share))
	}
	return s
}

// KPISheet lists the headline KPIs with their percentages.
func KPISheet(k KPIs) report.Sheet {
	s := report.Sheet{Name: "Summary", Header: []string{"Metric", "Count", "%"}}
	add := func(name string, part, whole int) {
		s.Rows = append(s.Rows, []any{name, part, Pct(part, whole, 1)})
	}
	add("Total Orders", k.Orders, k.Orders)
	add("RTO", k.RTO, k.Orders)
	add("Reshipped", k.Reshipped, k.Orders)
	add("Delivered", k.Delivered, k.Orders)
	add("Delivered InTAT", k.DeliveredInTAT, k.Delivered)
	add("Delivered OutTAT", k.DeliveredOutTAT, k.Delivered)
	add("In-Transit", k.InTransit, k.Orders)
	add("In-Transit InTAT", k.TransitInTAT, k.InTransit)
	add("In-Transit OutTAT", k.TransitOutTAT, k.InTransit)
	return s
}
