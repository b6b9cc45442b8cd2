// Package report encodes derived records as the CSV report artifact and
// decodes the artifact back for the presentation commands.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/orderflow/internal/engine"
	"github.com/Veraticus/orderflow/internal/ingest"
	"github.com/Veraticus/orderflow/internal/model"
)

// Derived column names, in artifact order.
const (
	ColReshippedFlag     = "Reshipped Flag"
	ColWeek              = "Week"
	ColFacilityKind      = "Facility Kind"
	ColStatusClass       = "Status Class"
	ColEffectivePickup   = "Effective Pickup Date"
	ColEffectiveDelivery = "Effective Delivery Date"
	ColIdealDeliveryTAT  = "Calculated Ideal Delivery TAT"
	ColIdealPlacedTAT    = "Ideal Placed to Delivery TAT"
	ColConsumerPlacedTAT = "Consumer Placed to Delivery TAT"
	ColDispatchTAT       = "Dispatch TAT"
	ColDispatchStatus    = "Dispatch TAT Status"
	ColPlacedTAT         = "Placed to Delivery TAT"
	ColPlacedStatus      = "Placed to Delivery TAT Status"
	ColConsumerStatus    = "Consumer to Delivery TAT Status"
	ColPickupTAT         = "Pickup to Delivery TAT"
	ColPickupStatus      = "Pickup to Delivery TAT Status"
)

// Column describes one artifact column.
type Column struct {
	Name    string
	Derived bool
	Get     func(*model.Record) string
	Set     func(*model.Record, string) error
}

var columns = buildColumns()

var columnIndex = func() map[string]int {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c.Name] = i
	}
	return idx
}()

// ColumnNames returns the artifact header.
func ColumnNames() []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}

// Value returns the rendered cell of column for r.
func Value(r *model.Record, column string) (string, bool) {
	i, ok := columnIndex[column]
	if !ok {
		return "", false
	}
	return columns[i].Get(r), true
}

func buildColumns() []Column {
	dates := map[string]func(*model.Record) *time.Time{
		ingest.ColOrderDate:      func(r *model.Record) *time.Time { return &r.Dates.OrderDate },
		ingest.ColPlacedDate:     func(r *model.Record) *time.Time { return &r.Dates.Placed },
		ingest.ColIdealDispatch:  func(r *model.Record) *time.Time { return &r.Dates.IdealDispatch },
		ingest.ColIdealDispatchR: func(r *model.Record) *time.Time { return &r.Dates.IdealDispatchR },
		ingest.ColDispatchDate:   func(r *model.Record) *time.Time { return &r.Dates.Dispatch },
		ingest.ColAssignedDate:   func(r *model.Record) *time.Time { return &r.Dates.Assigned },
		ingest.ColPickupDate:     func(r *model.Record) *time.Time { return &r.Dates.Pickup },
		ingest.ColDeliveryDate:   func(r *model.Record) *time.Time { return &r.Dates.Delivery },
	}

	var cols []Column
	for _, f := range ingest.ReportingSchema() {
		if parsed, ok := dates[f.Name]; ok {
			cols = append(cols, rawDateColumn(f, parsed))
			continue
		}
		cols = append(cols, Column{
			Name: f.Name,
			Get:  func(r *model.Record) string { return f.Get(&r.Order) },
			Set: func(r *model.Record, v string) error {
				f.Set(&r.Order, v)
				return nil
			},
		})
	}

	return append(cols,
		Column{Name: ColReshippedFlag, Derived: true, Get: func(r *model.Record) string {
			return formatBool(r.ReshippedFlag)
		}, Set: func(r *model.Record, v string) (err error) {
			r.ReshippedFlag, err = parseBool(v)
			return err
		}},
		intColumn(ColWeek, func(r *model.Record) **int { return &r.Week }),
		Column{Name: ColFacilityKind, Derived: true, Get: func(r *model.Record) string {
			return string(r.FacilityKind)
		}, Set: func(r *model.Record, v string) error {
			r.FacilityKind = model.FacilityKind(v)
			return nil
		}},
		Column{Name: ColStatusClass, Derived: true, Get: func(r *model.Record) string {
			return string(r.StatusClass)
		}, Set: func(r *model.Record, v string) error {
			r.StatusClass = model.StatusClass(v)
			return nil
		}},
		dateColumn(ColEffectivePickup, func(r *model.Record) *time.Time { return &r.EffectivePickup }),
		dateColumn(ColEffectiveDelivery, func(r *model.Record) *time.Time { return &r.EffectiveDelivery }),
		intColumn(ColIdealDeliveryTAT, func(r *model.Record) **int { return &r.IdealDeliveryTAT }),
		intColumn(ColIdealPlacedTAT, func(r *model.Record) **int { return &r.IdealPlacedTAT }),
		intColumn(ColConsumerPlacedTAT, func(r *model.Record) **int { return &r.ConsumerPlacedTAT }),
		intColumn(ColDispatchTAT, func(r *model.Record) **int { return &r.DispatchDays }),
		verdictColumn(ColDispatchStatus, func(r *model.Record) *model.Verdict { return &r.DispatchStatus }),
		intColumn(ColPlacedTAT, func(r *model.Record) **int { return &r.PlacedDays }),
		verdictColumn(ColPlacedStatus, func(r *model.Record) *model.Verdict { return &r.PlacedStatus }),
		verdictColumn(ColConsumerStatus, func(r *model.Record) *model.Verdict { return &r.ConsumerStatus }),
		intColumn(ColPickupTAT, func(r *model.Record) **int { return &r.PickupDays }),
		verdictColumn(ColPickupStatus, func(r *model.Record) *model.Verdict { return &r.PickupStatus }),
	)
}

// rawDateColumn renders a parsed raw date in the artifact layout and keeps
// unparseable text as it arrived.
func rawDateColumn(f ingest.Field, parsed func(*model.Record) *time.Time) Column {
	return Column{
		Name: f.Name,
		Get: func(r *model.Record) string {
			if t := *parsed(r); !t.IsZero() {
				return model.FormatDate(t)
			}
			return f.Get(&r.Order)
		},
		Set: func(r *model.Record, v string) error {
			f.Set(&r.Order, v)
			if t, ok := engine.ParseDate(v); ok {
				*parsed(r) = t
			}
			return nil
		},
	}
}

func dateColumn(name string, field func(*model.Record) *time.Time) Column {
	return Column{
		Name:    name,
		Derived: true,
		Get:     func(r *model.Record) string { return model.FormatDate(*field(r)) },
		Set: func(r *model.Record, v string) error {
			if strings.TrimSpace(v) == "" {
				*field(r) = time.Time{}
				return nil
			}
			t, err := time.Parse(model.DateLayout, strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("invalid date %q", v)
			}
			*field(r) = t
			return nil
		},
	}
}

func intColumn(name string, field func(*model.Record) **int) Column {
	return Column{
		Name:    name,
		Derived: true,
		Get: func(r *model.Record) string {
			if p := *field(r); p != nil {
				return strconv.Itoa(*p)
			}
			return ""
		},
		Set: func(r *model.Record, v string) error {
			v = strings.TrimSpace(v)
			if v == "" {
				*field(r) = nil
				return nil
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid integer %q", v)
			}
			*field(r) = &n
			return nil
		},
	}
}

func verdictColumn(name string, field func(*model.Record) *model.Verdict) Column {
	return Column{
		Name:    name,
		Derived: true,
		Get:     func(r *model.Record) string { return string(*field(r)) },
		Set: func(r *model.Record, v string) error {
			verdict := model.Verdict(strings.TrimSpace(v))
			if verdict != model.VerdictUnknown && !verdict.Known() {
				return fmt.Errorf("invalid verdict %q", v)
			}
			*field(r) = verdict
			return nil
		},
	}
}

func formatBool(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true":
		return true, nil
	case "no", "false", "":
		return false, nil
	default:
		return false, fmt.Errorf("invalid flag %q", v)
	}
}
