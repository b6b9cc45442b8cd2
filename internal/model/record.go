package model

import "time"

// DateLayout is the rendering of every date column in the report artifact.
const DateLayout = "02-01-2006"

// Verdict is the outcome of comparing a TAT day count with its target.
// The zero value means no verdict could be computed.
type Verdict string

const (
	VerdictUnknown Verdict = ""
	VerdictInTAT   Verdict = "InTAT"
	VerdictOutTAT  Verdict = "OutTAT"
)

// Known reports whether the verdict was computable.
func (v Verdict) Known() bool {
	return v == VerdictInTAT || v == VerdictOutTAT
}

// TATKind selects one of the four TAT measurements.
type TATKind string

const (
	TATDispatch TATKind = "dispatch"
	TATPlaced   TATKind = "placed"
	TATConsumer TATKind = "consumer"
	TATPickup   TATKind = "pickup"
)

// Dates holds the parsed form of every raw date column. A zero time.Time
// means the cell was empty or could not be parsed.
type Dates struct {
	OrderDate      time.Time
	Placed         time.Time
	IdealDispatch  time.Time
	IdealDispatchR time.Time
	Dispatch       time.Time
	Assigned       time.Time
	Pickup         time.Time
	Delivery       time.Time
}

// Record is an order enriched with every derived TAT field. Pointer fields
// are nil when the value is not computable for this order.
type Record struct {
	Order
	Dates Dates

	Week          *int
	FacilityKind  FacilityKind
	StatusClass   StatusClass
	ReshippedFlag bool

	EffectivePickup   time.Time
	EffectiveDelivery time.Time

	IdealDeliveryTAT  *int // Calculated Ideal Delivery TAT
	IdealPlacedTAT    *int // Ideal Placed to Delivery TAT
	ConsumerPlacedTAT *int // Consumer Placed to Delivery TAT

	DispatchDays *int
	PlacedDays   *int
	PickupDays   *int

	DispatchStatus Verdict
	PlacedStatus   Verdict
	ConsumerStatus Verdict
	PickupStatus   Verdict
}

// Verdict returns the status for the given TAT kind.
func (r *Record) Verdict(kind TATKind) Verdict {
	switch kind {
	case TATDispatch:
		return r.DispatchStatus
	case TATPlaced:
		return r.PlacedStatus
	case TATConsumer:
		return r.ConsumerStatus
	case TATPickup:
		return r.PickupStatus
	default:
		return VerdictUnknown
	}
}

// FormatDate renders t in the artifact layout, or "" for an absent date.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}
