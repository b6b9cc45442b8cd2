package analysis

import (
	"math"

	"github.com/Veraticus/orderflow/internal/model"
)

// KPIs are the headline counts of a record set.
type KPIs struct {
	Orders    int
	Delivered int
	RTO       int
	InTransit int
	Reshipped int

	// Delivered orders judged on Placed-to-Delivery.
	DeliveredInTAT  int
	DeliveredOutTAT int
	// In-transit orders judged on Pickup-to-Delivery.
	TransitInTAT  int
	TransitOutTAT int
}

// Summarize counts the KPIs of records.
func Summarize(records []model.Record) KPIs {
	var k KPIs
	for i := range records {
		r := &records[i]
		k.Orders++
		if r.ReshippedFlag {
			k.Reshipped++
		}

		switch r.StatusClass {
		case model.StatusDelivered:
			k.Delivered++
			count(r.PlacedStatus, &k.DeliveredInTAT, &k.DeliveredOutTAT)
		case model.StatusTransit:
			k.InTransit++
			count(r.PickupStatus, &k.TransitInTAT, &k.TransitOutTAT)
		case model.StatusRTO:
			k.RTO++
		}
	}
	return k
}

func count(v model.Verdict, in, out *int) {
	switch v {
	case model.VerdictInTAT:
		*in++
	case model.VerdictOutTAT:
		*out++
	}
}

// Pct is part as a percentage of whole rounded to places decimals, or 0
// when whole is 0.
func Pct(part, whole, places int) float64 {
	if whole <= 0 {
		return 0
	}
	return round(float64(part)/float64(whole)*100, places)
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
