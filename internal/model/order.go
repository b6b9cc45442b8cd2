package model

import (
	"regexp"
	"strings"
)

// Order is one row of the consolidated order export after projection to the
// reporting schema. Every field holds the raw cell text; parsing happens in
// the derivation engine.
type Order struct {
	ID                 string // Devx Order ID
	OrderDate          string // Devx Order Date (Date)
	OrderStatus        string // Devx Order Status
	PaymentMethod      string
	PlacedDate         string // UC Order Date (Date)
	IdealDispatchDate  string
	IdealDispatchDateR string // Ideal Dispatch Date(R)
	Facility           string
	Series             string
	FacilityType       string
	City               string // Shipping Address City
	Pincode            string
	UCOrderStatus      string
	UCShippingStatus   string // UC Shipping Package Status
	DispatchDate       string
	UnicomOrderID      string
	ShippingProvider   string
	ShippingCourier    string
	TrackingNo         string
	AssignedDate       string // Assigned Date_D
	CPOrderStatus      string
	PickupDate         string
	DeliveryDate       string
	FinalStatus        string
	Zone               string
	Reshipped          string
}

// FacilityKind classifies a facility by how it records the pickup event.
type FacilityKind string

const (
	// FacilityWarehouse facilities record pickup through the courier assignment date.
	FacilityWarehouse FacilityKind = "warehouse"
	// FacilityDarkStore facilities hand over on the ideal dispatch date.
	FacilityDarkStore FacilityKind = "dark_store"
	// FacilityOther is anything not recognised as one of the above.
	FacilityOther FacilityKind = "other"
)

// StatusClass buckets the free-text final status.
type StatusClass string

const (
	StatusDelivered StatusClass = "Delivered"
	StatusTransit   StatusClass = "Transit"
	StatusRTO       StatusClass = "RTO"
	StatusOther     StatusClass = "Other"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeText lowercases s, collapses whitespace runs (including line
// breaks inside spreadsheet cells) to one space and trims the result.
func NormalizeText(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(strings.ToLower(s), " "))
}
