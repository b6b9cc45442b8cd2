// Package ingest reads the consolidated order export, keeps dispatched orders
// with a final status, and projects them onto the reporting schema.
package ingest

import "github.com/Veraticus/orderflow/internal/model"

// Column names of the consolidated export.
const (
	ColOrderID          = "Devx Order ID"
	ColOrderDate        = "Devx Order Date (Date)"
	ColOrderStatus      = "Devx Order Status"
	ColPaymentMethod    = "Payment method"
	ColPlacedDate       = "UC Order Date (Date)"
	ColIdealDispatch    = "Ideal Dispatch Date"
	ColIdealDispatchR   = "Ideal Dispatch Date(R)"
	ColFacility         = "Facility"
	ColSeries           = "Series"
	ColFacilityType     = "Facility Type"
	ColCity             = "Shipping Address City"
	ColPincode          = "Order Pincode"
	ColUCOrderStatus    = "UC Order Status"
	ColUCShippingStatus = "UC Shipping Package Status"
	ColDispatchDate     = "Dispatch Date (Date)"
	ColUnicomOrderID    = "UNICOM Order ID"
	ColShippingProvider = "Shipping provider"
	ColShippingCourier  = "Shipping Courier"
	ColTrackingNo       = "Tracking No."
	ColAssignedDate     = "Assigned Date_D"
	ColCPOrderStatus    = "CP Order Status"
	ColPickupDate       = "Pickup Date (Date)"
	ColDeliveryDate     = "Delivery Date (Date)"
	ColFinalStatus      = "Final Status"
	ColZone             = "Zone"
	ColReshipped        = "Reshipped"

	// ColDispatched drives the retention filter and is dropped by projection.
	ColDispatched = "Order Dispatched"
)

// Field binds a reporting column to its Order field. Optional columns may be
// missing from the export; they project as blanks.
type Field struct {
	Name     string
	Optional bool
	Get      func(*model.Order) string
	Set      func(*model.Order, string)
}

// Schema is the ordered reporting schema.
type Schema []Field

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// ReportingSchema lists the reporting columns in output order. The TAT
// source columns a facility type may never populate are optional.
func ReportingSchema() Schema {
	return Schema{
		{Name: ColOrderID, Get: func(o *model.Order) string { return o.ID }, Set: func(o *model.Order, v string) { o.ID = v }},
		{Name: ColOrderDate, Get: func(o *model.Order) string { return o.OrderDate }, Set: func(o *model.Order, v string) { o.OrderDate = v }},
		{Name: ColOrderStatus, Get: func(o *model.Order) string { return o.OrderStatus }, Set: func(o *model.Order, v string) { o.OrderStatus = v }},
		{Name: ColPaymentMethod, Get: func(o *model.Order) string { return o.PaymentMethod }, Set: func(o *model.Order, v string) { o.PaymentMethod = v }},
		{Name: ColPlacedDate, Get: func(o *model.Order) string { return o.PlacedDate }, Set: func(o *model.Order, v string) { o.PlacedDate = v }},
		{Name: ColIdealDispatch, Get: func(o *model.Order) string { return o.IdealDispatchDate }, Set: func(o *model.Order, v string) { o.IdealDispatchDate = v }},
		{Name: ColIdealDispatchR, Optional: true, Get: func(o *model.Order) string { return o.IdealDispatchDateR }, Set: func(o *model.Order, v string) { o.IdealDispatchDateR = v }},
		{Name: ColFacility, Get: func(o *model.Order) string { return o.Facility }, Set: func(o *model.Order, v string) { o.Facility = v }},
		{Name: ColSeries, Get: func(o *model.Order) string { return o.Series }, Set: func(o *model.Order, v string) { o.Series = v }},
		{Name: ColFacilityType, Get: func(o *model.Order) string { return o.FacilityType }, Set: func(o *model.Order, v string) { o.FacilityType = v }},
		{Name: ColCity, Get: func(o *model.Order) string { return o.City }, Set: func(o *model.Order, v string) { o.City = v }},
		{Name: ColPincode, Get: func(o *model.Order) string { return o.Pincode }, Set: func(o *model.Order, v string) { o.Pincode = v }},
		{Name: ColUCOrderStatus, Get: func(o *model.Order) string { return o.UCOrderStatus }, Set: func(o *model.Order, v string) { o.UCOrderStatus = v }},
		{Name: ColUCShippingStatus, Get: func(o *model.Order) string { return o.UCShippingStatus }, Set: func(o *model.Order, v string) { o.UCShippingStatus = v }},
		{Name: ColDispatchDate, Optional: true, Get: func(o *model.Order) string { return o.DispatchDate }, Set: func(o *model.Order, v string) { o.DispatchDate = v }},
		{Name: ColUnicomOrderID, Get: func(o *model.Order) string { return o.UnicomOrderID }, Set: func(o *model.Order, v string) { o.UnicomOrderID = v }},
		{Name: ColShippingProvider, Get: func(o *model.Order) string { return o.ShippingProvider }, Set: func(o *model.Order, v string) { o.ShippingProvider = v }},
		{Name: ColShippingCourier, Get: func(o *model.Order) string { return o.ShippingCourier }, Set: func(o *model.Order, v string) { o.ShippingCourier = v }},
		{Name: ColTrackingNo, Get: func(o *model.Order) string { return o.TrackingNo }, Set: func(o *model.Order, v string) { o.TrackingNo = v }},
		{Name: ColAssignedDate, Optional: true, Get: func(o *model.Order) string { return o.AssignedDate }, Set: func(o *model.Order, v string) { o.AssignedDate = v }},
		{Name: ColCPOrderStatus, Get: func(o *model.Order) string { return o.CPOrderStatus }, Set: func(o *model.Order, v string) { o.CPOrderStatus = v }},
		{Name: ColPickupDate, Optional: true, Get: func(o *model.Order) string { return o.PickupDate }, Set: func(o *model.Order, v string) { o.PickupDate = v }},
		{Name: ColDeliveryDate, Optional: true, Get: func(o *model.Order) string { return o.DeliveryDate }, Set: func(o *model.Order, v string) { o.DeliveryDate = v }},
		{Name: ColFinalStatus, Get: func(o *model.Order) string { return o.FinalStatus }, Set: func(o *model.Order, v string) { o.FinalStatus = v }},
		{Name: ColZone, Get: func(o *model.Order) string { return o.Zone }, Set: func(o *model.Order, v string) { o.Zone = v }},
		{Name: ColReshipped, Optional: true, Get: func(o *model.Order) string { return o.Reshipped }, Set: func(o *model.Order, v string) { o.Reshipped = v }},
	}
}

// DateColumns are the reporting columns holding dates.
var DateColumns = []string{
	ColOrderDate,
	ColPlacedDate,
	ColIdealDispatch,
	ColIdealDispatchR,
	ColDispatchDate,
	ColAssignedDate,
	ColPickupDate,
	ColDeliveryDate,
}
