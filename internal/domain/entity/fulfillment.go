package entity

// FulfillmentType describes how an order associated with a slot is fulfilled.
type FulfillmentType string

const (
	// FulfillmentDelivery is a slot where the merchant delivers to the customer.
	FulfillmentDelivery FulfillmentType = "delivery"
	// FulfillmentPickup is a slot where the customer collects at the location.
	FulfillmentPickup FulfillmentType = "pickup"
)

// IsValid reports whether the fulfillment type is one of the known values.
func (f FulfillmentType) IsValid() bool {
	return f == FulfillmentDelivery || f == FulfillmentPickup
}
