package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// BookingStatus is the lifecycle state of an order's association with a slot.
type BookingStatus string

const (
	// BookingStatusScheduled is the initial state on creation.
	BookingStatusScheduled BookingStatus = "scheduled"
	// BookingStatusUpdated is set after a successful reschedule.
	BookingStatusUpdated BookingStatus = "updated"
	// BookingStatusCanceled is terminal; the slot capacity has been released.
	BookingStatusCanceled BookingStatus = "canceled"
	// BookingStatusCompleted is terminal, driven by an external fulfillment signal.
	BookingStatusCompleted BookingStatus = "completed"
)

// IsActive reports whether the booking still holds slot capacity.
// At most one active booking may exist per external order identifier.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusScheduled || s == BookingStatusUpdated
}

// Booking links one external order to one slot. Bookings transition between
// statuses but are never physically deleted; cancellation is a status change,
// preserving history for audit and personalization.
type Booking struct {
	ID             uuid.UUID
	OrderID        string // External order identifier, unique among active bookings.
	SlotID         uuid.UUID
	Status         BookingStatus
	Fulfillment    FulfillmentType
	Postcode       string   // Customer postcode, optional.
	Latitude       *float64 // Customer delivery coordinates, optional.
	Longitude      *float64
	WasRecommended bool     // Whether the chosen slot was flagged "recommended".
	RecordedScore  *float64 // Recommendation score at selection time, if any.
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Point returns the customer's delivery coordinates as an orb.Point (lng, lat).
// The boolean is false when the booking carries no coordinates.
func (b *Booking) Point() (orb.Point, bool) {
	if b.Latitude == nil || b.Longitude == nil {
		return orb.Point{}, false
	}

	return orb.Point{*b.Longitude, *b.Latitude}, true
}
