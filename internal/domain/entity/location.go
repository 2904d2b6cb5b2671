// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// Location is a merchant-configured site that slots belong to.
// Locations are owned by the admin collaborator and are read-only inputs here.
type Location struct {
	ID               uuid.UUID // The unique identifier for the location.
	MerchantID       uuid.UUID // The merchant that owns this location.
	Name             string    // Display name, e.g., "Downtown Store".
	FullAddress      string    // The full, human-readable street address.
	Latitude         *float64  // Geographic latitude; nil when the location has not been geocoded.
	Longitude        *float64  // Geographic longitude; nil when the location has not been geocoded.
	SupportsDelivery bool      // Whether delivery slots may be offered from this location.
	SupportsPickup   bool      // Whether pickup slots may be offered at this location.
	IsActive         bool      // Inactive locations are never eligible.
	CreatedAt        time.Time // Timestamp of when this location was created.
	UpdatedAt        time.Time // Timestamp of the last modification.
}

// HasCoordinates reports whether the location has been geocoded.
func (l *Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// Point returns the location's coordinates as an orb.Point (lng, lat).
// The boolean is false when the location has no coordinates.
func (l *Location) Point() (orb.Point, bool) {
	if !l.HasCoordinates() {
		return orb.Point{}, false
	}

	return orb.Point{*l.Longitude, *l.Latitude}, true
}

// Supports reports whether the location offers the given fulfillment type.
// An empty fulfillment type acts as "any" and matches every active service.
func (l *Location) Supports(fulfillment FulfillmentType) bool {
	switch fulfillment {
	case FulfillmentDelivery:
		return l.SupportsDelivery
	case FulfillmentPickup:
		return l.SupportsPickup
	default:
		return l.SupportsDelivery || l.SupportsPickup
	}
}
