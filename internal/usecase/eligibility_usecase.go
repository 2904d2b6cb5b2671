// Package usecase defines the application-level interfaces and their
// input/output models.
package usecase

import (
	"context"

	"slotwise/internal/domain/entity"

	"github.com/google/uuid"
)

// CheckEligibilityInput carries the inputs of a postcode eligibility check.
type CheckEligibilityInput struct {
	MerchantID  uuid.UUID
	Postcode    string
	Fulfillment entity.FulfillmentType // Empty means any.

	// Latitude/Longitude are the customer's geocoded position when the
	// caller already knows it; radius zones fail closed without them.
	Latitude  *float64
	Longitude *float64
}

// EligibleLocation is one location that may serve the postcode.
type EligibleLocation struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Address          string    `json:"address"`
	SupportsDelivery bool      `json:"supports_delivery"`
	SupportsPickup   bool      `json:"supports_pickup"`
}

// EligibilityServices summarizes which services are available across all
// eligible locations.
type EligibilityServices struct {
	Delivery bool `json:"delivery"`
	Pickup   bool `json:"pickup"`
}

// EligibilityResult is the outcome of a postcode eligibility check.
type EligibilityResult struct {
	Eligible  bool                `json:"eligible"`
	Locations []EligibleLocation  `json:"locations"`
	Services  EligibilityServices `json:"services"`
	Message   string              `json:"message"`
}

// EligibilityUsecase decides which locations may serve a customer's postcode.
type EligibilityUsecase interface {
	// Check runs the zone matcher over the merchant's active zones and
	// locations. Pure read: no state is touched.
	Check(ctx context.Context, input *CheckEligibilityInput) (*EligibilityResult, error)
}
