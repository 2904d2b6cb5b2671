package repository

import (
	"context"

	"slotwise/internal/domain/entity"
	"slotwise/internal/errors"

	"github.com/google/uuid"
)

// ErrLocationNotFound is returned when a location is not found.
var ErrLocationNotFound = errors.New("location not found")

// LocationRepository defines read access to merchant locations.
// Locations are owned by the admin collaborator; this core never writes them.
type LocationRepository interface {
	// FindLocationByID retrieves a location by its unique ID.
	FindLocationByID(ctx context.Context, id uuid.UUID) (*entity.Location, error)

	// FindActiveLocationsByMerchant retrieves all active locations of a merchant.
	FindActiveLocationsByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*entity.Location, error)
}

// ZoneRepository defines read access to geographic eligibility zones.
type ZoneRepository interface {
	// FindActiveZonesByMerchant retrieves all active zones belonging to
	// the merchant's locations.
	FindActiveZonesByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*entity.Zone, error)
}

// RuleRepository defines read access to booking rules.
type RuleRepository interface {
	// FindActiveRulesByMerchant retrieves all active rules of a merchant.
	FindActiveRulesByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*entity.Rule, error)
}
