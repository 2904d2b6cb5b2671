package repository

import (
	"context"

	"slotwise/internal/domain/entity"
	"slotwise/internal/errors"

	"github.com/google/uuid"
)

// ErrWeightConfigNotFound is returned when a merchant has no weight configuration.
var ErrWeightConfigNotFound = errors.New("weight configuration not found")

// WeightRepository defines read access to per-merchant scoring weights.
// Read fresh per request; no in-process caching between requests.
type WeightRepository interface {
	// FindWeightConfigByMerchant retrieves the merchant's weight
	// configuration. Callers substitute entity.DefaultWeightConfig on
	// ErrWeightConfigNotFound.
	FindWeightConfigByMerchant(ctx context.Context, merchantID uuid.UUID) (*entity.WeightConfig, error)
}
