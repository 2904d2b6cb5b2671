// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"

	domainerrors "slotwise/internal/domain/errors"
	"slotwise/internal/domain/repository"
	"slotwise/internal/domain/zone"
	"slotwise/internal/usecase"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// eligibilityService implements the EligibilityUsecase interface.
type eligibilityService struct {
	locationRepo repository.LocationRepository
	zoneRepo     repository.ZoneRepository
	logger       *slog.Logger
}

// NewEligibilityService is the constructor for eligibilityService.
func NewEligibilityService(
	locationRepo repository.LocationRepository,
	zoneRepo repository.ZoneRepository,
	logger *slog.Logger,
) usecase.EligibilityUsecase {
	return &eligibilityService{
		locationRepo: locationRepo,
		zoneRepo:     zoneRepo,
		logger:       logger,
	}
}

// Check runs the zone matcher over the merchant's active zones and locations.
func (srv *eligibilityService) Check(ctx context.Context, input *usecase.CheckEligibilityInput) (*usecase.EligibilityResult, error) {
	if zone.NormalizePostcode(input.Postcode) == "" {
		return nil, domainerrors.ErrInvalidPostcode
	}
	if input.Fulfillment != "" && !input.Fulfillment.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown fulfillment type")
	}

	locations, err := srv.locationRepo.FindActiveLocationsByMerchant(ctx, input.MerchantID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load merchant locations")
	}
	// No merchant table exists; a merchant without a single active
	// location is indistinguishable from an unknown one, and neither has
	// anything to match against.
	if len(locations) == 0 {
		return nil, domainerrors.ErrMerchantNotFound
	}

	zones, err := srv.zoneRepo.FindActiveZonesByMerchant(ctx, input.MerchantID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load merchant zones")
	}

	query := zone.Query{
		Postcode:      input.Postcode,
		Fulfillment:   input.Fulfillment,
		CustomerPoint: customerPoint(input.Latitude, input.Longitude),
	}

	matches := zone.EligibleLocations(query, zones, locations)

	result := &usecase.EligibilityResult{
		Eligible:  len(matches) > 0,
		Locations: make([]usecase.EligibleLocation, 0, len(matches)),
	}

	for _, match := range matches {
		result.Locations = append(result.Locations, usecase.EligibleLocation{
			ID:               match.Location.ID,
			Name:             match.Location.Name,
			Address:          match.Location.FullAddress,
			SupportsDelivery: match.Delivery,
			SupportsPickup:   match.Pickup,
		})
		result.Services.Delivery = result.Services.Delivery || match.Delivery
		result.Services.Pickup = result.Services.Pickup || match.Pickup
	}

	if !result.Eligible {
		result.Message = "此郵遞區號目前不在服務範圍內"
	}

	srv.logger.Debug("Eligibility check completed",
		slog.String("merchant_id", input.MerchantID.String()),
		slog.Bool("eligible", result.Eligible),
		slog.Int("locations", len(result.Locations)),
	)

	return result, nil
}

// customerPoint builds an orb.Point from optional coordinates.
func customerPoint(lat, lng *float64) *orb.Point {
	if lat == nil || lng == nil {
		return nil
	}

	return &orb.Point{*lng, *lat}
}
