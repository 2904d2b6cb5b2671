package impl

import (
	"context"
	"log/slog"
	"time"

	"slotwise/config"
	"slotwise/internal/domain/entity"
	domainerrors "slotwise/internal/domain/errors"
	"slotwise/internal/domain/repository"
	"slotwise/internal/domain/scheduling"
	"slotwise/internal/domain/scoring"
	"slotwise/internal/domain/zone"
	"slotwise/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// defaultRecommendationHorizon bounds the slot window when the caller gives
// no upper date, and the scheduled-delivery lookup with it.
const defaultRecommendationHorizon = 14 * 24 * time.Hour

// recommendationService implements the RecommendationUsecase interface.
type recommendationService struct {
	locationRepo   repository.LocationRepository
	zoneRepo       repository.ZoneRepository
	ruleRepo       repository.RuleRepository
	weightRepo     repository.WeightRepository
	slotRepo       repository.SlotRepository
	bookingRepo    repository.BookingRepository
	preferenceRepo repository.PreferenceRepository
	config         *config.Config
	logger         *slog.Logger
}

// NewRecommendationService is the constructor for recommendationService.
func NewRecommendationService(
	locationRepo repository.LocationRepository,
	zoneRepo repository.ZoneRepository,
	ruleRepo repository.RuleRepository,
	weightRepo repository.WeightRepository,
	slotRepo repository.SlotRepository,
	bookingRepo repository.BookingRepository,
	preferenceRepo repository.PreferenceRepository,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.RecommendationUsecase {
	return &recommendationService{
		locationRepo:   locationRepo,
		zoneRepo:       zoneRepo,
		ruleRepo:       ruleRepo,
		weightRepo:     weightRepo,
		slotRepo:       slotRepo,
		bookingRepo:    bookingRepo,
		preferenceRepo: preferenceRepo,
		config:         cfg,
		logger:         logger,
	}
}

// RecommendSlots returns the location's bookable slots ranked by weighted score.
func (srv *recommendationService) RecommendSlots(ctx context.Context, input *usecase.RecommendSlotsInput) (*usecase.RecommendSlotsResult, error) {
	if input.Fulfillment != "" && !input.Fulfillment.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown fulfillment type")
	}

	weights, err := srv.loadWeights(ctx, input.MerchantID)
	if err != nil {
		return nil, err
	}
	if !weights.RecommendationsEnabled {
		return nil, domainerrors.ErrRecommendationsDisabled
	}

	location, err := srv.locationRepo.FindLocationByID(ctx, input.LocationID)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return nil, domainerrors.ErrLocationNotFound
		}

		return nil, errors.Wrap(err, "failed to find location")
	}
	if location.MerchantID != input.MerchantID || !location.IsActive {
		return nil, domainerrors.ErrLocationNotFound
	}

	// An ineligible postcode yields an empty list rather than an error:
	// the storefront already showed eligibility, this is just the guard.
	if input.Postcode != "" {
		eligible, err := srv.locationEligible(ctx, input, location)
		if err != nil {
			return nil, err
		}
		if !eligible {
			return &usecase.RecommendSlotsResult{Slots: []usecase.RecommendedSlot{}}, nil
		}
	}

	now := time.Now()
	dateFrom := input.DateFrom
	if dateFrom.IsZero() {
		dateFrom = now.Truncate(24 * time.Hour)
	}
	dateTo := input.DateTo
	if dateTo.IsZero() {
		dateTo = dateFrom.Add(defaultRecommendationHorizon)
	}

	slots, err := srv.slotRepo.FindBookableSlots(ctx, repository.SlotQuery{
		LocationIDs: []uuid.UUID{location.ID},
		Fulfillment: input.Fulfillment,
		DateFrom:    &dateFrom,
		DateTo:      &dateTo,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find bookable slots")
	}

	rules, err := srv.ruleRepo.FindActiveRulesByMerchant(ctx, input.MerchantID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load booking rules")
	}
	slots = scheduling.FilterSlots(now, slots, rules)

	sctx := scoring.Context{
		CustomerPoint: customerPoint(input.Latitude, input.Longitude),
		Preferences:   srv.loadPreferences(ctx, input.CustomerID),
		Config:        srv.scoringConfig(),
	}

	if input.Fulfillment == entity.FulfillmentDelivery || input.Fulfillment == "" {
		deliveries, err := srv.bookingRepo.FindScheduledDeliveries(ctx, dateFrom, dateTo)
		if err != nil {
			// Route clustering degrades to neutral without the data.
			srv.logger.Warn("Failed to load scheduled deliveries for scoring",
				slog.String("error", err.Error()),
			)
		} else {
			sctx.ScheduledDeliveries = deliveries
		}
	}

	candidates := make([]scoring.SlotCandidate, 0, len(slots))
	for _, slot := range slots {
		if slot.Remaining() == 0 {
			continue
		}
		candidates = append(candidates, scoring.SlotCandidate{Slot: slot, Location: location})
	}

	ranked := scoring.RankSlots(candidates, sctx, weights, weights.AlternativesCount)

	result := &usecase.RecommendSlotsResult{
		Slots: make([]usecase.RecommendedSlot, 0, len(ranked)),
	}
	for _, entry := range ranked {
		srv.cacheScore(ctx, entry.Slot.ID, entry.Score)

		result.Slots = append(result.Slots, usecase.RecommendedSlot{
			ID:          entry.Slot.ID,
			LocationID:  entry.Slot.LocationID,
			Fulfillment: entry.Slot.Fulfillment,
			Date:        entry.Slot.Date.Format("2006-01-02"),
			StartTime:   entry.Slot.StartTime,
			EndTime:     entry.Slot.EndTime,
			Remaining:   entry.Slot.Remaining(),
			Score:       entry.Score,
			Factors:     factorBreakdown(entry.Factors),
			Recommended: entry.Recommended,
			Reason:      entry.Reason,
		})
	}

	return result, nil
}

// RecommendLocations ranks the merchant's pickup-capable locations eligible
// for the customer's postcode.
func (srv *recommendationService) RecommendLocations(ctx context.Context, input *usecase.RecommendLocationsInput) (*usecase.RecommendLocationsResult, error) {
	weights, err := srv.loadWeights(ctx, input.MerchantID)
	if err != nil {
		return nil, err
	}
	if !weights.RecommendationsEnabled {
		return nil, domainerrors.ErrRecommendationsDisabled
	}

	locations, err := srv.locationRepo.FindActiveLocationsByMerchant(ctx, input.MerchantID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load merchant locations")
	}
	if len(locations) == 0 {
		return nil, domainerrors.ErrMerchantNotFound
	}

	zones, err := srv.zoneRepo.FindActiveZonesByMerchant(ctx, input.MerchantID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load merchant zones")
	}

	point := customerPoint(input.Latitude, input.Longitude)
	matches := zone.EligibleLocations(zone.Query{
		Postcode:      input.Postcode,
		Fulfillment:   entity.FulfillmentPickup,
		CustomerPoint: point,
	}, zones, locations)

	candidates := make([]*entity.Location, 0, len(matches))
	for _, match := range matches {
		candidates = append(candidates, match.Location)
	}

	sctx := scoring.Context{
		CustomerPoint: point,
		Preferences:   srv.loadPreferences(ctx, input.CustomerID),
		Config:        srv.scoringConfig(),
	}

	ranked := scoring.RankLocations(candidates, sctx, weights, weights.AlternativesCount)

	result := &usecase.RecommendLocationsResult{
		Locations: make([]usecase.RecommendedLocation, 0, len(ranked)),
	}
	for _, entry := range ranked {
		result.Locations = append(result.Locations, usecase.RecommendedLocation{
			ID:          entry.Location.ID,
			Name:        entry.Location.Name,
			Address:     entry.Location.FullAddress,
			Latitude:    entry.Location.Latitude,
			Longitude:   entry.Location.Longitude,
			DistanceKm:  entry.DistanceKm,
			Score:       entry.Score,
			Factors:     factorBreakdown(entry.Factors),
			Recommended: entry.Recommended,
			Reason:      entry.Reason,
		})
	}

	return result, nil
}

// factorBreakdown copies the scored factors onto the response shape.
func factorBreakdown(factors scoring.Factors) usecase.FactorBreakdown {
	return usecase.FactorBreakdown{
		Capacity:        factors.Capacity,
		Distance:        factors.Distance,
		RouteEfficiency: factors.RouteEfficiency,
		Personalization: factors.Personalization,
	}
}

// loadWeights reads the merchant's weight configuration, substituting the
// defaults when none is configured.
func (srv *recommendationService) loadWeights(ctx context.Context, merchantID uuid.UUID) (*entity.WeightConfig, error) {
	weights, err := srv.weightRepo.FindWeightConfigByMerchant(ctx, merchantID)
	if err != nil {
		if errors.Is(err, repository.ErrWeightConfigNotFound) {
			return entity.DefaultWeightConfig(merchantID), nil
		}

		return nil, errors.Wrap(err, "failed to load weight config")
	}

	return weights, nil
}

// loadPreferences reads customer preferences best-effort; scoring treats a
// nil set as neutral.
func (srv *recommendationService) loadPreferences(ctx context.Context, customerID string) *entity.CustomerPreferences {
	if customerID == "" {
		return nil
	}

	prefs, err := srv.preferenceRepo.FindPreferences(ctx, customerID)
	if err != nil {
		srv.logger.Warn("Failed to load customer preferences",
			slog.String("customer_id", customerID),
			slog.String("error", err.Error()),
		)

		return nil
	}

	return prefs
}

// locationEligible reports whether the postcode reaches this location.
func (srv *recommendationService) locationEligible(ctx context.Context, input *usecase.RecommendSlotsInput, location *entity.Location) (bool, error) {
	zones, err := srv.zoneRepo.FindActiveZonesByMerchant(ctx, input.MerchantID)
	if err != nil {
		return false, errors.Wrap(err, "failed to load merchant zones")
	}

	matches := zone.EligibleLocations(zone.Query{
		Postcode:      input.Postcode,
		Fulfillment:   input.Fulfillment,
		CustomerPoint: customerPoint(input.Latitude, input.Longitude),
	}, zones, []*entity.Location{location})

	return len(matches) > 0, nil
}

// cacheScore persists the slot's latest score best-effort.
func (srv *recommendationService) cacheScore(ctx context.Context, slotID uuid.UUID, score float64) {
	if err := srv.slotRepo.UpdateCachedScore(ctx, slotID, score); err != nil {
		srv.logger.Warn("Failed to cache slot score",
			slog.String("slot_id", slotID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func (srv *recommendationService) scoringConfig() scoring.Config {
	cfg := scoring.DefaultConfig()
	if srv.config == nil || srv.config.Scoring == nil {
		return cfg
	}

	if srv.config.Scoring.MaxDistanceKm > 0 {
		cfg.MaxDistanceKm = srv.config.Scoring.MaxDistanceKm
	}
	if srv.config.Scoring.RouteMaxDistanceKm > 0 {
		cfg.RouteMaxDistanceKm = srv.config.Scoring.RouteMaxDistanceKm
	}
	if srv.config.Scoring.RouteWindowMinutes > 0 {
		cfg.RouteWindowMinutes = srv.config.Scoring.RouteWindowMinutes
	}

	return cfg
}
