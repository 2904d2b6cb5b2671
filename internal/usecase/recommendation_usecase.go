package usecase

import (
	"context"
	"time"

	"slotwise/internal/domain/entity"

	"github.com/google/uuid"
)

// RecommendSlotsInput carries the inputs of a slot recommendation query.
type RecommendSlotsInput struct {
	MerchantID  uuid.UUID
	LocationID  uuid.UUID
	CustomerID  string
	Fulfillment entity.FulfillmentType
	Postcode    string

	// Latitude/Longitude are the delivery address position, used for
	// route-efficiency clustering on delivery slots.
	Latitude  *float64
	Longitude *float64

	// DateFrom/DateTo bound the slot dates considered (inclusive).
	// Zero values mean "from today" / "no upper bound".
	DateFrom time.Time
	DateTo   time.Time
}

// FactorBreakdown exposes the four weighted factors behind a candidate's
// score, each already normalized to [0,1].
type FactorBreakdown struct {
	Capacity        float64 `json:"capacity"`
	Distance        float64 `json:"distance"`
	RouteEfficiency float64 `json:"route_efficiency"`
	Personalization float64 `json:"personalization"`
}

// RecommendedSlot is one bookable slot with its score and explanation.
type RecommendedSlot struct {
	ID          uuid.UUID              `json:"id"`
	LocationID  uuid.UUID              `json:"location_id"`
	Fulfillment entity.FulfillmentType `json:"fulfillment"`
	Date        string                 `json:"date"`
	StartTime   string                 `json:"start_time"`
	EndTime     string                 `json:"end_time"`
	Remaining   int                    `json:"remaining"`
	Score       float64                `json:"score"`
	Factors     FactorBreakdown        `json:"factors"`
	Recommended bool                   `json:"recommended"`
	Reason      string                 `json:"reason"`
}

// RecommendSlotsResult is the ranked slot list for one location.
type RecommendSlotsResult struct {
	Slots []RecommendedSlot `json:"slots"`
}

// RecommendLocationsInput carries the inputs of a pickup location ranking.
type RecommendLocationsInput struct {
	MerchantID uuid.UUID
	CustomerID string
	Postcode   string
	Latitude   *float64
	Longitude  *float64
}

// RecommendedLocation is one pickup location with its score and explanation.
type RecommendedLocation struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Address     string          `json:"address"`
	Latitude    *float64        `json:"latitude,omitempty"`
	Longitude   *float64        `json:"longitude,omitempty"`
	DistanceKm  *float64        `json:"distance_km,omitempty"`
	Score       float64         `json:"score"`
	Factors     FactorBreakdown `json:"factors"`
	Recommended bool            `json:"recommended"`
	Reason      string          `json:"reason"`
}

// RecommendLocationsResult is the ranked pickup location list.
type RecommendLocationsResult struct {
	Locations []RecommendedLocation `json:"locations"`
}

// RecommendationUsecase scores and ranks bookable slots and pickup locations.
type RecommendationUsecase interface {
	// RecommendSlots returns the location's bookable slots ranked by
	// weighted score. Fails when the merchant has recommendations
	// disabled.
	RecommendSlots(ctx context.Context, input *RecommendSlotsInput) (*RecommendSlotsResult, error)

	// RecommendLocations ranks the merchant's pickup-capable locations
	// that are eligible for the customer's postcode.
	RecommendLocations(ctx context.Context, input *RecommendLocationsInput) (*RecommendLocationsResult, error)
}
