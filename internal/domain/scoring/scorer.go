// Package scoring blends capacity, distance, route-efficiency, and
// personalization signals into one weighted recommendation score per
// candidate slot or location. It never mutates candidates and substitutes
// neutral scores for missing optional data.
package scoring

import (
	"math"

	"slotwise/internal/domain/entity"
	"slotwise/internal/domain/geo"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// Config carries the tunable scoring parameters.
type Config struct {
	// MaxDistanceKm is the proximity ceiling for the distance factor.
	MaxDistanceKm float64
	// RouteMaxDistanceKm is the wider ceiling for route clustering.
	RouteMaxDistanceKm float64
	// RouteWindowMinutes bounds how far apart two start times may be for
	// deliveries to count as route-comparable.
	RouteWindowMinutes int
}

// DefaultConfig returns the standard scoring parameters.
func DefaultConfig() Config {
	return Config{
		MaxDistanceKm:      geo.DefaultMaxDistanceKm,
		RouteMaxDistanceKm: geo.RouteMaxDistanceKm,
		RouteWindowMinutes: 120,
	}
}

// Factors are the four per-candidate factor scores, each in [0,1].
type Factors struct {
	Capacity        float64 `json:"capacity"`
	Distance        float64 `json:"distance"`
	RouteEfficiency float64 `json:"route_efficiency"`
	Personalization float64 `json:"personalization"`
}

// Context is the customer-side input shared by every candidate of one
// scoring request.
type Context struct {
	// CustomerPoint is the customer's geocoded delivery address, if known.
	CustomerPoint *orb.Point
	// Preferences are the customer's learned habits; nil means no signal.
	Preferences *entity.CustomerPreferences
	// ScheduledDeliveries are the currently committed deliveries used by
	// the route-efficiency factor.
	ScheduledDeliveries []entity.ScheduledDelivery
	// Config holds the scoring parameters; zero values fall back to
	// DefaultConfig.
	Config Config
}

func (c Context) config() Config {
	cfg := c.Config
	defaults := DefaultConfig()
	if cfg.MaxDistanceKm <= 0 {
		cfg.MaxDistanceKm = defaults.MaxDistanceKm
	}
	if cfg.RouteMaxDistanceKm <= 0 {
		cfg.RouteMaxDistanceKm = defaults.RouteMaxDistanceKm
	}
	if cfg.RouteWindowMinutes <= 0 {
		cfg.RouteWindowMinutes = defaults.RouteWindowMinutes
	}

	return cfg
}

// CapacityScore is a step function of utilization that penalizes near-full
// slots before they become unbookable, steering demand away from contention.
func CapacityScore(capacity, booked int) float64 {
	if capacity <= 0 || capacity-booked <= 0 {
		return 0
	}

	utilization := float64(booked) / float64(capacity)
	switch {
	case utilization >= 0.9:
		return 0.2
	case utilization >= 0.7:
		return 0.5
	case utilization >= 0.5:
		return 0.8
	default:
		return 1.0
	}
}

// DistanceScore maps the customer-to-location distance onto [0,1], neutral
// when either side lacks coordinates.
func DistanceScore(customer *orb.Point, location *entity.Location, maxDistanceKm float64) float64 {
	if customer == nil || location == nil {
		return geo.NeutralScore
	}
	origin, ok := location.Point()
	if !ok {
		return geo.NeutralScore
	}

	return geo.ProximityScore(geo.DistanceKm(origin, *customer), maxDistanceKm)
}

// RouteEfficiencyScore rewards delivery slots whose location clusters
// geographically with already-committed deliveries on the same calendar day
// within the start-time window. Neutral when no comparable deliveries exist
// or the location has no coordinates.
func RouteEfficiencyScore(location *entity.Location, slot *entity.Slot, deliveries []entity.ScheduledDelivery, cfg Config) float64 {
	if location == nil || slot == nil {
		return geo.NeutralScore
	}
	origin, ok := location.Point()
	if !ok {
		return geo.NeutralScore
	}
	slotStart, ok := slot.StartMinutes()
	if !ok {
		return geo.NeutralScore
	}

	var totalKm float64
	var comparable int
	for i := range deliveries {
		delivery := &deliveries[i]
		if !slot.SameDay(delivery.SlotDate) {
			continue
		}
		deliveryStart, ok := delivery.StartMinutes()
		if !ok {
			continue
		}
		if abs(deliveryStart-slotStart) > cfg.RouteWindowMinutes {
			continue
		}

		totalKm += geo.DistanceKm(origin, delivery.Point())
		comparable++
	}

	if comparable == 0 {
		return geo.NeutralScore
	}

	return geo.ProximityScore(totalKm/float64(comparable), cfg.RouteMaxDistanceKm)
}

// SlotPersonalizationScore starts neutral and adds bonuses for preferred
// weekdays and start times, capped at 1.0.
func SlotPersonalizationScore(slot *entity.Slot, prefs *entity.CustomerPreferences) float64 {
	score := geo.NeutralScore
	if prefs == nil || slot == nil {
		return score
	}

	if prefs.HasWeekday(slot.Weekday()) {
		score += 0.3
	}
	if prefs.HasTime(slot.StartTime) {
		score += 0.2
	}
	if score > 1.0 {
		return 1.0
	}

	return score
}

// LocationPersonalizationScore uses the same neutral base scale as slot
// personalization: 0.5 baseline, +0.5 when the location is preferred.
func LocationPersonalizationScore(locationID uuid.UUID, prefs *entity.CustomerPreferences) float64 {
	if prefs == nil || !prefs.HasLocation(locationID) {
		return geo.NeutralScore
	}

	return 1.0
}

// CombinedScore blends the factors by the merchant's weights, normalized by
// their sum and rounded to two decimal places. A zero weight sum yields a
// neutral 0.5 for every candidate.
func CombinedScore(factors Factors, weights *entity.WeightConfig) float64 {
	sum := weights.Sum()
	if sum <= 0 {
		return geo.NeutralScore
	}

	weighted := factors.Capacity*weights.Capacity +
		factors.Distance*weights.Distance +
		factors.RouteEfficiency*weights.RouteEfficiency +
		factors.Personalization*weights.Personalization

	return math.Round(weighted/sum*100) / 100
}

// Reason phrases for the dominant weighted factor.
const (
	ReasonCapacity        = "plenty of capacity"
	ReasonDistance        = "close to you"
	ReasonRouteEfficiency = "fits existing delivery routes"
	ReasonPersonalization = "matches your preferences"
	ReasonBalanced        = "good overall fit"
)

// Reason names the weighted factor that contributed the most to the score,
// or a generic phrase when no single factor dominates.
func Reason(factors Factors, weights *entity.WeightConfig) string {
	contributions := []struct {
		value  float64
		phrase string
	}{
		{factors.Capacity * weights.Capacity, ReasonCapacity},
		{factors.Distance * weights.Distance, ReasonDistance},
		{factors.RouteEfficiency * weights.RouteEfficiency, ReasonRouteEfficiency},
		{factors.Personalization * weights.Personalization, ReasonPersonalization},
	}

	const epsilon = 1e-9
	best := 0
	dominant := true
	for i := 1; i < len(contributions); i++ {
		switch {
		case contributions[i].value > contributions[best].value+epsilon:
			best = i
			dominant = true
		case contributions[i].value > contributions[best].value-epsilon:
			dominant = false
		}
	}

	if !dominant || contributions[best].value <= epsilon {
		return ReasonBalanced
	}

	return contributions[best].phrase
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
