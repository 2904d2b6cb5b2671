package scoring

import (
	"sort"

	"slotwise/internal/domain/entity"
	"slotwise/internal/domain/geo"
)

const (
	// DefaultSlotRecommended is how many top slots are flagged
	// "recommended" when the merchant has not configured an
	// alternatives count.
	DefaultSlotRecommended = 3
	// DefaultLocationRecommended is the location-ranking equivalent.
	DefaultLocationRecommended = 1
)

// SlotCandidate pairs a slot with its location for ranking.
type SlotCandidate struct {
	Slot     *entity.Slot
	Location *entity.Location
}

// RankedSlot is one scored slot in descending-score order.
type RankedSlot struct {
	Slot        *entity.Slot
	Location    *entity.Location
	Score       float64
	Factors     Factors
	Recommended bool
	Reason      string
}

// RankedLocation is one scored location in descending-score order.
type RankedLocation struct {
	Location    *entity.Location
	Score       float64
	Factors     Factors
	Recommended bool
	Reason      string

	// DistanceKm is the customer-to-location distance used for
	// deterministic tie-breaking; nil when unknown.
	DistanceKm *float64
}

// RankSlots scores and sorts a homogeneous slot candidate set. The distance
// factor applies to pickup slots, the route-efficiency factor to delivery
// slots; the other side stays neutral. The top recommendedCount candidates
// are flagged (DefaultSlotRecommended when non-positive). Input candidates
// are never mutated and an empty set ranks to an empty list.
func RankSlots(candidates []SlotCandidate, sctx Context, weights *entity.WeightConfig, recommendedCount int) []RankedSlot {
	cfg := sctx.config()
	ranked := make([]RankedSlot, 0, len(candidates))

	for _, candidate := range candidates {
		factors := Factors{
			Capacity:        CapacityScore(candidate.Slot.Capacity, candidate.Slot.Booked),
			Distance:        geo.NeutralScore,
			RouteEfficiency: geo.NeutralScore,
			Personalization: SlotPersonalizationScore(candidate.Slot, sctx.Preferences),
		}

		switch candidate.Slot.Fulfillment {
		case entity.FulfillmentPickup:
			factors.Distance = DistanceScore(sctx.CustomerPoint, candidate.Location, cfg.MaxDistanceKm)
		case entity.FulfillmentDelivery:
			factors.RouteEfficiency = RouteEfficiencyScore(candidate.Location, candidate.Slot, sctx.ScheduledDeliveries, cfg)
		}

		ranked = append(ranked, RankedSlot{
			Slot:     candidate.Slot,
			Location: candidate.Location,
			Score:    CombinedScore(factors, weights),
			Factors:  factors,
			Reason:   Reason(factors, weights),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if !ranked[i].Slot.Date.Equal(ranked[j].Slot.Date) {
			return ranked[i].Slot.Date.Before(ranked[j].Slot.Date)
		}
		if ranked[i].Slot.StartTime != ranked[j].Slot.StartTime {
			return ranked[i].Slot.StartTime < ranked[j].Slot.StartTime
		}

		return ranked[i].Slot.ID.String() < ranked[j].Slot.ID.String()
	})

	flagTop(len(ranked), recommendedCount, DefaultSlotRecommended, func(i int) {
		ranked[i].Recommended = true
	})

	return ranked
}

// RankLocations scores and sorts a location candidate set. Distance applies
// generally; capacity and route efficiency have no location-level signal and
// stay neutral so the weights keep their configured proportions.
func RankLocations(locations []*entity.Location, sctx Context, weights *entity.WeightConfig, recommendedCount int) []RankedLocation {
	cfg := sctx.config()
	ranked := make([]RankedLocation, 0, len(locations))

	for _, location := range locations {
		factors := Factors{
			Capacity:        geo.NeutralScore,
			Distance:        DistanceScore(sctx.CustomerPoint, location, cfg.MaxDistanceKm),
			RouteEfficiency: geo.NeutralScore,
			Personalization: LocationPersonalizationScore(location.ID, sctx.Preferences),
		}

		entry := RankedLocation{
			Location: location,
			Score:    CombinedScore(factors, weights),
			Factors:  factors,
			Reason:   Reason(factors, weights),
		}
		if sctx.CustomerPoint != nil {
			if origin, ok := location.Point(); ok {
				distance := geo.DistanceKm(origin, *sctx.CustomerPoint)
				entry.DistanceKm = &distance
			}
		}

		ranked = append(ranked, entry)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		di, dj := ranked[i].DistanceKm, ranked[j].DistanceKm
		switch {
		case di != nil && dj != nil && *di != *dj:
			return *di < *dj
		case di != nil && dj == nil:
			return true
		case di == nil && dj != nil:
			return false
		}
		if ranked[i].Location.Name != ranked[j].Location.Name {
			return ranked[i].Location.Name < ranked[j].Location.Name
		}

		return ranked[i].Location.ID.String() < ranked[j].Location.ID.String()
	})

	flagTop(len(ranked), recommendedCount, DefaultLocationRecommended, func(i int) {
		ranked[i].Recommended = true
	})

	return ranked
}

func flagTop(total, recommendedCount, fallback int, mark func(int)) {
	if recommendedCount <= 0 {
		recommendedCount = fallback
	}
	for i := 0; i < total && i < recommendedCount; i++ {
		mark(i)
	}
}
