package scoring

import (
	"testing"
	"time"

	"slotwise/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestCapacityScore(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		booked   int
		expected float64
	}{
		{"non-positive capacity", 0, 0, 0},
		{"fully booked", 10, 10, 0},
		{"overbooked is unbookable", 10, 11, 0},
		{"ninety percent utilization", 10, 9, 0.2},
		{"seventy percent utilization", 10, 7, 0.5},
		{"fifty percent utilization", 10, 5, 0.8},
		{"forty percent utilization", 10, 4, 1.0},
		{"empty slot", 10, 0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CapacityScore(tt.capacity, tt.booked), 1e-9)
		})
	}
}

func floatPtr(v float64) *float64 { return &v }

func testLocation(lat, lng float64) *entity.Location {
	return &entity.Location{
		ID:               uuid.New(),
		Name:             "Store",
		Latitude:         floatPtr(lat),
		Longitude:        floatPtr(lng),
		SupportsDelivery: true,
		SupportsPickup:   true,
		IsActive:         true,
	}
}

func TestDistanceScore_NeutralWhenUnknown(t *testing.T) {
	location := testLocation(25.0330, 121.5654)
	customer := orb.Point{121.5654, 25.0330}

	assert.InDelta(t, 0.5, DistanceScore(nil, location, 10), 1e-9)
	assert.InDelta(t, 0.5, DistanceScore(&customer, nil, 10), 1e-9)

	location.Latitude = nil
	assert.InDelta(t, 0.5, DistanceScore(&customer, location, 10), 1e-9)
}

func TestDistanceScore_SamePointScoresOne(t *testing.T) {
	location := testLocation(25.0330, 121.5654)
	customer := orb.Point{121.5654, 25.0330}

	assert.InDelta(t, 1.0, DistanceScore(&customer, location, 10), 1e-9)
}

func testSlot(date time.Time, startTime string, fulfillment entity.FulfillmentType, capacity, booked int) *entity.Slot {
	return &entity.Slot{
		ID:          uuid.New(),
		LocationID:  uuid.New(),
		Date:        date,
		StartTime:   startTime,
		EndTime:     "23:00",
		Capacity:    capacity,
		Booked:      booked,
		Fulfillment: fulfillment,
		IsActive:    true,
	}
}

func TestRouteEfficiencyScore(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	location := testLocation(25.0330, 121.5654)
	slot := testSlot(day, "10:00", entity.FulfillmentDelivery, 10, 0)
	cfg := DefaultConfig()

	t.Run("no comparable deliveries is neutral", func(t *testing.T) {
		assert.InDelta(t, 0.5, RouteEfficiencyScore(location, slot, nil, cfg), 1e-9)
	})

	t.Run("same-day nearby deliveries score high", func(t *testing.T) {
		deliveries := []entity.ScheduledDelivery{
			{SlotDate: day, StartTime: "10:30", Latitude: 25.0330, Longitude: 121.5654},
			{SlotDate: day, StartTime: "11:00", Latitude: 25.0478, Longitude: 121.5170},
		}
		score := RouteEfficiencyScore(location, slot, deliveries, cfg)
		// Average distance ~2.6 km against the 20 km ceiling.
		assert.Greater(t, score, 0.8)
	})

	t.Run("other days and far start times excluded", func(t *testing.T) {
		deliveries := []entity.ScheduledDelivery{
			{SlotDate: day.AddDate(0, 0, 1), StartTime: "10:00", Latitude: 25.0330, Longitude: 121.5654},
			{SlotDate: day, StartTime: "14:00", Latitude: 25.0330, Longitude: 121.5654},
		}
		assert.InDelta(t, 0.5, RouteEfficiencyScore(location, slot, deliveries, cfg), 1e-9)
	})

	t.Run("window boundary is inclusive", func(t *testing.T) {
		deliveries := []entity.ScheduledDelivery{
			{SlotDate: day, StartTime: "12:00", Latitude: 25.0330, Longitude: 121.5654},
		}
		assert.InDelta(t, 1.0, RouteEfficiencyScore(location, slot, deliveries, cfg), 1e-9)
	})

	t.Run("location without coordinates is neutral", func(t *testing.T) {
		bare := &entity.Location{ID: uuid.New(), IsActive: true}
		deliveries := []entity.ScheduledDelivery{
			{SlotDate: day, StartTime: "10:00", Latitude: 25.0330, Longitude: 121.5654},
		}
		assert.InDelta(t, 0.5, RouteEfficiencyScore(bare, slot, deliveries, cfg), 1e-9)
	})
}

func TestSlotPersonalizationScore(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC) // a Tuesday
	slot := testSlot(day, "10:00", entity.FulfillmentPickup, 10, 0)

	t.Run("nil preferences is neutral", func(t *testing.T) {
		assert.InDelta(t, 0.5, SlotPersonalizationScore(slot, nil), 1e-9)
	})

	t.Run("weekday bonus", func(t *testing.T) {
		prefs := &entity.CustomerPreferences{PreferredWeekdays: []time.Weekday{time.Tuesday}}
		assert.InDelta(t, 0.8, SlotPersonalizationScore(slot, prefs), 1e-9)
	})

	t.Run("time bonus", func(t *testing.T) {
		prefs := &entity.CustomerPreferences{PreferredTimes: []string{"10:00"}}
		assert.InDelta(t, 0.7, SlotPersonalizationScore(slot, prefs), 1e-9)
	})

	t.Run("both bonuses capped at one", func(t *testing.T) {
		prefs := &entity.CustomerPreferences{
			PreferredWeekdays: []time.Weekday{time.Tuesday},
			PreferredTimes:    []string{"10:00"},
		}
		assert.InDelta(t, 1.0, SlotPersonalizationScore(slot, prefs), 1e-9)
	})
}

func TestLocationPersonalizationScore(t *testing.T) {
	locationID := uuid.New()

	assert.InDelta(t, 0.5, LocationPersonalizationScore(locationID, nil), 1e-9)

	prefs := &entity.CustomerPreferences{PreferredLocationIDs: []uuid.UUID{locationID}}
	assert.InDelta(t, 1.0, LocationPersonalizationScore(locationID, prefs), 1e-9)
	assert.InDelta(t, 0.5, LocationPersonalizationScore(uuid.New(), prefs), 1e-9)
}

func TestCombinedScore(t *testing.T) {
	factors := Factors{Capacity: 1.0, Distance: 0.5, RouteEfficiency: 0.5, Personalization: 0.5}

	t.Run("normalizes by weight sum", func(t *testing.T) {
		weights := &entity.WeightConfig{Capacity: 2, Distance: 1, RouteEfficiency: 1, Personalization: 1}
		// (2*1.0 + 1*0.5 + 1*0.5 + 1*0.5) / 5 = 0.7
		assert.InDelta(t, 0.7, CombinedScore(factors, weights), 1e-9)
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		weights := &entity.WeightConfig{Capacity: 1, Distance: 1, RouteEfficiency: 1, Personalization: 0}
		// (1.0 + 0.5 + 0.5) / 3 = 0.666... -> 0.67
		assert.InDelta(t, 0.67, CombinedScore(factors, weights), 1e-9)
	})

	t.Run("zero weights yield neutral", func(t *testing.T) {
		weights := &entity.WeightConfig{}
		assert.InDelta(t, 0.5, CombinedScore(factors, weights), 1e-9)
	})
}

func TestReason(t *testing.T) {
	weights := &entity.WeightConfig{Capacity: 1, Distance: 1, RouteEfficiency: 1, Personalization: 1}

	tests := []struct {
		name     string
		factors  Factors
		expected string
	}{
		{"capacity dominates", Factors{Capacity: 1.0, Distance: 0.5, RouteEfficiency: 0.5, Personalization: 0.5}, ReasonCapacity},
		{"distance dominates", Factors{Capacity: 0.2, Distance: 0.9, RouteEfficiency: 0.5, Personalization: 0.5}, ReasonDistance},
		{"route efficiency dominates", Factors{Capacity: 0.2, Distance: 0.5, RouteEfficiency: 0.9, Personalization: 0.5}, ReasonRouteEfficiency},
		{"personalization dominates", Factors{Capacity: 0.2, Distance: 0.5, RouteEfficiency: 0.5, Personalization: 1.0}, ReasonPersonalization},
		{"tie falls back to generic", Factors{Capacity: 0.5, Distance: 0.5, RouteEfficiency: 0.5, Personalization: 0.5}, ReasonBalanced},
		{"all zero falls back to generic", Factors{}, ReasonBalanced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Reason(tt.factors, weights))
		})
	}
}
