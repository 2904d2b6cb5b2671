package scoring

import (
	"testing"
	"time"

	"slotwise/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultWeights() *entity.WeightConfig {
	return &entity.WeightConfig{Capacity: 0.3, Distance: 0.3, RouteEfficiency: 0.2, Personalization: 0.2}
}

func TestRankSlots_EmptyCandidates(t *testing.T) {
	ranked := RankSlots(nil, Context{}, defaultWeights(), 0)
	assert.Empty(t, ranked)
}

func TestRankSlots_SortsByScoreDescending(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	location := testLocation(25.0330, 121.5654)

	emptySlot := testSlot(day, "10:00", entity.FulfillmentDelivery, 10, 0)
	nearFull := testSlot(day, "12:00", entity.FulfillmentDelivery, 10, 9)

	candidates := []SlotCandidate{
		{Slot: nearFull, Location: location},
		{Slot: emptySlot, Location: location},
	}

	ranked := RankSlots(candidates, Context{}, defaultWeights(), 0)
	require.Len(t, ranked, 2)
	assert.Equal(t, emptySlot.ID, ranked[0].Slot.ID)
	assert.Equal(t, nearFull.ID, ranked[1].Slot.ID)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
}

func TestRankSlots_Deterministic(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	location := testLocation(25.0330, 121.5654)

	candidates := []SlotCandidate{
		{Slot: testSlot(day, "14:00", entity.FulfillmentDelivery, 10, 2), Location: location},
		{Slot: testSlot(day, "10:00", entity.FulfillmentDelivery, 10, 2), Location: location},
		{Slot: testSlot(day, "12:00", entity.FulfillmentDelivery, 10, 2), Location: location},
	}

	first := RankSlots(candidates, Context{}, defaultWeights(), 0)
	second := RankSlots(candidates, Context{}, defaultWeights(), 0)

	require.Len(t, first, 3)
	// Equal scores fall back to ascending start time.
	assert.Equal(t, "10:00", first[0].Slot.StartTime)
	assert.Equal(t, "12:00", first[1].Slot.StartTime)
	assert.Equal(t, "14:00", first[2].Slot.StartTime)
	for i := range first {
		assert.Equal(t, first[i].Slot.ID, second[i].Slot.ID)
		assert.Equal(t, first[i].Score, second[i].Score)
	}
}

func TestRankSlots_TopThreeRecommendedByDefault(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	location := testLocation(25.0330, 121.5654)

	candidates := make([]SlotCandidate, 0, 5)
	for i, start := range []string{"08:00", "10:00", "12:00", "14:00", "16:00"} {
		candidates = append(candidates, SlotCandidate{
			Slot:     testSlot(day, start, entity.FulfillmentDelivery, 10, i*2),
			Location: location,
		})
	}

	ranked := RankSlots(candidates, Context{}, defaultWeights(), 0)
	require.Len(t, ranked, 5)

	recommended := 0
	for _, r := range ranked {
		if r.Recommended {
			recommended++
		}
	}
	assert.Equal(t, DefaultSlotRecommended, recommended)
	assert.True(t, ranked[0].Recommended)
	assert.False(t, ranked[4].Recommended)
}

func TestRankSlots_ConfiguredAlternativesCount(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	location := testLocation(25.0330, 121.5654)

	candidates := make([]SlotCandidate, 0, 4)
	for _, start := range []string{"08:00", "10:00", "12:00", "14:00"} {
		candidates = append(candidates, SlotCandidate{
			Slot:     testSlot(day, start, entity.FulfillmentDelivery, 10, 0),
			Location: location,
		})
	}

	ranked := RankSlots(candidates, Context{}, defaultWeights(), 2)
	recommended := 0
	for _, r := range ranked {
		if r.Recommended {
			recommended++
		}
	}
	assert.Equal(t, 2, recommended)
}

func TestRankSlots_DistanceOnlyForPickup(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	location := testLocation(25.0330, 121.5654)
	customer := orb.Point{121.5654, 25.0330}
	sctx := Context{CustomerPoint: &customer}

	pickup := RankSlots([]SlotCandidate{
		{Slot: testSlot(day, "10:00", entity.FulfillmentPickup, 10, 0), Location: location},
	}, sctx, defaultWeights(), 0)
	require.Len(t, pickup, 1)
	assert.InDelta(t, 1.0, pickup[0].Factors.Distance, 1e-9)
	assert.InDelta(t, 0.5, pickup[0].Factors.RouteEfficiency, 1e-9)

	delivery := RankSlots([]SlotCandidate{
		{Slot: testSlot(day, "10:00", entity.FulfillmentDelivery, 10, 0), Location: location},
	}, sctx, defaultWeights(), 0)
	require.Len(t, delivery, 1)
	assert.InDelta(t, 0.5, delivery[0].Factors.Distance, 1e-9)
}

func TestRankSlots_NeverMutatesCandidates(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	location := testLocation(25.0330, 121.5654)
	slot := testSlot(day, "10:00", entity.FulfillmentDelivery, 10, 4)
	before := *slot

	RankSlots([]SlotCandidate{{Slot: slot, Location: location}}, Context{}, defaultWeights(), 0)
	assert.Equal(t, before, *slot)
}

func TestRankSlots_ZeroWeightsNeutral(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	location := testLocation(25.0330, 121.5654)

	ranked := RankSlots([]SlotCandidate{
		{Slot: testSlot(day, "10:00", entity.FulfillmentDelivery, 10, 0), Location: location},
		{Slot: testSlot(day, "12:00", entity.FulfillmentDelivery, 10, 9), Location: location},
	}, Context{}, &entity.WeightConfig{}, 0)

	require.Len(t, ranked, 2)
	assert.InDelta(t, 0.5, ranked[0].Score, 1e-9)
	assert.InDelta(t, 0.5, ranked[1].Score, 1e-9)
}

func TestRankLocations_SingleRecommendedByDefault(t *testing.T) {
	customer := orb.Point{121.5654, 25.0330}
	near := testLocation(25.0330, 121.5654)
	near.Name = "Near"
	far := testLocation(25.1030, 121.6400)
	far.Name = "Far"

	ranked := RankLocations([]*entity.Location{far, near}, Context{CustomerPoint: &customer}, defaultWeights(), 0)
	require.Len(t, ranked, 2)
	assert.Equal(t, "Near", ranked[0].Location.Name)
	assert.True(t, ranked[0].Recommended)
	assert.False(t, ranked[1].Recommended)
}

func TestRankLocations_PreferredLocationWins(t *testing.T) {
	a := testLocation(25.0330, 121.5654)
	a.Name = "A"
	b := testLocation(25.0330, 121.5654)
	b.Name = "B"
	prefs := &entity.CustomerPreferences{PreferredLocationIDs: []uuid.UUID{b.ID}}

	ranked := RankLocations([]*entity.Location{a, b}, Context{Preferences: prefs}, defaultWeights(), 0)
	require.Len(t, ranked, 2)
	assert.Equal(t, "B", ranked[0].Location.Name)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
}

func TestRankLocations_Empty(t *testing.T) {
	ranked := RankLocations(nil, Context{}, defaultWeights(), 0)
	assert.Empty(t, ranked)
}
