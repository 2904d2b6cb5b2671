package scheduling

import (
	"testing"
	"time"

	"slotwise/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSlot(locationID uuid.UUID, date time.Time, startTime string) *entity.Slot {
	return &entity.Slot{
		ID:          uuid.New(),
		LocationID:  locationID,
		Date:        date,
		StartTime:   startTime,
		EndTime:     "23:00",
		Capacity:    10,
		Fulfillment: entity.FulfillmentDelivery,
		IsActive:    true,
	}
}

func activeRule(locationID *uuid.UUID, constraint entity.RuleConstraint) *entity.Rule {
	return &entity.Rule{
		ID:         uuid.New(),
		MerchantID: uuid.New(),
		LocationID: locationID,
		Constraint: constraint,
		IsActive:   true,
	}
}

func TestFilterSlots_Cutoff(t *testing.T) {
	locationID := uuid.New()
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	soon := testSlot(locationID, day, "09:30")  // 30 minutes away
	later := testSlot(locationID, day, "11:00") // 2 hours away
	rules := []*entity.Rule{activeRule(nil, entity.CutoffConstraint{Minutes: 60})}

	admitted := FilterSlots(now, []*entity.Slot{soon, later}, rules)
	require.Len(t, admitted, 1)
	assert.Equal(t, later.ID, admitted[0].ID)
}

func TestFilterSlots_LeadTime(t *testing.T) {
	locationID := uuid.New()
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	today := testSlot(locationID, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), "18:00")
	dayAfter := testSlot(locationID, time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC), "10:00")
	rules := []*entity.Rule{activeRule(nil, entity.LeadTimeConstraint{Hours: 24})}

	admitted := FilterSlots(now, []*entity.Slot{today, dayAfter}, rules)
	require.Len(t, admitted, 1)
	assert.Equal(t, dayAfter.ID, admitted[0].ID)
}

func TestFilterSlots_Blackout(t *testing.T) {
	locationID := uuid.New()
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	inside := testSlot(locationID, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), "10:00")
	boundary := testSlot(locationID, time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC), "10:00")
	outside := testSlot(locationID, time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC), "10:00")
	rules := []*entity.Rule{activeRule(nil, entity.BlackoutConstraint{
		Start: time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
	})}

	admitted := FilterSlots(now, []*entity.Slot{inside, boundary, outside}, rules)
	require.Len(t, admitted, 1)
	assert.Equal(t, outside.ID, admitted[0].ID)
}

func TestFilterSlots_InactiveRuleIgnored(t *testing.T) {
	locationID := uuid.New()
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	slot := testSlot(locationID, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), "09:30")

	rule := activeRule(nil, entity.CutoffConstraint{Minutes: 60})
	rule.IsActive = false

	admitted := FilterSlots(now, []*entity.Slot{slot}, []*entity.Rule{rule})
	assert.Len(t, admitted, 1)
}

func TestFilterSlots_RuleScopedToOtherLocationIgnored(t *testing.T) {
	locationID := uuid.New()
	otherLocation := uuid.New()
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	slot := testSlot(locationID, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), "09:30")

	rules := []*entity.Rule{activeRule(&otherLocation, entity.CutoffConstraint{Minutes: 60})}

	admitted := FilterSlots(now, []*entity.Slot{slot}, rules)
	assert.Len(t, admitted, 1)
}

func TestFilterSlots_UnparseableStartFilteredOut(t *testing.T) {
	locationID := uuid.New()
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	slot := testSlot(locationID, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), "not-a-time")

	admitted := FilterSlots(now, []*entity.Slot{slot}, nil)
	assert.Empty(t, admitted)
}

func TestFilterSlots_NoRulesAdmitsAll(t *testing.T) {
	locationID := uuid.New()
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	slots := []*entity.Slot{
		testSlot(locationID, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), "10:00"),
		testSlot(locationID, time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC), "12:00"),
	}

	admitted := FilterSlots(now, slots, nil)
	assert.Len(t, admitted, 2)
}
