// Package scheduling filters candidate slots by the merchant's active
// booking rules before they ever reach the scorer.
package scheduling

import (
	"time"

	"slotwise/internal/domain/entity"
)

// FilterSlots returns the slots that every applicable active rule admits at
// the given instant. Slots whose start time cannot be parsed are filtered
// out rather than scored with an unknown start. The input slice is never
// mutated.
func FilterSlots(now time.Time, slots []*entity.Slot, rules []*entity.Rule) []*entity.Slot {
	admitted := make([]*entity.Slot, 0, len(slots))

	for _, slot := range slots {
		startAt, err := slot.StartAt()
		if err != nil {
			continue
		}
		if admits(now, slot, startAt, rules) {
			admitted = append(admitted, slot)
		}
	}

	return admitted
}

func admits(now time.Time, slot *entity.Slot, startAt time.Time, rules []*entity.Rule) bool {
	for _, rule := range rules {
		if !rule.IsActive || !rule.AppliesTo(slot.LocationID) {
			continue
		}

		switch constraint := rule.Constraint.(type) {
		case entity.CutoffConstraint:
			// Bookings close Minutes before the slot starts.
			closeAt := startAt.Add(-time.Duration(constraint.Minutes) * time.Minute)
			if !now.Before(closeAt) {
				return false
			}

		case entity.LeadTimeConstraint:
			earliest := now.Add(time.Duration(constraint.Hours) * time.Hour)
			if startAt.Before(earliest) {
				return false
			}

		case entity.BlackoutConstraint:
			if !slot.Date.Before(constraint.Start) && !slot.Date.After(constraint.End) {
				return false
			}
		}
	}

	return true
}
