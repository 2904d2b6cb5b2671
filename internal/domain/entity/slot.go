package entity

import (
	"time"

	"github.com/google/uuid"
)

// SlotTimeLayout is the wall-clock layout for a slot's start and end times.
const SlotTimeLayout = "15:04"

// Slot is a bookable (date, time-window, location, fulfillment-type) unit
// with finite capacity. The booked counter is only ever mutated through the
// slot repository's atomic reserve/release operations.
type Slot struct {
	ID          uuid.UUID
	LocationID  uuid.UUID
	Date        time.Time // Calendar day of the slot (midnight, location-local).
	StartTime   string    // Window start, SlotTimeLayout.
	EndTime     string    // Window end, SlotTimeLayout.
	Capacity    int       // Maximum bookable units, always positive.
	Booked      int       // Currently booked units, 0 <= Booked <= Capacity.
	Fulfillment FulfillmentType
	IsActive    bool
	CachedScore *float64 // Last recommendation score written back by the scorer, if any.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Remaining returns the number of units still bookable.
func (s *Slot) Remaining() int {
	remaining := s.Capacity - s.Booked
	if remaining < 0 {
		return 0
	}

	return remaining
}

// Utilization returns booked/capacity, or 1.0 for a non-positive capacity.
func (s *Slot) Utilization() float64 {
	if s.Capacity <= 0 {
		return 1.0
	}

	return float64(s.Booked) / float64(s.Capacity)
}

// StartAt combines the slot's date and start time into a single instant.
func (s *Slot) StartAt() (time.Time, error) {
	start, err := time.Parse(SlotTimeLayout, s.StartTime)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(
		s.Date.Year(), s.Date.Month(), s.Date.Day(),
		start.Hour(), start.Minute(), 0, 0, s.Date.Location(),
	), nil
}

// StartMinutes returns the start time as minutes since midnight.
// The boolean is false when the start time cannot be parsed.
func (s *Slot) StartMinutes() (int, bool) {
	start, err := time.Parse(SlotTimeLayout, s.StartTime)
	if err != nil {
		return 0, false
	}

	return start.Hour()*60 + start.Minute(), true
}

// Weekday returns the calendar weekday of the slot.
func (s *Slot) Weekday() time.Weekday {
	return s.Date.Weekday()
}

// SameDay reports whether the other date falls on the same calendar day.
func (s *Slot) SameDay(other time.Time) bool {
	y1, m1, d1 := s.Date.Date()
	y2, m2, d2 := other.Date()

	return y1 == y2 && m1 == m2 && d1 == d2
}
