package entity

import (
	"time"

	"github.com/google/uuid"
)

// CustomerPreferences holds the incrementally learned booking habits of one
// customer, keyed by customer ID or email. Used only as a personalization
// signal; missing preferences are substituted with neutral scores.
type CustomerPreferences struct {
	CustomerKey          string         `json:"customer_key"`
	PreferredWeekdays    []time.Weekday `json:"preferred_weekdays"`
	PreferredTimes       []string       `json:"preferred_times"` // SlotTimeLayout strings, e.g. "10:00".
	PreferredLocationIDs []uuid.UUID    `json:"preferred_location_ids"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// NewCustomerPreferences returns an empty preference set for a customer key.
func NewCustomerPreferences(customerKey string) *CustomerPreferences {
	return &CustomerPreferences{CustomerKey: customerKey}
}

// HasWeekday reports whether the weekday is in the preferred set.
func (p *CustomerPreferences) HasWeekday(day time.Weekday) bool {
	for _, preferred := range p.PreferredWeekdays {
		if preferred == day {
			return true
		}
	}

	return false
}

// HasTime reports whether the start time textually matches a preferred time.
func (p *CustomerPreferences) HasTime(startTime string) bool {
	for _, preferred := range p.PreferredTimes {
		if preferred == startTime {
			return true
		}
	}

	return false
}

// HasLocation reports whether the location is in the preferred set.
func (p *CustomerPreferences) HasLocation(locationID uuid.UUID) bool {
	for _, preferred := range p.PreferredLocationIDs {
		if preferred == locationID {
			return true
		}
	}

	return false
}

// RecordSelection folds a completed slot selection into the preference sets,
// deduplicating each signal.
func (p *CustomerPreferences) RecordSelection(day time.Weekday, startTime string, locationID uuid.UUID) {
	if !p.HasWeekday(day) {
		p.PreferredWeekdays = append(p.PreferredWeekdays, day)
	}
	if startTime != "" && !p.HasTime(startTime) {
		p.PreferredTimes = append(p.PreferredTimes, startTime)
	}
	if locationID != uuid.Nil && !p.HasLocation(locationID) {
		p.PreferredLocationIDs = append(p.PreferredLocationIDs, locationID)
	}
	p.UpdatedAt = time.Now()
}
