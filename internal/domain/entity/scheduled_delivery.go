package entity

import (
	"time"

	"github.com/paulmach/orb"
)

// ScheduledDelivery is a read-model joining an active delivery booking with
// its slot's date and start time and the customer's coordinates. Used by the
// route-efficiency factor, which rewards slots that cluster geographically
// with already-committed deliveries; bundled in one result to avoid N+1
// lookups.
type ScheduledDelivery struct {
	SlotDate  time.Time
	StartTime string // SlotTimeLayout.
	Latitude  float64
	Longitude float64
}

// Point returns the delivery destination as an orb.Point (lng, lat).
func (d *ScheduledDelivery) Point() orb.Point {
	return orb.Point{d.Longitude, d.Latitude}
}

// StartMinutes returns the start time as minutes since midnight.
// The boolean is false when the start time cannot be parsed.
func (d *ScheduledDelivery) StartMinutes() (int, bool) {
	start, err := time.Parse(SlotTimeLayout, d.StartTime)
	if err != nil {
		return 0, false
	}

	return start.Hour()*60 + start.Minute(), true
}
