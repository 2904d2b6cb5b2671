package entity

import (
	"time"

	"github.com/google/uuid"
)

// RuleKind identifies the variant of a booking rule's constraint.
type RuleKind string

const (
	// RuleKindCutoff closes bookings a number of minutes before the slot starts.
	RuleKindCutoff RuleKind = "cutoff"
	// RuleKindLeadTime requires the slot to start at least N hours from now.
	RuleKindLeadTime RuleKind = "lead_time"
	// RuleKindBlackout excludes slots on dates within a range.
	RuleKindBlackout RuleKind = "blackout"
)

// RuleConstraint is the closed set of constraints a booking rule can carry,
// modeled the same way as ZoneRule so call sites switch exhaustively.
type RuleConstraint interface {
	Kind() RuleKind

	sealed()
}

// CutoffConstraint rejects a slot once fewer than Minutes remain before its start.
type CutoffConstraint struct {
	Minutes int
}

// Kind returns RuleKindCutoff.
func (CutoffConstraint) Kind() RuleKind { return RuleKindCutoff }

func (CutoffConstraint) sealed() {}

// LeadTimeConstraint rejects a slot starting sooner than Hours from now.
type LeadTimeConstraint struct {
	Hours int
}

// Kind returns RuleKindLeadTime.
func (LeadTimeConstraint) Kind() RuleKind { return RuleKindLeadTime }

func (LeadTimeConstraint) sealed() {}

// BlackoutConstraint rejects slots whose date falls within [Start, End], inclusive.
type BlackoutConstraint struct {
	Start time.Time
	End   time.Time
}

// Kind returns RuleKindBlackout.
func (BlackoutConstraint) Kind() RuleKind { return RuleKindBlackout }

func (BlackoutConstraint) sealed() {}

// Rule is an active booking constraint configured by the admin collaborator.
// A rule with a nil LocationID applies merchant-wide; otherwise only to slots
// of the named location. Candidate slots are filtered by active rules before
// scoring.
type Rule struct {
	ID         uuid.UUID
	MerchantID uuid.UUID
	LocationID *uuid.UUID
	Constraint RuleConstraint
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AppliesTo reports whether the rule constrains slots of the given location.
func (r *Rule) AppliesTo(locationID uuid.UUID) bool {
	return r.LocationID == nil || *r.LocationID == locationID
}
