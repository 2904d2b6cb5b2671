package entity

import (
	"time"

	"github.com/google/uuid"
)

// ZoneKind identifies the variant of a zone's geographic rule.
type ZoneKind string

const (
	// ZoneKindPostcodeList matches an explicit set of postcodes.
	ZoneKindPostcodeList ZoneKind = "postcode_list"
	// ZoneKindPostcodeRange matches postcodes between two boundaries.
	ZoneKindPostcodeRange ZoneKind = "postcode_range"
	// ZoneKindRadius matches customers within a distance of the location.
	ZoneKindRadius ZoneKind = "radius"
)

// ZoneRule is the closed set of geographic matching rules a zone can carry.
// Modeled as a sealed interface so each call site switches exhaustively over
// the known variants instead of re-parsing a type string.
type ZoneRule interface {
	Kind() ZoneKind

	// sealed prevents implementations outside this package.
	sealed()
}

// PostcodeListRule matches when the customer's normalized postcode equals
// any entry in the list.
type PostcodeListRule struct {
	Postcodes []string
}

// Kind returns ZoneKindPostcodeList.
func (PostcodeListRule) Kind() ZoneKind { return ZoneKindPostcodeList }

func (PostcodeListRule) sealed() {}

// PostcodeRangeRule matches when the customer's normalized postcode lies
// between Start and End using ordinal string comparison. This only behaves
// correctly for fixed-width, purely numeric postcodes; alphanumeric formats
// (e.g. UK postcodes) need a product decision before being ranged.
type PostcodeRangeRule struct {
	Start string
	End   string
}

// Kind returns ZoneKindPostcodeRange.
func (PostcodeRangeRule) Kind() ZoneKind { return ZoneKindPostcodeRange }

func (PostcodeRangeRule) sealed() {}

// RadiusRule matches when the customer's coordinates fall within RadiusKm of
// the zone's location. Requires the location to have coordinates.
type RadiusRule struct {
	RadiusKm float64
}

// Kind returns ZoneKindRadius.
func (RadiusRule) Kind() ZoneKind { return ZoneKindRadius }

func (RadiusRule) sealed() {}

// Zone is a geographic eligibility rule tied to one location.
// Zones are owned by the admin collaborator and are read-only inputs here.
type Zone struct {
	ID         uuid.UUID
	LocationID uuid.UUID
	Rule       ZoneRule
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
