// Package zone decides which locations may serve a customer's postcode.
// Matching is a pure function of its inputs and never mutates them.
package zone

import (
	"sort"
	"strings"

	"slotwise/internal/domain/entity"
	"slotwise/internal/domain/geo"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// Query carries the customer-side inputs of an eligibility check.
type Query struct {
	// Postcode is the raw customer postcode; it is normalized before any
	// comparison.
	Postcode string

	// Fulfillment optionally restricts matching to locations supporting
	// the given type. Empty means "any".
	Fulfillment entity.FulfillmentType

	// CustomerPoint is the customer's geocoded position, when known.
	// Radius zones fail closed without it: an un-geocoded customer is not
	// eligible through a radius zone.
	CustomerPoint *orb.Point
}

// Match is one eligible location together with the services it can provide
// for the query.
type Match struct {
	Location *entity.Location
	Delivery bool
	Pickup   bool
}

// NormalizePostcode trims, upper-cases, and removes all internal whitespace
// from a raw postcode before comparison.
func NormalizePostcode(raw string) string {
	trimmed := strings.TrimSpace(strings.ToUpper(raw))

	return strings.Join(strings.Fields(trimmed), "")
}

// EligibleLocations returns the deduplicated set of active locations with at
// least one matching active zone, honoring the query's fulfillment filter.
// The result is ordered by location name, then ID, for determinism.
func EligibleLocations(query Query, zones []*entity.Zone, locations []*entity.Location) []Match {
	postcode := NormalizePostcode(query.Postcode)
	if postcode == "" {
		return []Match{}
	}

	byID := make(map[uuid.UUID]*entity.Location, len(locations))
	for _, location := range locations {
		byID[location.ID] = location
	}

	matched := make(map[uuid.UUID]*entity.Location)
	for _, z := range zones {
		if !z.IsActive {
			continue
		}

		location, ok := byID[z.LocationID]
		if !ok || !location.IsActive || !location.Supports(query.Fulfillment) {
			continue
		}
		if _, seen := matched[location.ID]; seen {
			continue
		}

		if ruleMatches(z.Rule, postcode, query.CustomerPoint, location) {
			matched[location.ID] = location
		}
	}

	matches := make([]Match, 0, len(matched))
	for _, location := range matched {
		matches = append(matches, Match{
			Location: location,
			Delivery: location.SupportsDelivery && (query.Fulfillment == "" || query.Fulfillment == entity.FulfillmentDelivery),
			Pickup:   location.SupportsPickup && (query.Fulfillment == "" || query.Fulfillment == entity.FulfillmentPickup),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Location.Name != matches[j].Location.Name {
			return matches[i].Location.Name < matches[j].Location.Name
		}

		return matches[i].Location.ID.String() < matches[j].Location.ID.String()
	})

	return matches
}

// ruleMatches evaluates one zone rule against a normalized postcode.
func ruleMatches(rule entity.ZoneRule, postcode string, customer *orb.Point, location *entity.Location) bool {
	switch r := rule.(type) {
	case entity.PostcodeListRule:
		for _, candidate := range r.Postcodes {
			if NormalizePostcode(candidate) == postcode {
				return true
			}
		}

		return false

	case entity.PostcodeRangeRule:
		// Ordinal string comparison: correct only for fixed-width numeric
		// postcodes. See the range-zone note in DESIGN.md.
		start := NormalizePostcode(r.Start)
		end := NormalizePostcode(r.End)
		if start == "" || end == "" {
			return false
		}

		return postcode >= start && postcode <= end

	case entity.RadiusRule:
		// Fail closed: without customer or location coordinates a radius
		// zone cannot vouch for eligibility.
		if customer == nil {
			return false
		}
		origin, ok := location.Point()
		if !ok {
			return false
		}

		return geo.DistanceKm(origin, *customer) <= r.RadiusKm

	default:
		return false
	}
}
