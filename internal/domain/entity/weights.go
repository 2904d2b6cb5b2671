package entity

import "github.com/google/uuid"

// WeightConfig is the per-merchant weighting of the four recommendation
// factors. The weights need not sum to one; scoring always normalizes by
// their sum, and a zero sum yields a neutral score for every candidate.
type WeightConfig struct {
	MerchantID             uuid.UUID
	Capacity               float64
	Distance               float64
	RouteEfficiency        float64
	Personalization        float64
	RecommendationsEnabled bool
	// AlternativesCount governs how many top candidates are flagged
	// "recommended". Zero falls back to the built-in defaults
	// (3 for slots, 1 for locations).
	AlternativesCount int
}

// DefaultWeightConfig returns the weighting used when a merchant has not
// configured one.
func DefaultWeightConfig(merchantID uuid.UUID) *WeightConfig {
	return &WeightConfig{
		MerchantID:             merchantID,
		Capacity:               0.3,
		Distance:               0.3,
		RouteEfficiency:        0.2,
		Personalization:        0.2,
		RecommendationsEnabled: true,
	}
}

// Sum returns the sum of the four factor weights.
func (w *WeightConfig) Sum() float64 {
	return w.Capacity + w.Distance + w.RouteEfficiency + w.Personalization
}
