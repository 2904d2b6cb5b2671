package repository

import (
	"context"

	"slotwise/internal/domain/entity"
)

// PreferenceRepository stores per-customer booking habits, keyed by customer
// ID or email. Missing preferences are not an error: Find returns an empty
// preference set so scoring can substitute neutral signals.
type PreferenceRepository interface {
	// FindPreferences retrieves the customer's preference set, or an
	// empty set when none has been recorded yet.
	FindPreferences(ctx context.Context, customerKey string) (*entity.CustomerPreferences, error)

	// SavePreferences persists the customer's preference set.
	SavePreferences(ctx context.Context, prefs *entity.CustomerPreferences) error
}
