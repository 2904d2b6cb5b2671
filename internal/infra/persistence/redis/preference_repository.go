package redis

import (
	"context"
	"encoding/json"
	"time"

	"slotwise/internal/domain/entity"
	"slotwise/internal/domain/repository"
	"slotwise/internal/errors"

	"github.com/redis/go-redis/v9"
)

const (
	preferenceKeyPrefix = "prefs:"

	// Habits older than this are no longer a useful signal; let them lapse.
	preferenceTTL = 180 * 24 * time.Hour
)

// preferenceRepository implements repository.PreferenceRepository on Redis.
// Preferences are a soft personalization signal, so a cache with a long TTL
// is durable enough; losing one only degrades a score to neutral.
type preferenceRepository struct {
	client *redis.Client
}

// NewPreferenceRepository is the constructor for preferenceRepository.
func NewPreferenceRepository(client *redis.Client) repository.PreferenceRepository {
	return &preferenceRepository{
		client: client,
	}
}

// FindPreferences retrieves the customer's preference set. A missing key is
// not an error; it yields an empty set.
func (repo *preferenceRepository) FindPreferences(ctx context.Context, customerKey string) (*entity.CustomerPreferences, error) {
	raw, err := repo.client.Get(ctx, preferenceKeyPrefix+customerKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return entity.NewCustomerPreferences(customerKey), nil
		}

		return nil, errors.Wrap(err, "failed to get customer preferences")
	}

	var prefs entity.CustomerPreferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		// A corrupt record should degrade to neutral, not break scoring.
		return entity.NewCustomerPreferences(customerKey), nil
	}

	return &prefs, nil
}

// SavePreferences persists the customer's preference set.
func (repo *preferenceRepository) SavePreferences(ctx context.Context, prefs *entity.CustomerPreferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return errors.Wrap(err, "failed to marshal customer preferences")
	}

	if err := repo.client.Set(ctx, preferenceKeyPrefix+prefs.CustomerKey, raw, preferenceTTL).Err(); err != nil {
		return errors.Wrap(err, "failed to save customer preferences")
	}

	return nil
}
