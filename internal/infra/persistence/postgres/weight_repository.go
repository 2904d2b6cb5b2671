package postgres

import (
	"context"

	"slotwise/internal/domain/entity"
	"slotwise/internal/domain/repository"
	"slotwise/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// weightRepository implements the repository.WeightRepository interface.
type weightRepository struct {
	db *gorm.DB
}

// NewWeightRepository is the constructor for weightRepository.
func NewWeightRepository(db *gorm.DB) repository.WeightRepository {
	return &weightRepository{
		db: db,
	}
}

// FindWeightConfigByMerchant retrieves the merchant's weight configuration.
// Read fresh on every request so an admin's weight change takes effect on
// the next scoring pass.
func (repo *weightRepository) FindWeightConfigByMerchant(ctx context.Context, merchantID uuid.UUID) (*entity.WeightConfig, error) {
	var weightM model.WeightConfigModel

	if err := repo.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		First(&weightM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrWeightConfigNotFound
		}

		return nil, errors.Wrap(err, "failed to find weight config by merchant")
	}

	return toWeightConfigDomain(&weightM), nil
}

// --- Mapper Functions ---

// toWeightConfigDomain converts a GORM WeightConfigModel to a domain WeightConfig.
func toWeightConfigDomain(data *model.WeightConfigModel) *entity.WeightConfig {
	if data == nil {
		return nil
	}

	return &entity.WeightConfig{
		MerchantID:             data.MerchantID,
		Capacity:               data.CapacityWeight,
		Distance:               data.DistanceWeight,
		RouteEfficiency:        data.RouteEfficiencyWeight,
		Personalization:        data.PersonalizationWeight,
		RecommendationsEnabled: data.RecommendationsEnabled,
		AlternativesCount:      data.AlternativesCount,
	}
}
