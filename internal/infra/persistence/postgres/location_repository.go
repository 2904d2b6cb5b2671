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

// locationRepository implements the repository.LocationRepository interface.
// Read-only: locations are maintained by the admin service.
type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository is the constructor for locationRepository.
func NewLocationRepository(db *gorm.DB) repository.LocationRepository {
	return &locationRepository{
		db: db,
	}
}

// FindLocationByID retrieves a location by its unique ID.
func (repo *locationRepository) FindLocationByID(ctx context.Context, id uuid.UUID) (*entity.Location, error) {
	var locationM model.LocationModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&locationM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrLocationNotFound
		}

		return nil, errors.Wrap(err, "failed to find location by ID")
	}

	return toLocationDomain(&locationM), nil
}

// FindActiveLocationsByMerchant retrieves all active locations of a merchant.
func (repo *locationRepository) FindActiveLocationsByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*entity.Location, error) {
	var locationModels []*model.LocationModel

	if err := repo.db.WithContext(ctx).
		Where("merchant_id = ? AND is_active = ?", merchantID, true).
		Order("name ASC, id ASC").
		Find(&locationModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find active locations by merchant")
	}

	locations := make([]*entity.Location, 0, len(locationModels))
	for _, locationM := range locationModels {
		locations = append(locations, toLocationDomain(locationM))
	}

	return locations, nil
}

// --- Mapper Functions ---

// toLocationDomain converts a GORM LocationModel to a domain Location entity.
func toLocationDomain(data *model.LocationModel) *entity.Location {
	if data == nil {
		return nil
	}

	return &entity.Location{
		ID:               data.ID,
		MerchantID:       data.MerchantID,
		Name:             data.Name,
		FullAddress:      data.FullAddress,
		Latitude:         data.Latitude,
		Longitude:        data.Longitude,
		SupportsDelivery: data.SupportsDelivery,
		SupportsPickup:   data.SupportsPickup,
		IsActive:         data.IsActive,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}
