package postgres

import (
	"context"
	"encoding/json"

	"slotwise/internal/domain/entity"
	"slotwise/internal/domain/repository"
	"slotwise/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// zoneRepository implements the repository.ZoneRepository interface.
// Read-only: zones are maintained by the admin service.
type zoneRepository struct {
	db *gorm.DB
}

// NewZoneRepository is the constructor for zoneRepository.
func NewZoneRepository(db *gorm.DB) repository.ZoneRepository {
	return &zoneRepository{
		db: db,
	}
}

// FindActiveZonesByMerchant retrieves all active zones attached to the
// merchant's locations. Zones whose payload fails to decode are skipped
// rather than failing the whole eligibility check; an undecodable zone can
// never make a postcode eligible anyway.
func (repo *zoneRepository) FindActiveZonesByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*entity.Zone, error) {
	var zoneModels []*model.ZoneModel

	if err := repo.db.WithContext(ctx).
		Joins("JOIN locations ON locations.id = zones.location_id").
		Where("locations.merchant_id = ? AND zones.is_active = ?", merchantID, true).
		Order("zones.location_id ASC, zones.id ASC").
		Find(&zoneModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find active zones by merchant")
	}

	zones := make([]*entity.Zone, 0, len(zoneModels))
	for _, zoneM := range zoneModels {
		zone, err := toZoneDomain(zoneM)
		if err != nil {
			continue
		}
		zones = append(zones, zone)
	}

	return zones, nil
}

// --- Mapper Functions ---

// toZoneDomain converts a GORM ZoneModel to a domain Zone entity, decoding
// the JSONB payload into the rule variant named by the kind column.
func toZoneDomain(data *model.ZoneModel) (*entity.Zone, error) {
	if data == nil {
		return nil, nil
	}

	rule, err := decodeZoneRule(entity.ZoneKind(data.Kind), data.Payload)
	if err != nil {
		return nil, err
	}

	return &entity.Zone{
		ID:         data.ID,
		LocationID: data.LocationID,
		Rule:       rule,
		IsActive:   data.IsActive,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}, nil
}

func decodeZoneRule(kind entity.ZoneKind, payload []byte) (entity.ZoneRule, error) {
	switch kind {
	case entity.ZoneKindPostcodeList:
		var p model.ZonePostcodeListPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, errors.Wrap(err, "failed to decode postcode list payload")
		}
		return entity.PostcodeListRule{Postcodes: p.Postcodes}, nil

	case entity.ZoneKindPostcodeRange:
		var p model.ZonePostcodeRangePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, errors.Wrap(err, "failed to decode postcode range payload")
		}
		return entity.PostcodeRangeRule{Start: p.Start, End: p.End}, nil

	case entity.ZoneKindRadius:
		var p model.ZoneRadiusPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, errors.Wrap(err, "failed to decode radius payload")
		}
		return entity.RadiusRule{RadiusKm: p.RadiusKm}, nil

	default:
		return nil, errors.Errorf("unknown zone kind %q", kind)
	}
}
