package postgres

import (
	"context"

	"slotwise/internal/domain/entity"
	domainerrors "slotwise/internal/domain/errors"
	"slotwise/internal/domain/repository"
	"slotwise/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// slotRepository implements the repository.SlotRepository interface.
type slotRepository struct {
	db *gorm.DB
}

// NewSlotRepository is the constructor for slotRepository.
func NewSlotRepository(db *gorm.DB) repository.SlotRepository {
	return &slotRepository{
		db: db,
	}
}

// FindSlotByID retrieves a slot by its unique ID.
func (repo *slotRepository) FindSlotByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error) {
	var slotM model.SlotModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&slotM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSlotNotFound
		}

		return nil, errors.Wrap(err, "failed to find slot by ID")
	}

	return toSlotDomain(&slotM), nil
}

// FindBookableSlots retrieves active slots matching the query, ordered by
// date then start time so rankings start from a deterministic order.
func (repo *slotRepository) FindBookableSlots(ctx context.Context, query repository.SlotQuery) ([]*entity.Slot, error) {
	var slotModels []*model.SlotModel

	tx := repo.db.WithContext(ctx).Where("is_active = ?", true)

	if len(query.LocationIDs) > 0 {
		tx = tx.Where("location_id IN ?", query.LocationIDs)
	}
	if query.Fulfillment != "" {
		tx = tx.Where("fulfillment = ?", string(query.Fulfillment))
	}
	if query.DateFrom != nil {
		tx = tx.Where("date >= ?", *query.DateFrom)
	}
	if query.DateTo != nil {
		tx = tx.Where("date <= ?", *query.DateTo)
	}

	if err := tx.
		Order("date ASC, start_time ASC, id ASC").
		Find(&slotModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find bookable slots")
	}

	slots := make([]*entity.Slot, 0, len(slotModels))
	for _, slotM := range slotModels {
		slots = append(slots, toSlotDomain(slotM))
	}

	return slots, nil
}

// ReserveCapacity atomically takes one unit of the slot's capacity.
// The booked < capacity predicate lives inside the UPDATE itself, so two
// racing reservations for the last unit serialize on the row and exactly one
// sees RowsAffected == 1.
func (repo *slotRepository) ReserveCapacity(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Model(&model.SlotModel{}).
		Where("id = ? AND is_active = ? AND booked < capacity", id, true).
		Update("booked", gorm.Expr("booked + 1"))

	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return repository.ErrCapacityExceeded
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to reserve slot capacity")
	}

	if result.RowsAffected == 0 {
		return repo.classifyNoOp(ctx, id, repository.ErrCapacityExceeded)
	}

	return nil
}

// ReleaseCapacity atomically returns one unit of the slot's capacity.
// The booked > 0 predicate prevents the counter from ever going negative,
// even if a release is replayed.
func (repo *slotRepository) ReleaseCapacity(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Model(&model.SlotModel{}).
		Where("id = ? AND booked > 0", id).
		Update("booked", gorm.Expr("booked - 1"))

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to release slot capacity")
	}

	if result.RowsAffected == 0 {
		return repo.classifyNoOp(ctx, id, repository.ErrCapacityUnderflow)
	}

	return nil
}

// classifyNoOp distinguishes "slot missing" from "condition failed" after a
// conditional update touched no rows.
func (repo *slotRepository) classifyNoOp(ctx context.Context, id uuid.UUID, conditionErr error) error {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.SlotModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return errors.Wrap(err, "failed to classify capacity update")
	}

	if count == 0 {
		return repository.ErrSlotNotFound
	}

	return conditionErr
}

// UpdateCachedScore writes back the slot's last recommendation score.
func (repo *slotRepository) UpdateCachedScore(ctx context.Context, id uuid.UUID, score float64) error {
	result := repo.db.WithContext(ctx).
		Model(&model.SlotModel{}).
		Where("id = ?", id).
		Update("cached_score", score)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update cached score")
	}

	if result.RowsAffected == 0 {
		return repository.ErrSlotNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toSlotDomain converts a GORM SlotModel to a domain Slot entity.
func toSlotDomain(data *model.SlotModel) *entity.Slot {
	if data == nil {
		return nil
	}

	return &entity.Slot{
		ID:          data.ID,
		LocationID:  data.LocationID,
		Date:        data.Date,
		StartTime:   data.StartTime,
		EndTime:     data.EndTime,
		Capacity:    data.Capacity,
		Booked:      data.Booked,
		Fulfillment: entity.FulfillmentType(data.Fulfillment),
		IsActive:    data.IsActive,
		CachedScore: data.CachedScore,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
