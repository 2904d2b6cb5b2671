package postgres

import (
	"context"
	"encoding/json"

	"slotwise/internal/domain/entity"
	domainerrors "slotwise/internal/domain/errors"
	"slotwise/internal/domain/repository"
	"slotwise/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// auditRepository implements the repository.AuditRepository interface.
type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository is the constructor for auditRepository.
func NewAuditRepository(db *gorm.DB) repository.AuditRepository {
	return &auditRepository{
		db: db,
	}
}

// AppendAudit persists one audit record. Callers invoke this inside the same
// transaction as the booking change it describes.
func (repo *auditRepository) AppendAudit(ctx context.Context, audit *entity.BookingAudit) error {
	auditM, err := fromAuditDomain(audit)
	if err != nil {
		return errors.Wrap(err, "failed to encode audit snapshots")
	}

	if err := repo.db.WithContext(ctx).Create(auditM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to append booking audit")
	}

	audit.ID = auditM.ID
	audit.CreatedAt = auditM.CreatedAt

	return nil
}

// --- Mapper Functions ---

// fromAuditDomain converts a domain BookingAudit to a GORM BookingAuditModel.
func fromAuditDomain(data *entity.BookingAudit) (*model.BookingAuditModel, error) {
	if data == nil {
		return nil, nil
	}

	previousSlot, err := marshalSnapshot(data.PreviousSlot)
	if err != nil {
		return nil, err
	}

	newSlot, err := marshalSnapshot(data.NewSlot)
	if err != nil {
		return nil, err
	}

	return &model.BookingAuditModel{
		ID:             data.ID,
		BookingID:      data.BookingID,
		OrderID:        data.OrderID,
		Action:         string(data.Action),
		PreviousStatus: string(data.PreviousStatus),
		NewStatus:      string(data.NewStatus),
		PreviousSlot:   previousSlot,
		NewSlot:        newSlot,
		CreatedAt:      data.CreatedAt,
	}, nil
}

func marshalSnapshot(snapshot *entity.SlotSnapshot) (datatypes.JSON, error) {
	if snapshot == nil {
		return nil, nil
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil, err
	}

	return datatypes.JSON(raw), nil
}
