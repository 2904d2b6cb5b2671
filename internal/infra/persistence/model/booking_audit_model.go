package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// BookingAuditModel is the GORM-specific struct for the 'booking_audits' table.
// Rows are append-only; slot identities are stored as JSONB snapshots so the
// history survives later slot edits by the admin service.
type BookingAuditModel struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	BookingID      uuid.UUID      `gorm:"type:uuid;not null;index"`
	OrderID        string         `gorm:"type:varchar(64);not null;index"`
	Action         string         `gorm:"type:varchar(16);not null"`
	PreviousStatus string         `gorm:"type:varchar(16)"`
	NewStatus      string         `gorm:"type:varchar(16);not null"`
	PreviousSlot   datatypes.JSON `gorm:"type:jsonb"`
	NewSlot        datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (BookingAuditModel) TableName() string {
	return "booking_audits"
}
