package model

import (
	"time"

	"github.com/google/uuid"
)

// SlotModel is the GORM-specific struct for the 'slots' table.
// The booked column is only ever changed through the conditional updates in
// the slot repository, never through a read-modify-write of this struct.
type SlotModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	LocationID  uuid.UUID `gorm:"type:uuid;not null;index:idx_slots_location_date"`
	Date        time.Time `gorm:"type:date;not null;index:idx_slots_location_date"`
	StartTime   string    `gorm:"type:varchar(5);not null"`
	EndTime     string    `gorm:"type:varchar(5);not null"`
	Capacity    int       `gorm:"not null;check:capacity > 0"`
	Booked      int       `gorm:"not null;default:0;check:booked >= 0 AND booked <= capacity"`
	Fulfillment string    `gorm:"type:varchar(16);not null"`
	IsActive    bool      `gorm:"not null;default:true"`
	CachedScore *float64  `gorm:"type:decimal(4,2)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (SlotModel) TableName() string {
	return "slots"
}
