package model

import (
	"time"

	"github.com/google/uuid"
)

// BookingModel is the GORM-specific struct for the 'bookings' table.
//
// ActiveOrderKey mirrors OrderID while the booking is active and is NULL once
// it reaches a terminal status. Its unique index is what enforces "at most
// one active booking per order" inside the database, so two concurrent
// creates for the same order cannot both commit.
type BookingModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OrderID        string    `gorm:"type:varchar(64);not null;index"`
	ActiveOrderKey *string   `gorm:"type:varchar(64);uniqueIndex"`
	SlotID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Status         string    `gorm:"type:varchar(16);not null"`
	Fulfillment    string    `gorm:"type:varchar(16);not null"`
	Postcode       string    `gorm:"type:varchar(16)"`
	Latitude       *float64  `gorm:"type:decimal(10,7)"`
	Longitude      *float64  `gorm:"type:decimal(10,7)"`
	WasRecommended bool      `gorm:"not null;default:false"`
	RecordedScore  *float64  `gorm:"type:decimal(4,2)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (BookingModel) TableName() string {
	return "bookings"
}
