// Package model holds the GORM-specific structs mapping domain entities
// to database tables.
package model

import (
	"time"

	"github.com/google/uuid"
)

// LocationModel is the GORM-specific struct for the 'locations' table.
// Locations are written by the admin service; this service only reads them.
type LocationModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	MerchantID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Name             string    `gorm:"type:varchar(255);not null"`
	FullAddress      string    `gorm:"type:text;not null"`
	Latitude         *float64  `gorm:"type:decimal(10,7)"`
	Longitude        *float64  `gorm:"type:decimal(10,7)"`
	SupportsDelivery bool      `gorm:"not null;default:false"`
	SupportsPickup   bool      `gorm:"not null;default:false"`
	IsActive         bool      `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName explicitly sets the table name for GORM.
func (LocationModel) TableName() string {
	return "locations"
}
