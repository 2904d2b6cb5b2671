package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ZoneModel is the GORM-specific struct for the 'zones' table.
// The rule variant is stored as a kind discriminator plus a JSONB payload
// whose shape depends on the kind (postcode list, postcode range, radius).
type ZoneModel struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	LocationID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Kind       string         `gorm:"type:varchar(32);not null"`
	Payload    datatypes.JSON `gorm:"type:jsonb;not null"`
	IsActive   bool           `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (ZoneModel) TableName() string {
	return "zones"
}

// ZonePostcodeListPayload is the JSONB payload shape for postcode_list zones.
type ZonePostcodeListPayload struct {
	Postcodes []string `json:"postcodes"`
}

// ZonePostcodeRangePayload is the JSONB payload shape for postcode_range zones.
type ZonePostcodeRangePayload struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ZoneRadiusPayload is the JSONB payload shape for radius zones.
type ZoneRadiusPayload struct {
	RadiusKm float64 `json:"radius_km"`
}
