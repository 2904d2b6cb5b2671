package model

import (
	"time"

	"github.com/google/uuid"
)

// WeightConfigModel is the GORM-specific struct for the 'weight_configs' table.
// One row per merchant; merchants without a row fall back to the default weights.
type WeightConfigModel struct {
	MerchantID             uuid.UUID `gorm:"type:uuid;primary_key"`
	CapacityWeight         float64   `gorm:"type:decimal(4,2);not null"`
	DistanceWeight         float64   `gorm:"type:decimal(4,2);not null"`
	RouteEfficiencyWeight  float64   `gorm:"type:decimal(4,2);not null"`
	PersonalizationWeight  float64   `gorm:"type:decimal(4,2);not null"`
	RecommendationsEnabled bool      `gorm:"not null;default:true"`
	AlternativesCount      int       `gorm:"not null;default:0"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// TableName explicitly sets the table name for GORM.
func (WeightConfigModel) TableName() string {
	return "weight_configs"
}
