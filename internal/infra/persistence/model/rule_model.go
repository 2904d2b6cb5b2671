package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RuleModel is the GORM-specific struct for the 'rules' table.
// Like zones, a rule is a kind discriminator plus a kind-shaped JSONB payload.
// A NULL location_id means the rule applies merchant-wide.
type RuleModel struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	MerchantID uuid.UUID      `gorm:"type:uuid;not null;index"`
	LocationID *uuid.UUID     `gorm:"type:uuid;index"`
	Kind       string         `gorm:"type:varchar(32);not null"`
	Payload    datatypes.JSON `gorm:"type:jsonb;not null"`
	IsActive   bool           `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (RuleModel) TableName() string {
	return "rules"
}

// RuleCutoffPayload is the JSONB payload shape for cutoff rules.
type RuleCutoffPayload struct {
	Minutes int `json:"minutes"`
}

// RuleLeadTimePayload is the JSONB payload shape for lead_time rules.
type RuleLeadTimePayload struct {
	Hours int `json:"hours"`
}

// RuleBlackoutPayload is the JSONB payload shape for blackout rules.
type RuleBlackoutPayload struct {
	Start string `json:"start"` // Inclusive date, 2006-01-02.
	End   string `json:"end"`   // Inclusive date, 2006-01-02.
}
