package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Payment providers a community can accept payments through.
const (
	ProviderStripe      = "stripe"
	ProviderNowPayments = "nowpayments"
	ProviderTelegram    = "telegram"
)

// PaymentMethod is a configured payment provider for one community.
// Config holds provider-specific settings (account ids, api keys).
type PaymentMethod struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CommunityID uuid.UUID      `gorm:"type:uuid;not null;index" json:"community_id"`
	Provider    string         `gorm:"not null;size:50" json:"provider"`
	IsActive    bool           `gorm:"default:false" json:"is_active"`
	Config      datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Community   Community      `gorm:"foreignKey:CommunityID" json:"-"`
}
