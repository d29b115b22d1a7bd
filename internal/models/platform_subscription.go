package models

import (
	"time"

	"github.com/google/uuid"
)

// PlatformSubscription is an owner's subscription to Membify itself.
// Communities of owners whose platform subscription is not "active" are
// excluded from public discovery.
type PlatformSubscription struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID            uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	PlanName           string    `gorm:"size:100" json:"plan_name"`
	Status             string    `gorm:"not null;default:'inactive';size:50;index" json:"status"`
	CurrentPeriodStart time.Time `json:"current_period_start"`
	CurrentPeriodEnd   time.Time `json:"current_period_end"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	Owner              Owner     `gorm:"foreignKey:OwnerID" json:"-"`
}
