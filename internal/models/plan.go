package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Billing intervals a plan can be sold at.
const (
	IntervalMonthly    = "monthly"
	IntervalQuarterly  = "quarterly"
	IntervalHalfYearly = "half-yearly"
	IntervalYearly     = "yearly"
	IntervalOneTime    = "one-time"
	IntervalLifetime   = "lifetime"
)

var PlanIntervals = []string{
	IntervalMonthly,
	IntervalQuarterly,
	IntervalHalfYearly,
	IntervalYearly,
	IntervalOneTime,
	IntervalLifetime,
}

// Plan is a purchasable subscription tier scoped to one community.
// Features is an ordered list of strings stored as JSONB.
type Plan struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CommunityID uuid.UUID      `gorm:"type:uuid;not null;index" json:"community_id"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Price       float64        `gorm:"not null" json:"price"`
	Interval    string         `gorm:"not null;size:20" json:"interval"`
	Features    datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"features"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	TrialDays   int            `gorm:"default:0" json:"trial_days"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Community   Community      `gorm:"foreignKey:CommunityID" json:"-"`
}

// IsRecurring reports whether the plan has a bounded billing period.
// One-time and lifetime plans never produce a subscription end date.
func (p *Plan) IsRecurring() bool {
	switch p.Interval {
	case IntervalOneTime, IntervalLifetime:
		return false
	}
	return true
}

// PeriodDuration returns the subscription length bought by one payment.
// Zero for non-recurring intervals.
func (p *Plan) PeriodDuration() time.Duration {
	switch p.Interval {
	case IntervalMonthly:
		return 30 * 24 * time.Hour
	case IntervalQuarterly:
		return 90 * 24 * time.Hour
	case IntervalHalfYearly:
		return 182 * 24 * time.Hour
	case IntervalYearly:
		return 365 * 24 * time.Hour
	}
	return 0
}
