package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/membify/membify-backend/internal/clock"
	"github.com/membify/membify-backend/internal/dto"
	"github.com/membify/membify-backend/internal/models"
	"github.com/membify/membify-backend/internal/tenant"
	"gorm.io/gorm"
)

// Member filters shared by the member list and broadcast endpoints.
const (
	FilterAll     = "all"
	FilterActive  = "active"
	FilterExpired = "expired"
	FilterPlan    = "plan"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrInvalidFilter  = errors.New("invalid member filter")
	ErrPlanRequired   = errors.New("plan filter requires a subscription_plan_id")
	ErrPlanInactive   = errors.New("plan is not active")
)

type MemberService struct {
	db  *gorm.DB
	clk clock.Clock
}

func NewMemberService(db *gorm.DB, clk clock.Clock) *MemberService {
	return &MemberService{db: db, clk: clk}
}

// memberFilterScope translates a filter into a GORM scope. planID is only
// consulted for FilterPlan.
func memberFilterScope(filter string, planID *uuid.UUID) (func(db *gorm.DB) *gorm.DB, error) {
	switch filter {
	case FilterAll:
		return func(db *gorm.DB) *gorm.DB { return db }, nil
	case FilterActive:
		return func(db *gorm.DB) *gorm.DB { return db.Where("subscription_status = ?", true) }, nil
	case FilterExpired:
		return func(db *gorm.DB) *gorm.DB { return db.Where("subscription_status = ?", false) }, nil
	case FilterPlan:
		if planID == nil {
			return nil, ErrPlanRequired
		}
		id := *planID
		return func(db *gorm.DB) *gorm.DB { return db.Where("subscription_plan_id = ?", id) }, nil
	}
	return nil, ErrInvalidFilter
}

// Upsert registers a Telegram user's first interaction with a community, or
// refreshes the stored username on later ones.
func (s *MemberService) Upsert(communityID uuid.UUID, req *dto.UpsertMemberRequest) (*models.Member, error) {
	if req.TelegramUserID == 0 {
		return nil, errors.New("telegram_user_id is required")
	}

	var member models.Member
	err := s.db.Scopes(tenant.ForCommunity(communityID)).
		Where("telegram_user_id = ?", req.TelegramUserID).
		First(&member).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		member = models.Member{
			ID:               uuid.New(),
			CommunityID:      communityID,
			TelegramUserID:   req.TelegramUserID,
			TelegramUsername: req.TelegramUsername,
			JoinedAt:         s.clk.Now().UTC(),
		}
		if err := s.db.Create(&member).Error; err != nil {
			return nil, fmt.Errorf("failed to create member: %w", err)
		}
		return &member, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load member: %w", err)
	}

	if req.TelegramUsername != "" && req.TelegramUsername != member.TelegramUsername {
		if err := s.db.Model(&member).Update("telegram_username", req.TelegramUsername).Error; err != nil {
			return nil, fmt.Errorf("failed to update member: %w", err)
		}
	}
	return &member, nil
}

// Activate assigns a plan to a member after a successful payment. The
// subscription end date is derived from the plan interval; one-time and
// lifetime plans leave it nil. Trial days extend the first paid period only.
func (s *MemberService) Activate(communityID uuid.UUID, req *dto.ActivateMemberRequest) (*models.Member, error) {
	var plan models.Plan
	err := s.db.Scopes(tenant.ForCommunity(communityID)).First(&plan, "id = ?", req.PlanID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	if !plan.IsActive {
		return nil, ErrPlanInactive
	}

	member, err := s.Upsert(communityID, &dto.UpsertMemberRequest{TelegramUserID: req.TelegramUserID})
	if err != nil {
		return nil, err
	}

	now := s.clk.Now().UTC()
	var endDate *time.Time
	if plan.IsRecurring() {
		end := now.Add(plan.PeriodDuration())
		if plan.TrialDays > 0 && member.SubscriptionStartDate == nil {
			end = end.Add(time.Duration(plan.TrialDays) * 24 * time.Hour)
		}
		endDate = &end
	}

	updates := map[string]interface{}{
		"subscription_plan_id":    plan.ID,
		"subscription_status":     true,
		"subscription_start_date": now,
		"subscription_end_date":   endDate,
	}
	if err := s.db.Model(member).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to activate member: %w", err)
	}
	return member, nil
}

// Remove is the explicit manual removal: unlike automatic expiry it clears
// the plan reference and end date. The row itself is kept as history.
func (s *MemberService) Remove(communityID, memberID uuid.UUID) error {
	var member models.Member
	err := s.db.Scopes(tenant.ForCommunity(communityID)).First(&member, "id = ?", memberID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrMemberNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load member: %w", err)
	}

	updates := map[string]interface{}{
		"subscription_status":   false,
		"subscription_plan_id":  nil,
		"subscription_end_date": nil,
	}
	if err := s.db.Model(&member).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	logRow := models.CommunityLog{
		ID:          uuid.New(),
		CommunityID: &communityID,
		EventType:   models.EventMemberRemoved,
		Details:     fmt.Sprintf("member %s removed", member.ID),
		CreatedAt:   s.clk.Now().UTC(),
	}
	if err := s.db.Create(&logRow).Error; err != nil {
		slog.Error("failed to write member removal log", "community_id", communityID.String(), "error", err)
	}
	return nil
}

// List returns community members matching filter.
func (s *MemberService) List(communityID uuid.UUID, filter string, planID *uuid.UUID) ([]models.Member, error) {
	if filter == "" {
		filter = FilterAll
	}
	scope, err := memberFilterScope(filter, planID)
	if err != nil {
		return nil, err
	}

	var members []models.Member
	if err := s.db.Scopes(tenant.ForCommunity(communityID), scope).Order("joined_at ASC").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}
