package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/membify/membify-backend/internal/dto"
	"github.com/membify/membify-backend/internal/models"
	"github.com/membify/membify-backend/internal/tenant"
	"gorm.io/gorm"
)

// EligibilityService decides which communities may appear in public search.
// Readiness is recomputed per query, never stored: a community is eligible
// when it has an active payment method, an active plan, and its owner's
// platform subscription is in good standing.
type EligibilityService struct {
	db *gorm.DB
}

func NewEligibilityService(db *gorm.DB) *EligibilityService {
	return &EligibilityService{db: db}
}

// FilterEligible returns eligible communities whose name contains query
// (case-insensitive; empty matches all active communities). A failed check
// excludes the community and evaluation continues with the rest.
func (s *EligibilityService) FilterEligible(ctx context.Context, query string, includePlans bool) (*dto.SearchResult, error) {
	q := s.db.WithContext(ctx).Where("is_active = ?", true)
	if trimmed := strings.TrimSpace(query); trimmed != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(trimmed)+"%")
	}

	var candidates []models.Community
	if err := q.Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to search communities: %w", err)
	}

	result := &dto.SearchResult{
		Communities: make([]dto.EligibleCommunity, 0, len(candidates)),
		TotalFound:  len(candidates),
	}

	for i := range candidates {
		c := &candidates[i]

		eligible, err := s.isEligible(ctx, c)
		if err != nil {
			// Fail closed: an unverifiable community stays out of search.
			slog.Error("eligibility check failed",
				"community_id", c.ID.String(),
				"error", err)
			continue
		}
		if !eligible {
			continue
		}

		entry := dto.EligibleCommunity{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			CustomLink:  c.CustomLink,
			Plans:       []dto.EligiblePlan{},
		}

		if includePlans {
			plans, err := s.activePlans(ctx, c)
			if err != nil {
				slog.Error("failed to load plans for eligible community",
					"community_id", c.ID.String(),
					"error", err)
				continue
			}
			entry.Plans = plans
		}

		result.Communities = append(result.Communities, entry)
	}

	result.EligibleCount = len(result.Communities)
	return result, nil
}

// isEligible evaluates the three checks in order, short-circuiting on the
// first failure.
func (s *EligibilityService) isEligible(ctx context.Context, c *models.Community) (bool, error) {
	var paymentMethods int64
	err := s.db.WithContext(ctx).Model(&models.PaymentMethod{}).
		Scopes(tenant.ForCommunity(c.ID)).
		Where("is_active = ?", true).
		Count(&paymentMethods).Error
	if err != nil {
		return false, fmt.Errorf("payment method check: %w", err)
	}
	if paymentMethods == 0 {
		return false, nil
	}

	var activePlans int64
	err = s.db.WithContext(ctx).Model(&models.Plan{}).
		Scopes(tenant.ForCommunity(c.ID)).
		Where("is_active = ?", true).
		Count(&activePlans).Error
	if err != nil {
		return false, fmt.Errorf("plan check: %w", err)
	}
	if activePlans == 0 {
		return false, nil
	}

	var activeSubs int64
	err = s.db.WithContext(ctx).Model(&models.PlatformSubscription{}).
		Scopes(tenant.ForOwner(c.OwnerID)).
		Where("status = ?", "active").
		Count(&activeSubs).Error
	if err != nil {
		return false, fmt.Errorf("platform subscription check: %w", err)
	}
	return activeSubs > 0, nil
}

func (s *EligibilityService) activePlans(ctx context.Context, c *models.Community) ([]dto.EligiblePlan, error) {
	var plans []models.Plan
	err := s.db.WithContext(ctx).
		Scopes(tenant.ForCommunity(c.ID)).
		Where("is_active = ?", true).
		Order("price ASC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}

	out := make([]dto.EligiblePlan, 0, len(plans))
	for _, p := range plans {
		features := []string{}
		if len(p.Features) > 0 {
			if err := json.Unmarshal(p.Features, &features); err != nil {
				features = []string{}
			}
		}
		out = append(out, dto.EligiblePlan{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Interval:    p.Interval,
			Features:    features,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		})
	}
	return out, nil
}
