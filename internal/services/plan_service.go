package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/membify/membify-backend/internal/dto"
	"github.com/membify/membify-backend/internal/models"
	"github.com/membify/membify-backend/internal/tenant"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrPlanNotFound    = errors.New("plan not found")
	ErrInvalidInterval = errors.New("invalid plan interval")
	ErrInvalidPrice    = errors.New("plan price must not be negative")
)

type PlanService struct {
	db *gorm.DB
}

func NewPlanService(db *gorm.DB) *PlanService {
	return &PlanService{db: db}
}

func validInterval(interval string) bool {
	for _, i := range models.PlanIntervals {
		if i == interval {
			return true
		}
	}
	return false
}

func featuresJSON(features []string) (datatypes.JSON, error) {
	if features == nil {
		features = []string{}
	}
	b, err := json.Marshal(features)
	if err != nil {
		return nil, fmt.Errorf("failed to encode features: %w", err)
	}
	return datatypes.JSON(b), nil
}

func (s *PlanService) Create(communityID uuid.UUID, req *dto.CreatePlanRequest) (*models.Plan, error) {
	if req.Name == "" {
		return nil, errors.New("plan name is required")
	}
	if !validInterval(req.Interval) {
		return nil, ErrInvalidInterval
	}
	if req.Price < 0 {
		return nil, ErrInvalidPrice
	}

	features, err := featuresJSON(req.Features)
	if err != nil {
		return nil, err
	}

	plan := models.Plan{
		ID:          uuid.New(),
		CommunityID: communityID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Interval:    req.Interval,
		Features:    features,
		IsActive:    true,
		TrialDays:   req.TrialDays,
	}

	if err := s.db.Create(&plan).Error; err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	return &plan, nil
}

func (s *PlanService) List(communityID uuid.UUID) ([]models.Plan, error) {
	var plans []models.Plan
	if err := s.db.Scopes(tenant.ForCommunity(communityID)).Order("created_at ASC").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

func (s *PlanService) Get(communityID, planID uuid.UUID) (*models.Plan, error) {
	var plan models.Plan
	err := s.db.Scopes(tenant.ForCommunity(communityID)).First(&plan, "id = ?", planID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	return &plan, nil
}

func (s *PlanService) Update(communityID, planID uuid.UUID, req *dto.UpdatePlanRequest) (*models.Plan, error) {
	plan, err := s.Get(communityID, planID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, ErrInvalidPrice
		}
		updates["price"] = *req.Price
	}
	if req.Interval != nil {
		if !validInterval(*req.Interval) {
			return nil, ErrInvalidInterval
		}
		updates["interval"] = *req.Interval
	}
	if req.Features != nil {
		features, err := featuresJSON(*req.Features)
		if err != nil {
			return nil, err
		}
		updates["features"] = features
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.TrialDays != nil {
		updates["trial_days"] = *req.TrialDays
	}
	if len(updates) == 0 {
		return plan, nil
	}

	if err := s.db.Model(plan).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}
	return plan, nil
}

func (s *PlanService) Delete(communityID, planID uuid.UUID) error {
	result := s.db.Scopes(tenant.ForCommunity(communityID)).Delete(&models.Plan{}, "id = ?", planID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}
