package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/membify/membify-backend/internal/dto"
	"github.com/membify/membify-backend/internal/models"
	"github.com/membify/membify-backend/internal/tenant"
	"gorm.io/gorm"
)

var (
	ErrCommunityNotFound = errors.New("community not found")
	ErrNotCommunityOwner = errors.New("you do not own this community")
)

type CommunityService struct {
	db *gorm.DB
}

func NewCommunityService(db *gorm.DB) *CommunityService {
	return &CommunityService{db: db}
}

func (s *CommunityService) Create(ownerID uuid.UUID, req *dto.CreateCommunityRequest) (*models.Community, error) {
	if req.Name == "" {
		return nil, errors.New("community name is required")
	}

	community := models.Community{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Name:           req.Name,
		Description:    req.Description,
		TelegramChatID: req.TelegramChatID,
		CustomLink:     req.CustomLink,
		IsActive:       true,
	}

	if err := s.db.Create(&community).Error; err != nil {
		return nil, fmt.Errorf("failed to create community: %w", err)
	}
	return &community, nil
}

func (s *CommunityService) ListByOwner(ownerID uuid.UUID) ([]models.Community, error) {
	var communities []models.Community
	if err := s.db.Scopes(tenant.ForOwner(ownerID)).Order("created_at DESC").Find(&communities).Error; err != nil {
		return nil, fmt.Errorf("failed to list communities: %w", err)
	}
	return communities, nil
}

// RequireOwned loads a community and verifies ownerID owns it.
func (s *CommunityService) RequireOwned(communityID, ownerID uuid.UUID) (*models.Community, error) {
	var community models.Community
	if err := s.db.First(&community, "id = ?", communityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, fmt.Errorf("failed to load community: %w", err)
	}
	if community.OwnerID != ownerID {
		return nil, ErrNotCommunityOwner
	}
	return &community, nil
}

func (s *CommunityService) Update(communityID, ownerID uuid.UUID, req *dto.UpdateCommunityRequest) (*models.Community, error) {
	community, err := s.RequireOwned(communityID, ownerID)
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
	if req.TelegramChatID != nil {
		updates["telegram_chat_id"] = *req.TelegramChatID
	}
	if req.CustomLink != nil {
		updates["custom_link"] = *req.CustomLink
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return community, nil
	}

	if err := s.db.Model(community).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update community: %w", err)
	}
	return community, nil
}
