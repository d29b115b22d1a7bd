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
	ErrPaymentMethodNotFound  = errors.New("payment method not found")
	ErrInvalidProvider        = errors.New("unknown payment provider")
	ErrNoPlatformSubscription = errors.New("no platform subscription")
)

// BillingService manages a community's payment providers and exposes the
// owner's platform subscription. Both feed the public-search eligibility
// checks.
type BillingService struct {
	db *gorm.DB
}

func NewBillingService(db *gorm.DB) *BillingService {
	return &BillingService{db: db}
}

func validProvider(provider string) bool {
	switch provider {
	case models.ProviderStripe, models.ProviderNowPayments, models.ProviderTelegram:
		return true
	}
	return false
}

func (s *BillingService) ListPaymentMethods(communityID uuid.UUID) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	if err := s.db.Scopes(tenant.ForCommunity(communityID)).Order("created_at ASC").Find(&methods).Error; err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return methods, nil
}

// CreatePaymentMethod registers a provider for the community. New methods
// start inactive until the owner enables them.
func (s *BillingService) CreatePaymentMethod(communityID uuid.UUID, req *dto.CreatePaymentMethodRequest) (*models.PaymentMethod, error) {
	if !validProvider(req.Provider) {
		return nil, ErrInvalidProvider
	}

	cfg := datatypes.JSON(`{}`)
	if len(req.Config) > 0 {
		if !json.Valid(req.Config) {
			return nil, errors.New("config must be a JSON object")
		}
		cfg = datatypes.JSON(req.Config)
	}

	method := models.PaymentMethod{
		ID:          uuid.New(),
		CommunityID: communityID,
		Provider:    req.Provider,
		Config:      cfg,
	}
	if err := s.db.Create(&method).Error; err != nil {
		return nil, fmt.Errorf("failed to create payment method: %w", err)
	}
	return &method, nil
}

// SetPaymentMethodActive toggles a payment method. Deactivating the last
// active method drops the community out of public search.
func (s *BillingService) SetPaymentMethodActive(communityID, methodID uuid.UUID, active bool) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	err := s.db.Scopes(tenant.ForCommunity(communityID)).First(&method, "id = ?", methodID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentMethodNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load payment method: %w", err)
	}

	if err := s.db.Model(&method).Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("failed to update payment method: %w", err)
	}
	return &method, nil
}

// OwnerSubscription returns the owner's latest platform subscription.
func (s *BillingService) OwnerSubscription(ownerID uuid.UUID) (*models.PlatformSubscription, error) {
	var sub models.PlatformSubscription
	err := s.db.Scopes(tenant.ForOwner(ownerID)).Order("created_at DESC").First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoPlatformSubscription
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load platform subscription: %w", err)
	}
	return &sub, nil
}
