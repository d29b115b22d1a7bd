package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/membify/membify-backend/internal/config"
	"github.com/membify/membify-backend/internal/dto"
	"github.com/membify/membify-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrOwnerNotFound      = errors.New("owner not found")
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if len(req.Email) == 0 || len(req.Password) < 8 {
		return nil, errors.New("email required and password must be at least 8 characters")
	}

	var existing models.Owner
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	owner := models.Owner{
		ID:       uuid.New(),
		Email:    req.Email,
		Password: string(hash),
		Role:     "owner",
	}

	if err := s.db.Create(&owner).Error; err != nil {
		return nil, fmt.Errorf("failed to create owner: %w", err)
	}

	return s.issueToken(&owner)
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var owner models.Owner
	if err := s.db.Where("email = ?", req.Email).First(&owner).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(owner.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(&owner)
}

func (s *AuthService) issueToken(owner *models.Owner) (*dto.AuthResponse, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   owner.ID.String(),
		"email": owner.Email,
		"role":  owner.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &dto.AuthResponse{
		AccessToken: token,
		Owner: dto.OwnerResponse{
			ID:    owner.ID,
			Email: owner.Email,
			Role:  owner.Role,
		},
	}, nil
}
