// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"github.com/your-org/marketplace-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Service handles user business logic
type Service struct {
	db              *gorm.DB
	config          *config.Config
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	denylist        *auth.TokenDenylist
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config, denylist *auth.TokenDenylist) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
		denylist:        denylist,
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name" binding:"required"`
}

// LoginRequest represents user login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Register creates a new user account
func (s *Service) Register(req *RegisterRequest) (*AuthResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, apperror.Invalid(apperror.CodeInvalidInput, "passwords do not match")
	}

	// Check if user already exists
	var existingUser User
	result := s.db.Where("email = ?", req.Email).First(&existingUser)
	if result.Error == nil {
		return nil, apperror.Conflict(apperror.CodeInvalidInput, "user with this email already exists")
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", result.Error)
	}

	// Hash password
	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Invalid(apperror.CodeInvalidInput, "%s", err.Error())
	}

	newUser := User{
		Email:     req.Email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      RoleCustomer,
		IsActive:  true,
	}

	if err := s.db.Create(&newUser).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueTokens(&newUser)
}

// Login authenticates a user
func (s *Service) Login(req *LoginRequest) (*AuthResponse, error) {
	var u User
	result := s.db.Where("email = ? AND is_active = ?", req.Email, true).First(&u)
	if result.Error != nil {
		return nil, apperror.Invalid(apperror.CodeInvalidInput, "invalid email or password")
	}

	if err := s.passwordManager.VerifyPassword(req.Password, u.Password); err != nil {
		return nil, apperror.Invalid(apperror.CodeInvalidInput, "invalid email or password")
	}

	return s.issueTokens(&u)
}

// Logout revokes the presented access token for its remaining lifetime.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.jwtManager.ValidateAccessToken(tokenString)
	if err != nil {
		return apperror.Invalid(apperror.CodeInvalidInput, "invalid token")
	}
	return s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// GetProfile gets user profile by ID
func (s *Service) GetProfile(userID uint) (*User, error) {
	var u User
	result := s.db.Where("id = ? AND is_active = ?", userID, true).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(apperror.CodeNotFound, "user not found")
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", result.Error)
	}

	u.Password = ""
	return &u, nil
}

func (s *Service) issueTokens(u *User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	// Update last login
	now := time.Now().UTC()
	u.LastLoginAt = &now
	s.db.Model(u).Update("last_login_at", now)

	// Clear password from response
	u.Password = ""

	return &AuthResponse{
		User:        u,
		AccessToken: accessToken,
		ExpiresIn:   int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}
