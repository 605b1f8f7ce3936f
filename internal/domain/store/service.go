// internal/domain/store/service.go
package store

import (
	"errors"
	"fmt"

	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// Service handles store business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new store service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreationRequestInput represents a store creation application
type CreationRequestInput struct {
	StoreName string `json:"store_name" binding:"required,min=2,max=100"`
	Pitch     string `json:"pitch" binding:"max=2000"`
}

// SubmitCreationRequest files a new store application for the user.
// A user with a pending request or an existing store cannot file another.
func (s *Service) SubmitCreationRequest(userID uint, req *CreationRequestInput) (*CreationRequest, error) {
	var pending int64
	if err := s.db.Model(&CreationRequest{}).
		Where("user_id = ? AND status = ?", userID, RequestStatusPending).
		Count(&pending).Error; err != nil {
		return nil, fmt.Errorf("failed to check pending requests: %w", err)
	}
	if pending > 0 {
		return nil, apperror.Conflict(apperror.CodeConflict, "a pending store request already exists")
	}

	var owned int64
	if err := s.db.Model(&Store{}).Where("owner_id = ?", userID).Count(&owned).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing stores: %w", err)
	}
	if owned > 0 {
		return nil, apperror.Conflict(apperror.CodeConflict, "user already owns a store")
	}

	request := &CreationRequest{
		UserID:    userID,
		StoreName: req.StoreName,
		Pitch:     req.Pitch,
		Status:    RequestStatusPending,
	}
	if err := s.db.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create store request: %w", err)
	}

	return request, nil
}

// ListCreationRequests returns requests filtered by status ("" for all).
func (s *Service) ListCreationRequests(status string) ([]CreationRequest, error) {
	query := s.db.Model(&CreationRequest{})
	if status != "" {
		if status != RequestStatusPending && status != RequestStatusApproved && status != RequestStatusRejected {
			return nil, apperror.Invalid(apperror.CodeInvalidInput, "invalid status filter: %s", status)
		}
		query = query.Where("status = ?", status)
	}

	var requests []CreationRequest
	if err := query.Order("created_at ASC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve store requests: %w", err)
	}
	return requests, nil
}

// ApproveCreationRequest approves a pending request, creates the store
// and promotes the applicant to seller, all in one transaction.
func (s *Service) ApproveCreationRequest(requestID uint) (*Store, error) {
	var created *Store
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var request CreationRequest
		if err := tx.First(&request, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound(apperror.CodeNotFound, "store request not found")
			}
			return fmt.Errorf("failed to retrieve store request: %w", err)
		}
		if request.Status != RequestStatusPending {
			return apperror.Conflict(apperror.CodeConflict, "store request is already %s", request.Status)
		}

		if err := tx.Model(&request).Update("status", RequestStatusApproved).Error; err != nil {
			return fmt.Errorf("failed to update store request: %w", err)
		}

		newStore := &Store{
			Name:        request.StoreName,
			Description: request.Pitch,
			OwnerID:     request.UserID,
			IsActive:    true,
		}
		if err := tx.Create(newStore).Error; err != nil {
			return fmt.Errorf("failed to create store: %w", err)
		}

		if err := tx.Model(&user.User{}).
			Where("id = ?", request.UserID).
			Update("role", user.RoleSeller).Error; err != nil {
			return fmt.Errorf("failed to promote user: %w", err)
		}

		created = newStore
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RejectCreationRequest rejects a pending request. A previously approved
// store or seller role is left untouched.
func (s *Service) RejectCreationRequest(requestID uint) (*CreationRequest, error) {
	var request CreationRequest
	if err := s.db.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(apperror.CodeNotFound, "store request not found")
		}
		return nil, fmt.Errorf("failed to retrieve store request: %w", err)
	}
	if request.Status != RequestStatusPending {
		return nil, apperror.Conflict(apperror.CodeConflict, "store request is already %s", request.Status)
	}

	if err := s.db.Model(&request).Update("status", RequestStatusRejected).Error; err != nil {
		return nil, fmt.Errorf("failed to update store request: %w", err)
	}
	request.Status = RequestStatusRejected
	return &request, nil
}

// GetStore retrieves an active store by ID
func (s *Service) GetStore(id uint) (*Store, error) {
	var st Store
	result := s.db.Where("id = ? AND is_active = ?", id, true).First(&st)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(apperror.CodeNotFound, "store not found")
		}
		return nil, fmt.Errorf("failed to retrieve store: %w", result.Error)
	}
	return &st, nil
}

// GetStoreByOwner retrieves the caller's own store
func (s *Service) GetStoreByOwner(userID uint) (*Store, error) {
	var st Store
	result := s.db.Where("owner_id = ? AND is_active = ?", userID, true).First(&st)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(apperror.CodeNotFound, "no active store for this user")
		}
		return nil, fmt.Errorf("failed to retrieve store: %w", result.Error)
	}
	return &st, nil
}
