// internal/domain/product/service.go
package product

import (
	"errors"
	"fmt"

	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/store"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// Service handles catalog management for sellers and public product reads.
// The checkout path does not go through this service; it uses Reader.
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateProductRequest represents product creation data
type CreateProductRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	Price         int64  `json:"price" binding:"required,min=1"`
	ImageURL      string `json:"image_url"`
	StockQuantity int    `json:"stock_quantity" binding:"min=0"`
}

// UpdateProductRequest represents product update data
type UpdateProductRequest struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	Price         *int64  `json:"price,omitempty"`
	ImageURL      *string `json:"image_url,omitempty"`
	StockQuantity *int    `json:"stock_quantity,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page    int  `form:"page,default=1"`
	Limit   int  `form:"limit,default=20"`
	StoreID uint `form:"store_id"`
}

// ProductListResponse represents a page of products
type ProductListResponse struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

// GetProducts lists active products, optionally filtered by store.
func (s *Service) GetProducts(req *ProductListRequest) (*ProductListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.Model(&Product{}).Where("is_active = ?", true)
	if req.StoreID > 0 {
		query = query.Where("store_id = ?", req.StoreID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var products []Product
	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	return &ProductListResponse{
		Products: products,
		Total:    total,
		Page:     req.Page,
		Limit:    req.Limit,
	}, nil
}

// GetProduct retrieves a single active product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var prod Product
	result := s.db.Where("id = ? AND is_active = ?", id, true).First(&prod)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(apperror.CodeNotFound, "product not found")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &prod, nil
}

// CreateProduct creates a product under the seller's own store.
func (s *Service) CreateProduct(userID uint, req *CreateProductRequest) (*Product, error) {
	ownStore, err := s.storeOwnedBy(userID)
	if err != nil {
		return nil, err
	}

	prod := &Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		ImageURL:      req.ImageURL,
		StockQuantity: req.StockQuantity,
		IsActive:      true,
		StoreID:       ownStore.ID,
	}

	if err := s.db.Create(prod).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return prod, nil
}

// UpdateProduct applies a partial update to a product the seller owns.
func (s *Service) UpdateProduct(userID, productID uint, req *UpdateProductRequest) (*Product, error) {
	ownStore, err := s.storeOwnedBy(userID)
	if err != nil {
		return nil, err
	}

	var prod Product
	result := s.db.Where("id = ? AND store_id = ?", productID, ownStore.ID).First(&prod)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(apperror.CodeNotFound, "product not found")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, apperror.Invalid(apperror.CodeInvalidInput, "price must be positive")
		}
		updates["price"] = *req.Price
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.StockQuantity != nil {
		if *req.StockQuantity < 0 {
			return nil, apperror.Invalid(apperror.CodeInvalidInput, "stock quantity cannot be negative")
		}
		updates["stock_quantity"] = *req.StockQuantity
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return &prod, nil
	}

	if err := s.db.Model(&prod).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return &prod, nil
}

func (s *Service) storeOwnedBy(userID uint) (*store.Store, error) {
	var ownStore store.Store
	result := s.db.Where("owner_id = ? AND is_active = ?", userID, true).First(&ownStore)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(apperror.CodeNotFound, "no active store for this user")
		}
		return nil, fmt.Errorf("failed to retrieve store: %w", result.Error)
	}
	return &ownStore, nil
}
