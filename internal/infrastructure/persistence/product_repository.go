package persistence

import (
	"context"
	"errors"

	"github.com/oms/backend/internal/domain/order"
	"github.com/oms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductRepository implements order.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, productID string) (*order.Product, error) {
	var p order.Product
	if err := r.db.WithContext(ctx).
		First(&p, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Ensure GormProductRepository implements order.ProductRepository
var _ order.ProductRepository = (*GormProductRepository)(nil)
