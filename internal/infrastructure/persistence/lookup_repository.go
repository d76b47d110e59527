package persistence

import (
	"context"
	"errors"

	"github.com/oms/backend/internal/domain/returns"
	"github.com/oms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormLookupRepository implements returns.LookupRepository using GORM. The
// backing tables are seed data: written by migrations, read-only at runtime.
type GormLookupRepository struct {
	db *gorm.DB
}

// NewGormLookupRepository creates a new GormLookupRepository
func NewGormLookupRepository(db *gorm.DB) *GormLookupRepository {
	return &GormLookupRepository{db: db}
}

// FindItemTypeMap resolves the return item type for a header type and map key
func (r *GormLookupRepository) FindItemTypeMap(ctx context.Context, returnHeaderTypeID, mapKey string) (*returns.ItemTypeMap, error) {
	var m returns.ItemTypeMap
	if err := r.db.WithContext(ctx).
		Where("return_header_type_id = ? AND return_item_map_key = ?", returnHeaderTypeID, mapKey).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// StatusChangeValid reports whether the status graph contains the given edge
func (r *GormLookupRepository) StatusChangeValid(ctx context.Context, statusID, statusIDTo string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&returns.StatusValidChange{}).
		Where("status_id = ? AND status_id_to = ?", statusID, statusIDTo).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormLookupRepository implements returns.LookupRepository
var _ returns.LookupRepository = (*GormLookupRepository)(nil)
