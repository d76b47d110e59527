package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oms/backend/internal/domain/returns"
	"github.com/oms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormReturnRepository implements returns.Repository using GORM
type GormReturnRepository struct {
	db *gorm.DB
}

// NewGormReturnRepository creates a new GormReturnRepository
func NewGormReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// FindHeaderByID finds a return header by its ID
func (r *GormReturnRepository) FindHeaderByID(ctx context.Context, returnID string) (*returns.Header, error) {
	var h returns.Header
	if err := r.db.WithContext(ctx).
		First(&h, "return_id = ?", returnID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

// FindHeadersByIDs batch-fetches return headers. Missing ids are simply
// absent from the result.
func (r *GormReturnRepository) FindHeadersByIDs(ctx context.Context, returnIDs []string) ([]returns.Header, error) {
	if len(returnIDs) == 0 {
		return []returns.Header{}, nil
	}
	var headers []returns.Header
	if err := r.db.WithContext(ctx).
		Where("return_id IN ?", returnIDs).
		Find(&headers).Error; err != nil {
		return nil, err
	}
	return headers, nil
}

// FindItemsByReturn finds all items of a return in sequence order
func (r *GormReturnRepository) FindItemsByReturn(ctx context.Context, returnID string) ([]returns.Item, error) {
	var items []returns.Item
	if err := r.db.WithContext(ctx).
		Where("return_id = ?", returnID).
		Order("return_item_seq_id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindItemsByOrder finds every return item referencing the given order,
// across all returns
func (r *GormReturnRepository) FindItemsByOrder(ctx context.Context, orderID string) ([]returns.Item, error) {
	var items []returns.Item
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("return_id ASC, return_item_seq_id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindItemsByOrderItem finds every return item referencing one order line
func (r *GormReturnRepository) FindItemsByOrderItem(ctx context.Context, orderID, orderItemSeqID string) ([]returns.Item, error) {
	var items []returns.Item
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND order_item_seq_id = ?", orderID, orderItemSeqID).
		Order("return_id ASC, return_item_seq_id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindAdjustmentsByReturn finds all adjustments of a return
func (r *GormReturnRepository) FindAdjustmentsByReturn(ctx context.Context, returnID string) ([]returns.Adjustment, error) {
	var adjustments []returns.Adjustment
	if err := r.db.WithContext(ctx).
		Where("return_id = ?", returnID).
		Order("return_adjustment_id ASC").
		Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// SaveHeader creates or updates a return header
func (r *GormReturnRepository) SaveHeader(ctx context.Context, h *returns.Header) error {
	return r.db.WithContext(ctx).Save(h).Error
}

// CreateItem creates a new return item
func (r *GormReturnRepository) CreateItem(ctx context.Context, i *returns.Item) error {
	return r.db.WithContext(ctx).Create(i).Error
}

// CreateAdjustment creates a new return adjustment
func (r *GormReturnRepository) CreateAdjustment(ctx context.Context, a *returns.Adjustment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// NextReturnID generates a unique return identifier
// Format: RTN-YYYY-NNNNN (e.g., RTN-2026-00001)
func (r *GormReturnRepository) NextReturnID(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("RTN-%d-", year)

	// Get the highest return id for this year
	var last returns.Header
	err := r.db.WithContext(ctx).
		Model(&returns.Header{}).
		Where("return_id LIKE ?", prefix+"%").
		Order("return_id DESC").
		First(&last).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.ReturnID != "" {
		parts := strings.Split(last.ReturnID, "-")
		if len(parts) == 3 {
			var num int64
			_, parseErr := fmt.Sscanf(parts[2], "%d", &num)
			if parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// NextItemSeqID generates the next item sequence id within a return
// Format: NNNNN (e.g., 00001)
func (r *GormReturnRepository) NextItemSeqID(ctx context.Context, returnID string) (string, error) {
	var last returns.Item
	err := r.db.WithContext(ctx).
		Model(&returns.Item{}).
		Where("return_id = ?", returnID).
		Order("return_item_seq_id DESC").
		First(&last).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.ReturnItemSeqID != "" {
		var num int64
		if _, parseErr := fmt.Sscanf(last.ReturnItemSeqID, "%d", &num); parseErr == nil {
			nextNum = num + 1
		}
	}

	return fmt.Sprintf("%05d", nextNum), nil
}

// NextAdjustmentID generates a unique return adjustment identifier
// Format: RADJ-YYYY-NNNNN (e.g., RADJ-2026-00001)
func (r *GormReturnRepository) NextAdjustmentID(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("RADJ-%d-", year)

	var last returns.Adjustment
	err := r.db.WithContext(ctx).
		Model(&returns.Adjustment{}).
		Where("return_adjustment_id LIKE ?", prefix+"%").
		Order("return_adjustment_id DESC").
		First(&last).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.ReturnAdjustmentID != "" {
		parts := strings.Split(last.ReturnAdjustmentID, "-")
		if len(parts) == 3 {
			var num int64
			_, parseErr := fmt.Sscanf(parts[2], "%d", &num)
			if parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// Ensure GormReturnRepository implements returns.Repository
var _ returns.Repository = (*GormReturnRepository)(nil)
