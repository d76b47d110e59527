package persistence

import (
	"context"
	"errors"

	"github.com/oms/backend/internal/domain/order"
	"github.com/oms/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindHeaderByID finds an order header by its ID
func (r *GormOrderRepository) FindHeaderByID(ctx context.Context, orderID string) (*order.Header, error) {
	var h order.Header
	if err := r.db.WithContext(ctx).
		First(&h, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

// FindItemsByOrder finds all lines of an order in sequence order
func (r *GormOrderRepository) FindItemsByOrder(ctx context.Context, orderID string) ([]order.Item, error) {
	var items []order.Item
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("order_item_seq_id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindItemByID finds a single order line
func (r *GormOrderRepository) FindItemByID(ctx context.Context, orderID, orderItemSeqID string) (*order.Item, error) {
	var item order.Item
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND order_item_seq_id = ?", orderID, orderItemSeqID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindItemByIDForUpdate finds a single order line and locks its row until the
// surrounding transaction ends. SQLite has no row locks; its transactions are
// serialized at the database level, so the lock clause is skipped there.
func (r *GormOrderRepository) FindItemByIDForUpdate(ctx context.Context, orderID, orderItemSeqID string) (*order.Item, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var item order.Item
	if err := query.
		Where("order_id = ? AND order_item_seq_id = ?", orderID, orderItemSeqID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindAdjustmentsByOrder finds all adjustments on an order, line and header level
func (r *GormOrderRepository) FindAdjustmentsByOrder(ctx context.Context, orderID string) ([]order.Adjustment, error) {
	var adjustments []order.Adjustment
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("order_adjustment_id ASC").
		Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// FindAdjustmentsByOrderItem finds the adjustments scoped to one order line
func (r *GormOrderRepository) FindAdjustmentsByOrderItem(ctx context.Context, orderID, orderItemSeqID string) ([]order.Adjustment, error) {
	var adjustments []order.Adjustment
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND order_item_seq_id = ?", orderID, orderItemSeqID).
		Order("order_adjustment_id ASC").
		Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// FindAdjustmentByID finds a single order adjustment
func (r *GormOrderRepository) FindAdjustmentByID(ctx context.Context, orderAdjustmentID string) (*order.Adjustment, error) {
	var adj order.Adjustment
	if err := r.db.WithContext(ctx).
		First(&adj, "order_adjustment_id = ?", orderAdjustmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &adj, nil
}

// Ensure GormOrderRepository implements order.Repository
var _ order.Repository = (*GormOrderRepository)(nil)
