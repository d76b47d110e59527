package order

import "context"

// Repository provides read access to order headers, lines and adjustments.
// Orders are created by the upstream order-placement flow; the returns
// engine never writes to them.
type Repository interface {
	FindHeaderByID(ctx context.Context, orderID string) (*Header, error)
	FindItemsByOrder(ctx context.Context, orderID string) ([]Item, error)
	FindItemByID(ctx context.Context, orderID, orderItemSeqID string) (*Item, error)
	// FindItemByIDForUpdate locks the order line row for the duration of the
	// surrounding transaction so concurrent returns against the same line
	// serialize on the returnable-quantity check.
	FindItemByIDForUpdate(ctx context.Context, orderID, orderItemSeqID string) (*Item, error)
	FindAdjustmentsByOrder(ctx context.Context, orderID string) ([]Adjustment, error)
	FindAdjustmentsByOrderItem(ctx context.Context, orderID, orderItemSeqID string) ([]Adjustment, error)
	FindAdjustmentByID(ctx context.Context, orderAdjustmentID string) (*Adjustment, error)
}

// ProductRepository provides read access to the product master
type ProductRepository interface {
	FindByID(ctx context.Context, productID string) (*Product, error)
}
