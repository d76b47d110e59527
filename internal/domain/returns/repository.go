package returns

import "context"

// Repository provides access to return headers, items and adjustments
type Repository interface {
	FindHeaderByID(ctx context.Context, returnID string) (*Header, error)
	FindHeadersByIDs(ctx context.Context, returnIDs []string) ([]Header, error)
	FindItemsByReturn(ctx context.Context, returnID string) ([]Item, error)
	FindItemsByOrder(ctx context.Context, orderID string) ([]Item, error)
	FindItemsByOrderItem(ctx context.Context, orderID, orderItemSeqID string) ([]Item, error)
	FindAdjustmentsByReturn(ctx context.Context, returnID string) ([]Adjustment, error)

	SaveHeader(ctx context.Context, h *Header) error
	CreateItem(ctx context.Context, i *Item) error
	CreateAdjustment(ctx context.Context, a *Adjustment) error

	// NextReturnID generates a fresh return identifier (RTN-YYYY-NNNNN)
	NextReturnID(ctx context.Context) (string, error)
	// NextItemSeqID generates the next item sequence id within a return
	NextItemSeqID(ctx context.Context, returnID string) (string, error)
	// NextAdjustmentID generates a fresh return adjustment identifier
	NextAdjustmentID(ctx context.Context) (string, error)
}

// LookupRepository provides access to the static return classification and
// status-graph tables
type LookupRepository interface {
	FindItemTypeMap(ctx context.Context, returnHeaderTypeID, mapKey string) (*ItemTypeMap, error)
	StatusChangeValid(ctx context.Context, statusID, statusIDTo string) (bool, error)
}
