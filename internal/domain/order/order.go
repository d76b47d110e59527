package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order type identifiers
const (
	TypeSalesOrder    = "SALES_ORDER"
	TypePurchaseOrder = "PURCHASE_ORDER"
)

// Order item workflow statuses
const (
	ItemStatusCreated   = "ITEM_CREATED"
	ItemStatusApproved  = "ITEM_APPROVED"
	ItemStatusCompleted = "ITEM_COMPLETED"
	ItemStatusCancelled = "ITEM_CANCELLED"
)

// Order adjustment type identifiers
const (
	AdjustmentTypeSalesTax  = "SALES_TAX"
	AdjustmentTypePromotion = "PROMOTION_ADJUSTMENT"
	AdjustmentTypeDiscount  = "DISCOUNT_ADJUSTMENT"
	AdjustmentTypeShipping  = "SHIPPING_CHARGES"
	AdjustmentTypeFee       = "FEE"
)

// HeaderLevel is the stored sentinel for adjustments not tied to a specific
// order line. It exists only at the persistence boundary; in-memory code
// branches on IsHeaderLevel instead.
const HeaderLevel = "_NA_"

// Header represents an order header. Orders are created upstream and are
// read-only inputs to the returns engine.
type Header struct {
	OrderID       string `gorm:"primaryKey"`
	OrderTypeID   string
	StatusID      string
	CurrencyUomID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName returns the database table name
func (Header) TableName() string {
	return "order_headers"
}

// IsSalesOrder returns true for customer-facing orders
func (h *Header) IsSalesOrder() bool {
	return h.OrderTypeID == TypeSalesOrder
}

// Item represents a single order line
type Item struct {
	OrderID         string `gorm:"primaryKey"`
	OrderItemSeqID  string `gorm:"primaryKey"`
	ProductID       string
	OrderItemTypeID string
	ItemDescription string
	Quantity        decimal.Decimal `gorm:"type:decimal(18,6)"`
	CancelQuantity  decimal.Decimal `gorm:"type:decimal(18,6)"`
	IssuedQuantity  decimal.Decimal `gorm:"type:decimal(18,6)"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,6)"`
	StatusID        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName returns the database table name
func (Item) TableName() string {
	return "order_items"
}

// OrderedQuantity returns the effective ordered quantity: the ordered
// quantity minus whatever was cancelled before fulfilment.
func (i *Item) OrderedQuantity() decimal.Decimal {
	return i.Quantity.Sub(i.CancelQuantity)
}

// SubTotal returns the line total based on the effective ordered quantity
func (i *Item) SubTotal() decimal.Decimal {
	return i.OrderedQuantity().Mul(i.UnitPrice)
}

// IsValid returns true when the line still counts towards order totals
func (i *Item) IsValid() bool {
	return i.StatusID != ItemStatusCancelled
}

// IsReturnEligible returns true when the line's workflow status permits a
// return at all. Created and cancelled lines are never returnable.
func (i *Item) IsReturnEligible() bool {
	return i.StatusID == ItemStatusApproved || i.StatusID == ItemStatusCompleted
}

// Adjustment represents a monetary adjustment on an order, either scoped to
// one line or to the whole order (header level).
type Adjustment struct {
	OrderAdjustmentID     string `gorm:"primaryKey"`
	OrderID               string
	OrderItemSeqID        string
	OrderAdjustmentTypeID string
	Amount                decimal.Decimal `gorm:"type:decimal(18,6)"`
	TaxAuthorityRateSeqID string
	Description           string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TableName returns the database table name
func (Adjustment) TableName() string {
	return "order_adjustments"
}

// IsHeaderLevel returns true when the adjustment applies to the whole order
func (a *Adjustment) IsHeaderLevel() bool {
	return a.OrderItemSeqID == "" || a.OrderItemSeqID == HeaderLevel
}

// IsTax returns true for tax adjustments
func (a *Adjustment) IsTax() bool {
	return a.OrderAdjustmentTypeID == AdjustmentTypeSalesTax
}

// IsPromotion returns true for promotion adjustments
func (a *Adjustment) IsPromotion() bool {
	return a.OrderAdjustmentTypeID == AdjustmentTypePromotion
}

// IsShipping returns true for shipping charge adjustments
func (a *Adjustment) IsShipping() bool {
	return a.OrderAdjustmentTypeID == AdjustmentTypeShipping
}
