package returns

import (
	"time"

	"github.com/shopspring/decimal"
)

// Return header type identifiers
const (
	HeaderTypeCustomer = "CUSTOMER_RETURN"
	HeaderTypeVendor   = "VENDOR_RETURN"
)

// Return workflow statuses. RETURN_CANCELLED is terminal and excludes the
// return from already-returned quantity sums.
const (
	StatusRequested = "RETURN_REQUESTED"
	StatusAccepted  = "RETURN_ACCEPTED"
	StatusReceived  = "RETURN_RECEIVED"
	StatusCompleted = "RETURN_COMPLETED"
	StatusCancelled = "RETURN_CANCELLED"
)

// Return type identifiers (what the customer gets back)
const (
	TypeRefund        = "RTN_REFUND"
	TypeCredit        = "RTN_CREDIT"
	TypeReplace       = "RTN_CSREPLACE"
	TypeRepairReplace = "RTN_REPAIR_REPLACE"
)

// Return adjustment type identifiers
const (
	AdjustmentTypeSalesTax  = "RET_SALES_TAX_ADJ"
	AdjustmentTypePromotion = "RET_PROMOTION_ADJ"
	AdjustmentTypeDiscount  = "RET_DISCOUNT_ADJ"
	AdjustmentTypeShipping  = "RET_SHIPPING_ADJ"
	AdjustmentTypeManual    = "RET_MAN_ADJ"
)

// HeaderLevel is the stored sentinel for adjustments attached to the return
// itself rather than one of its items. Kept only at the persistence boundary
// for schema compatibility.
const HeaderLevel = "_NA_"

// IsReplacementType reports whether a return type sends replacement goods.
// Replacement returns require a payment method on file.
func IsReplacementType(returnTypeID string) bool {
	return returnTypeID == TypeReplace || returnTypeID == TypeRepairReplace
}

// IsRecalculatedType reports whether a return adjustment type is proportional
// by nature: its amount is recomputed from the return's share of the original
// order line rather than taken from the caller.
func IsRecalculatedType(returnAdjustmentTypeID string) bool {
	switch returnAdjustmentTypeID {
	case AdjustmentTypeSalesTax, AdjustmentTypePromotion, AdjustmentTypeDiscount:
		return true
	}
	return false
}

// adjustmentTypeDescriptions gives the display text used when an adjustment
// is created without an explicit description.
var adjustmentTypeDescriptions = map[string]string{
	AdjustmentTypeSalesTax:  "Sales Tax",
	AdjustmentTypePromotion: "Promotion",
	AdjustmentTypeDiscount:  "Discount",
	AdjustmentTypeShipping:  "Shipping and Handling",
	AdjustmentTypeManual:    "Manual Adjustment",
}

// AdjustmentTypeDescription returns the default description for an
// adjustment type
func AdjustmentTypeDescription(returnAdjustmentTypeID string) string {
	if d, ok := adjustmentTypeDescriptions[returnAdjustmentTypeID]; ok {
		return d
	}
	return returnAdjustmentTypeID
}

// Header represents one return transaction against one party
type Header struct {
	ReturnID           string `gorm:"primaryKey"`
	ReturnHeaderTypeID string
	StatusID           string
	FromPartyID        string
	ToPartyID          string
	PaymentMethodID    string
	CurrencyUomID      string
	EntryDate          time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName returns the database table name
func (Header) TableName() string {
	return "return_headers"
}

// IsCancelled returns true when the return has been cancelled
func (h *Header) IsCancelled() bool {
	return h.StatusID == StatusCancelled
}

// IsAccepted returns true when the return has been accepted
func (h *Header) IsAccepted() bool {
	return h.StatusID == StatusAccepted
}

// HasPaymentMethod returns true when a payment method is on file
func (h *Header) HasPaymentMethod() bool {
	return h.PaymentMethodID != ""
}

// Item is a line within a return, usually tied to an original order line
type Item struct {
	ReturnID         string `gorm:"primaryKey"`
	ReturnItemSeqID  string `gorm:"primaryKey"`
	OrderID          string
	OrderItemSeqID   string
	ProductID        string
	ReturnItemTypeID string
	ReturnTypeID     string
	ReturnReasonID   string
	StatusID         string
	Description      string
	ReturnQuantity   decimal.Decimal `gorm:"type:decimal(18,6)"`
	ReturnPrice      decimal.Decimal `gorm:"type:decimal(18,6)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName returns the database table name
func (Item) TableName() string {
	return "return_items"
}

// Total returns the item's contribution to the return total
func (i *Item) Total() decimal.Decimal {
	return i.ReturnPrice.Mul(i.ReturnQuantity)
}

// IsOrderLinked returns true when the item references an order line
func (i *Item) IsOrderLinked() bool {
	return i.OrderID != "" && i.OrderItemSeqID != ""
}

// Adjustment is a tax/discount/promotion/manual monetary adjustment attached
// to a return or one of its items. OrderAdjustmentID records provenance when
// the adjustment was derived from an order adjustment.
type Adjustment struct {
	ReturnAdjustmentID     string `gorm:"primaryKey"`
	ReturnID               string
	ReturnItemSeqID        string
	ReturnAdjustmentTypeID string
	OrderAdjustmentID      string
	TaxAuthorityRateSeqID  string
	Description            string
	Comments               string
	Amount                 decimal.Decimal `gorm:"type:decimal(18,6)"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// TableName returns the database table name
func (Adjustment) TableName() string {
	return "return_adjustments"
}

// IsHeaderLevel returns true when the adjustment applies to the whole return
func (a *Adjustment) IsHeaderLevel() bool {
	return a.ReturnItemSeqID == "" || a.ReturnItemSeqID == HeaderLevel
}

// ItemTypeMap classifies what kind of return item or adjustment a source
// order item/adjustment produces, keyed by return header type and a map key
// (product type for items, order adjustment type for adjustments).
type ItemTypeMap struct {
	ReturnHeaderTypeID string `gorm:"primaryKey"`
	ReturnItemMapKey   string `gorm:"primaryKey"`
	ReturnItemTypeID   string
}

// TableName returns the database table name
func (ItemTypeMap) TableName() string {
	return "return_item_type_maps"
}

// StatusValidChange is one edge of the return status graph. Every header
// status update is validated against this table.
type StatusValidChange struct {
	StatusID       string `gorm:"primaryKey"`
	StatusIDTo     string `gorm:"primaryKey"`
	TransitionName string
}

// TableName returns the database table name
func (StatusValidChange) TableName() string {
	return "status_valid_changes"
}

// Returnable item types emitted by the assembler
const (
	ItemTypeOrderItem        = "OrderItem"
	ItemTypeOrderAdjustment  = "OrderAdjustment"
	ItemTypeHeaderAdjustment = "Order Level Adjustment"
)

// ReturnableItemInfo is a transient projection of one order item or
// adjustment that is still eligible to be returned. It is never persisted;
// it is what a UI presents for selection.
type ReturnableItemInfo struct {
	ItemType           string
	OrderID            string
	OrderItemSeqID     string
	OrderAdjustmentID  string
	ProductID          string
	Description        string
	TypeKey            string
	StatusID           string
	OrderedQuantity    decimal.Decimal
	ReturnableQuantity decimal.Decimal
	ReturnablePrice    decimal.Decimal
}
