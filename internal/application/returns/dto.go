package returns

import (
	"time"

	"github.com/oms/backend/internal/domain/returns"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreateReturnHeaderRequest starts a new return transaction
type CreateReturnHeaderRequest struct {
	ReturnHeaderTypeID string
	FromPartyID        string
	ToPartyID          string
	PaymentMethodID    string
	CurrencyUomID      string
}

// UpdateReturnHeaderRequest changes a return header. AdjustmentAmount is an
// in-flight adjustment not yet persisted that should be counted against the
// available-to-return total during acceptance validation.
type UpdateReturnHeaderRequest struct {
	StatusID         *string
	PaymentMethodID  *string
	AdjustmentAmount *decimal.Decimal
}

// CandidateResult is the per-candidate outcome of a creation request. Err is
// nil on success; exactly one of the identifiers is set depending on the
// candidate kind.
type CandidateResult struct {
	ReturnItemSeqID    string              `json:"return_item_seq_id,omitempty"`
	ReturnAdjustmentID string              `json:"return_adjustment_id,omitempty"`
	Err                *shared.DomainError `json:"error,omitempty"`
}

// OK returns true when the candidate was created
func (r CandidateResult) OK() bool {
	return r.Err == nil
}

// ReturnHeaderResponse is the API projection of a return header
type ReturnHeaderResponse struct {
	ReturnID           string    `json:"return_id"`
	ReturnHeaderTypeID string    `json:"return_header_type_id"`
	StatusID           string    `json:"status_id"`
	FromPartyID        string    `json:"from_party_id"`
	ToPartyID          string    `json:"to_party_id"`
	PaymentMethodID    string    `json:"payment_method_id,omitempty"`
	CurrencyUomID      string    `json:"currency_uom_id"`
	EntryDate          time.Time `json:"entry_date"`
}

// ReturnItemResponse is the API projection of a return item
type ReturnItemResponse struct {
	ReturnID         string `json:"return_id"`
	ReturnItemSeqID  string `json:"return_item_seq_id"`
	OrderID          string `json:"order_id,omitempty"`
	OrderItemSeqID   string `json:"order_item_seq_id,omitempty"`
	ProductID        string `json:"product_id,omitempty"`
	ReturnItemTypeID string `json:"return_item_type_id"`
	ReturnTypeID     string `json:"return_type_id"`
	ReturnReasonID   string `json:"return_reason_id,omitempty"`
	StatusID         string `json:"status_id"`
	Description      string `json:"description,omitempty"`
	ReturnQuantity   string `json:"return_quantity"`
	ReturnPrice      string `json:"return_price"`
}

// ReturnAdjustmentResponse is the API projection of a return adjustment
type ReturnAdjustmentResponse struct {
	ReturnAdjustmentID     string `json:"return_adjustment_id"`
	ReturnID               string `json:"return_id"`
	ReturnItemSeqID        string `json:"return_item_seq_id"`
	ReturnAdjustmentTypeID string `json:"return_adjustment_type_id"`
	OrderAdjustmentID      string `json:"order_adjustment_id,omitempty"`
	Description            string `json:"description,omitempty"`
	Amount                 string `json:"amount"`
}

// ReturnResponse is a return header with its items and adjustments
type ReturnResponse struct {
	Header      ReturnHeaderResponse       `json:"header"`
	Items       []ReturnItemResponse       `json:"items"`
	Adjustments []ReturnAdjustmentResponse `json:"adjustments"`
}

// ReturnableItemResponse is the API projection of one returnable candidate
type ReturnableItemResponse struct {
	ItemType           string `json:"item_type"`
	OrderID            string `json:"order_id"`
	OrderItemSeqID     string `json:"order_item_seq_id,omitempty"`
	OrderAdjustmentID  string `json:"order_adjustment_id,omitempty"`
	ProductID          string `json:"product_id,omitempty"`
	Description        string `json:"description,omitempty"`
	TypeKey            string `json:"type_key"`
	StatusID           string `json:"status_id,omitempty"`
	OrderedQuantity    string `json:"ordered_quantity"`
	ReturnableQuantity string `json:"returnable_quantity"`
	ReturnablePrice    string `json:"returnable_price"`
}

// ToReturnHeaderResponse converts a return header to its API projection
func ToReturnHeaderResponse(h *returns.Header) ReturnHeaderResponse {
	return ReturnHeaderResponse{
		ReturnID:           h.ReturnID,
		ReturnHeaderTypeID: h.ReturnHeaderTypeID,
		StatusID:           h.StatusID,
		FromPartyID:        h.FromPartyID,
		ToPartyID:          h.ToPartyID,
		PaymentMethodID:    h.PaymentMethodID,
		CurrencyUomID:      h.CurrencyUomID,
		EntryDate:          h.EntryDate,
	}
}

// ToReturnItemResponse converts a return item to its API projection
func ToReturnItemResponse(i *returns.Item) ReturnItemResponse {
	return ReturnItemResponse{
		ReturnID:         i.ReturnID,
		ReturnItemSeqID:  i.ReturnItemSeqID,
		OrderID:          i.OrderID,
		OrderItemSeqID:   i.OrderItemSeqID,
		ProductID:        i.ProductID,
		ReturnItemTypeID: i.ReturnItemTypeID,
		ReturnTypeID:     i.ReturnTypeID,
		ReturnReasonID:   i.ReturnReasonID,
		StatusID:         i.StatusID,
		Description:      i.Description,
		ReturnQuantity:   i.ReturnQuantity.String(),
		ReturnPrice:      i.ReturnPrice.String(),
	}
}

// ToReturnAdjustmentResponse converts a return adjustment to its API projection
func ToReturnAdjustmentResponse(a *returns.Adjustment) ReturnAdjustmentResponse {
	return ReturnAdjustmentResponse{
		ReturnAdjustmentID:     a.ReturnAdjustmentID,
		ReturnID:               a.ReturnID,
		ReturnItemSeqID:        a.ReturnItemSeqID,
		ReturnAdjustmentTypeID: a.ReturnAdjustmentTypeID,
		OrderAdjustmentID:      a.OrderAdjustmentID,
		Description:            a.Description,
		Amount:                 a.Amount.String(),
	}
}

// ToReturnableItemResponses converts assembler output to API projections
func ToReturnableItemResponses(infos []returns.ReturnableItemInfo) []ReturnableItemResponse {
	responses := make([]ReturnableItemResponse, len(infos))
	for i, info := range infos {
		responses[i] = ReturnableItemResponse{
			ItemType:           info.ItemType,
			OrderID:            info.OrderID,
			OrderItemSeqID:     info.OrderItemSeqID,
			OrderAdjustmentID:  info.OrderAdjustmentID,
			ProductID:          info.ProductID,
			Description:        info.Description,
			TypeKey:            info.TypeKey,
			StatusID:           info.StatusID,
			OrderedQuantity:    info.OrderedQuantity.String(),
			ReturnableQuantity: info.ReturnableQuantity.String(),
			ReturnablePrice:    info.ReturnablePrice.String(),
		}
	}
	return responses
}
