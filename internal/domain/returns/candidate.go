package returns

import "github.com/shopspring/decimal"

// Candidate is the tagged union for a single selected returnable candidate.
// An ItemCandidate references an order line; an AdjustmentCandidate does
// not. The stored "_NA_" sentinel never appears here.
type Candidate interface {
	isCandidate()
}

// ItemCandidate requests creation of a return item for an order line
type ItemCandidate struct {
	OrderID            string
	OrderItemSeqID     string
	ReturnQuantity     decimal.Decimal
	ReturnPrice        decimal.Decimal
	ReturnTypeID       string
	ReturnReasonID     string
	TypeMapKey         string
	Description        string
	IncludeAdjustments bool
}

func (ItemCandidate) isCandidate() {}

// AdjustmentCandidate requests creation of a return adjustment, usually
// derived from an order adjustment. Amount is optional: when nil it defaults
// from the source order adjustment, and proportional types are recalculated
// regardless.
type AdjustmentCandidate struct {
	OrderAdjustmentID      string
	ReturnItemSeqID        string
	ReturnAdjustmentTypeID string
	Description            string
	Comments               string
	Amount                 *decimal.Decimal
}

func (AdjustmentCandidate) isCandidate() {}
