package returns

import (
	"context"
	"errors"
	"fmt"
	"time"

	orderapp "github.com/oms/backend/internal/application/order"
	"github.com/oms/backend/internal/domain/order"
	"github.com/oms/backend/internal/domain/returns"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerRounder rounds monetary amounts to the organization's ledger scale
// and rounding mode
type LedgerRounder interface {
	Round(d decimal.Decimal) decimal.Decimal
}

// ReturnService creates return headers, items and adjustments and validates
// status transitions. Proportional adjustment amounts are always recomputed
// against the original order; caller-supplied figures are never trusted for
// recalculated types.
type ReturnService struct {
	scope  TransactionScope
	ledger LedgerRounder
	log    *zap.Logger
}

// NewReturnService creates a new ReturnService
func NewReturnService(scope TransactionScope, ledger LedgerRounder, log *zap.Logger) *ReturnService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReturnService{
		scope:  scope,
		ledger: ledger,
		log:    log,
	}
}

// CreateReturnHeader creates a new return transaction in RETURN_REQUESTED
func (s *ReturnService) CreateReturnHeader(ctx context.Context, req CreateReturnHeaderRequest) (*ReturnHeaderResponse, error) {
	if req.ReturnHeaderTypeID != returns.HeaderTypeCustomer && req.ReturnHeaderTypeID != returns.HeaderTypeVendor {
		return nil, shared.NewDomainError("INVALID_INPUT", "Return header type must be CUSTOMER_RETURN or VENDOR_RETURN")
	}
	if req.FromPartyID == "" || req.ToPartyID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "From and to parties are required")
	}

	var resp ReturnHeaderResponse
	err := s.scope.Execute(ctx, func(repos Repos) error {
		returnID, err := repos.Returns.NextReturnID(ctx)
		if err != nil {
			return fmt.Errorf("generating return id: %w", err)
		}

		now := time.Now()
		header := &returns.Header{
			ReturnID:           returnID,
			ReturnHeaderTypeID: req.ReturnHeaderTypeID,
			StatusID:           returns.StatusRequested,
			FromPartyID:        req.FromPartyID,
			ToPartyID:          req.ToPartyID,
			PaymentMethodID:    req.PaymentMethodID,
			CurrencyUomID:      req.CurrencyUomID,
			EntryDate:          now,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := repos.Returns.SaveHeader(ctx, header); err != nil {
			return err
		}
		resp = ToReturnHeaderResponse(header)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("return header created",
		zap.String("return_id", resp.ReturnID),
		zap.String("type", resp.ReturnHeaderTypeID),
	)
	return &resp, nil
}

// GetReturn retrieves a return with its items and adjustments
func (s *ReturnService) GetReturn(ctx context.Context, returnID string) (*ReturnResponse, error) {
	var resp ReturnResponse
	err := s.scope.Execute(ctx, func(repos Repos) error {
		header, err := repos.Returns.FindHeaderByID(ctx, returnID)
		if err != nil {
			return err
		}
		items, err := repos.Returns.FindItemsByReturn(ctx, returnID)
		if err != nil {
			return err
		}
		adjustments, err := repos.Returns.FindAdjustmentsByReturn(ctx, returnID)
		if err != nil {
			return err
		}

		resp.Header = ToReturnHeaderResponse(header)
		resp.Items = make([]ReturnItemResponse, len(items))
		for i := range items {
			resp.Items[i] = ToReturnItemResponse(&items[i])
		}
		resp.Adjustments = make([]ReturnAdjustmentResponse, len(adjustments))
		for i := range adjustments {
			resp.Adjustments[i] = ToReturnAdjustmentResponse(&adjustments[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateReturnItem creates one return item for an order line. The candidate's
// IncludeAdjustments flag controls whether the line's order adjustments are
// copied onto the new item.
func (s *ReturnService) CreateReturnItem(ctx context.Context, returnID string, candidate returns.ItemCandidate) (*ReturnItemResponse, error) {
	var resp ReturnItemResponse
	err := s.scope.Execute(ctx, func(repos Repos) error {
		item, err := s.createItem(ctx, repos, returnID, candidate)
		if err != nil {
			return err
		}
		resp = ToReturnItemResponse(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateReturnAdjustment creates one return adjustment, recalculating the
// amount for proportional types
func (s *ReturnService) CreateReturnAdjustment(ctx context.Context, returnID string, candidate returns.AdjustmentCandidate) (*ReturnAdjustmentResponse, error) {
	var resp ReturnAdjustmentResponse
	err := s.scope.Execute(ctx, func(repos Repos) error {
		adj, err := s.createAdjustment(ctx, repos, returnID, candidate)
		if err != nil {
			return err
		}
		resp = ToReturnAdjustmentResponse(adj)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateCandidate routes a single candidate to the item or adjustment path
// and reports the outcome as a result envelope
func (s *ReturnService) CreateCandidate(ctx context.Context, returnID string, candidate returns.Candidate) (CandidateResult, error) {
	var result CandidateResult
	err := s.scope.Execute(ctx, func(repos Repos) error {
		result = s.createCandidate(ctx, repos, returnID, candidate)
		return nil
	})
	if err != nil {
		return CandidateResult{}, err
	}
	return result, nil
}

// CreateCandidates processes a list of candidates inside one transaction.
// Each candidate collects its own result; a rejected candidate does not
// block its siblings. Only a failure outside the per-candidate guard (for
// example at commit) rolls everything back.
func (s *ReturnService) CreateCandidates(ctx context.Context, returnID string, candidates []returns.Candidate) ([]CandidateResult, error) {
	results := make([]CandidateResult, 0, len(candidates))
	err := s.scope.Execute(ctx, func(repos Repos) error {
		for idx, candidate := range candidates {
			result := s.createCandidate(ctx, repos, returnID, candidate)
			if result.Err != nil {
				s.log.Warn("return candidate rejected",
					zap.String("return_id", returnID),
					zap.Int("index", idx),
					zap.String("code", result.Err.Code),
					zap.String("message", result.Err.Message),
				)
			}
			results = append(results, result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateReturnHeader applies a payment method and/or status change to a
// return. Every status change must be a valid edge in the status graph;
// moving to RETURN_ACCEPTED additionally validates the return total against
// the order's available-to-return total.
func (s *ReturnService) UpdateReturnHeader(ctx context.Context, returnID string, req UpdateReturnHeaderRequest) (*ReturnHeaderResponse, error) {
	var resp ReturnHeaderResponse
	err := s.scope.Execute(ctx, func(repos Repos) error {
		header, err := repos.Returns.FindHeaderByID(ctx, returnID)
		if err != nil {
			return err
		}

		if req.PaymentMethodID != nil {
			header.PaymentMethodID = *req.PaymentMethodID
		}

		if req.StatusID != nil && *req.StatusID != header.StatusID {
			target := *req.StatusID
			valid, err := repos.Lookups.StatusChangeValid(ctx, header.StatusID, target)
			if err != nil {
				return err
			}
			if !valid {
				return shared.NewDomainError("INVALID_STATUS_CHANGE",
					fmt.Sprintf("Status change from %s to %s is not allowed", header.StatusID, target))
			}
			if target == returns.StatusAccepted {
				if err := s.validateAcceptance(ctx, repos, header, req.AdjustmentAmount); err != nil {
					return err
				}
			}
			header.StatusID = target
		}

		header.UpdatedAt = time.Now()
		if err := repos.Returns.SaveHeader(ctx, header); err != nil {
			return err
		}
		resp = ToReturnHeaderResponse(header)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// createCandidate dispatches on the candidate kind. The item path suppresses
// adjustment copying here: in the mixed candidate flow adjustments arrive as
// their own candidates, and copying would duplicate them.
func (s *ReturnService) createCandidate(ctx context.Context, repos Repos, returnID string, candidate returns.Candidate) CandidateResult {
	switch c := candidate.(type) {
	case returns.ItemCandidate:
		c.IncludeAdjustments = false
		item, err := s.createItem(ctx, repos, returnID, c)
		if err != nil {
			return failedCandidate(err)
		}
		return CandidateResult{ReturnItemSeqID: item.ReturnItemSeqID}
	case returns.AdjustmentCandidate:
		adj, err := s.createAdjustment(ctx, repos, returnID, c)
		if err != nil {
			return failedCandidate(err)
		}
		return CandidateResult{ReturnAdjustmentID: adj.ReturnAdjustmentID}
	default:
		return failedCandidate(shared.NewDomainError("INVALID_INPUT", "Unknown return candidate kind"))
	}
}

// createItem validates and persists one return item. The returnable quantity
// and price are re-derived here; caller-supplied returnable figures are
// never trusted.
func (s *ReturnService) createItem(ctx context.Context, repos Repos, returnID string, c returns.ItemCandidate) (*returns.Item, error) {
	header, err := repos.Returns.FindHeaderByID(ctx, returnID)
	if err != nil {
		return nil, err
	}
	if c.OrderID == "" || c.OrderItemSeqID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "An order item reference is required")
	}
	if !c.ReturnQuantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Return quantity must be positive")
	}

	mapping, err := repos.Lookups.FindItemTypeMap(ctx, header.ReturnHeaderTypeID, c.TypeMapKey)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("UNRESOLVED_TYPE_MAP",
				fmt.Sprintf("No return item type mapping for %s/%s", header.ReturnHeaderTypeID, c.TypeMapKey))
		}
		return nil, err
	}

	if returns.IsReplacementType(c.ReturnTypeID) && header.IsAccepted() && !header.HasPaymentMethod() {
		return nil, shared.NewDomainError("PAYMENT_METHOD_REQUIRED", "Replacement returns require a payment method on file")
	}

	// Row lock on the order line: concurrent returns against the same line
	// serialize on the returnable-quantity check below.
	orderItem, err := repos.Orders.FindItemByIDForUpdate(ctx, c.OrderID, c.OrderItemSeqID)
	if err != nil {
		return nil, err
	}

	calculator := NewCalculator(repos.Products, repos.Returns)
	returnable, err := calculator.Returnable(ctx, orderItem)
	if err != nil {
		return nil, err
	}

	if returnable.Quantity.IsZero() {
		return nil, shared.NewDomainError("ALREADY_FULLY_RETURNED", "Order item has already been fully returned")
	}
	if c.ReturnQuantity.GreaterThan(returnable.Quantity) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Return quantity exceeds the returnable quantity; previous returns may exist")
	}
	if c.ReturnQuantity.GreaterThan(orderItem.OrderedQuantity()) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Return quantity exceeds the ordered quantity")
	}

	price := c.ReturnPrice
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Return price cannot be negative")
	}
	if price.IsZero() {
		price = returnable.Price
	}
	if price.GreaterThan(returnable.Price) {
		return nil, shared.NewDomainError("INVALID_PRICE", "Return price exceeds the returnable price")
	}

	seqID, err := repos.Returns.NextItemSeqID(ctx, returnID)
	if err != nil {
		return nil, fmt.Errorf("generating return item sequence id: %w", err)
	}

	description := c.Description
	if description == "" {
		description = orderItem.ItemDescription
	}

	now := time.Now()
	item := &returns.Item{
		ReturnID:         returnID,
		ReturnItemSeqID:  seqID,
		OrderID:          c.OrderID,
		OrderItemSeqID:   c.OrderItemSeqID,
		ProductID:        orderItem.ProductID,
		ReturnItemTypeID: mapping.ReturnItemTypeID,
		ReturnTypeID:     c.ReturnTypeID,
		ReturnReasonID:   c.ReturnReasonID,
		StatusID:         returns.StatusRequested,
		Description:      description,
		ReturnQuantity:   c.ReturnQuantity,
		ReturnPrice:      price,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := repos.Returns.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	if c.IncludeAdjustments {
		adjustments, err := repos.Orders.FindAdjustmentsByOrderItem(ctx, c.OrderID, c.OrderItemSeqID)
		if err != nil {
			return nil, err
		}
		for _, adj := range adjustments {
			_, err := s.createAdjustment(ctx, repos, returnID, returns.AdjustmentCandidate{
				OrderAdjustmentID: adj.OrderAdjustmentID,
				ReturnItemSeqID:   item.ReturnItemSeqID,
			})
			if err != nil {
				return nil, err
			}
		}
	}

	return item, nil
}

// createAdjustment validates and persists one return adjustment. For
// proportional types with an associated return item the amount is recomputed
// as the source adjustment scaled by the return's share of the original
// order line.
func (s *ReturnService) createAdjustment(ctx context.Context, repos Repos, returnID string, c returns.AdjustmentCandidate) (*returns.Adjustment, error) {
	header, err := repos.Returns.FindHeaderByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	var source *order.Adjustment
	if c.OrderAdjustmentID != "" {
		source, err = repos.Orders.FindAdjustmentByID(ctx, c.OrderAdjustmentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("NOT_FOUND",
					fmt.Sprintf("Order adjustment %s not found", c.OrderAdjustmentID))
			}
			return nil, err
		}
	}

	adjustmentType := c.ReturnAdjustmentTypeID
	if adjustmentType == "" {
		adjustmentType = returns.AdjustmentTypeManual
		if source != nil {
			mapping, err := repos.Lookups.FindItemTypeMap(ctx, header.ReturnHeaderTypeID, source.OrderAdjustmentTypeID)
			switch {
			case err == nil:
				adjustmentType = mapping.ReturnItemTypeID
			case errors.Is(err, shared.ErrNotFound):
				// No mapping: keep the generic manual adjustment type.
			default:
				return nil, err
			}
		}
	}

	item, err := s.resolveItem(ctx, repos, returnID, c.ReturnItemSeqID, source)
	if err != nil {
		return nil, err
	}

	var amount decimal.Decimal
	switch {
	case c.Amount != nil:
		amount = *c.Amount
	case source != nil:
		amount = source.Amount
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "An adjustment amount or source order adjustment is required")
	}

	if returns.IsRecalculatedType(adjustmentType) && item != nil && source != nil {
		orderItem, err := repos.Orders.FindItemByID(ctx, source.OrderID, source.OrderItemSeqID)
		if err != nil {
			return nil, err
		}
		amount = s.recalculate(item, orderItem, source.Amount)
	}

	adjustmentID, err := repos.Returns.NextAdjustmentID(ctx)
	if err != nil {
		return nil, fmt.Errorf("generating return adjustment id: %w", err)
	}

	seqID := returns.HeaderLevel
	switch {
	case item != nil:
		seqID = item.ReturnItemSeqID
	case c.ReturnItemSeqID != "":
		seqID = c.ReturnItemSeqID
	}

	description := c.Description
	if description == "" {
		if source != nil && source.Description != "" {
			description = source.Description
		} else {
			description = returns.AdjustmentTypeDescription(adjustmentType)
		}
	}

	now := time.Now()
	adjustment := &returns.Adjustment{
		ReturnAdjustmentID:     adjustmentID,
		ReturnID:               returnID,
		ReturnItemSeqID:        seqID,
		ReturnAdjustmentTypeID: adjustmentType,
		Description:            description,
		Comments:               c.Comments,
		Amount:                 amount,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if source != nil {
		adjustment.OrderAdjustmentID = source.OrderAdjustmentID
		adjustment.TaxAuthorityRateSeqID = source.TaxAuthorityRateSeqID
	}
	if err := repos.Returns.CreateAdjustment(ctx, adjustment); err != nil {
		return nil, err
	}
	return adjustment, nil
}

// recalculate scales the source adjustment by the return's share of the
// original line. The return total and original total are each rounded to
// the ledger scale before dividing, and the quotient is rounded again; the
// double rounding matches the accounting treatment of the source system.
func (s *ReturnService) recalculate(item *returns.Item, orderItem *order.Item, sourceAmount decimal.Decimal) decimal.Decimal {
	returnTotal := s.ledger.Round(item.ReturnPrice.Mul(item.ReturnQuantity))
	originalTotal := s.ledger.Round(orderItem.Quantity.Mul(orderItem.UnitPrice))
	if originalTotal.IsZero() {
		return decimal.Zero
	}
	return s.ledger.Round(returnTotal.Mul(sourceAmount).Div(originalTotal))
}

// resolveItem finds the return item an adjustment belongs to: by explicit
// sequence id, or by matching the order line the source adjustment is
// scoped to. A nil result means the adjustment is return-header level.
func (s *ReturnService) resolveItem(ctx context.Context, repos Repos, returnID, returnItemSeqID string, source *order.Adjustment) (*returns.Item, error) {
	if returnItemSeqID == "" && (source == nil || source.IsHeaderLevel()) {
		return nil, nil
	}

	items, err := repos.Returns.FindItemsByReturn(ctx, returnID)
	if err != nil {
		return nil, err
	}

	if returnItemSeqID != "" {
		for i := range items {
			if items[i].ReturnItemSeqID == returnItemSeqID {
				return &items[i], nil
			}
		}
		return nil, shared.NewDomainError("NOT_FOUND",
			fmt.Sprintf("Return item %s/%s not found", returnID, returnItemSeqID))
	}

	for i := range items {
		if items[i].OrderID == source.OrderID && items[i].OrderItemSeqID == source.OrderItemSeqID {
			return &items[i], nil
		}
	}
	return nil, nil
}

// validateAcceptance enforces the RETURN_ACCEPTED business rules: replacement
// items require a payment method, and the proposed return total must fit in
// what is still available to return on the order.
func (s *ReturnService) validateAcceptance(ctx context.Context, repos Repos, header *returns.Header, inFlightAdjustment *decimal.Decimal) error {
	items, err := repos.Returns.FindItemsByReturn(ctx, header.ReturnID)
	if err != nil {
		return err
	}

	returnTotal := decimal.Zero
	orderID := ""
	needsPaymentMethod := false
	for _, item := range items {
		returnTotal = returnTotal.Add(item.Total())
		if returns.IsReplacementType(item.ReturnTypeID) {
			needsPaymentMethod = true
		}
		if orderID == "" && item.OrderID != "" {
			orderID = item.OrderID
		}
	}

	if needsPaymentMethod && !header.HasPaymentMethod() {
		return shared.NewDomainError("PAYMENT_METHOD_REQUIRED", "Replacement returns require a payment method before acceptance")
	}
	if orderID == "" {
		return nil
	}

	aggregation := orderapp.NewAggregationService(repos.Orders, repos.Returns)
	available, err := aggregation.AvailableToReturnTotal(ctx, orderID, false)
	if err != nil {
		return err
	}
	if inFlightAdjustment != nil {
		available = available.Sub(*inFlightAdjustment)
	}
	if available.LessThan(returnTotal) {
		return shared.NewDomainError("RETURN_TOTAL_EXCEEDED", "Return total exceeds the amount still available to return on the order")
	}
	return nil
}

// failedCandidate converts an error into a candidate result so a bad
// candidate does not abort its siblings
func failedCandidate(err error) CandidateResult {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return CandidateResult{Err: domainErr}
	}
	return CandidateResult{Err: shared.NewDomainError("INTERNAL", err.Error())}
}
