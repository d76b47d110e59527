package order

import (
	"context"

	"github.com/oms/backend/internal/domain/order"
	"github.com/oms/backend/internal/domain/returns"
	"github.com/shopspring/decimal"
)

// AggregationService computes order-level totals from order lines,
// adjustments and return history. It is stateless: every method takes the
// order id and fetches what it needs, so it can be constructed per request
// or per transaction scope.
type AggregationService struct {
	orders      order.Repository
	returnsRepo returns.Repository
}

// NewAggregationService creates a new AggregationService
func NewAggregationService(orders order.Repository, returnsRepo returns.Repository) *AggregationService {
	return &AggregationService{
		orders:      orders,
		returnsRepo: returnsRepo,
	}
}

// ValidOrderItems returns the order's lines excluding cancelled ones
func (s *AggregationService) ValidOrderItems(ctx context.Context, orderID string) ([]order.Item, error) {
	items, err := s.orders.FindItemsByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	valid := make([]order.Item, 0, len(items))
	for _, item := range items {
		if item.IsValid() {
			valid = append(valid, item)
		}
	}
	return valid, nil
}

// OrderAdjustments returns all adjustments on the order, line and header level
func (s *AggregationService) OrderAdjustments(ctx context.Context, orderID string) ([]order.Adjustment, error) {
	return s.orders.FindAdjustmentsByOrder(ctx, orderID)
}

// HeaderAdjustments returns adjustments not tied to any specific line
func (s *AggregationService) HeaderAdjustments(ctx context.Context, orderID string) ([]order.Adjustment, error) {
	adjustments, err := s.orders.FindAdjustmentsByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	headerLevel := make([]order.Adjustment, 0, len(adjustments))
	for _, adj := range adjustments {
		if adj.IsHeaderLevel() {
			headerLevel = append(headerLevel, adj)
		}
	}
	return headerLevel, nil
}

// ItemsSubTotal returns the sum of line totals over valid order items
func (s *AggregationService) ItemsSubTotal(ctx context.Context, orderID string) (decimal.Decimal, error) {
	items, err := s.ValidOrderItems(ctx, orderID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.SubTotal())
	}
	return total, nil
}

// AdjustmentsTotal sums order adjustments filtered by kind. When promoOnly or
// shippingOnly is set only that kind is counted; otherwise every adjustment
// is counted, with tax included only when includeTax is set.
func (s *AggregationService) AdjustmentsTotal(ctx context.Context, orderID string, includeTax, promoOnly, shippingOnly bool) (decimal.Decimal, error) {
	adjustments, err := s.orders.FindAdjustmentsByOrder(ctx, orderID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, adj := range adjustments {
		switch {
		case promoOnly:
			if !adj.IsPromotion() {
				continue
			}
		case shippingOnly:
			if !adj.IsShipping() {
				continue
			}
		default:
			if adj.IsTax() && !includeTax {
				continue
			}
		}
		total = total.Add(adj.Amount)
	}
	return total, nil
}

// GrandTotal returns the order grand total: items subtotal plus all
// adjustments including tax
func (s *AggregationService) GrandTotal(ctx context.Context, orderID string) (decimal.Decimal, error) {
	subTotal, err := s.ItemsSubTotal(ctx, orderID)
	if err != nil {
		return decimal.Zero, err
	}
	adjustments, err := s.AdjustmentsTotal(ctx, orderID, true, false, false)
	if err != nil {
		return decimal.Zero, err
	}
	return subTotal.Add(adjustments), nil
}

// ReturnedTotal sums returnPrice x returnQuantity across the order's return
// items whose return header has not been cancelled. Accepted, received and
// completed returns always count; requested returns count only when
// includeRequested is set.
func (s *AggregationService) ReturnedTotal(ctx context.Context, orderID string, includeRequested bool) (decimal.Decimal, error) {
	items, err := s.returnsRepo.FindItemsByOrder(ctx, orderID)
	if err != nil {
		return decimal.Zero, err
	}
	statuses, err := s.headerStatuses(ctx, items)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, item := range items {
		switch statuses[item.ReturnID] {
		case returns.StatusAccepted, returns.StatusReceived, returns.StatusCompleted:
		case returns.StatusRequested:
			if !includeRequested {
				continue
			}
		default:
			continue
		}
		total = total.Add(item.Total())
	}
	return total, nil
}

// AvailableToReturnTotal returns the order grand total minus what has already
// been returned
func (s *AggregationService) AvailableToReturnTotal(ctx context.Context, orderID string, includeRequested bool) (decimal.Decimal, error) {
	grand, err := s.GrandTotal(ctx, orderID)
	if err != nil {
		return decimal.Zero, err
	}
	returned, err := s.ReturnedTotal(ctx, orderID, includeRequested)
	if err != nil {
		return decimal.Zero, err
	}
	return grand.Sub(returned), nil
}

// headerStatuses batch-fetches the return headers referenced by the given
// items and maps return id to current status
func (s *AggregationService) headerStatuses(ctx context.Context, items []returns.Item) (map[string]string, error) {
	if len(items) == 0 {
		return map[string]string{}, nil
	}
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ReturnID]; ok {
			continue
		}
		seen[item.ReturnID] = struct{}{}
		ids = append(ids, item.ReturnID)
	}
	headers, err := s.returnsRepo.FindHeadersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	statuses := make(map[string]string, len(headers))
	for _, h := range headers {
		statuses[h.ReturnID] = h.StatusID
	}
	return statuses, nil
}
