package returns

import (
	"context"
	"fmt"
	"time"

	"github.com/oms/backend/internal/domain/order"
	"github.com/oms/backend/internal/domain/returns"
	"github.com/shopspring/decimal"
)

// ReturnableResult is what remains returnable on one order line
type ReturnableResult struct {
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// Calculator determines how much of an order line can still be returned,
// accounting for prior non-cancelled returns and product returnability
// rules. It is stateless and safe to construct per call or per transaction.
type Calculator struct {
	products    order.ProductRepository
	returnsRepo returns.Repository
	now         func() time.Time
}

// NewCalculator creates a new Calculator
func NewCalculator(products order.ProductRepository, returnsRepo returns.Repository) *Calculator {
	return &Calculator{
		products:    products,
		returnsRepo: returnsRepo,
		now:         time.Now,
	}
}

// Returnable computes the returnable quantity and price for a single order
// line. The returnable price is always the line's unit price; adjustments
// are handled separately.
func (c *Calculator) Returnable(ctx context.Context, item *order.Item) (ReturnableResult, error) {
	product, err := c.product(ctx, item)
	if err != nil {
		return ReturnableResult{}, err
	}

	returned, err := c.returnedForItem(ctx, item.OrderID, item.OrderItemSeqID)
	if err != nil {
		return ReturnableResult{}, err
	}

	return c.ReturnableFromHistory(item, product, returned), nil
}

// ReturnableFromHistory computes the returnable result from already-fetched
// inputs. The assembler uses this with batch-fetched return history to avoid
// issuing one query per line.
func (c *Calculator) ReturnableFromHistory(item *order.Item, product *order.Product, alreadyReturned decimal.Decimal) ReturnableResult {
	result := ReturnableResult{
		Quantity: decimal.Zero,
		Price:    item.UnitPrice,
	}

	if product != nil && !product.IsReturnable(c.now()) {
		return result
	}
	if !item.IsReturnEligible() {
		return result
	}

	quantity := item.OrderedQuantity().Sub(alreadyReturned)
	if quantity.IsNegative() {
		quantity = decimal.Zero
	}
	result.Quantity = quantity
	return result
}

// ReturnedQuantities batch-fetches every prior return item for an order
// together with its header and reconciles in memory, keyed by order item
// sequence id. Items on cancelled returns are excluded.
func (c *Calculator) ReturnedQuantities(ctx context.Context, orderID string) (map[string]decimal.Decimal, error) {
	items, err := c.returnsRepo.FindItemsByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("fetching return items for order %s: %w", orderID, err)
	}

	cancelled, err := c.cancelledReturns(ctx, items)
	if err != nil {
		return nil, err
	}

	quantities := make(map[string]decimal.Decimal)
	for _, item := range items {
		if cancelled[item.ReturnID] {
			continue
		}
		quantities[item.OrderItemSeqID] = quantities[item.OrderItemSeqID].Add(item.ReturnQuantity)
	}
	return quantities, nil
}

// product resolves the line's product, if any. Lookup failures surface as
// errors rather than being treated as "no product".
func (c *Calculator) product(ctx context.Context, item *order.Item) (*order.Product, error) {
	if item.ProductID == "" {
		return nil, nil
	}
	product, err := c.products.FindByID(ctx, item.ProductID)
	if err != nil {
		return nil, fmt.Errorf("looking up product %s for order item %s/%s: %w",
			item.ProductID, item.OrderID, item.OrderItemSeqID, err)
	}
	return product, nil
}

// returnedForItem sums prior return quantities for one order line, excluding
// cancelled returns
func (c *Calculator) returnedForItem(ctx context.Context, orderID, orderItemSeqID string) (decimal.Decimal, error) {
	items, err := c.returnsRepo.FindItemsByOrderItem(ctx, orderID, orderItemSeqID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetching prior returns for order item %s/%s: %w", orderID, orderItemSeqID, err)
	}
	if len(items) == 0 {
		return decimal.Zero, nil
	}

	cancelled, err := c.cancelledReturns(ctx, items)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, item := range items {
		if cancelled[item.ReturnID] {
			continue
		}
		total = total.Add(item.ReturnQuantity)
	}
	return total, nil
}

// cancelledReturns batch-fetches the headers behind the given return items
// and reports which of them are cancelled
func (c *Calculator) cancelledReturns(ctx context.Context, items []returns.Item) (map[string]bool, error) {
	if len(items) == 0 {
		return map[string]bool{}, nil
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

	headers, err := c.returnsRepo.FindHeadersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetching return headers: %w", err)
	}
	cancelled := make(map[string]bool, len(headers))
	for _, h := range headers {
		cancelled[h.ReturnID] = h.IsCancelled()
	}
	return cancelled, nil
}
