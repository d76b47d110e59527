package returns

import (
	"context"

	orderapp "github.com/oms/backend/internal/application/order"
	"github.com/oms/backend/internal/domain/order"
	"github.com/oms/backend/internal/domain/returns"
	"github.com/shopspring/decimal"
)

// Assembler walks an order's lines and adjustments and produces the
// candidate set a user may select for a new return. Nothing here persists
// data.
type Assembler struct {
	orders      order.Repository
	products    order.ProductRepository
	calculator  *Calculator
	aggregation *orderapp.AggregationService
}

// NewAssembler creates a new Assembler
func NewAssembler(
	orders order.Repository,
	products order.ProductRepository,
	calculator *Calculator,
	aggregation *orderapp.AggregationService,
) *Assembler {
	return &Assembler{
		orders:      orders,
		products:    products,
		calculator:  calculator,
		aggregation: aggregation,
	}
}

// ReturnableItems returns one entry per order item, per line-level
// adjustment of a returnable line, and per header-level adjustment that is
// still eligible to be returned.
func (a *Assembler) ReturnableItems(ctx context.Context, orderID string) ([]returns.ReturnableItemInfo, error) {
	header, err := a.orders.FindHeaderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	items, err := a.orders.FindItemsByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	returned, err := a.calculator.ReturnedQuantities(ctx, orderID)
	if err != nil {
		return nil, err
	}

	infos := make([]returns.ReturnableItemInfo, 0, len(items))
	for i := range items {
		item := &items[i]

		var product *order.Product
		if item.ProductID != "" {
			product, err = a.products.FindByID(ctx, item.ProductID)
			if err != nil {
				return nil, err
			}
		}

		// Physical goods on a sales order must have been issued before they
		// can come back; services and digital goods have nothing to ship.
		if header.IsSalesOrder() && item.IssuedQuantity.IsZero() && (product == nil || product.IsPhysical()) {
			continue
		}

		result := a.calculator.ReturnableFromHistory(item, product, returned[item.OrderItemSeqID])
		if result.Quantity.IsZero() {
			continue
		}

		infos = append(infos, itemInfo(item, product, result))

		adjustments, err := a.orders.FindAdjustmentsByOrderItem(ctx, orderID, item.OrderItemSeqID)
		if err != nil {
			return nil, err
		}
		for _, adj := range adjustments {
			infos = append(infos, adjustmentInfo(&adj, returns.ItemTypeOrderAdjustment))
		}
	}

	headerAdjustments, err := a.aggregation.HeaderAdjustments(ctx, orderID)
	if err != nil {
		return nil, err
	}
	for _, adj := range headerAdjustments {
		info := adjustmentInfo(&adj, returns.ItemTypeHeaderAdjustment)
		info.OrderItemSeqID = returns.HeaderLevel
		infos = append(infos, info)
	}

	return infos, nil
}

// itemInfo builds the projection for a returnable order line
func itemInfo(item *order.Item, product *order.Product, result ReturnableResult) returns.ReturnableItemInfo {
	info := returns.ReturnableItemInfo{
		ItemType:           returns.ItemTypeOrderItem,
		OrderID:            item.OrderID,
		OrderItemSeqID:     item.OrderItemSeqID,
		ProductID:          item.ProductID,
		Description:        item.ItemDescription,
		StatusID:           item.StatusID,
		OrderedQuantity:    item.OrderedQuantity(),
		ReturnableQuantity: result.Quantity,
		ReturnablePrice:    result.Price,
	}

	switch {
	case product != nil && product.ProductTypeID != "":
		info.TypeKey = product.ProductTypeID
	case item.OrderItemTypeID != "":
		info.TypeKey = item.OrderItemTypeID
	default:
		info.TypeKey = order.ProductTypeFinishedGood
	}
	if info.Description == "" && product != nil {
		info.Description = product.InternalName
	}
	return info
}

// adjustmentInfo builds the projection for a returnable adjustment; the
// whole adjustment is returned or not, so quantity is fixed at one.
func adjustmentInfo(adj *order.Adjustment, itemType string) returns.ReturnableItemInfo {
	description := adj.Description
	if description == "" {
		description = adj.OrderAdjustmentTypeID
	}
	return returns.ReturnableItemInfo{
		ItemType:           itemType,
		OrderID:            adj.OrderID,
		OrderItemSeqID:     adj.OrderItemSeqID,
		OrderAdjustmentID:  adj.OrderAdjustmentID,
		Description:        description,
		TypeKey:            adj.OrderAdjustmentTypeID,
		OrderedQuantity:    decimal.NewFromInt(1),
		ReturnableQuantity: decimal.NewFromInt(1),
		ReturnablePrice:    adj.Amount,
	}
}
