package handler

import (
	"github.com/gin-gonic/gin"
	orderapp "github.com/oms/backend/internal/application/order"
	returnsapp "github.com/oms/backend/internal/application/returns"
)

// OrderHandler exposes the read-side order endpoints used when preparing a
// return: returnable candidates and order totals
type OrderHandler struct {
	BaseHandler
	assembler   *returnsapp.Assembler
	aggregation *orderapp.AggregationService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(assembler *returnsapp.Assembler, aggregation *orderapp.AggregationService) *OrderHandler {
	return &OrderHandler{
		assembler:   assembler,
		aggregation: aggregation,
	}
}

// RegisterRoutes registers the order endpoints
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/orders")
	g.GET("/:id/returnable-items", h.ReturnableItems)
	g.GET("/:id/totals", h.Totals)
}

// OrderTotalsResponse carries the aggregated money figures of one order
type OrderTotalsResponse struct {
	OrderID           string `json:"order_id"`
	ItemsSubTotal     string `json:"items_sub_total"`
	TaxTotal          string `json:"tax_total"`
	ShippingTotal     string `json:"shipping_total"`
	PromotionTotal    string `json:"promotion_total"`
	GrandTotal        string `json:"grand_total"`
	ReturnedTotal     string `json:"returned_total"`
	AvailableToReturn string `json:"available_to_return"`
}

// ReturnableItems lists the order's lines and adjustments still eligible to
// be returned
func (h *OrderHandler) ReturnableItems(c *gin.Context) {
	orderID := c.Param("id")

	infos, err := h.assembler.ReturnableItems(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, returnsapp.ToReturnableItemResponses(infos))
}

// Totals returns the order's aggregated totals. The include_requested query
// flag counts not-yet-accepted returns against the returned total.
func (h *OrderHandler) Totals(c *gin.Context) {
	orderID := c.Param("id")
	includeRequested := c.Query("include_requested") == "true"
	ctx := c.Request.Context()

	subTotal, err := h.aggregation.ItemsSubTotal(ctx, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	withTax, err := h.aggregation.AdjustmentsTotal(ctx, orderID, true, false, false)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	withoutTax, err := h.aggregation.AdjustmentsTotal(ctx, orderID, false, false, false)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	shipping, err := h.aggregation.AdjustmentsTotal(ctx, orderID, false, false, true)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	promotion, err := h.aggregation.AdjustmentsTotal(ctx, orderID, false, true, false)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	grand, err := h.aggregation.GrandTotal(ctx, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	returned, err := h.aggregation.ReturnedTotal(ctx, orderID, includeRequested)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	available, err := h.aggregation.AvailableToReturnTotal(ctx, orderID, includeRequested)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, OrderTotalsResponse{
		OrderID:           orderID,
		ItemsSubTotal:     subTotal.String(),
		TaxTotal:          withTax.Sub(withoutTax).String(),
		ShippingTotal:     shipping.String(),
		PromotionTotal:    promotion.String(),
		GrandTotal:        grand.String(),
		ReturnedTotal:     returned.String(),
		AvailableToReturn: available.String(),
	})
}
