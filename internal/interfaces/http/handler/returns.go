package handler

import (
	"github.com/gin-gonic/gin"
	returnsapp "github.com/oms/backend/internal/application/returns"
	"github.com/oms/backend/internal/domain/returns"
	"github.com/shopspring/decimal"
)

// ReturnHandler handles return-related API endpoints
type ReturnHandler struct {
	BaseHandler
	returnService *returnsapp.ReturnService
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(returnService *returnsapp.ReturnService) *ReturnHandler {
	return &ReturnHandler{
		returnService: returnService,
	}
}

// RegisterRoutes registers the return endpoints
func (h *ReturnHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/returns")
	g.POST("", h.Create)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
	g.POST("/:id/items", h.CreateItem)
	g.POST("/:id/adjustments", h.CreateAdjustment)
	g.POST("/:id/candidates", h.CreateCandidates)
}

// CreateReturnRequest represents a request to create a new return
type CreateReturnRequest struct {
	ReturnHeaderTypeID string `json:"return_header_type_id" binding:"required"`
	FromPartyID        string `json:"from_party_id" binding:"required"`
	ToPartyID          string `json:"to_party_id" binding:"required"`
	PaymentMethodID    string `json:"payment_method_id"`
	CurrencyUomID      string `json:"currency_uom_id"`
}

// UpdateReturnRequest represents a request to update a return header.
// AdjustmentAmount is an in-flight amount counted against the order's
// available-to-return total when accepting the return.
type UpdateReturnRequest struct {
	StatusID         *string  `json:"status_id"`
	PaymentMethodID  *string  `json:"payment_method_id"`
	AdjustmentAmount *float64 `json:"adjustment_amount"`
}

// CreateReturnItemRequest represents a request to add an item to a return.
// IncludeAdjustments defaults to true when omitted: the order line's
// adjustments are copied alongside the item unless explicitly disabled.
type CreateReturnItemRequest struct {
	OrderID            string  `json:"order_id" binding:"required"`
	OrderItemSeqID     string  `json:"order_item_seq_id" binding:"required"`
	ReturnQuantity     float64 `json:"return_quantity" binding:"required,gt=0"`
	ReturnPrice        float64 `json:"return_price"`
	ReturnTypeID       string  `json:"return_type_id" binding:"required"`
	ReturnReasonID     string  `json:"return_reason_id"`
	TypeMapKey         string  `json:"type_map_key" binding:"required"`
	Description        string  `json:"description"`
	IncludeAdjustments *bool   `json:"include_adjustments"`
}

// CreateReturnAdjustmentRequest represents a request to add an adjustment to
// a return. Amount is optional: when omitted it defaults from the source
// order adjustment, and proportional types are recalculated regardless.
type CreateReturnAdjustmentRequest struct {
	OrderAdjustmentID      string   `json:"order_adjustment_id"`
	ReturnItemSeqID        string   `json:"return_item_seq_id"`
	ReturnAdjustmentTypeID string   `json:"return_adjustment_type_id"`
	Description            string   `json:"description"`
	Comments               string   `json:"comments"`
	Amount                 *float64 `json:"amount"`
}

// ReturnCandidateInput is one entry of a mixed candidate request. Exactly one
// of Item or Adjustment must be set.
type ReturnCandidateInput struct {
	Item       *CreateReturnItemRequest       `json:"item"`
	Adjustment *CreateReturnAdjustmentRequest `json:"adjustment"`
}

// CreateCandidatesRequest represents a batch candidate creation request
type CreateCandidatesRequest struct {
	Candidates []ReturnCandidateInput `json:"candidates" binding:"required,min=1"`
}

// Create creates a new return transaction
func (h *ReturnHandler) Create(c *gin.Context) {
	var req CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.returnService.CreateReturnHeader(c.Request.Context(), returnsapp.CreateReturnHeaderRequest{
		ReturnHeaderTypeID: req.ReturnHeaderTypeID,
		FromPartyID:        req.FromPartyID,
		ToPartyID:          req.ToPartyID,
		PaymentMethodID:    req.PaymentMethodID,
		CurrencyUomID:      req.CurrencyUomID,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID retrieves a return with its items and adjustments
func (h *ReturnHandler) GetByID(c *gin.Context) {
	returnID := c.Param("id")

	resp, err := h.returnService.GetReturn(c.Request.Context(), returnID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update applies a payment method and/or status change to a return
func (h *ReturnHandler) Update(c *gin.Context) {
	returnID := c.Param("id")

	var req UpdateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := returnsapp.UpdateReturnHeaderRequest{
		StatusID:        req.StatusID,
		PaymentMethodID: req.PaymentMethodID,
	}
	if req.AdjustmentAmount != nil {
		d := decimal.NewFromFloat(*req.AdjustmentAmount)
		appReq.AdjustmentAmount = &d
	}

	resp, err := h.returnService.UpdateReturnHeader(c.Request.Context(), returnID, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// CreateItem adds one item to a return
func (h *ReturnHandler) CreateItem(c *gin.Context) {
	returnID := c.Param("id")

	var req CreateReturnItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.returnService.CreateReturnItem(c.Request.Context(), returnID, toItemCandidate(req))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// CreateAdjustment adds one adjustment to a return
func (h *ReturnHandler) CreateAdjustment(c *gin.Context) {
	returnID := c.Param("id")

	var req CreateReturnAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.returnService.CreateReturnAdjustment(c.Request.Context(), returnID, toAdjustmentCandidate(req))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// CreateCandidates processes a batch of item and adjustment candidates in one
// transaction. Each candidate reports its own outcome; a rejected candidate
// does not block its siblings.
func (h *ReturnHandler) CreateCandidates(c *gin.Context) {
	returnID := c.Param("id")

	var req CreateCandidatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	candidates := make([]returns.Candidate, 0, len(req.Candidates))
	for _, input := range req.Candidates {
		switch {
		case input.Item != nil && input.Adjustment == nil:
			candidates = append(candidates, toItemCandidate(*input.Item))
		case input.Adjustment != nil && input.Item == nil:
			candidates = append(candidates, toAdjustmentCandidate(*input.Adjustment))
		default:
			h.BadRequest(c, "Each candidate must set exactly one of item or adjustment")
			return
		}
	}

	results, err := h.returnService.CreateCandidates(c.Request.Context(), returnID, candidates)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, results)
}

// toItemCandidate converts a handler request to a domain item candidate
func toItemCandidate(req CreateReturnItemRequest) returns.ItemCandidate {
	includeAdjustments := true
	if req.IncludeAdjustments != nil {
		includeAdjustments = *req.IncludeAdjustments
	}
	return returns.ItemCandidate{
		OrderID:            req.OrderID,
		OrderItemSeqID:     req.OrderItemSeqID,
		ReturnQuantity:     decimal.NewFromFloat(req.ReturnQuantity),
		ReturnPrice:        decimal.NewFromFloat(req.ReturnPrice),
		ReturnTypeID:       req.ReturnTypeID,
		ReturnReasonID:     req.ReturnReasonID,
		TypeMapKey:         req.TypeMapKey,
		Description:        req.Description,
		IncludeAdjustments: includeAdjustments,
	}
}

// toAdjustmentCandidate converts a handler request to a domain adjustment candidate
func toAdjustmentCandidate(req CreateReturnAdjustmentRequest) returns.AdjustmentCandidate {
	candidate := returns.AdjustmentCandidate{
		OrderAdjustmentID:      req.OrderAdjustmentID,
		ReturnItemSeqID:        req.ReturnItemSeqID,
		ReturnAdjustmentTypeID: req.ReturnAdjustmentTypeID,
		Description:            req.Description,
		Comments:               req.Comments,
	}
	if req.Amount != nil {
		d := decimal.NewFromFloat(*req.Amount)
		candidate.Amount = &d
	}
	return candidate
}
