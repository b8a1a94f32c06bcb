package handlers

import (
	"github.com/gin-gonic/gin"

	"stockbook/internal/core/types"
	"stockbook/internal/domain/pricing"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// PricingHandler serves the effective-dated price engine.
type PricingHandler struct {
	*BaseHandler
	service *pricing.Service
}

// NewPricingHandler creates a pricing handler.
func NewPricingHandler(base *BaseHandler, service *pricing.Service) *PricingHandler {
	return &PricingHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Reprice handles POST /variants/:id/reprice - set a new effective-dated
// price and rewrite affected snapshots.
func (h *PricingHandler) Reprice(c *gin.Context) {
	ctx := c.Request.Context()

	accountID, ok := h.AccountID(c)
	if !ok {
		return
	}
	variantID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	var req dto.RepriceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Reprice(ctx, accountID, variantID, types.MinorUnits(req.Price), req.EffectiveAt)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromRepriceResult(result))
}

// History handles GET /variants/:id/prices - price history for a variant.
func (h *PricingHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	accountID, ok := h.AccountID(c)
	if !ok {
		return
	}
	variantID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	entries, err := h.service.History(ctx, accountID, variantID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPriceHistory(entries))
}
