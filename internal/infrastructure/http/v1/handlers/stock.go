package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/stock"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// StockHandler serves derived stock queries.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// OnHand handles GET /stock/on-hand?variantId=&locationId=[&at=].
func (h *StockHandler) OnHand(c *gin.Context) {
	ctx := c.Request.Context()

	accountID, ok := h.AccountID(c)
	if !ok {
		return
	}

	variantID, err := dto.ParseID("variantId", c.Query("variantId"))
	if err != nil {
		h.Error(c, err)
		return
	}
	locationID, err := dto.ParseID("locationId", c.Query("locationId"))
	if err != nil {
		h.Error(c, err)
		return
	}

	if at := c.Query("at"); at != "" {
		ts, err := time.Parse(time.RFC3339, at)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid timestamp, RFC 3339 expected").WithDetail("param", "at"))
			return
		}
		quantity, err := h.service.OnHandAt(ctx, accountID, variantID, locationID, ts)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, dto.OnHandResponse{
			VariantID:  variantID.String(),
			LocationID: locationID.String(),
			Quantity:   quantity,
		})
		return
	}

	quantity, err := h.service.OnHand(ctx, accountID, variantID, locationID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.OnHandResponse{
		VariantID:  variantID.String(),
		LocationID: locationID.String(),
		Quantity:   quantity,
	})
}

// LocationBalances handles GET /stock/locations/:id.
func (h *StockHandler) LocationBalances(c *gin.Context) {
	ctx := c.Request.Context()

	accountID, ok := h.AccountID(c)
	if !ok {
		return
	}
	locationID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	balances, err := h.service.LocationBalances(ctx, accountID, locationID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBalances(balances))
}

// VariantBalances handles GET /stock/variants/:id.
func (h *StockHandler) VariantBalances(c *gin.Context) {
	ctx := c.Request.Context()

	accountID, ok := h.AccountID(c)
	if !ok {
		return
	}
	variantID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	balances, err := h.service.VariantBalances(ctx, accountID, variantID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBalances(balances))
}

// Turnover handles GET /stock/turnover?from=&to=.
func (h *StockHandler) Turnover(c *gin.Context) {
	ctx := c.Request.Context()

	accountID, ok := h.AccountID(c)
	if !ok {
		return
	}

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid timestamp, RFC 3339 expected").WithDetail("param", "from"))
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid timestamp, RFC 3339 expected").WithDetail("param", "to"))
		return
	}

	rows, err := h.service.Turnover(ctx, accountID, from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromTurnover(rows))
}
