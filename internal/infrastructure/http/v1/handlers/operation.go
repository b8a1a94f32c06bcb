package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain"
	"stockbook/internal/domain/ledger"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// OperationHandler serves the operation ledger: submit, replace, delete,
// read. All mutations run through the transaction orchestrator.
type OperationHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewOperationHandler creates an operation handler.
func NewOperationHandler(base *BaseHandler, service *ledger.Service) *OperationHandler {
	return &OperationHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Submit handles POST /operations - record a new operation.
func (h *OperationHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()

	accountID, ok := h.AccountID(c)
	if !ok {
		return
	}

	var req dto.SubmitOperationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	op, err := h.service.Submit(ctx, accountID, input)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromOperation(op))
}

// Replace handles PUT /operations/:id - destructively replace an operation.
func (h *OperationHandler) Replace(c *gin.Context) {
	ctx := c.Request.Context()

	accountID, ok := h.AccountID(c)
	if !ok {
		return
	}
	operationID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	var req dto.SubmitOperationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	op, err := h.service.Replace(ctx, accountID, operationID, input)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromOperation(op))
}

// Delete handles DELETE /operations/:id - remove an operation and its
// derived state.
func (h *OperationHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	accountID, ok := h.AccountID(c)
	if !ok {
		return
	}
	operationID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, accountID, operationID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Get handles GET /operations/:id.
func (h *OperationHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	accountID, ok := h.AccountID(c)
	if !ok {
		return
	}
	operationID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	op, err := h.service.Get(ctx, accountID, operationID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromOperation(op))
}

// List handles GET /operations with filtering and pagination.
func (h *OperationHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	accountID, ok := h.AccountID(c)
	if !ok {
		return
	}

	filter := ledger.OperationFilter{ListFilter: domain.DefaultListFilter()}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	if t := c.Query("type"); t != "" {
		opType := ledger.OperationType(t)
		if !opType.IsValid() {
			h.Error(c, apperror.NewValidation("unknown operation type").WithDetail("value", t))
			return
		}
		filter.Type = &opType
	}
	if p := c.Query("partyId"); p != "" {
		partyID, err := dto.ParseID("partyId", p)
		if err != nil {
			h.Error(c, err)
			return
		}
		filter.PartyID = &partyID
	}
	if l := c.Query("locationId"); l != "" {
		locationID, err := dto.ParseID("locationId", l)
		if err != nil {
			h.Error(c, err)
			return
		}
		filter.LocationID = &locationID
	}
	if from, ok := h.parseTimeQuery(c, "from"); !ok {
		return
	} else if from != nil {
		filter.From = from
	}
	if to, ok := h.parseTimeQuery(c, "to"); !ok {
		return
	} else if to != nil {
		filter.To = to
	}

	result, err := h.service.List(ctx, accountID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.OperationResponse, len(result.Items))
	for i, op := range result.Items {
		items[i] = dto.FromOperation(op)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

func (h *OperationHandler) parseTimeQuery(c *gin.Context, key string) (*time.Time, bool) {
	val := c.Query(key)
	if val == "" {
		return nil, true
	}
	parsed, err := time.Parse(time.RFC3339, val)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid timestamp, RFC 3339 expected").WithDetail("param", key))
		return nil, false
	}
	return &parsed, true
}

// RegisterRoutes registers operation routes on the group.
func (h *OperationHandler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Submit)
	g.PUT("/:id", h.Replace)
	g.DELETE("/:id", h.Delete)
}
