package dto

import (
	"time"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/ledger"
)

// --- Request DTOs ---

// OperationLineRequest is one line of a submit/replace payload.
type OperationLineRequest struct {
	VariantID     string          `json:"variantId" binding:"required"`
	Quantity      types.Quantity  `json:"quantity"`
	PriceOverride *int64          `json:"priceOverride,omitempty"`
	Delta         *types.Quantity `json:"delta,omitempty"`
	Note          string          `json:"note,omitempty"`
	MarkCodes     []string        `json:"markCodes,omitempty"`
	DeferMarking  bool            `json:"deferMarking,omitempty"`
}

// SubmitOperationRequest is the payload for creating or replacing an operation.
type SubmitOperationRequest struct {
	Type       string    `json:"type" binding:"required"`
	OccurredAt time.Time `json:"occurredAt" binding:"required"`

	SourceID      *string `json:"sourceId,omitempty"`
	DestinationID *string `json:"destinationId,omitempty"`
	PartyID       *string `json:"partyId,omitempty"`

	PromoID      *string        `json:"promoId,omitempty"`
	PromoCode    *string        `json:"promoCode,omitempty"`
	PromoPercent *types.Percent `json:"promoPercent,omitempty"`

	Carrier      *string `json:"carrier,omitempty"`
	TrackingNo   *string `json:"trackingNo,omitempty"`
	DeliveryCost *int64  `json:"deliveryCost,omitempty"`

	Note  string                 `json:"note,omitempty"`
	Lines []OperationLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToInput converts the payload to the orchestrator's submit request.
func (r *SubmitOperationRequest) ToInput() (ledger.SubmitRequest, error) {
	req := ledger.SubmitRequest{
		Type:         ledger.OperationType(r.Type),
		OccurredAt:   r.OccurredAt,
		PromoCode:    r.PromoCode,
		PromoPercent: r.PromoPercent,
		Carrier:      r.Carrier,
		TrackingNo:   r.TrackingNo,
		Note:         r.Note,
	}

	var err error
	if req.SourceID, err = ParseOptionalID("sourceId", r.SourceID); err != nil {
		return req, err
	}
	if req.DestinationID, err = ParseOptionalID("destinationId", r.DestinationID); err != nil {
		return req, err
	}
	if req.PartyID, err = ParseOptionalID("partyId", r.PartyID); err != nil {
		return req, err
	}
	if req.PromoID, err = ParseOptionalID("promoId", r.PromoID); err != nil {
		return req, err
	}

	if r.DeliveryCost != nil {
		cost := types.MinorUnits(*r.DeliveryCost)
		req.DeliveryCost = &cost
	}

	for _, line := range r.Lines {
		variantID, err := ParseID("lines.variantId", line.VariantID)
		if err != nil {
			return req, err
		}
		in := ledger.LineInput{
			VariantID:    variantID,
			Quantity:     line.Quantity,
			Delta:        line.Delta,
			Note:         line.Note,
			MarkCodes:    line.MarkCodes,
			DeferMarking: line.DeferMarking,
		}
		if line.PriceOverride != nil {
			price := types.MinorUnits(*line.PriceOverride)
			in.PriceOverride = &price
		}
		req.Lines = append(req.Lines, in)
	}

	return req, nil
}

// --- Response DTOs ---

// OperationLineResponse is the API view of one operation line.
type OperationLineResponse struct {
	LineID    string         `json:"lineId"`
	LineNo    int            `json:"lineNo"`
	VariantID string         `json:"variantId"`
	Quantity  types.Quantity `json:"quantity"`
	UnitPrice int64          `json:"unitPrice"`
	UnitCost  int64          `json:"unitCost"`

	Note         string          `json:"note,omitempty"`
	MarkCodes    []string        `json:"markCodes,omitempty"`
	DeferMarking bool            `json:"deferMarking"`
	Delta        *types.Quantity `json:"delta,omitempty"`
}

// OperationResponse is the API view of an operation with its lines.
type OperationResponse struct {
	ID         string    `json:"id"`
	Number     string    `json:"number"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`

	SourceID      *string `json:"sourceId,omitempty"`
	DestinationID *string `json:"destinationId,omitempty"`
	PartyID       *string `json:"partyId,omitempty"`

	PromoID      *string        `json:"promoId,omitempty"`
	PromoCode    *string        `json:"promoCode,omitempty"`
	PromoPercent *types.Percent `json:"promoPercent,omitempty"`

	Carrier      *string `json:"carrier,omitempty"`
	TrackingNo   *string `json:"trackingNo,omitempty"`
	DeliveryCost *int64  `json:"deliveryCost,omitempty"`

	Note string `json:"note,omitempty"`

	Lines []OperationLineResponse `json:"lines"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Version   int       `json:"version"`
}

// FromOperation maps an operation to its API view.
func FromOperation(op *ledger.Operation) *OperationResponse {
	resp := &OperationResponse{
		ID:            op.ID.String(),
		Number:        op.Number,
		Type:          string(op.Type),
		OccurredAt:    op.OccurredAt,
		SourceID:      idString(op.SourceID),
		DestinationID: idString(op.DestinationID),
		PartyID:       idString(op.PartyID),
		PromoID:       idString(op.PromoID),
		PromoCode:     op.PromoCode,
		PromoPercent:  op.PromoPercent,
		Carrier:       op.Carrier,
		TrackingNo:    op.TrackingNo,
		Note:          op.Note,
		CreatedAt:     op.CreatedAt,
		UpdatedAt:     op.UpdatedAt,
		Version:       op.Version,
	}
	if op.DeliveryCost != nil {
		cost := int64(*op.DeliveryCost)
		resp.DeliveryCost = &cost
	}

	resp.Lines = make([]OperationLineResponse, len(op.Lines))
	for i, line := range op.Lines {
		resp.Lines[i] = OperationLineResponse{
			LineID:       line.LineID.String(),
			LineNo:       line.LineNo,
			VariantID:    line.VariantID.String(),
			Quantity:     line.Quantity,
			UnitPrice:    int64(line.UnitPrice),
			UnitCost:     int64(line.UnitCost),
			Note:         line.Note,
			MarkCodes:    line.MarkCodes,
			DeferMarking: line.DeferMarking,
			Delta:        line.Delta,
		}
	}

	return resp
}

func idString(v *id.ID) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}
