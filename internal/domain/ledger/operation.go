// Package ledger provides the operation ledger core: the transactional logic
// that turns one user-submitted operation into stock postings, serialized-unit
// updates, and frozen price snapshots.
package ledger

import (
	"context"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// OperationType defines the business meaning of an operation.
type OperationType string

const (
	// TypeInbound receives goods from a supplier into a location.
	TypeInbound OperationType = "inbound"
	// TypeTransfer moves goods between two locations.
	TypeTransfer OperationType = "transfer"
	// TypeShipBlogger sends goods to a blogger for promotion.
	TypeShipBlogger OperationType = "ship_blogger"
	// TypeReturnBlogger takes goods back from a blogger.
	TypeReturnBlogger OperationType = "return_blogger"
	// TypeSale sells goods to a customer.
	TypeSale OperationType = "sale"
	// TypeSaleReturn takes sold goods back from a customer.
	TypeSaleReturn OperationType = "sale_return"
	// TypeWriteOff scraps damaged or lost goods.
	TypeWriteOff OperationType = "writeoff"
	// TypeAdjustment corrects stock by an arbitrary signed delta.
	TypeAdjustment OperationType = "adjustment"
)

// IsValid reports whether t is a known operation type.
func (t OperationType) IsValid() bool {
	switch t {
	case TypeInbound, TypeTransfer, TypeShipBlogger, TypeReturnBlogger,
		TypeSale, TypeSaleReturn, TypeWriteOff, TypeAdjustment:
		return true
	}
	return false
}

// IsTransferShaped reports whether t moves stock between two locations,
// posting a conservation-preserving expense/receipt pair per line.
func (t OperationType) IsTransferShaped() bool {
	switch t {
	case TypeTransfer, TypeShipBlogger, TypeReturnBlogger,
		TypeSale, TypeSaleReturn, TypeWriteOff:
		return true
	}
	return false
}

// Operation represents one recorded business event affecting stock
// and/or serialized units.
type Operation struct {
	entity.BaseRecord

	// Number is the human-readable operation number (auto-generated)
	Number string `db:"number" json:"number"`

	// Type determines which endpoints are mandatory and how postings
	// and serialized units are derived
	Type OperationType `db:"type" json:"type"`

	// OccurredAt is the business timestamp of the event
	OccurredAt time.Time `db:"occurred_at" json:"occurredAt"`

	// SourceID and DestinationID are the stock endpoints.
	// Either may be nil on input; the endpoint resolver fills defaults.
	SourceID      *id.ID `db:"source_id" json:"sourceId,omitempty"`
	DestinationID *id.ID `db:"destination_id" json:"destinationId,omitempty"`

	// PartyID is the external counterparty (blogger, customer, supplier)
	PartyID *id.ID `db:"party_id" json:"partyId,omitempty"`

	// Promo snapshot, frozen at operation time. Later edits of the promo
	// code never touch recorded operations.
	PromoID      *id.ID         `db:"promo_id" json:"promoId,omitempty"`
	PromoCode    *string        `db:"promo_code" json:"promoCode,omitempty"`
	PromoPercent *types.Percent `db:"promo_percent" json:"promoPercent,omitempty"`

	// Delivery metadata
	Carrier      *string           `db:"carrier" json:"carrier,omitempty"`
	TrackingNo   *string           `db:"tracking_no" json:"trackingNo,omitempty"`
	DeliveryCost *types.MinorUnits `db:"delivery_cost" json:"deliveryCost,omitempty"`

	// Note is a free-text user comment
	Note string `db:"note" json:"note,omitempty"`

	// Table part
	Lines []OperationLine `db:"-" json:"lines"`
}

// OperationLine represents one variant quantity within an operation.
type OperationLine struct {
	LineID      id.ID `db:"line_id" json:"lineId"`
	OperationID id.ID `db:"operation_id" json:"operationId"`
	LineNo      int   `db:"line_no" json:"lineNo"`

	VariantID id.ID          `db:"variant_id" json:"variantId"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`

	// Frozen snapshots resolved at submit time
	UnitPrice types.MinorUnits `db:"unit_price" json:"unitPrice"`
	UnitCost  types.MinorUnits `db:"unit_cost" json:"unitCost"`

	Note string `db:"note" json:"note,omitempty"`

	// MarkCodes are the serialized-unit codes this line claims.
	// Required to match Quantity for serialized variants unless
	// DeferMarking is set.
	MarkCodes    []string `db:"mark_codes" json:"markCodes,omitempty"`
	DeferMarking bool     `db:"defer_marking" json:"deferMarking"`

	// Delta is the caller-supplied signed quantity for adjustments.
	// Nil means +Quantity.
	Delta *types.Quantity `db:"delta" json:"delta,omitempty"`

	// PriceOverride is the explicit payload price, consumed during
	// enrichment. Never persisted: the resolved snapshot lands in UnitPrice.
	PriceOverride *types.MinorUnits `db:"-" json:"-"`

	// serialized caches the variant's flag between enrichment and
	// unit tracking within one transaction.
	serialized bool
}

// AdjustmentDelta returns the signed delta an adjustment line applies.
func (l *OperationLine) AdjustmentDelta() types.Quantity {
	if l.Delta != nil {
		return *l.Delta
	}
	return l.Quantity
}

// NewOperation creates an operation header for the given account.
func NewOperation(accountID id.ID, opType OperationType, occurredAt time.Time) *Operation {
	return &Operation{
		BaseRecord: entity.NewBaseRecord(accountID),
		Type:       opType,
		OccurredAt: occurredAt.UTC(),
		Lines:      make([]OperationLine, 0),
	}
}

// Validate implements entity.Validatable. Endpoint completeness is checked
// separately by the resolver after defaulting.
func (o *Operation) Validate(ctx context.Context) error {
	if err := o.BaseEntity.Validate(ctx); err != nil {
		return err
	}

	if !o.Type.IsValid() {
		return apperror.NewValidation("unknown operation type").
			WithDetail("field", "type").
			WithDetail("value", string(o.Type))
	}

	if o.OccurredAt.IsZero() {
		return apperror.NewValidation("occurredAt is required").
			WithDetail("field", "occurredAt")
	}

	if o.Type == TypeShipBlogger && o.PartyID == nil {
		return apperror.NewValidation("blogger shipment requires a counterparty").
			WithDetail("field", "partyId")
	}

	if len(o.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range o.Lines {
		if id.IsNil(line.VariantID) {
			return apperror.NewValidation("variant is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if o.Type == TypeAdjustment && line.AdjustmentDelta().IsZero() {
			return &apperror.AppError{
				Code:       apperror.CodeZeroAdjustment,
				Message:    "adjustment delta of zero is meaningless",
				HTTPStatus: 400,
			}
		}
		if o.Type != TypeAdjustment && line.Delta != nil {
			return apperror.NewValidation("delta is only valid for adjustments").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// Endpoints returns the resolved source and destination, either of which
// may still be nil for types that do not require it.
func (o *Operation) Endpoints() (source, destination *id.ID) {
	return o.SourceID, o.DestinationID
}

// PostingLocation returns the single endpoint an adjustment posts at:
// destination when present, source otherwise.
func (o *Operation) PostingLocation() *id.ID {
	if o.DestinationID != nil {
		return o.DestinationID
	}
	return o.SourceID
}
