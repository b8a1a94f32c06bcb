package ledger

import (
	"context"
	"fmt"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/tx"
	"stockbook/internal/core/types"
	"stockbook/internal/domain"
	"stockbook/internal/domain/catalogs/variant"
	"stockbook/pkg/logger"
	"stockbook/pkg/numerator"
)

// VariantLookup resolves the variant data line enrichment needs:
// live price, cost and the serialization flag.
type VariantLookup interface {
	Lookup(ctx context.Context, accountID, variantID id.ID) (*variant.Variant, error)
}

// PriceSource answers "what was the price effective at this moment".
// ok is false when the variant has no history entry at or before at.
type PriceSource interface {
	PriceAt(ctx context.Context, accountID, variantID id.ID, at time.Time) (price types.MinorUnits, ok bool, err error)
}

// Numbering allocates operation numbers.
type Numbering interface {
	NextNumber(ctx context.Context, accountID id.ID, cfg numerator.Config, period time.Time) (string, error)
}

// Auditor records a trail of ledger mutations. Recording is best-effort:
// a failed audit write never fails the business transaction.
type Auditor interface {
	Record(ctx context.Context, accountID id.ID, action string, entityID id.ID, payload any) error
}

// LineInput is one submitted line before enrichment.
type LineInput struct {
	VariantID     id.ID             `json:"variantId"`
	Quantity      types.Quantity    `json:"quantity"`
	PriceOverride *types.MinorUnits `json:"priceOverride,omitempty"`
	Delta         *types.Quantity   `json:"delta,omitempty"`
	Note          string            `json:"note,omitempty"`
	MarkCodes     []string          `json:"markCodes,omitempty"`
	DeferMarking  bool              `json:"deferMarking,omitempty"`
}

// SubmitRequest is the full payload for creating or replacing an operation.
type SubmitRequest struct {
	Type       OperationType `json:"type"`
	OccurredAt time.Time     `json:"occurredAt"`

	SourceID      *id.ID `json:"sourceId,omitempty"`
	DestinationID *id.ID `json:"destinationId,omitempty"`
	PartyID       *id.ID `json:"partyId,omitempty"`

	PromoID      *id.ID         `json:"promoId,omitempty"`
	PromoCode    *string        `json:"promoCode,omitempty"`
	PromoPercent *types.Percent `json:"promoPercent,omitempty"`

	Carrier      *string           `json:"carrier,omitempty"`
	TrackingNo   *string           `json:"trackingNo,omitempty"`
	DeliveryCost *types.MinorUnits `json:"deliveryCost,omitempty"`

	Note  string      `json:"note,omitempty"`
	Lines []LineInput `json:"lines"`
}

// Service is the operation transaction orchestrator: the sole entry point
// for creating, replacing and deleting operations. Each call is one
// serializable transaction; the per-account write lock keeps two mutations
// on the same account from interleaving their postings-and-marks phases.
type Service struct {
	txManager tx.Manager
	resolver  *EndpointResolver
	tracker   *MarkTracker

	ops      OperationRepository
	postings PostingRepository
	marks    MarkRepository

	variants VariantLookup
	prices   PriceSource
	numbers  Numbering
	auditor  Auditor
}

type ServiceConfig struct {
	TxManager tx.Manager
	Resolver  *EndpointResolver
	Ops       OperationRepository
	Postings  PostingRepository
	Marks     MarkRepository
	Variants  VariantLookup
	Prices    PriceSource
	Numbers   Numbering
	Auditor   Auditor
}

func NewService(cfg ServiceConfig) *Service {
	return &Service{
		txManager: cfg.TxManager,
		resolver:  cfg.Resolver,
		tracker:   NewMarkTracker(cfg.Marks),
		ops:       cfg.Ops,
		postings:  cfg.Postings,
		marks:     cfg.Marks,
		variants:  cfg.Variants,
		prices:    cfg.Prices,
		numbers:   cfg.Numbers,
		auditor:   cfg.Auditor,
	}
}

// numberConfig is the ledger-wide numbering scheme.
var numberConfig = numerator.DefaultConfig("OP")

// Submit creates a new operation: resolves endpoints, freezes price and
// cost snapshots per line, posts stock movements and updates serialized
// units, all in one transaction.
func (s *Service) Submit(ctx context.Context, accountID id.ID, req SubmitRequest) (*Operation, error) {
	var op *Operation

	err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		if err := s.ops.LockAccount(ctx, accountID); err != nil {
			return fmt.Errorf("lock account: %w", err)
		}

		var err error
		op, err = s.buildOperation(accountID, req)
		if err != nil {
			return err
		}

		number, err := s.numbers.NextNumber(ctx, accountID, numberConfig, op.OccurredAt)
		if err != nil {
			return fmt.Errorf("allocate number: %w", err)
		}
		op.Number = number

		return s.runCreateSequence(ctx, op)
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, accountID, "operation.submit", op.ID, op)
	logger.Info(ctx, "operation submitted",
		"operation_id", op.ID,
		"number", op.Number,
		"type", op.Type,
		"lines", len(op.Lines),
	)

	return op, nil
}

// Replace destructively replaces an operation: existing postings, lines and
// serialized-unit records last touched by it are deleted, then the create
// sequence re-runs with the new payload. The operation keeps its id, number
// and creation timestamp.
func (s *Service) Replace(ctx context.Context, accountID, operationID id.ID, req SubmitRequest) (*Operation, error) {
	var op *Operation

	err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		if err := s.ops.LockAccount(ctx, accountID); err != nil {
			return fmt.Errorf("lock account: %w", err)
		}

		existing, err := s.ops.GetByID(ctx, accountID, operationID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("operation", operationID.String())
			}
			return err
		}

		// Guard before any destructive write: replacing a serialized line
		// without deferring would silently orphan physical unit state.
		if err := s.guardSerializedEdit(ctx, accountID, existing.Lines, req.Lines); err != nil {
			return err
		}

		if err := s.dropDerivedState(ctx, accountID, operationID, true); err != nil {
			return err
		}

		op, err = s.buildOperation(accountID, req)
		if err != nil {
			return err
		}
		op.ID = existing.ID
		op.Number = existing.Number
		op.CreatedAt = existing.CreatedAt
		// Repo bumps the version on update; postings record the new one.
		op.Version = existing.Version

		for i := range op.Lines {
			op.Lines[i].OperationID = op.ID
		}

		return s.runReplaceSequence(ctx, op)
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, accountID, "operation.replace", op.ID, op)
	logger.Info(ctx, "operation replaced",
		"operation_id", op.ID,
		"number", op.Number,
		"version", op.Version,
	)

	return op, nil
}

// Delete removes the operation with its lines and postings. Serialized-unit
// records that pointed at this operation are released: the back-reference is
// cleared but their status and location are left as recorded.
func (s *Service) Delete(ctx context.Context, accountID, operationID id.ID) error {
	err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		if err := s.ops.LockAccount(ctx, accountID); err != nil {
			return fmt.Errorf("lock account: %w", err)
		}

		if _, err := s.ops.GetByID(ctx, accountID, operationID); err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("operation", operationID.String())
			}
			return err
		}

		if err := s.dropDerivedState(ctx, accountID, operationID, false); err != nil {
			return err
		}
		return s.ops.Delete(ctx, accountID, operationID)
	})
	if err != nil {
		return err
	}

	s.audit(ctx, accountID, "operation.delete", operationID, nil)
	logger.Info(ctx, "operation deleted", "operation_id", operationID)

	return nil
}

// Get returns the operation with its lines.
func (s *Service) Get(ctx context.Context, accountID, operationID id.ID) (*Operation, error) {
	op, err := s.ops.GetByID(ctx, accountID, operationID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("operation", operationID.String())
		}
		return nil, err
	}
	return op, nil
}

// List returns operations matching the filter.
func (s *Service) List(ctx context.Context, accountID id.ID, filter OperationFilter) (domain.ListResult[*Operation], error) {
	return s.ops.List(ctx, accountID, filter)
}

// buildOperation turns the raw payload into an operation with resolved
// endpoints. Line snapshots are not filled yet.
func (s *Service) buildOperation(accountID id.ID, req SubmitRequest) (*Operation, error) {
	op := NewOperation(accountID, req.Type, req.OccurredAt)
	op.SourceID = req.SourceID
	op.DestinationID = req.DestinationID
	op.PartyID = req.PartyID
	op.PromoID = req.PromoID
	op.PromoCode = req.PromoCode
	op.PromoPercent = req.PromoPercent
	op.Carrier = req.Carrier
	op.TrackingNo = req.TrackingNo
	op.DeliveryCost = req.DeliveryCost
	op.Note = req.Note

	for i, in := range req.Lines {
		op.Lines = append(op.Lines, OperationLine{
			LineID:        id.New(),
			OperationID:   op.ID,
			LineNo:        i + 1,
			VariantID:     in.VariantID,
			Quantity:      in.Quantity,
			Note:          in.Note,
			MarkCodes:     in.MarkCodes,
			DeferMarking:  in.DeferMarking,
			Delta:         in.Delta,
			PriceOverride: in.PriceOverride,
		})
	}

	return op, nil
}

// runCreateSequence performs the create path: resolve endpoints, enrich and
// validate, persist header and lines, post stock, apply serialized units.
func (s *Service) runCreateSequence(ctx context.Context, op *Operation) error {
	if err := s.prepare(ctx, op); err != nil {
		return err
	}

	if err := s.ops.Create(ctx, op); err != nil {
		return fmt.Errorf("create operation: %w", err)
	}
	return s.persistDerived(ctx, op)
}

// runReplaceSequence is the create sequence against an existing header.
func (s *Service) runReplaceSequence(ctx context.Context, op *Operation) error {
	if err := s.prepare(ctx, op); err != nil {
		return err
	}

	if err := s.ops.Update(ctx, op); err != nil {
		return fmt.Errorf("update operation: %w", err)
	}
	return s.persistDerived(ctx, op)
}

func (s *Service) prepare(ctx context.Context, op *Operation) error {
	if !op.Type.IsValid() {
		return apperror.NewValidation("unknown operation type").
			WithDetail("field", "type").
			WithDetail("value", string(op.Type))
	}

	if err := s.resolver.Resolve(ctx, op); err != nil {
		return err
	}
	if err := s.enrichLines(ctx, op); err != nil {
		return err
	}
	return op.Validate(ctx)
}

// enrichLines resolves the frozen per-line snapshots and validates
// serialized-unit codes. Price resolution order: explicit override, then
// the history entry effective at the operation's timestamp, then the
// variant's live price.
func (s *Service) enrichLines(ctx context.Context, op *Operation) error {
	for i := range op.Lines {
		line := &op.Lines[i]

		v, err := s.variants.Lookup(ctx, op.AccountID, line.VariantID)
		if err != nil {
			return err
		}

		switch {
		case line.PriceOverride != nil:
			line.UnitPrice = *line.PriceOverride
		default:
			price, ok, err := s.prices.PriceAt(ctx, op.AccountID, line.VariantID, op.OccurredAt)
			if err != nil {
				return fmt.Errorf("resolve price: %w", err)
			}
			if ok {
				line.UnitPrice = price
			} else {
				line.UnitPrice = v.Price
			}
		}
		line.UnitCost = v.Cost
		line.serialized = v.Serialized

		if !v.Serialized {
			continue
		}
		if line.DeferMarking {
			line.Note = AnnotateDeferred(line.Note)
			continue
		}
		if !line.Quantity.IsWhole() {
			return apperror.NewValidation("serialized quantity must be a whole number").
				WithDetail("lineNo", line.LineNo)
		}
		if err := ValidateMarkCodes(line.MarkCodes, line.Quantity.Units()); err != nil {
			return err
		}
	}
	return nil
}

// persistDerived stores lines, stock postings and serialized-unit updates.
func (s *Service) persistDerived(ctx context.Context, op *Operation) error {
	if err := s.ops.SaveLines(ctx, op.AccountID, op.Lines); err != nil {
		return fmt.Errorf("save lines: %w", err)
	}

	postings, err := BuildPostings(op)
	if err != nil {
		return err
	}
	if err := s.postings.CreatePostings(ctx, postings); err != nil {
		return fmt.Errorf("create postings: %w", err)
	}

	for i := range op.Lines {
		line := &op.Lines[i]
		if !line.serialized || line.DeferMarking {
			continue
		}
		if err := s.tracker.Apply(ctx, op, line); err != nil {
			return fmt.Errorf("apply mark codes: %w", err)
		}
	}

	return nil
}

// guardSerializedEdit refuses replaces that touch serialized unit state
// without explicitly deferring marking. Both sides matter: a new payload
// line with a serialized variant would write unit records, and an existing
// non-deferred serialized line owns unit records the replace destroys.
func (s *Service) guardSerializedEdit(ctx context.Context, accountID id.ID, existing []OperationLine, incoming []LineInput) error {
	for i := range existing {
		line := &existing[i]
		if line.DeferMarking {
			continue
		}
		v, err := s.variants.Lookup(ctx, accountID, line.VariantID)
		if err != nil {
			return err
		}
		if v.Serialized {
			return apperror.NewSerializedEdit(line.VariantID.String())
		}
	}

	for _, in := range incoming {
		if in.DeferMarking {
			continue
		}
		v, err := s.variants.Lookup(ctx, accountID, in.VariantID)
		if err != nil {
			return err
		}
		if v.Serialized {
			return apperror.NewSerializedEdit(in.VariantID.String())
		}
	}
	return nil
}

// dropDerivedState removes postings and lines. Replace destroys the unit
// records it last touched (they are recreated from the new payload); delete
// only releases the back-reference.
func (s *Service) dropDerivedState(ctx context.Context, accountID, operationID id.ID, destroyMarks bool) error {
	if err := s.postings.DeleteByRecorder(ctx, accountID, operationID); err != nil {
		return fmt.Errorf("delete postings: %w", err)
	}

	if destroyMarks {
		if _, err := s.marks.DeleteByOperation(ctx, accountID, operationID); err != nil {
			return fmt.Errorf("delete mark codes: %w", err)
		}
	} else {
		if _, err := s.marks.ReleaseByOperation(ctx, accountID, operationID); err != nil {
			return fmt.Errorf("release mark codes: %w", err)
		}
	}

	if err := s.ops.DeleteLines(ctx, accountID, operationID); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}
	return nil
}

func (s *Service) audit(ctx context.Context, accountID id.ID, action string, entityID id.ID, payload any) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Record(ctx, accountID, action, entityID, payload); err != nil {
		logger.Warn(ctx, "audit record failed", "action", action, "error", err)
	}
}
