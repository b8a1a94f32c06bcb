package ledger

import (
	"context"
	"fmt"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/domain/directory/location"
	"stockbook/pkg/logger"
)

// Directory is the location lookup surface the resolver needs.
type Directory interface {
	DefaultByKind(ctx context.Context, accountID id.ID, kind location.Kind) (*location.Location, error)
	GetOrCreateBloggerLocation(ctx context.Context, accountID, partyID id.ID) (*location.Location, error)
}

// EndpointResolver fills missing source/destination endpoints using
// type-specific defaulting rules, then verifies that every endpoint the
// operation type needs is present.
type EndpointResolver struct {
	directory Directory
}

func NewEndpointResolver(directory Directory) *EndpointResolver {
	return &EndpointResolver{directory: directory}
}

// Resolve mutates op in place, filling only the gaps. Explicitly supplied
// endpoints are never overridden.
func (r *EndpointResolver) Resolve(ctx context.Context, op *Operation) error {
	accountID := op.AccountID

	switch op.Type {
	case TypeShipBlogger:
		if op.DestinationID == nil {
			if op.PartyID == nil {
				return apperror.NewValidation("blogger shipment requires a counterparty").
					WithDetail("field", "partyId")
			}
			loc, err := r.directory.GetOrCreateBloggerLocation(ctx, accountID, *op.PartyID)
			if err != nil {
				return fmt.Errorf("resolve blogger destination: %w", err)
			}
			op.DestinationID = &loc.ID
			logger.Debug(ctx, "resolved blogger destination",
				"operation_type", op.Type,
				"location_id", loc.ID,
			)
		}

	case TypeReturnBlogger:
		if op.SourceID == nil {
			loc, err := r.bloggerSource(ctx, accountID, op.PartyID)
			if err != nil {
				return err
			}
			op.SourceID = &loc.ID
		}

	case TypeSale:
		if op.DestinationID == nil {
			loc, err := r.defaultFor(ctx, accountID, op.Type, location.KindSold, "destination")
			if err != nil {
				return err
			}
			op.DestinationID = &loc.ID
		}

	case TypeWriteOff:
		if op.DestinationID == nil {
			loc, err := r.defaultFor(ctx, accountID, op.Type, location.KindScrap, "destination")
			if err != nil {
				return err
			}
			op.DestinationID = &loc.ID
		}

	case TypeSaleReturn:
		if op.DestinationID == nil {
			loc, err := r.defaultFor(ctx, accountID, op.Type, location.KindWarehouse, "destination")
			if err != nil {
				return err
			}
			op.DestinationID = &loc.ID
		}
		if op.SourceID == nil {
			loc, err := r.defaultFor(ctx, accountID, op.Type, location.KindSold, "source")
			if err != nil {
				return err
			}
			op.SourceID = &loc.ID
		}
	}

	return r.checkComplete(op)
}

// bloggerSource prefers the counterparty's own blogger location and falls
// back to the account's default blogger-kind location.
func (r *EndpointResolver) bloggerSource(ctx context.Context, accountID id.ID, partyID *id.ID) (*location.Location, error) {
	if partyID != nil {
		loc, err := r.directory.GetOrCreateBloggerLocation(ctx, accountID, *partyID)
		if err != nil {
			return nil, fmt.Errorf("resolve blogger source: %w", err)
		}
		return loc, nil
	}

	loc, err := r.directory.DefaultByKind(ctx, accountID, location.KindBlogger)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewMissingEndpoint(string(TypeReturnBlogger), "source")
		}
		return nil, err
	}
	return loc, nil
}

func (r *EndpointResolver) defaultFor(ctx context.Context, accountID id.ID, opType OperationType, kind location.Kind, endpoint string) (*location.Location, error) {
	loc, err := r.directory.DefaultByKind(ctx, accountID, kind)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewMissingEndpoint(string(opType), endpoint)
		}
		return nil, fmt.Errorf("resolve %s %s: %w", opType, endpoint, err)
	}
	return loc, nil
}

// checkComplete enforces the per-type mandatory endpoints after defaulting.
// This is a hard validation failure, never retried.
func (r *EndpointResolver) checkComplete(op *Operation) error {
	switch {
	case op.Type == TypeInbound:
		if op.DestinationID == nil {
			return apperror.NewMissingEndpoint(string(op.Type), "destination")
		}
	case op.Type.IsTransferShaped():
		if op.SourceID == nil {
			return apperror.NewMissingEndpoint(string(op.Type), "source")
		}
		if op.DestinationID == nil {
			return apperror.NewMissingEndpoint(string(op.Type), "destination")
		}
	case op.Type == TypeAdjustment:
		if op.SourceID == nil && op.DestinationID == nil {
			return apperror.NewMissingEndpoint(string(op.Type), "source or destination")
		}
	}
	return nil
}
