package ledger

import (
	"context"
	"testing"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/domain/directory/location"
)

// fakeDirectory serves canned locations per kind and per counterparty.
type fakeDirectory struct {
	defaults map[location.Kind]*location.Location
	bloggers map[id.ID]*location.Location

	createdBloggers int
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		defaults: make(map[location.Kind]*location.Location),
		bloggers: make(map[id.ID]*location.Location),
	}
}

func (d *fakeDirectory) addDefault(kind location.Kind) *location.Location {
	loc := location.New(id.New(), "D-"+string(kind), string(kind), kind)
	loc.ID = id.New()
	d.defaults[kind] = loc
	return loc
}

func (d *fakeDirectory) DefaultByKind(ctx context.Context, accountID id.ID, kind location.Kind) (*location.Location, error) {
	if loc, ok := d.defaults[kind]; ok {
		return loc, nil
	}
	return nil, apperror.NewNotFound("default location", string(kind))
}

func (d *fakeDirectory) GetOrCreateBloggerLocation(ctx context.Context, accountID, partyID id.ID) (*location.Location, error) {
	if loc, ok := d.bloggers[partyID]; ok {
		return loc, nil
	}
	loc := location.NewBlogger(accountID, partyID, "blogger")
	d.bloggers[partyID] = loc
	d.createdBloggers++
	return loc, nil
}

func resolverOp(opType OperationType) *Operation {
	return NewOperation(id.New(), opType, time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC))
}

func TestResolve_ShipBloggerCreatesDestination(t *testing.T) {
	dir := newFakeDirectory()
	r := NewEndpointResolver(dir)

	partyID := id.New()
	src := id.New()
	op := resolverOp(TypeShipBlogger)
	op.SourceID = &src
	op.PartyID = &partyID

	if err := r.Resolve(context.Background(), op); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.DestinationID == nil {
		t.Fatal("destination must be resolved")
	}
	if dir.createdBloggers != 1 {
		t.Errorf("expected one blogger location created, got %d", dir.createdBloggers)
	}

	// Second shipment to the same counterparty reuses the location
	op2 := resolverOp(TypeShipBlogger)
	op2.SourceID = &src
	op2.PartyID = &partyID
	if err := r.Resolve(context.Background(), op2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *op2.DestinationID != *op.DestinationID {
		t.Error("repeated shipments must reuse the same blogger location")
	}
	if dir.createdBloggers != 1 {
		t.Errorf("no new location expected, got %d created", dir.createdBloggers)
	}
}

func TestResolve_ShipBloggerRequiresParty(t *testing.T) {
	r := NewEndpointResolver(newFakeDirectory())

	src := id.New()
	op := resolverOp(TypeShipBlogger)
	op.SourceID = &src

	err := r.Resolve(context.Background(), op)
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestResolve_ReturnBloggerSourceDefaulting(t *testing.T) {
	t.Run("party given uses its blogger location", func(t *testing.T) {
		dir := newFakeDirectory()
		r := NewEndpointResolver(dir)

		partyID := id.New()
		dst := id.New()
		op := resolverOp(TypeReturnBlogger)
		op.DestinationID = &dst
		op.PartyID = &partyID

		if err := r.Resolve(context.Background(), op); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if op.SourceID == nil || *op.SourceID != dir.bloggers[partyID].ID {
			t.Error("source must be the counterparty's blogger location")
		}
	})

	t.Run("no party falls back to default blogger kind", func(t *testing.T) {
		dir := newFakeDirectory()
		def := dir.addDefault(location.KindBlogger)
		r := NewEndpointResolver(dir)

		dst := id.New()
		op := resolverOp(TypeReturnBlogger)
		op.DestinationID = &dst

		if err := r.Resolve(context.Background(), op); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if op.SourceID == nil || *op.SourceID != def.ID {
			t.Error("source must fall back to the default blogger-kind location")
		}
	})

	t.Run("no party and no default fails", func(t *testing.T) {
		r := NewEndpointResolver(newFakeDirectory())

		dst := id.New()
		op := resolverOp(TypeReturnBlogger)
		op.DestinationID = &dst

		err := r.Resolve(context.Background(), op)
		appErr, ok := apperror.AsAppError(err)
		if !ok || appErr.Code != apperror.CodeMissingEndpoint {
			t.Fatalf("expected missing endpoint error, got %v", err)
		}
	})
}

func TestResolve_TypeDefaults(t *testing.T) {
	dir := newFakeDirectory()
	sold := dir.addDefault(location.KindSold)
	scrap := dir.addDefault(location.KindScrap)
	warehouse := dir.addDefault(location.KindWarehouse)
	r := NewEndpointResolver(dir)

	t.Run("sale destination defaults to sold", func(t *testing.T) {
		src := id.New()
		op := resolverOp(TypeSale)
		op.SourceID = &src

		if err := r.Resolve(context.Background(), op); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *op.DestinationID != sold.ID {
			t.Error("sale must default destination to the sold location")
		}
	})

	t.Run("writeoff destination defaults to scrap", func(t *testing.T) {
		src := id.New()
		op := resolverOp(TypeWriteOff)
		op.SourceID = &src

		if err := r.Resolve(context.Background(), op); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *op.DestinationID != scrap.ID {
			t.Error("writeoff must default destination to the scrap location")
		}
	})

	t.Run("sale return defaults both endpoints", func(t *testing.T) {
		op := resolverOp(TypeSaleReturn)

		if err := r.Resolve(context.Background(), op); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *op.SourceID != sold.ID {
			t.Error("sale return source must default to the sold location")
		}
		if *op.DestinationID != warehouse.ID {
			t.Error("sale return destination must default to the warehouse")
		}
	})

	t.Run("explicit endpoints are never overridden", func(t *testing.T) {
		src, dst := id.New(), id.New()
		op := resolverOp(TypeSale)
		op.SourceID = &src
		op.DestinationID = &dst

		if err := r.Resolve(context.Background(), op); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *op.DestinationID != dst {
			t.Error("explicit destination must be kept")
		}
	})
}

func TestResolve_CompletenessCheck(t *testing.T) {
	r := NewEndpointResolver(newFakeDirectory())

	t.Run("inbound requires destination", func(t *testing.T) {
		op := resolverOp(TypeInbound)
		err := r.Resolve(context.Background(), op)
		appErr, ok := apperror.AsAppError(err)
		if !ok || appErr.Code != apperror.CodeMissingEndpoint {
			t.Fatalf("expected missing endpoint error, got %v", err)
		}
	})

	t.Run("transfer requires both endpoints", func(t *testing.T) {
		src := id.New()
		op := resolverOp(TypeTransfer)
		op.SourceID = &src
		err := r.Resolve(context.Background(), op)
		appErr, ok := apperror.AsAppError(err)
		if !ok || appErr.Code != apperror.CodeMissingEndpoint {
			t.Fatalf("expected missing endpoint error, got %v", err)
		}
	})

	t.Run("adjustment requires at least one endpoint", func(t *testing.T) {
		op := resolverOp(TypeAdjustment)
		err := r.Resolve(context.Background(), op)
		appErr, ok := apperror.AsAppError(err)
		if !ok || appErr.Code != apperror.CodeMissingEndpoint {
			t.Fatalf("expected missing endpoint error, got %v", err)
		}

		src := id.New()
		op.SourceID = &src
		if err := r.Resolve(context.Background(), op); err != nil {
			t.Fatalf("source alone should satisfy an adjustment: %v", err)
		}
	})
}
