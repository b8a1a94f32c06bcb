package ledger

import (
	"context"
	"testing"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain"
	"stockbook/internal/domain/catalogs/variant"
	"stockbook/internal/domain/directory/location"
	"stockbook/pkg/numerator"
)

// --- Fakes ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeOperationRepo struct {
	headers map[id.ID]*Operation
	lines   map[id.ID][]OperationLine
	locks   int
}

func newFakeOperationRepo() *fakeOperationRepo {
	return &fakeOperationRepo{
		headers: make(map[id.ID]*Operation),
		lines:   make(map[id.ID][]OperationLine),
	}
}

func (r *fakeOperationRepo) Create(ctx context.Context, op *Operation) error {
	clone := *op
	clone.Lines = nil
	r.headers[op.ID] = &clone
	return nil
}

func (r *fakeOperationRepo) Update(ctx context.Context, op *Operation) error {
	existing, ok := r.headers[op.ID]
	if !ok {
		return apperror.NewNotFound("operation", op.ID.String())
	}
	if existing.Version != op.Version {
		return apperror.NewConcurrentModification("operation", op.ID.String())
	}
	clone := *op
	clone.Lines = nil
	clone.Version = op.Version + 1
	r.headers[op.ID] = &clone
	op.SetVersion(clone.Version)
	return nil
}

func (r *fakeOperationRepo) GetByID(ctx context.Context, accountID, operationID id.ID) (*Operation, error) {
	op, ok := r.headers[operationID]
	if !ok || op.AccountID != accountID {
		return nil, apperror.NewNotFound("operation", operationID.String())
	}
	clone := *op
	clone.Lines = append([]OperationLine(nil), r.lines[operationID]...)
	return &clone, nil
}

func (r *fakeOperationRepo) Delete(ctx context.Context, accountID, operationID id.ID) error {
	delete(r.headers, operationID)
	delete(r.lines, operationID)
	return nil
}

func (r *fakeOperationRepo) List(ctx context.Context, accountID id.ID, filter OperationFilter) (domain.ListResult[*Operation], error) {
	var items []*Operation
	for _, op := range r.headers {
		if op.AccountID == accountID {
			items = append(items, op)
		}
	}
	return domain.ListResult[*Operation]{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *fakeOperationRepo) GetLines(ctx context.Context, accountID, operationID id.ID) ([]OperationLine, error) {
	return r.lines[operationID], nil
}

func (r *fakeOperationRepo) SaveLines(ctx context.Context, accountID id.ID, lines []OperationLine) error {
	if len(lines) == 0 {
		return nil
	}
	opID := lines[0].OperationID
	r.lines[opID] = append([]OperationLine(nil), lines...)
	return nil
}

func (r *fakeOperationRepo) DeleteLines(ctx context.Context, accountID, operationID id.ID) error {
	delete(r.lines, operationID)
	return nil
}

func (r *fakeOperationRepo) LockAccount(ctx context.Context, accountID id.ID) error {
	r.locks++
	return nil
}

type fakePostingRepo struct {
	postings []StockPosting
}

func (r *fakePostingRepo) CreatePostings(ctx context.Context, postings []StockPosting) error {
	r.postings = append(r.postings, postings...)
	return nil
}

func (r *fakePostingRepo) DeleteByRecorder(ctx context.Context, accountID, recorderID id.ID) error {
	kept := r.postings[:0]
	for _, p := range r.postings {
		if p.RecorderID != recorderID {
			kept = append(kept, p)
		}
	}
	r.postings = kept
	return nil
}

func (r *fakePostingRepo) GetByRecorder(ctx context.Context, accountID, recorderID id.ID) ([]StockPosting, error) {
	var out []StockPosting
	for _, p := range r.postings {
		if p.RecorderID == recorderID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeMarkRepo struct {
	marks map[string]*MarkCode
}

func newFakeMarkRepo() *fakeMarkRepo {
	return &fakeMarkRepo{marks: make(map[string]*MarkCode)}
}

func (r *fakeMarkRepo) Upsert(ctx context.Context, mark *MarkCode) error {
	if existing, ok := r.marks[mark.Code]; ok {
		existing.VariantID = mark.VariantID
		existing.Status = mark.Status
		existing.LocationID = mark.LocationID
		existing.LastOperationID = mark.LastOperationID
		existing.UpdatedAt = mark.UpdatedAt
		return nil
	}
	clone := *mark
	r.marks[mark.Code] = &clone
	return nil
}

func (r *fakeMarkRepo) GetByCode(ctx context.Context, accountID id.ID, code string) (*MarkCode, error) {
	mark, ok := r.marks[code]
	if !ok {
		return nil, apperror.NewNotFound("mark code", code)
	}
	return mark, nil
}

func (r *fakeMarkRepo) ListByOperation(ctx context.Context, accountID, operationID id.ID) ([]MarkCode, error) {
	var out []MarkCode
	for _, mark := range r.marks {
		if mark.LastOperationID != nil && *mark.LastOperationID == operationID {
			out = append(out, *mark)
		}
	}
	return out, nil
}

func (r *fakeMarkRepo) DeleteByOperation(ctx context.Context, accountID, operationID id.ID) (int64, error) {
	var n int64
	for code, mark := range r.marks {
		if mark.LastOperationID != nil && *mark.LastOperationID == operationID {
			delete(r.marks, code)
			n++
		}
	}
	return n, nil
}

func (r *fakeMarkRepo) ReleaseByOperation(ctx context.Context, accountID, operationID id.ID) (int64, error) {
	var n int64
	for _, mark := range r.marks {
		if mark.LastOperationID != nil && *mark.LastOperationID == operationID {
			mark.LastOperationID = nil
			n++
		}
	}
	return n, nil
}

type fakeVariants struct {
	variants map[id.ID]*variant.Variant
}

func (f *fakeVariants) Lookup(ctx context.Context, accountID, variantID id.ID) (*variant.Variant, error) {
	v, ok := f.variants[variantID]
	if !ok {
		return nil, apperror.NewNotFound("variant", variantID.String())
	}
	return v, nil
}

type pricePoint struct {
	at    time.Time
	price types.MinorUnits
}

type fakePrices struct {
	history map[id.ID][]pricePoint
}

func (f *fakePrices) PriceAt(ctx context.Context, accountID, variantID id.ID, at time.Time) (types.MinorUnits, bool, error) {
	var best *pricePoint
	for i := range f.history[variantID] {
		p := &f.history[variantID][i]
		if !p.at.After(at) && (best == nil || p.at.After(best.at)) {
			best = p
		}
	}
	if best == nil {
		return 0, false, nil
	}
	return best.price, true, nil
}

type fakeNumbers struct {
	next int
}

func (f *fakeNumbers) NextNumber(ctx context.Context, accountID id.ID, cfg numerator.Config, period time.Time) (string, error) {
	f.next++
	return formatTestNumber(f.next), nil
}

func formatTestNumber(n int) string {
	return "OP-2026-" + string(rune('0'+n))
}

// --- Test harness ---

type harness struct {
	accountID id.ID
	service   *Service
	ops       *fakeOperationRepo
	postings  *fakePostingRepo
	marks     *fakeMarkRepo
	variants  *fakeVariants
	prices    *fakePrices
	directory *fakeDirectory
}

func newHarness() *harness {
	dir := newFakeDirectory()
	dir.addDefault(location.KindWarehouse)
	dir.addDefault(location.KindSold)
	dir.addDefault(location.KindScrap)

	ops := newFakeOperationRepo()
	postings := &fakePostingRepo{}
	marks := newFakeMarkRepo()
	variants := &fakeVariants{variants: make(map[id.ID]*variant.Variant)}
	prices := &fakePrices{history: make(map[id.ID][]pricePoint)}

	svc := NewService(ServiceConfig{
		TxManager: fakeTxManager{},
		Resolver:  NewEndpointResolver(dir),
		Ops:       ops,
		Postings:  postings,
		Marks:     marks,
		Variants:  variants,
		Prices:    prices,
		Numbers:   &fakeNumbers{},
	})

	return &harness{
		accountID: id.New(),
		service:   svc,
		ops:       ops,
		postings:  postings,
		marks:     marks,
		variants:  variants,
		prices:    prices,
		directory: dir,
	}
}

func (h *harness) addVariant(price, cost types.MinorUnits, serialized bool) id.ID {
	v := variant.New(h.accountID, "V-"+id.New().String()[:6], "variant")
	v.Price = price
	v.Cost = cost
	v.Serialized = serialized
	h.variants.variants[v.ID] = v
	return v.ID
}

func (h *harness) submitRequest(opType OperationType, lines ...LineInput) SubmitRequest {
	req := SubmitRequest{
		Type:       opType,
		OccurredAt: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		Lines:      lines,
	}
	src := id.New()
	req.SourceID = &src
	if opType == TypeInbound || opType == TypeTransfer {
		dst := id.New()
		req.DestinationID = &dst
	}
	return req
}

// --- Tests ---

func TestSubmit_CreatesPostingsAndNumber(t *testing.T) {
	h := newHarness()
	variantID := h.addVariant(2000, 1200, false)

	req := h.submitRequest(TypeSale, LineInput{
		VariantID: variantID,
		Quantity:  types.NewQuantityFromInt(2),
	})

	op, err := h.service.Submit(context.Background(), h.accountID, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if op.Number == "" {
		t.Error("operation must get a generated number")
	}
	if h.ops.locks != 1 {
		t.Errorf("expected one account lock, got %d", h.ops.locks)
	}

	postings, _ := h.postings.GetByRecorder(context.Background(), h.accountID, op.ID)
	if len(postings) != 2 {
		t.Fatalf("sale must post an expense/receipt pair, got %d", len(postings))
	}
	var sum types.Quantity
	for i := range postings {
		sum += postings[i].SignedQuantity()
	}
	if !sum.IsZero() {
		t.Errorf("signed posting sum must be zero, got %v", sum)
	}
}

func TestSubmit_PriceResolutionOrder(t *testing.T) {
	h := newHarness()
	variantID := h.addVariant(5000, 3000, false)

	occurredAt := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	h.prices.history[variantID] = []pricePoint{
		{at: occurredAt.Add(-24 * time.Hour), price: 4500},
		{at: occurredAt.Add(24 * time.Hour), price: 9999}, // future, must be ignored
	}

	t.Run("history price wins over live price", func(t *testing.T) {
		req := h.submitRequest(TypeSale, LineInput{
			VariantID: variantID,
			Quantity:  types.NewQuantityFromInt(1),
		})

		op, err := h.service.Submit(context.Background(), h.accountID, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if op.Lines[0].UnitPrice != 4500 {
			t.Errorf("expected history price 4500, got %d", op.Lines[0].UnitPrice)
		}
	})

	t.Run("explicit override wins over history", func(t *testing.T) {
		override := types.MinorUnits(100)
		req := h.submitRequest(TypeSale, LineInput{
			VariantID:     variantID,
			Quantity:      types.NewQuantityFromInt(1),
			PriceOverride: &override,
		})

		op, err := h.service.Submit(context.Background(), h.accountID, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if op.Lines[0].UnitPrice != 100 {
			t.Errorf("expected override price 100, got %d", op.Lines[0].UnitPrice)
		}
	})

	t.Run("live price when no history", func(t *testing.T) {
		bare := h.addVariant(700, 300, false)
		req := h.submitRequest(TypeSale, LineInput{
			VariantID: bare,
			Quantity:  types.NewQuantityFromInt(1),
		})

		op, err := h.service.Submit(context.Background(), h.accountID, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if op.Lines[0].UnitPrice != 700 {
			t.Errorf("expected live price 700, got %d", op.Lines[0].UnitPrice)
		}
		if op.Lines[0].UnitCost != 300 {
			t.Errorf("cost snapshot must come from the variant, got %d", op.Lines[0].UnitCost)
		}
	})
}

func TestSubmit_SerializedLine(t *testing.T) {
	h := newHarness()
	variantID := h.addVariant(1000, 500, true)

	t.Run("codes move with the operation", func(t *testing.T) {
		req := h.submitRequest(TypeSale, LineInput{
			VariantID: variantID,
			Quantity:  types.NewQuantityFromInt(2),
			MarkCodes: []string{"SN-1", "SN-2"},
		})

		op, err := h.service.Submit(context.Background(), h.accountID, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		mark, err := h.marks.GetByCode(context.Background(), h.accountID, "SN-1")
		if err != nil {
			t.Fatalf("mark must exist: %v", err)
		}
		if mark.Status != MarkSold {
			t.Errorf("sale must mark units sold, got %s", mark.Status)
		}
		if mark.LastOperationID == nil || *mark.LastOperationID != op.ID {
			t.Error("mark must reference the operation")
		}
		if mark.LocationID == nil || *mark.LocationID != *op.DestinationID {
			t.Error("mark location must be the posting destination")
		}
	})

	t.Run("count mismatch rejected", func(t *testing.T) {
		req := h.submitRequest(TypeSale, LineInput{
			VariantID: variantID,
			Quantity:  types.NewQuantityFromInt(2),
			MarkCodes: []string{"SN-9"},
		})

		_, err := h.service.Submit(context.Background(), h.accountID, req)
		appErr, ok := apperror.AsAppError(err)
		if !ok || appErr.Code != apperror.CodeMarkCountMismatch {
			t.Fatalf("expected mark count mismatch, got %v", err)
		}
	})

	t.Run("fractional quantity rejected", func(t *testing.T) {
		req := h.submitRequest(TypeSale, LineInput{
			VariantID: variantID,
			Quantity:  types.NewQuantityFromFloat64(1.5),
			MarkCodes: []string{"SN-9"},
		})

		_, err := h.service.Submit(context.Background(), h.accountID, req)
		appErr, ok := apperror.AsAppError(err)
		if !ok || appErr.Code != apperror.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("deferred marking skips codes and annotates the note", func(t *testing.T) {
		before := len(h.marks.marks)
		req := h.submitRequest(TypeSale, LineInput{
			VariantID:    variantID,
			Quantity:     types.NewQuantityFromInt(3),
			Note:         "bulk move",
			DeferMarking: true,
		})

		op, err := h.service.Submit(context.Background(), h.accountID, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(h.marks.marks) != before {
			t.Error("deferred marking must not touch unit records")
		}
		if op.Lines[0].Note != "bulk move "+DeferredMarkingNote {
			t.Errorf("note must carry the deferred marker, got %q", op.Lines[0].Note)
		}
	})
}

func TestReplace_Destructive(t *testing.T) {
	h := newHarness()
	variantID := h.addVariant(1000, 500, false)

	req := h.submitRequest(TypeSale, LineInput{
		VariantID: variantID,
		Quantity:  types.NewQuantityFromInt(2),
	})
	op, err := h.service.Submit(context.Background(), h.accountID, req)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	req2 := h.submitRequest(TypeSale, LineInput{
		VariantID: variantID,
		Quantity:  types.NewQuantityFromInt(5),
	})

	replaced, err := h.service.Replace(context.Background(), h.accountID, op.ID, req2)
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	if replaced.ID != op.ID {
		t.Error("replace must keep the operation id")
	}
	if replaced.Number != op.Number {
		t.Error("replace must keep the operation number")
	}
	if replaced.Version <= op.Version {
		t.Errorf("replace must bump the version, got %d", replaced.Version)
	}

	postings, _ := h.postings.GetByRecorder(context.Background(), h.accountID, op.ID)
	if len(postings) != 2 {
		t.Fatalf("old postings must be gone, got %d", len(postings))
	}
	for i := range postings {
		if postings[i].Quantity != types.NewQuantityFromInt(5) {
			t.Errorf("postings must reflect the new payload, got %v", postings[i].Quantity)
		}
		if postings[i].RecorderVersion != replaced.Version {
			t.Errorf("postings must record the new version %d, got %d",
				replaced.Version, postings[i].RecorderVersion)
		}
	}
}

func TestReplace_SerializedGuard(t *testing.T) {
	h := newHarness()
	plainID := h.addVariant(1000, 500, false)
	serializedID := h.addVariant(2000, 900, true)

	req := h.submitRequest(TypeSale, LineInput{
		VariantID: plainID,
		Quantity:  types.NewQuantityFromInt(1),
	})
	op, err := h.service.Submit(context.Background(), h.accountID, req)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	t.Run("serialized line without deferral is refused", func(t *testing.T) {
		req2 := h.submitRequest(TypeSale, LineInput{
			VariantID: serializedID,
			Quantity:  types.NewQuantityFromInt(1),
			MarkCodes: []string{"SN-1"},
		})

		_, err := h.service.Replace(context.Background(), h.accountID, op.ID, req2)
		appErr, ok := apperror.AsAppError(err)
		if !ok || appErr.Code != apperror.CodeSerializedEdit {
			t.Fatalf("expected serialized edit error, got %v", err)
		}

		// Guard must fire before any destructive write
		postings, _ := h.postings.GetByRecorder(context.Background(), h.accountID, op.ID)
		if len(postings) != 2 {
			t.Error("failed replace must leave existing postings untouched")
		}
	})

	t.Run("deferral makes the replace explicit and allowed", func(t *testing.T) {
		req2 := h.submitRequest(TypeSale, LineInput{
			VariantID:    serializedID,
			Quantity:     types.NewQuantityFromInt(1),
			DeferMarking: true,
		})

		if _, err := h.service.Replace(context.Background(), h.accountID, op.ID, req2); err != nil {
			t.Fatalf("deferred replace must succeed: %v", err)
		}
	})

	t.Run("existing serialized line blocks a plain payload", func(t *testing.T) {
		req := h.submitRequest(TypeSale, LineInput{
			VariantID: serializedID,
			Quantity:  types.NewQuantityFromInt(1),
			MarkCodes: []string{"SN-KEEP"},
		})
		serOp, err := h.service.Submit(context.Background(), h.accountID, req)
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}

		req2 := h.submitRequest(TypeSale, LineInput{
			VariantID: plainID,
			Quantity:  types.NewQuantityFromInt(1),
		})
		_, err = h.service.Replace(context.Background(), h.accountID, serOp.ID, req2)
		appErr, ok := apperror.AsAppError(err)
		if !ok || appErr.Code != apperror.CodeSerializedEdit {
			t.Fatalf("expected serialized edit error, got %v", err)
		}

		mark, err := h.marks.GetByCode(context.Background(), h.accountID, "SN-KEEP")
		if err != nil {
			t.Fatalf("unit record must survive the refused replace: %v", err)
		}
		if mark.LastOperationID == nil || *mark.LastOperationID != serOp.ID {
			t.Error("unit record must still reference the operation")
		}
	})

	t.Run("existing deferred line does not block", func(t *testing.T) {
		req := h.submitRequest(TypeSale, LineInput{
			VariantID:    serializedID,
			Quantity:     types.NewQuantityFromInt(1),
			DeferMarking: true,
		})
		serOp, err := h.service.Submit(context.Background(), h.accountID, req)
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}

		req2 := h.submitRequest(TypeSale, LineInput{
			VariantID: plainID,
			Quantity:  types.NewQuantityFromInt(1),
		})
		if _, err := h.service.Replace(context.Background(), h.accountID, serOp.ID, req2); err != nil {
			t.Fatalf("replace of a deferred operation must succeed: %v", err)
		}
	})
}

func TestDelete_ReleasesMarks(t *testing.T) {
	h := newHarness()
	variantID := h.addVariant(1000, 500, true)

	req := h.submitRequest(TypeSale, LineInput{
		VariantID: variantID,
		Quantity:  types.NewQuantityFromInt(1),
		MarkCodes: []string{"SN-DEL"},
	})
	op, err := h.service.Submit(context.Background(), h.accountID, req)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if err := h.service.Delete(context.Background(), h.accountID, op.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := h.service.Get(context.Background(), h.accountID, op.ID); !apperror.IsNotFound(err) {
		t.Error("operation must be gone")
	}

	postings, _ := h.postings.GetByRecorder(context.Background(), h.accountID, op.ID)
	if len(postings) != 0 {
		t.Errorf("postings must be deleted, got %d", len(postings))
	}

	// The unit record survives with status and location intact, only the
	// back-reference is cleared.
	mark, err := h.marks.GetByCode(context.Background(), h.accountID, "SN-DEL")
	if err != nil {
		t.Fatalf("mark record must survive delete: %v", err)
	}
	if mark.LastOperationID != nil {
		t.Error("back-reference must be released")
	}
	if mark.Status != MarkSold {
		t.Errorf("status must be left as recorded, got %s", mark.Status)
	}
}

func TestSubmitSaleDelete_OnHandRoundTrip(t *testing.T) {
	h := newHarness()
	variantID := h.addVariant(1000, 500, false)
	warehouseID := h.directory.defaults[location.KindWarehouse].ID
	soldID := h.directory.defaults[location.KindSold].ID

	onHand := func(locationID id.ID) types.Quantity {
		var sum types.Quantity
		for i := range h.postings.postings {
			p := &h.postings.postings[i]
			if p.LocationID == locationID && p.VariantID == variantID {
				sum += p.SignedQuantity()
			}
		}
		return sum
	}

	inbound := SubmitRequest{
		Type:          TypeInbound,
		OccurredAt:    time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
		DestinationID: &warehouseID,
		Lines: []LineInput{{
			VariantID: variantID,
			Quantity:  types.NewQuantityFromInt(10),
		}},
	}
	if _, err := h.service.Submit(context.Background(), h.accountID, inbound); err != nil {
		t.Fatalf("inbound failed: %v", err)
	}
	if got := onHand(warehouseID); got != types.NewQuantityFromInt(10) {
		t.Fatalf("warehouse on-hand after inbound = %v, want 10", got)
	}

	// Sale resolves its destination to the default sold location.
	sale := SubmitRequest{
		Type:       TypeSale,
		OccurredAt: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		SourceID:   &warehouseID,
		Lines: []LineInput{{
			VariantID: variantID,
			Quantity:  types.NewQuantityFromInt(4),
		}},
	}
	saleOp, err := h.service.Submit(context.Background(), h.accountID, sale)
	if err != nil {
		t.Fatalf("sale failed: %v", err)
	}
	if got := onHand(warehouseID); got != types.NewQuantityFromInt(6) {
		t.Errorf("warehouse on-hand after sale = %v, want 6", got)
	}
	if got := onHand(soldID); got != types.NewQuantityFromInt(4) {
		t.Errorf("sold on-hand after sale = %v, want 4", got)
	}

	if err := h.service.Delete(context.Background(), h.accountID, saleOp.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if got := onHand(warehouseID); got != types.NewQuantityFromInt(10) {
		t.Errorf("warehouse on-hand after delete = %v, want 10", got)
	}
	if got := onHand(soldID); !got.IsZero() {
		t.Errorf("sold on-hand after delete = %v, want 0", got)
	}
}

func TestSubmit_UnknownTypeRejected(t *testing.T) {
	h := newHarness()
	variantID := h.addVariant(1000, 500, false)

	req := h.submitRequest(OperationType("banana"), LineInput{
		VariantID: variantID,
		Quantity:  types.NewQuantityFromInt(1),
	})

	_, err := h.service.Submit(context.Background(), h.accountID, req)
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
