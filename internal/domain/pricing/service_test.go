package pricing

import (
	"context"
	"testing"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain"
	"stockbook/internal/domain/catalogs/variant"
)

// --- Fakes ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeLocker struct {
	locks int
}

func (l *fakeLocker) LockAccount(ctx context.Context, accountID id.ID) error {
	l.locks++
	return nil
}

type fakeHistoryRepo struct {
	entries []HistoryEntry

	lineRecalcsFrom    []time.Time
	postingRecalcsFrom []time.Time
}

func (r *fakeHistoryRepo) HasHistory(ctx context.Context, accountID, variantID id.ID) (bool, error) {
	for _, e := range r.entries {
		if e.VariantID == variantID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeHistoryRepo) Upsert(ctx context.Context, entry *HistoryEntry) error {
	for i := range r.entries {
		if r.entries[i].VariantID == entry.VariantID && r.entries[i].EffectiveAt.Equal(entry.EffectiveAt) {
			r.entries[i].Price = entry.Price
			return nil
		}
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeHistoryRepo) PriceAt(ctx context.Context, accountID, variantID id.ID, at time.Time) (types.MinorUnits, bool, error) {
	var best *HistoryEntry
	for i := range r.entries {
		e := &r.entries[i]
		if e.VariantID != variantID || e.EffectiveAt.After(at) {
			continue
		}
		if best == nil || e.EffectiveAt.After(best.EffectiveAt) {
			best = e
		}
	}
	if best == nil {
		return 0, false, nil
	}
	return best.Price, true, nil
}

func (r *fakeHistoryRepo) ListByVariant(ctx context.Context, accountID, variantID id.ID) ([]HistoryEntry, error) {
	var out []HistoryEntry
	for _, e := range r.entries {
		if e.VariantID == variantID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeHistoryRepo) RecalculateLineSnapshots(ctx context.Context, accountID, variantID id.ID, from time.Time) (int64, error) {
	r.lineRecalcsFrom = append(r.lineRecalcsFrom, from)
	return 3, nil
}

func (r *fakeHistoryRepo) RecalculatePostingSnapshots(ctx context.Context, accountID, variantID id.ID, from time.Time) (int64, error) {
	r.postingRecalcsFrom = append(r.postingRecalcsFrom, from)
	return 6, nil
}

// fakeVariantRepo keeps just enough of the catalog surface for repricing.
type fakeVariantRepo struct {
	variants map[id.ID]*variant.Variant
}

func (r *fakeVariantRepo) Create(ctx context.Context, v *variant.Variant) error {
	r.variants[v.ID] = v
	return nil
}

func (r *fakeVariantRepo) GetByID(ctx context.Context, accountID, variantID id.ID) (*variant.Variant, error) {
	v, ok := r.variants[variantID]
	if !ok {
		return nil, apperror.NewNotFound("variant", variantID.String())
	}
	return v, nil
}

func (r *fakeVariantRepo) GetByCode(ctx context.Context, accountID id.ID, code string) (*variant.Variant, error) {
	for _, v := range r.variants {
		if v.Code == code {
			return v, nil
		}
	}
	return nil, apperror.NewNotFound("variant", code)
}

func (r *fakeVariantRepo) Update(ctx context.Context, v *variant.Variant) error {
	r.variants[v.ID] = v
	return nil
}

func (r *fakeVariantRepo) SetDeletionMark(ctx context.Context, accountID, variantID id.ID, marked bool) error {
	if v, ok := r.variants[variantID]; ok {
		v.DeletionMark = marked
	}
	return nil
}

func (r *fakeVariantRepo) List(ctx context.Context, accountID id.ID, filter domain.ListFilter) (domain.ListResult[*variant.Variant], error) {
	return domain.ListResult[*variant.Variant]{}, nil
}

func (r *fakeVariantRepo) Exists(ctx context.Context, accountID, variantID id.ID) (bool, error) {
	_, ok := r.variants[variantID]
	return ok, nil
}

func (r *fakeVariantRepo) UpdatePrice(ctx context.Context, accountID, variantID id.ID, price types.MinorUnits) error {
	v, ok := r.variants[variantID]
	if !ok {
		return apperror.NewNotFound("variant", variantID.String())
	}
	v.Price = price
	return nil
}

// --- Test harness ---

func newTestService() (*Service, *fakeHistoryRepo, *fakeVariantRepo, *fakeLocker) {
	repo := &fakeHistoryRepo{}
	variants := &fakeVariantRepo{variants: make(map[id.ID]*variant.Variant)}
	locker := &fakeLocker{}
	svc := NewService(fakeTxManager{}, repo, variants, locker)
	return svc, repo, variants, locker
}

func addVariant(t *testing.T, variants *fakeVariantRepo, price types.MinorUnits) *variant.Variant {
	t.Helper()
	v := variant.New(id.New(), "V-TEST", "test variant")
	v.Price = price
	variants.variants[v.ID] = v
	return v
}

// --- Tests ---

func TestReprice_SeedsEpochOnFirstCall(t *testing.T) {
	svc, repo, variants, locker := newTestService()
	v := addVariant(t, variants, 2000)
	effectiveAt := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	result, err := svc.Reprice(context.Background(), v.AccountID, v.ID, 2500, effectiveAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if locker.locks != 1 {
		t.Errorf("expected one account lock, got %d", locker.locks)
	}
	if len(repo.entries) != 2 {
		t.Fatalf("expected seed entry + new entry, got %d", len(repo.entries))
	}

	seed := repo.entries[0]
	if !seed.EffectiveAt.Equal(Epoch) {
		t.Errorf("seed must be at the epoch, got %v", seed.EffectiveAt)
	}
	if seed.Price != 2000 {
		t.Errorf("seed must carry the pre-reprice live price, got %d", seed.Price)
	}

	// Records before the effective date keep resolving to the old price
	price, ok, _ := repo.PriceAt(context.Background(), v.AccountID, v.ID, effectiveAt.Add(-time.Hour))
	if !ok || price != 2000 {
		t.Errorf("pre-effective lookup = %d, want 2000", price)
	}
	price, ok, _ = repo.PriceAt(context.Background(), v.AccountID, v.ID, effectiveAt)
	if !ok || price != 2500 {
		t.Errorf("at-effective lookup = %d, want 2500", price)
	}

	if result.LinesRecalculated != 3 || result.PostingsRecalculated != 6 {
		t.Errorf("recalc counts not propagated: %+v", result)
	}
	if len(repo.lineRecalcsFrom) != 1 || !repo.lineRecalcsFrom[0].Equal(effectiveAt) {
		t.Error("line recalculation must start at the effective timestamp")
	}
}

func TestReprice_NoSeedWhenHistoryExists(t *testing.T) {
	svc, repo, variants, _ := newTestService()
	v := addVariant(t, variants, 2000)

	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Reprice(context.Background(), v.AccountID, v.ID, 2100, first); err != nil {
		t.Fatalf("first reprice failed: %v", err)
	}
	entriesAfterFirst := len(repo.entries)

	second := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Reprice(context.Background(), v.AccountID, v.ID, 2200, second); err != nil {
		t.Fatalf("second reprice failed: %v", err)
	}

	if len(repo.entries) != entriesAfterFirst+1 {
		t.Errorf("second reprice must add exactly one entry, got %d total", len(repo.entries))
	}
}

func TestReprice_OverwritesSameEffectiveTimestamp(t *testing.T) {
	svc, repo, variants, _ := newTestService()
	v := addVariant(t, variants, 2000)
	effectiveAt := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	if _, err := svc.Reprice(context.Background(), v.AccountID, v.ID, 2100, effectiveAt); err != nil {
		t.Fatalf("first reprice failed: %v", err)
	}
	count := len(repo.entries)

	if _, err := svc.Reprice(context.Background(), v.AccountID, v.ID, 2300, effectiveAt); err != nil {
		t.Fatalf("second reprice failed: %v", err)
	}

	if len(repo.entries) != count {
		t.Error("repricing at the same effective timestamp must overwrite, not append")
	}
	price, _, _ := repo.PriceAt(context.Background(), v.AccountID, v.ID, effectiveAt)
	if price != 2300 {
		t.Errorf("expected overwritten price 2300, got %d", price)
	}
}

func TestReprice_RefreshesCachedPrice(t *testing.T) {
	svc, _, variants, _ := newTestService()
	v := addVariant(t, variants, 2000)

	t.Run("past effective date becomes the live price", func(t *testing.T) {
		past := time.Now().UTC().Add(-time.Hour)
		if _, err := svc.Reprice(context.Background(), v.AccountID, v.ID, 3000, past); err != nil {
			t.Fatalf("reprice failed: %v", err)
		}
		if v.Price != 3000 {
			t.Errorf("cached price must refresh to 3000, got %d", v.Price)
		}
	})

	t.Run("future effective date leaves the live price alone", func(t *testing.T) {
		future := time.Now().UTC().Add(24 * time.Hour)
		if _, err := svc.Reprice(context.Background(), v.AccountID, v.ID, 9000, future); err != nil {
			t.Fatalf("reprice failed: %v", err)
		}
		if v.Price != 3000 {
			t.Errorf("future price must not become live yet, got %d", v.Price)
		}
	})
}

func TestReprice_Validation(t *testing.T) {
	svc, _, variants, _ := newTestService()
	v := addVariant(t, variants, 2000)

	_, err := svc.Reprice(context.Background(), v.AccountID, v.ID, -1, time.Now())
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("negative price: expected validation error, got %v", err)
	}

	_, err = svc.Reprice(context.Background(), v.AccountID, v.ID, 100, time.Time{})
	appErr, ok = apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("zero time: expected validation error, got %v", err)
	}

	_, err = svc.Reprice(context.Background(), v.AccountID, id.New(), 100, time.Now())
	if !apperror.IsNotFound(err) {
		t.Fatalf("unknown variant: expected not found, got %v", err)
	}
}
