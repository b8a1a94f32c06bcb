// Package entity provides core domain entity bases.
package entity

import (
	"context"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Owned is implemented by entities scoped to an account.
type Owned interface {
	Owner() id.ID
}

///////////////////
// Base Entity   //
///////////////////

// BaseEntity contains common fields for all entities.
// Every row belongs to exactly one account; repositories filter on it.
type BaseEntity struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// AccountID is the owning account. All reads and writes are scoped to it.
	AccountID id.ID `db:"account_id" json:"accountId"`

	// DeletionMark indicates soft-deleted entity
	DeletionMark bool `db:"deletion_mark" json:"deletionMark"`

	// Version for optimistic locking (incremented on each update)
	Version int `db:"version" json:"version"`
}

// NewBaseEntity creates a new BaseEntity with generated ID.
func NewBaseEntity(accountID id.ID) BaseEntity {
	return BaseEntity{
		ID:        id.New(),
		AccountID: accountID,
		Version:   1,
	}
}

// Owner implements Owned.
func (b *BaseEntity) Owner() id.ID {
	return b.AccountID
}

// Touch increments version (for optimistic locking).
func (b *BaseEntity) Touch() {
	b.Version++
}

// MarkDeleted sets the deletion mark.
func (b *BaseEntity) MarkDeleted() {
	b.DeletionMark = true
}

// Undelete clears the deletion mark.
func (b *BaseEntity) Undelete() {
	b.DeletionMark = false
}

// SetVersion updates the version number (used by repository after sync).
func (b *BaseEntity) SetVersion(v int) {
	b.Version = v
}

// Validate implements Validatable.
func (b *BaseEntity) Validate(ctx context.Context) error {
	if id.IsNil(b.AccountID) {
		return apperror.NewValidation("account is required").
			WithDetail("field", "accountId")
	}
	return nil
}

/////////////
// Records //
/////////////

// BaseRecord extends BaseEntity with audit timestamps.
// Used by business records (operations) as opposed to reference data.
type BaseRecord struct {
	BaseEntity

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBaseRecord creates a new BaseRecord with generated ID and timestamps.
func NewBaseRecord(accountID id.ID) BaseRecord {
	now := time.Now().UTC()
	return BaseRecord{
		BaseEntity: NewBaseEntity(accountID),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Touch updates the UpdatedAt timestamp and increments version.
func (b *BaseRecord) Touch() {
	b.UpdatedAt = time.Now().UTC()
	b.BaseEntity.Touch()
}
