// Package party provides the Counterparty catalog: bloggers, customers
// and suppliers the account deals with.
package party

import (
	"context"
	"regexp"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Kind defines the type of counterparty.
type Kind string

const (
	KindBlogger  Kind = "blogger"
	KindCustomer Kind = "customer"
	KindSupplier Kind = "supplier"
)

// Party represents an external counterparty.
type Party struct {
	entity.Catalog

	Kind Kind `db:"kind" json:"kind"`

	// Handle is the blogger's social media handle
	Handle *string `db:"handle" json:"handle,omitempty"`

	Phone *string `db:"phone" json:"phone,omitempty"`
	Email *string `db:"email" json:"email,omitempty"`

	Comment *string `db:"comment" json:"comment,omitempty"`
}

// New creates a new Party.
func New(accountID id.ID, code, name string, kind Kind) *Party {
	return &Party{
		Catalog: entity.NewCatalog(accountID, code, name),
		Kind:    kind,
	}
}

// Validate implements entity.Validatable.
func (p *Party) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	switch p.Kind {
	case KindBlogger, KindCustomer, KindSupplier:
	default:
		return apperror.NewValidation("invalid party kind").
			WithDetail("field", "kind").
			WithDetail("value", string(p.Kind))
	}

	if p.Email != nil && *p.Email != "" && !emailRE.MatchString(*p.Email) {
		return apperror.NewValidation("invalid email").
			WithDetail("field", "email")
	}

	return nil
}
