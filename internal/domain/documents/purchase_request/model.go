// Package purchase_request provides PurchaseRequest documents and the derivation
// of their lifecycle status from linked quotations.
package purchase_request

import (
	"context"
	"strings"

	"procurement/internal/core/apperror"
	"procurement/internal/core/entity"
	"procurement/internal/core/types"
	"procurement/internal/domain/catalogs/product"
	"procurement/internal/domain/catalogs/user"
	"procurement/internal/domain/documents/quotation"
)

// PurchaseRequest asks for a quantity of one product on behalf of a requester.
type PurchaseRequest struct {
	entity.Base

	// RequestDate is DD/MM/YYYY
	RequestDate    string `doc:"requestDate" json:"requestDate"`
	RequesterEmail string `doc:"requesterEmail" json:"requesterEmail" validate:"required,email"`
	ProductID      string `doc:"productId" json:"productId" validate:"required"`

	Quantity     float64 `doc:"quantity" json:"quantity" validate:"gt=0"`
	Observations string  `doc:"observations" json:"observations,omitempty"`

	// Resolved on read and never stored.
	Requester  *user.User             `doc:"-" json:"requester,omitempty"`
	Product    *product.Product       `doc:"-" json:"product,omitempty"`
	Quotations []*quotation.Quotation `doc:"-" json:"quotations,omitempty"`

	// Status is derived from the quotation count on every read.
	// A stored "status" key is ignored.
	Status Status `doc:"-" json:"status,omitempty"`
}

// NewPurchaseRequest creates a request dated today.
func NewPurchaseRequest(requesterEmail, productID string, quantity float64) *PurchaseRequest {
	return &PurchaseRequest{
		RequestDate:    types.Today(),
		RequesterEmail: requesterEmail,
		ProductID:      productID,
		Quantity:       quantity,
	}
}

// Patch is a partial update of a PurchaseRequest. Nil fields are left unchanged.
// The requester is fixed at creation.
type Patch struct {
	RequestDate  *string  `doc:"requestDate"`
	ProductID    *string  `doc:"productId"`
	Quantity     *float64 `doc:"quantity"`
	Observations *string  `doc:"observations"`
}

// Copy returns a shallow copy; resolvers attach relations to copies only.
func (p *PurchaseRequest) Copy() *PurchaseRequest {
	cp := *p
	return &cp
}

// WithRequester returns a copy with the requester attached.
func (p *PurchaseRequest) WithRequester(u *user.User) *PurchaseRequest {
	cp := p.Copy()
	cp.Requester = u
	return cp
}

// WithProduct returns a copy with the product attached.
func (p *PurchaseRequest) WithProduct(prod *product.Product) *PurchaseRequest {
	cp := p.Copy()
	cp.Product = prod
	return cp
}

// WithQuotations returns a copy with the quotations attached.
func (p *PurchaseRequest) WithQuotations(qs []*quotation.Quotation) *PurchaseRequest {
	cp := p.Copy()
	cp.Quotations = qs
	return cp
}

// WithStatus returns a copy with the derived status set.
func (p *PurchaseRequest) WithStatus(s Status) *PurchaseRequest {
	cp := p.Copy()
	cp.Status = s
	return cp
}

func (p *PurchaseRequest) Normalize() {
	p.RequestDate = strings.TrimSpace(p.RequestDate)
	if p.RequestDate == "" {
		p.RequestDate = types.Today()
	}
	p.RequesterEmail = user.NormalizeEmail(p.RequesterEmail)
	p.Observations = strings.TrimSpace(p.Observations)
}

// Validate implements entity.Validatable interface.
func (p *PurchaseRequest) Validate(ctx context.Context) error {
	if err := entity.ValidateStruct(p); err != nil {
		return err
	}
	if !types.IsDate(p.RequestDate) {
		return apperror.NewValidation("invalid request date").
			WithDetail("field", "requestDate").
			WithDetail("expected", "DD/MM/YYYY")
	}
	return nil
}
