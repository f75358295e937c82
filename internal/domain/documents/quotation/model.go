// Package quotation provides Quotation documents: a supplier's price for a purchase request.
package quotation

import (
	"context"
	"strings"

	"procurement/internal/core/apperror"
	"procurement/internal/core/entity"
	"procurement/internal/core/types"
	"procurement/internal/domain/catalogs/supplier"
)

// RequiredQuoteCount is the number of quotations that completes a purchase request.
const RequiredQuoteCount = 3

// Foreign keys.
const (
	PurchaseRequestField = "purchaseRequestId"
	SupplierField        = "supplierId"
)

// Quotation is one supplier's offer for a purchase request.
type Quotation struct {
	entity.Base

	PurchaseRequestID string `doc:"purchaseRequestId" json:"purchaseRequestId" validate:"required"`
	SupplierID        string `doc:"supplierId" json:"supplierId" validate:"required"`

	// Supplier is resolved on read and never stored.
	Supplier *supplier.Supplier `doc:"-" json:"supplier,omitempty"`

	// QuotationDate is DD/MM/YYYY
	QuotationDate string      `doc:"quotationDate" json:"quotationDate"`
	Price         types.Money `doc:"price" json:"price"`
	Observations  string      `doc:"observations" json:"observations,omitempty"`
}

// NewQuotation creates a Quotation dated today.
func NewQuotation(purchaseRequestID, supplierID string, price types.Money) *Quotation {
	return &Quotation{
		PurchaseRequestID: purchaseRequestID,
		SupplierID:        supplierID,
		QuotationDate:     types.Today(),
		Price:             price,
	}
}

// Patch is a partial update of a Quotation. Nil fields are left unchanged.
// The purchase request a quotation belongs to cannot be changed.
type Patch struct {
	SupplierID    *string      `doc:"supplierId"`
	QuotationDate *string      `doc:"quotationDate"`
	Price         *types.Money `doc:"price"`
	Observations  *string      `doc:"observations"`
}

// WithSupplier returns a copy of q with the supplier attached.
func (q *Quotation) WithSupplier(s *supplier.Supplier) *Quotation {
	cp := *q
	cp.Supplier = s
	return &cp
}

func (q *Quotation) Normalize() {
	q.QuotationDate = strings.TrimSpace(q.QuotationDate)
	if q.QuotationDate == "" {
		q.QuotationDate = types.Today()
	}
	q.Observations = strings.TrimSpace(q.Observations)
}

// Validate implements entity.Validatable interface.
func (q *Quotation) Validate(ctx context.Context) error {
	if err := entity.ValidateStruct(q); err != nil {
		return err
	}
	if q.Price.IsNegative() {
		return apperror.NewValidation("price must not be negative").
			WithDetail("field", "price").
			WithDetail("value", q.Price.String())
	}
	if !types.IsDate(q.QuotationDate) {
		return apperror.NewValidation("invalid quotation date").
			WithDetail("field", "quotationDate").
			WithDetail("expected", "DD/MM/YYYY")
	}
	return nil
}
