package document_repo

import (
	"context"

	"procurement/internal/core/docstore"
	"procurement/internal/domain/documents/quotation"
)

var _ quotation.Repository = (*QuotationRepo)(nil)

// QuotationRepo stores quotations.
type QuotationRepo struct {
	*BaseDocumentRepo[*quotation.Quotation]
}

// NewQuotationRepo creates a new quotation repository.
func NewQuotationRepo(store docstore.Store) *QuotationRepo {
	return &QuotationRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(store, quotation.Collection, func() *quotation.Quotation {
			return &quotation.Quotation{}
		}),
	}
}

// FindByPurchaseRequest returns the quotations of one request.
func (r *QuotationRepo) FindByPurchaseRequest(ctx context.Context, purchaseRequestID string) ([]*quotation.Quotation, error) {
	return r.GetByField(ctx, quotation.PurchaseRequestField, purchaseRequestID)
}

// FindByPurchaseRequests fetches the quotations of several requests in one query.
func (r *QuotationRepo) FindByPurchaseRequests(ctx context.Context, purchaseRequestIDs []string) ([]*quotation.Quotation, error) {
	keys := uniqueNonEmpty(purchaseRequestIDs)
	values := make([]any, len(keys))
	for i, k := range keys {
		values[i] = k
	}
	return r.GetByFieldIn(ctx, quotation.PurchaseRequestField, values)
}

// CountByPurchaseRequest counts on the store side.
func (r *QuotationRepo) CountByPurchaseRequest(ctx context.Context, purchaseRequestID string) (int, error) {
	return r.CountByField(ctx, quotation.PurchaseRequestField, purchaseRequestID)
}

func (r *QuotationRepo) DeleteByPurchaseRequest(ctx context.Context, purchaseRequestID string) (int, error) {
	return r.DeleteByField(ctx, quotation.PurchaseRequestField, purchaseRequestID)
}

func (r *QuotationRepo) FindBySupplier(ctx context.Context, supplierID string) ([]*quotation.Quotation, error) {
	return r.GetByField(ctx, quotation.SupplierField, supplierID)
}
