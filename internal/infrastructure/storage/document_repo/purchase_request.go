package document_repo

import (
	"context"

	"procurement/internal/core/docstore"
	"procurement/internal/domain/documents/purchase_request"
)

var _ purchase_request.Repository = (*PurchaseRequestRepo)(nil)

// PurchaseRequestRepo stores purchase requests. Status is never written: the
// model excludes it from the document body.
type PurchaseRequestRepo struct {
	*BaseDocumentRepo[*purchase_request.PurchaseRequest]
}

// NewPurchaseRequestRepo creates a new purchase request repository.
func NewPurchaseRequestRepo(store docstore.Store) *PurchaseRequestRepo {
	return &PurchaseRequestRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(store, purchase_request.Collection, func() *purchase_request.PurchaseRequest {
			return &purchase_request.PurchaseRequest{}
		}),
	}
}

// FindByRequester returns the requests made by one email.
func (r *PurchaseRequestRepo) FindByRequester(ctx context.Context, email string) ([]*purchase_request.PurchaseRequest, error) {
	return r.GetByField(ctx, purchase_request.RequesterField, email)
}

func (r *PurchaseRequestRepo) FindByProduct(ctx context.Context, productID string) ([]*purchase_request.PurchaseRequest, error) {
	return r.GetByField(ctx, purchase_request.ProductField, productID)
}
