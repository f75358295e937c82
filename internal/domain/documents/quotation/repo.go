package quotation

import (
	"context"

	"procurement/internal/domain"
)

// Collection is the document collection holding quotations.
const Collection = "quotations"

// Repository defines the interface for Quotation persistence.
type Repository interface {
	domain.Repository[*Quotation]

	// FindByPurchaseRequest returns the quotations of one request.
	FindByPurchaseRequest(ctx context.Context, purchaseRequestID string) ([]*Quotation, error)

	// FindByPurchaseRequests fetches the quotations of several requests in one query.
	FindByPurchaseRequests(ctx context.Context, purchaseRequestIDs []string) ([]*Quotation, error)

	// CountByPurchaseRequest counts on the store side without fetching documents.
	CountByPurchaseRequest(ctx context.Context, purchaseRequestID string) (int, error)

	// DeleteByPurchaseRequest removes the quotations of one request and returns how many.
	DeleteByPurchaseRequest(ctx context.Context, purchaseRequestID string) (int, error)

	FindBySupplier(ctx context.Context, supplierID string) ([]*Quotation, error)
}
