package purchase_request

import (
	"context"

	"procurement/internal/domain"
)

// Collection is the document collection holding purchase requests.
const Collection = "purchase-requests"

// Query fields.
const (
	RequesterField = "requesterEmail"
	ProductField   = "productId"
)

// Repository defines the interface for PurchaseRequest persistence.
type Repository interface {
	domain.Repository[*PurchaseRequest]

	// FindByRequester returns the requests made by one email.
	FindByRequester(ctx context.Context, email string) ([]*PurchaseRequest, error)

	FindByProduct(ctx context.Context, productID string) ([]*PurchaseRequest, error)
}
