package product

import (
	"context"

	"procurement/internal/domain"
)

// Collection is the document collection holding products.
const Collection = "products"

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.Repository[*Product]

	// GetAllActive returns products with active == true.
	GetAllActive(ctx context.Context) ([]*Product, error)
}
