package supplier

import (
	"context"

	"procurement/internal/domain"
)

// Collection is the document collection holding suppliers.
const Collection = "suppliers"

// Repository defines the interface for Supplier persistence.
type Repository interface {
	domain.Repository[*Supplier]

	// GetAllActive returns suppliers with active == true.
	GetAllActive(ctx context.Context) ([]*Supplier, error)
}
