package contact

import (
	"context"

	"procurement/internal/domain"
)

// Collection is the document collection holding contacts.
const Collection = "contacts"

// SupplierField is the foreign key to suppliers.
const SupplierField = "supplierId"

// Repository defines the interface for Contact persistence.
type Repository interface {
	domain.Repository[*Contact]

	GetAllActive(ctx context.Context) ([]*Contact, error)

	// FindBySupplier returns the contacts of one supplier.
	FindBySupplier(ctx context.Context, supplierID string) ([]*Contact, error)
}
