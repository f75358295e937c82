package document_repo

import (
	"context"

	"procurement/internal/core/docstore"
	"procurement/internal/domain/catalogs/supplier"
)

// Compile-time check that SupplierRepo implements supplier.Repository.
var _ supplier.Repository = (*SupplierRepo)(nil)

// SupplierRepo stores suppliers.
type SupplierRepo struct {
	*BaseDocumentRepo[*supplier.Supplier]
}

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(store docstore.Store) *SupplierRepo {
	return &SupplierRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(store, supplier.Collection, func() *supplier.Supplier {
			return &supplier.Supplier{}
		}),
	}
}

// GetAllActive returns suppliers with active == true.
func (r *SupplierRepo) GetAllActive(ctx context.Context) ([]*supplier.Supplier, error) {
	return r.GetByField(ctx, "active", true)
}
