package document_repo

import (
	"context"

	"procurement/internal/core/docstore"
	"procurement/internal/domain/catalogs/contact"
)

var _ contact.Repository = (*ContactRepo)(nil)

// ContactRepo stores contacts.
type ContactRepo struct {
	*BaseDocumentRepo[*contact.Contact]
}

// NewContactRepo creates a new contact repository.
func NewContactRepo(store docstore.Store) *ContactRepo {
	return &ContactRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(store, contact.Collection, func() *contact.Contact {
			return &contact.Contact{}
		}),
	}
}

func (r *ContactRepo) GetAllActive(ctx context.Context) ([]*contact.Contact, error) {
	return r.GetByField(ctx, "active", true)
}

// FindBySupplier returns the contacts of one supplier.
func (r *ContactRepo) FindBySupplier(ctx context.Context, supplierID string) ([]*contact.Contact, error) {
	return r.GetByField(ctx, contact.SupplierField, supplierID)
}
