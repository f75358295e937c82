package document_repo

import (
	"context"

	"procurement/internal/core/docstore"
	"procurement/internal/domain/catalogs/product"
)

var _ product.Repository = (*ProductRepo)(nil)

// ProductRepo stores products.
type ProductRepo struct {
	*BaseDocumentRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(store docstore.Store) *ProductRepo {
	return &ProductRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(store, product.Collection, func() *product.Product {
			return &product.Product{}
		}),
	}
}

func (r *ProductRepo) GetAllActive(ctx context.Context) ([]*product.Product, error) {
	return r.GetByField(ctx, "active", true)
}
