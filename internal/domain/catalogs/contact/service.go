package contact

import (
	"context"

	"procurement/internal/core/apperror"
	"procurement/internal/core/entity"
	"procurement/internal/domain"
	"procurement/internal/domain/catalogs/supplier"
)

// SupplierLookup resolves the supplier a contact points to.
type SupplierLookup interface {
	GetByID(ctx context.Context, id string) (*supplier.Supplier, error)
}

// Service provides business logic for the Contact catalog.
type Service struct {
	*domain.EntityService[*Contact]
	repo      Repository
	suppliers SupplierLookup
}

// NewService creates a new Contact service.
func NewService(repo Repository, suppliers SupplierLookup, audit domain.AuditRecorder) *Service {
	base := domain.NewEntityService(domain.EntityServiceConfig[*Contact]{
		Repo:       repo,
		NewFn:      func() *Contact { return &Contact{} },
		EntityName: "contact",
		Audit:      audit,
	})

	svc := &Service{
		EntityService: base,
		repo:          repo,
		suppliers:     suppliers,
	}

	// The store has no foreign keys; check the reference at write time.
	base.Hooks().OnBeforeCreate(svc.checkSupplier)
	base.Hooks().OnBeforeUpdate(svc.checkSupplier)

	return svc
}

func (s *Service) checkSupplier(ctx context.Context, c *Contact) error {
	sup, err := s.suppliers.GetByID(ctx, c.SupplierID)
	if err != nil {
		return err
	}
	if entity.IsNil(sup) {
		return apperror.NewValidation("supplier does not exist").
			WithDetail("field", "supplierId").
			WithDetail("value", c.SupplierID)
	}
	return nil
}

// FindBySupplier returns the contacts of one supplier.
func (s *Service) FindBySupplier(ctx context.Context, supplierID string) ([]*Contact, error) {
	return s.repo.FindBySupplier(ctx, supplierID)
}
