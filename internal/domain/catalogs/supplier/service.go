package supplier

import (
	"context"

	"procurement/internal/domain"
)

// DependentsRemover deletes the documents that reference a supplier.
type DependentsRemover interface {
	DeleteSupplierDependents(ctx context.Context, supplierID string) error
}

// Service provides business logic for the Supplier catalog.
type Service struct {
	*domain.EntityService[*Supplier]
	repo       Repository
	dependents DependentsRemover
}

// NewService creates a new Supplier service. Deleting a supplier removes its
// contacts first through dependents; a failure there leaves the supplier intact.
func NewService(repo Repository, dependents DependentsRemover, audit domain.AuditRecorder) *Service {
	base := domain.NewEntityService(domain.EntityServiceConfig[*Supplier]{
		Repo:       repo,
		NewFn:      func() *Supplier { return &Supplier{} },
		EntityName: "supplier",
		Audit:      audit,
	})

	svc := &Service{
		EntityService: base,
		repo:          repo,
		dependents:    dependents,
	}

	base.Hooks().OnBeforeDelete(svc.removeDependents)

	return svc
}

func (s *Service) removeDependents(ctx context.Context, sup *Supplier) error {
	if s.dependents == nil {
		return nil
	}
	return s.dependents.DeleteSupplierDependents(ctx, sup.ID)
}

// GetAllActive returns suppliers that can receive new quotations.
func (s *Service) GetAllActive(ctx context.Context) ([]*Supplier, error) {
	return s.repo.GetAllActive(ctx)
}
