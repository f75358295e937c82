package product

import (
	"context"

	"procurement/internal/domain"
)

// Service provides business logic for the Product catalog.
type Service struct {
	*domain.EntityService[*Product]
	repo Repository
}

// NewService creates a new Product service.
func NewService(repo Repository, audit domain.AuditRecorder) *Service {
	base := domain.NewEntityService(domain.EntityServiceConfig[*Product]{
		Repo:       repo,
		NewFn:      func() *Product { return &Product{} },
		EntityName: "product",
		Audit:      audit,
	})
	return &Service{EntityService: base, repo: repo}
}

// GetAllActive returns products that can be requested.
func (s *Service) GetAllActive(ctx context.Context) ([]*Product, error) {
	return s.repo.GetAllActive(ctx)
}
