package purchase_request

import (
	"context"

	"procurement/internal/core/apperror"
	appctx "procurement/internal/core/context"
	"procurement/internal/domain"
)

// ProductChecker reports whether a product exists.
type ProductChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// DependentsRemover deletes the quotations of a purchase request.
type DependentsRemover interface {
	DeletePurchaseRequestDependents(ctx context.Context, purchaseRequestID string) error
}

// Service provides business logic for purchase requests.
type Service struct {
	*domain.EntityService[*PurchaseRequest]
	repo       Repository
	products   ProductChecker
	dependents DependentsRemover
}

// ServiceConfig configures the purchase request service.
type ServiceConfig struct {
	Repo       Repository
	Products   ProductChecker
	Dependents DependentsRemover
	Audit      domain.AuditRecorder // Optional
}

// NewService creates a new PurchaseRequest service.
func NewService(cfg ServiceConfig) *Service {
	base := domain.NewEntityService(domain.EntityServiceConfig[*PurchaseRequest]{
		Repo:       cfg.Repo,
		NewFn:      func() *PurchaseRequest { return &PurchaseRequest{} },
		EntityName: "purchase_request",
		Audit:      cfg.Audit,

		ImmutableFields: []string{RequesterField},
	})

	svc := &Service{
		EntityService: base,
		repo:          cfg.Repo,
		products:      cfg.Products,
		dependents:    cfg.Dependents,
	}

	base.Hooks().OnBeforeCreate(svc.checkProduct)
	base.Hooks().OnBeforePatch(svc.checkOwner)
	base.Hooks().OnBeforeUpdate(svc.checkProduct)
	base.Hooks().OnBeforeDelete(svc.checkOwner)
	base.Hooks().OnBeforeDelete(svc.removeDependents)

	return svc
}

// Create stores a request. When RequesterEmail is empty it is taken from the session.
func (s *Service) Create(ctx context.Context, pr *PurchaseRequest) (string, error) {
	if pr.RequesterEmail == "" {
		pr.RequesterEmail = appctx.GetUserEmail(ctx)
	}
	return s.EntityService.Create(ctx, pr)
}

func (s *Service) checkProduct(ctx context.Context, pr *PurchaseRequest) error {
	if s.products == nil {
		return nil
	}
	ok, err := s.products.Exists(ctx, pr.ProductID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewValidation("product does not exist").
			WithDetail("field", "productId").
			WithDetail("value", pr.ProductID)
	}
	return nil
}

// checkOwner lets requesters touch only their own requests. It runs on the
// stored document. Admins and calls without a session (CLI, seeding) are not
// restricted.
func (s *Service) checkOwner(ctx context.Context, pr *PurchaseRequest) error {
	session := appctx.GetUser(ctx)
	if session == nil || session.IsAdmin || pr.RequesterEmail == "" {
		return nil
	}
	if pr.RequesterEmail != session.Email {
		return apperror.NewForbidden("purchase request belongs to another requester").
			WithDetail("id", pr.ID)
	}
	return nil
}

func (s *Service) removeDependents(ctx context.Context, pr *PurchaseRequest) error {
	if s.dependents == nil {
		return nil
	}
	return s.dependents.DeletePurchaseRequestDependents(ctx, pr.ID)
}

// FindByRequester returns the requests made by one email.
func (s *Service) FindByRequester(ctx context.Context, email string) ([]*PurchaseRequest, error) {
	return s.repo.FindByRequester(ctx, email)
}
