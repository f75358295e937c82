package quotation

import (
	"context"

	"procurement/internal/core/apperror"
	"procurement/internal/domain"
	"procurement/pkg/logger"
)

// ExistenceChecker reports whether a referenced document exists.
type ExistenceChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Service provides business logic for quotations.
type Service struct {
	*domain.EntityService[*Quotation]
	repo             Repository
	purchaseRequests ExistenceChecker
	suppliers        ExistenceChecker
}

// ServiceConfig configures the quotation service.
type ServiceConfig struct {
	Repo             Repository
	PurchaseRequests ExistenceChecker
	Suppliers        ExistenceChecker
	Audit            domain.AuditRecorder // Optional
}

// NewService creates a new Quotation service.
func NewService(cfg ServiceConfig) *Service {
	base := domain.NewEntityService(domain.EntityServiceConfig[*Quotation]{
		Repo:       cfg.Repo,
		NewFn:      func() *Quotation { return &Quotation{} },
		EntityName: "quotation",
		Audit:      cfg.Audit,

		// Moving a quotation would bypass the quote limit of the target request.
		ImmutableFields: []string{PurchaseRequestField},
	})

	svc := &Service{
		EntityService:    base,
		repo:             cfg.Repo,
		purchaseRequests: cfg.PurchaseRequests,
		suppliers:        cfg.Suppliers,
	}

	base.Hooks().OnBeforeCreate(svc.checkReferences)
	base.Hooks().OnBeforeCreate(svc.checkQuoteLimit)
	base.Hooks().OnBeforeUpdate(svc.checkSupplier)

	return svc
}

func (s *Service) checkReferences(ctx context.Context, q *Quotation) error {
	if err := checkExists(ctx, s.purchaseRequests, PurchaseRequestField, q.PurchaseRequestID); err != nil {
		return err
	}
	return s.checkSupplier(ctx, q)
}

func (s *Service) checkSupplier(ctx context.Context, q *Quotation) error {
	return checkExists(ctx, s.suppliers, SupplierField, q.SupplierID)
}

func checkExists(ctx context.Context, checker ExistenceChecker, field, id string) error {
	if checker == nil {
		return nil
	}
	ok, err := checker.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewValidation(field+" does not reference an existing document").
			WithDetail("field", field).
			WithDetail("value", id)
	}
	return nil
}

// checkQuoteLimit refuses a quotation once the request holds RequiredQuoteCount.
// Two concurrent creators can both pass this check; the overshoot is accepted.
func (s *Service) checkQuoteLimit(ctx context.Context, q *Quotation) error {
	count, err := s.repo.CountByPurchaseRequest(ctx, q.PurchaseRequestID)
	if err != nil {
		return err
	}
	if count >= RequiredQuoteCount {
		logger.Debug(ctx, "quotation refused, request already quoted",
			"purchase_request_id", q.PurchaseRequestID, "count", count)
		return apperror.NewQuoteLimit(q.PurchaseRequestID, RequiredQuoteCount).
			WithDetail("count", count)
	}
	return nil
}

// CanAddQuotation reports whether another quotation is accepted for the request,
// along with the current count. Callers use it before showing a create form.
func (s *Service) CanAddQuotation(ctx context.Context, purchaseRequestID string) (bool, int, error) {
	count, err := s.repo.CountByPurchaseRequest(ctx, purchaseRequestID)
	if err != nil {
		return false, 0, err
	}
	return count < RequiredQuoteCount, count, nil
}

// FindByPurchaseRequest returns the quotations of one request.
func (s *Service) FindByPurchaseRequest(ctx context.Context, purchaseRequestID string) ([]*Quotation, error) {
	return s.repo.FindByPurchaseRequest(ctx, purchaseRequestID)
}
