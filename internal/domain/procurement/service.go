// Package procurement assembles the read views of the procurement screens:
// purchase requests with their requester, product, quotations and status.
package procurement

import (
	"context"
	"slices"

	"procurement/internal/core/apperror"
	"procurement/internal/core/entity"
	"procurement/internal/core/types"
	"procurement/internal/domain/auth"
	"procurement/internal/domain/catalogs/contact"
	"procurement/internal/domain/documents/purchase_request"
	"procurement/internal/domain/documents/quotation"
	"procurement/internal/domain/relations"
	"procurement/pkg/logger"
)

// Config wires the read side.
type Config struct {
	PurchaseRequests purchase_request.Repository
	Contacts         contact.Repository
	Quotations       quotation.Repository
	Resolver         *relations.Resolver
	Statuses         *purchase_request.StatusEngine
}

// Service answers the procurement read queries.
type Service struct {
	purchaseRequests purchase_request.Repository
	contacts         contact.Repository
	quotations       quotation.Repository
	resolver         *relations.Resolver
	statuses         *purchase_request.StatusEngine
}

// NewService creates a new procurement Service.
func NewService(cfg Config) *Service {
	return &Service{
		purchaseRequests: cfg.PurchaseRequests,
		contacts:         cfg.Contacts,
		quotations:       cfg.Quotations,
		resolver:         cfg.Resolver,
		statuses:         cfg.Statuses,
	}
}

// PurchaseRequests lists the requests visible to session: every request for
// admins, only their own for requesters. Requesters and products are attached
// with one batch each, statuses with one quotation query, and the result is
// ordered by request date with malformed dates last.
func (s *Service) PurchaseRequests(ctx context.Context, session *auth.Session) ([]*purchase_request.PurchaseRequest, error) {
	if session == nil {
		return nil, apperror.NewUnauthorized("session required")
	}

	var (
		prs []*purchase_request.PurchaseRequest
		err error
	)
	if session.IsAdmin() {
		prs, err = s.purchaseRequests.GetAll(ctx)
	} else {
		prs, err = s.purchaseRequests.FindByRequester(ctx, session.Email)
	}
	if err != nil {
		return nil, err
	}

	if prs, err = s.resolver.PurchaseRequestRequesters(ctx, prs); err != nil {
		return nil, err
	}
	if prs, err = s.resolver.PurchaseRequestProducts(ctx, prs); err != nil {
		return nil, err
	}
	if prs, err = s.statuses.WithStatuses(ctx, prs); err != nil {
		return nil, err
	}

	slices.SortStableFunc(prs, func(a, b *purchase_request.PurchaseRequest) int {
		return types.CompareDates(a.RequestDate, b.RequestDate)
	})

	logger.Debug(ctx, "purchase requests listed", "count", len(prs), "admin", session.IsAdmin())
	return prs, nil
}

// PurchaseRequest returns one request with requester, product, quotations
// (suppliers attached) and status.
func (s *Service) PurchaseRequest(ctx context.Context, id string) (*purchase_request.PurchaseRequest, error) {
	pr, err := s.purchaseRequests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity.IsNil(pr) {
		return nil, apperror.NewNotFound("purchase_request", id)
	}

	pr, err = s.resolver.PurchaseRequestDetail(ctx, pr)
	if err != nil {
		return nil, err
	}
	// The quotations are already loaded; count them instead of asking again.
	return pr.WithStatus(purchase_request.StatusForCount(len(pr.Quotations))), nil
}

// Contacts lists every contact with its supplier.
func (s *Service) Contacts(ctx context.Context) ([]*contact.Contact, error) {
	cs, err := s.contacts.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolver.ContactSuppliers(ctx, cs)
}

// SupplierContacts lists the contacts of one supplier with the supplier attached.
func (s *Service) SupplierContacts(ctx context.Context, supplierID string) ([]*contact.Contact, error) {
	cs, err := s.contacts.FindBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	return s.resolver.ContactSuppliers(ctx, cs)
}

// Quotations lists the quotations of one request with their suppliers.
func (s *Service) Quotations(ctx context.Context, purchaseRequestID string) ([]*quotation.Quotation, error) {
	qs, err := s.quotations.FindByPurchaseRequest(ctx, purchaseRequestID)
	if err != nil {
		return nil, err
	}
	return s.resolver.QuotationSuppliers(ctx, qs)
}

// CanAddQuotation reports whether the request still accepts quotations, with
// its current status so callers can show the notice before opening a form.
func (s *Service) CanAddQuotation(ctx context.Context, purchaseRequestID string) (bool, purchase_request.Status, error) {
	status, err := s.statuses.Status(ctx, purchaseRequestID)
	if err != nil {
		return false, "", err
	}
	return status != purchase_request.StatusQuoted, status, nil
}
