package relations

import (
	"context"

	"procurement/internal/domain/catalogs/contact"
	"procurement/internal/domain/catalogs/product"
	"procurement/internal/domain/catalogs/supplier"
	"procurement/internal/domain/catalogs/user"
	"procurement/internal/domain/documents/purchase_request"
	"procurement/internal/domain/documents/quotation"
)

var (
	contactSupplier = Link[*contact.Contact, *supplier.Supplier]{
		ForeignKey: func(c *contact.Contact) string { return c.SupplierID },
		TargetKey:  func(s *supplier.Supplier) string { return s.ID },
		Attach:     (*contact.Contact).WithSupplier,
	}
	quotationSupplier = Link[*quotation.Quotation, *supplier.Supplier]{
		ForeignKey: func(q *quotation.Quotation) string { return q.SupplierID },
		TargetKey:  func(s *supplier.Supplier) string { return s.ID },
		Attach:     (*quotation.Quotation).WithSupplier,
	}
	purchaseRequestProduct = Link[*purchase_request.PurchaseRequest, *product.Product]{
		ForeignKey: func(pr *purchase_request.PurchaseRequest) string { return pr.ProductID },
		TargetKey:  func(p *product.Product) string { return p.ID },
		Attach:     (*purchase_request.PurchaseRequest).WithProduct,
	}
	// Requesters are joined by email rather than id.
	purchaseRequestRequester = Link[*purchase_request.PurchaseRequest, *user.User]{
		ForeignKey: func(pr *purchase_request.PurchaseRequest) string { return user.NormalizeEmail(pr.RequesterEmail) },
		TargetKey:  func(u *user.User) string { return user.NormalizeEmail(u.Email) },
		Attach:     (*purchase_request.PurchaseRequest).WithRequester,
	}
)

// Resolver attaches related entities for read views.
type Resolver struct {
	suppliers  supplier.Repository
	products   product.Repository
	users      user.Repository
	quotations quotation.Repository
}

// NewResolver creates a new Resolver.
func NewResolver(
	suppliers supplier.Repository,
	products product.Repository,
	users user.Repository,
	quotations quotation.Repository,
) *Resolver {
	return &Resolver{
		suppliers:  suppliers,
		products:   products,
		users:      users,
		quotations: quotations,
	}
}

func (r *Resolver) ContactSupplier(ctx context.Context, c *contact.Contact) (*contact.Contact, error) {
	return ResolveOne(ctx, c, contactSupplier, r.suppliers.GetByID)
}

func (r *Resolver) ContactSuppliers(ctx context.Context, cs []*contact.Contact) ([]*contact.Contact, error) {
	return ResolveMany(ctx, cs, contactSupplier, r.suppliers.GetByIDs)
}

func (r *Resolver) QuotationSupplier(ctx context.Context, q *quotation.Quotation) (*quotation.Quotation, error) {
	return ResolveOne(ctx, q, quotationSupplier, r.suppliers.GetByID)
}

func (r *Resolver) QuotationSuppliers(ctx context.Context, qs []*quotation.Quotation) ([]*quotation.Quotation, error) {
	return ResolveMany(ctx, qs, quotationSupplier, r.suppliers.GetByIDs)
}

func (r *Resolver) PurchaseRequestProduct(ctx context.Context, pr *purchase_request.PurchaseRequest) (*purchase_request.PurchaseRequest, error) {
	return ResolveOne(ctx, pr, purchaseRequestProduct, r.products.GetByID)
}

func (r *Resolver) PurchaseRequestProducts(ctx context.Context, prs []*purchase_request.PurchaseRequest) ([]*purchase_request.PurchaseRequest, error) {
	return ResolveMany(ctx, prs, purchaseRequestProduct, r.products.GetByIDs)
}

// PurchaseRequestRequester attaches the user whose email made the request.
// Duplicate users for one email surface as a duplicate AppError.
func (r *Resolver) PurchaseRequestRequester(ctx context.Context, pr *purchase_request.PurchaseRequest) (*purchase_request.PurchaseRequest, error) {
	return ResolveOne(ctx, pr, purchaseRequestRequester, r.users.GetByEmail)
}

func (r *Resolver) PurchaseRequestRequesters(ctx context.Context, prs []*purchase_request.PurchaseRequest) ([]*purchase_request.PurchaseRequest, error) {
	return ResolveMany(ctx, prs, purchaseRequestRequester, r.users.GetByEmails)
}

// PurchaseRequestQuotations attaches the quotations of pr, each with its supplier.
func (r *Resolver) PurchaseRequestQuotations(ctx context.Context, pr *purchase_request.PurchaseRequest) (*purchase_request.PurchaseRequest, error) {
	qs, err := r.quotations.FindByPurchaseRequest(ctx, pr.ID)
	if err != nil {
		return nil, err
	}
	qs, err = r.QuotationSuppliers(ctx, qs)
	if err != nil {
		return nil, err
	}
	return pr.WithQuotations(qs), nil
}

// PurchaseRequestsQuotations does the same for many requests with one
// quotation query and one supplier batch.
func (r *Resolver) PurchaseRequestsQuotations(ctx context.Context, prs []*purchase_request.PurchaseRequest) ([]*purchase_request.PurchaseRequest, error) {
	out := make([]*purchase_request.PurchaseRequest, len(prs))
	if len(prs) == 0 {
		return out, nil
	}

	ids := make([]string, len(prs))
	for i, pr := range prs {
		ids[i] = pr.ID
	}
	qs, err := r.quotations.FindByPurchaseRequests(ctx, ids)
	if err != nil {
		return nil, err
	}
	qs, err = r.QuotationSuppliers(ctx, qs)
	if err != nil {
		return nil, err
	}

	byRequest := Group(qs, func(q *quotation.Quotation) string { return q.PurchaseRequestID })
	for i, pr := range prs {
		attached := byRequest[pr.ID]
		if attached == nil {
			attached = []*quotation.Quotation{}
		}
		out[i] = pr.WithQuotations(attached)
	}
	return out, nil
}

// PurchaseRequestDetail attaches product, requester and quotations.
func (r *Resolver) PurchaseRequestDetail(ctx context.Context, pr *purchase_request.PurchaseRequest) (*purchase_request.PurchaseRequest, error) {
	pr, err := r.PurchaseRequestProduct(ctx, pr)
	if err != nil {
		return nil, err
	}
	pr, err = r.PurchaseRequestRequester(ctx, pr)
	if err != nil {
		return nil, err
	}
	return r.PurchaseRequestQuotations(ctx, pr)
}
