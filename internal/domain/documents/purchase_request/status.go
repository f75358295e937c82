package purchase_request

import (
	"context"

	"procurement/internal/domain/documents/quotation"
)

// Status is the lifecycle state of a purchase request.
type Status string

const (
	StatusOpen    Status = "open"
	StatusQuoting Status = "quoting"
	StatusQuoted  Status = "quoted"
)

var statusLabels = map[Status]string{
	StatusOpen:    "Aberta",
	StatusQuoting: "Em cotação",
	StatusQuoted:  "Cotada",
}

// Label returns the display name.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// StatusForCount maps a quotation count to a status:
// 0 is Open, below RequiredQuoteCount is Quoting, anything else is Quoted.
// Counts above the requirement come from concurrent creation and still read as Quoted.
func StatusForCount(count int) Status {
	switch {
	case count <= 0:
		return StatusOpen
	case count < quotation.RequiredQuoteCount:
		return StatusQuoting
	default:
		return StatusQuoted
	}
}

// QuotationCounter is the slice of the quotation repository the engine reads.
type QuotationCounter interface {
	CountByPurchaseRequest(ctx context.Context, purchaseRequestID string) (int, error)
	FindByPurchaseRequests(ctx context.Context, purchaseRequestIDs []string) ([]*quotation.Quotation, error)
}

// StatusEngine derives statuses on read. Nothing it computes is ever stored.
type StatusEngine struct {
	quotations QuotationCounter
}

// NewStatusEngine creates a StatusEngine.
func NewStatusEngine(quotations QuotationCounter) *StatusEngine {
	return &StatusEngine{quotations: quotations}
}

// Status computes the status of one request with a store-side count.
func (e *StatusEngine) Status(ctx context.Context, purchaseRequestID string) (Status, error) {
	count, err := e.quotations.CountByPurchaseRequest(ctx, purchaseRequestID)
	if err != nil {
		return "", err
	}
	return StatusForCount(count), nil
}

// WithStatus returns a copy of pr with Status filled.
func (e *StatusEngine) WithStatus(ctx context.Context, pr *PurchaseRequest) (*PurchaseRequest, error) {
	status, err := e.Status(ctx, pr.ID)
	if err != nil {
		return nil, err
	}
	return pr.WithStatus(status), nil
}

// WithStatuses returns copies of prs with Status filled from a single batched
// quotation query.
func (e *StatusEngine) WithStatuses(ctx context.Context, prs []*PurchaseRequest) ([]*PurchaseRequest, error) {
	if len(prs) == 0 {
		return []*PurchaseRequest{}, nil
	}

	ids := make([]string, 0, len(prs))
	for _, pr := range prs {
		ids = append(ids, pr.ID)
	}

	quotes, err := e.quotations.FindByPurchaseRequests(ctx, ids)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(prs))
	for _, q := range quotes {
		counts[q.PurchaseRequestID]++
	}

	out := make([]*PurchaseRequest, len(prs))
	for i, pr := range prs {
		out[i] = pr.WithStatus(StatusForCount(counts[pr.ID]))
	}
	return out, nil
}
