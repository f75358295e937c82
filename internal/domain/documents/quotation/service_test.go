package quotation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement/internal/core/apperror"
	"procurement/internal/core/types"
	"procurement/internal/domain/catalogs/supplier"
	"procurement/internal/domain/documents/purchase_request"
	"procurement/internal/domain/documents/quotation"
	"procurement/internal/infrastructure/storage/document_repo"
	"procurement/internal/infrastructure/storage/memory"
)

type fixture struct {
	svc        *quotation.Service
	prs        *document_repo.PurchaseRequestRepo
	quotations *document_repo.QuotationRepo
	prID       string
	supplierID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	suppliers := document_repo.NewSupplierRepo(store)
	prs := document_repo.NewPurchaseRequestRepo(store)
	quotations := document_repo.NewQuotationRepo(store)

	sid, err := suppliers.Create(ctx, supplier.NewSupplier("Casa do Construtor",
		supplier.TypeOrganization, "12.345.678/0001-99", "Curitiba", "PR", "80000-000"))
	require.NoError(t, err)
	prID, err := prs.Create(ctx, purchase_request.NewPurchaseRequest("a@x.com", "prod", 1))
	require.NoError(t, err)

	return &fixture{
		svc: quotation.NewService(quotation.ServiceConfig{
			Repo:             quotations,
			PurchaseRequests: prs,
			Suppliers:        suppliers,
		}),
		prs:        prs,
		quotations: quotations,
		prID:       prID,
		supplierID: sid,
	}
}

func TestCreate_RefusesFourthQuotation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i := 0; i < quotation.RequiredQuoteCount; i++ {
		ok, count, err := f.svc.CanAddQuotation(ctx, f.prID)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, i, count)

		_, err = f.svc.Create(ctx, quotation.NewQuotation(f.prID, f.supplierID, types.MustMoney("100")))
		require.NoError(t, err)
	}

	ok, count, err := f.svc.CanAddQuotation(ctx, f.prID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 3, count)

	_, err = f.svc.Create(ctx, quotation.NewQuotation(f.prID, f.supplierID, types.MustMoney("90")))
	assert.True(t, apperror.IsCode(err, apperror.CodeQuoteLimit))

	n, err := f.quotations.CountByPurchaseRequest(ctx, f.prID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestCreate_RejectsDanglingReferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Create(ctx, quotation.NewQuotation("missing", f.supplierID, types.MustMoney("1")))
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = f.svc.Create(ctx, quotation.NewQuotation(f.prID, "missing", types.MustMoney("1")))
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestCreate_RejectsNegativePrice(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), quotation.NewQuotation(f.prID, f.supplierID, types.MustMoney("-1")))

	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestUpdate_ChangesPriceOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	q := quotation.NewQuotation(f.prID, f.supplierID, types.MustMoney("100"))
	q.Observations = "frete incluso"
	id, err := f.svc.Create(ctx, q)
	require.NoError(t, err)

	price := types.MustMoney("95.50")
	updated, err := f.svc.Update(ctx, id, &quotation.Patch{Price: &price})
	require.NoError(t, err)
	assert.True(t, price.Equal(updated.Price))

	stored, err := f.svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, price.Equal(stored.Price))
	assert.Equal(t, "frete incluso", stored.Observations)
	assert.Equal(t, f.prID, stored.PurchaseRequestID)
}

func TestUpdate_CannotMoveToAnotherRequest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	fullID, err := f.prs.Create(ctx, purchase_request.NewPurchaseRequest("b@x.com", "prod", 2))
	require.NoError(t, err)
	for i := 0; i < quotation.RequiredQuoteCount; i++ {
		_, err := f.svc.Create(ctx, quotation.NewQuotation(fullID, f.supplierID, types.MustMoney("10")))
		require.NoError(t, err)
	}
	id, err := f.svc.Create(ctx, quotation.NewQuotation(f.prID, f.supplierID, types.MustMoney("12")))
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, id, map[string]any{quotation.PurchaseRequestField: fullID, "observations": "moved"})
	assert.True(t, apperror.IsCode(err, apperror.CodeImmutableField))

	n, err := f.quotations.CountByPurchaseRequest(ctx, fullID)
	require.NoError(t, err)
	assert.Equal(t, quotation.RequiredQuoteCount, n)

	stored, err := f.svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, f.prID, stored.PurchaseRequestID)
	assert.Empty(t, stored.Observations)
}
