package contact_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement/internal/core/apperror"
	"procurement/internal/domain/catalogs/contact"
	"procurement/internal/domain/catalogs/supplier"
	"procurement/internal/infrastructure/storage/document_repo"
	"procurement/internal/infrastructure/storage/memory"
)

func setup(t *testing.T) (*contact.Service, *document_repo.ContactRepo, string) {
	t.Helper()
	store := memory.New()
	suppliers := document_repo.NewSupplierRepo(store)
	contacts := document_repo.NewContactRepo(store)

	sid, err := suppliers.Create(context.Background(),
		supplier.NewSupplier("Casa do Construtor", supplier.TypeOrganization, "12345678000199", "Curitiba", "PR", "80010000"))
	require.NoError(t, err)

	return contact.NewService(contacts, suppliers, nil), contacts, sid
}

func TestCreate_RequiresExistingSupplier(t *testing.T) {
	svc, contacts, sid := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, contact.NewContact("Ana", "ana@x.com", "(41) 99999-0000", "missing"))
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	id, err := svc.Create(ctx, contact.NewContact(" Ana ", " ANA@x.com", "(41) 99999-0000", sid))
	require.NoError(t, err)

	stored, err := contacts.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", stored.Name)
	assert.Equal(t, "ana@x.com", stored.Email)
}

func TestUpdate_RejectsDanglingSupplier(t *testing.T) {
	svc, contacts, sid := setup(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, contact.NewContact("Ana", "ana@x.com", "(41) 99999-0000", sid))
	require.NoError(t, err)

	missing := "missing"
	_, err = svc.Update(ctx, id, contact.Patch{SupplierID: &missing})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	stored, err := contacts.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, sid, stored.SupplierID)
}

func TestFindBySupplier(t *testing.T) {
	svc, _, sid := setup(t)
	ctx := context.Background()

	for _, name := range []string{"Ana", "Bruno"} {
		_, err := svc.Create(ctx, contact.NewContact(name, name+"@x.com", "(41) 99999-0000", sid))
		require.NoError(t, err)
	}

	got, err := svc.FindBySupplier(ctx, sid)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	none, err := svc.FindBySupplier(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, none)
}
