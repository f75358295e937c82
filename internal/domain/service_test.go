package domain_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement/internal/core/apperror"
	"procurement/internal/domain"
	"procurement/internal/domain/cascade"
	"procurement/internal/domain/catalogs/contact"
	"procurement/internal/domain/catalogs/supplier"
	"procurement/internal/infrastructure/storage/document_repo"
	"procurement/internal/infrastructure/storage/memory"
)

type recorder struct {
	mu      sync.Mutex
	actions []domain.AuditAction
}

func (r *recorder) Record(_ context.Context, _, _ string, action domain.AuditAction, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
}

type fixture struct {
	store     *memory.Instrumented
	suppliers *supplier.Service
	contacts  *document_repo.ContactRepo
	audit     *recorder
}

func newFixture() *fixture {
	store := memory.NewInstrumented(memory.New())
	supplierRepo := document_repo.NewSupplierRepo(store)
	contactRepo := document_repo.NewContactRepo(store)
	audit := &recorder{}

	orchestrator := cascade.New(cascade.Config{
		Suppliers: supplierRepo,
		Contacts:  contactRepo,
	})

	return &fixture{
		store:     store,
		suppliers: supplier.NewService(supplierRepo, orchestrator, audit),
		contacts:  contactRepo,
		audit:     audit,
	}
}

func validSupplier() *supplier.Supplier {
	return supplier.NewSupplier(" Casa do Construtor ", supplier.TypeOrganization,
		"12345678000199", "Curitiba", "pr", "80000000")
}

func TestCreate_NormalizesAndValidates(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	id, err := f.suppliers.Create(ctx, validSupplier())
	require.NoError(t, err)

	got, err := f.suppliers.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Casa do Construtor", got.Name)
	assert.Equal(t, "12.345.678/0001-99", got.TaxDocument)
	assert.Equal(t, "PR", got.State)
	assert.Equal(t, "80000-000", got.PostalCode)
	assert.Equal(t, []domain.AuditAction{domain.AuditCreate}, f.audit.actions)
}

func TestCreate_InvalidWritesNothing(t *testing.T) {
	f := newFixture()
	s := validSupplier()
	s.TaxDocument = "123"

	_, err := f.suppliers.Create(context.Background(), s)

	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	assert.Zero(t, f.store.Writes(supplier.Collection))
}

func TestGetByID_MissingIsNotFound(t *testing.T) {
	_, err := newFixture().suppliers.GetByID(context.Background(), "missing")

	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdate_EmptyPatchReturnsCurrent(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	id, err := f.suppliers.Create(ctx, validSupplier())
	require.NoError(t, err)
	f.store.Reset()

	got, err := f.suppliers.Update(ctx, id, &supplier.Patch{})

	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Zero(t, f.store.Writes(supplier.Collection))
}

func TestUpdate_WritesPatchedKeysOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	id, err := f.suppliers.Create(ctx, validSupplier())
	require.NoError(t, err)

	city := "  Londrina "
	got, err := f.suppliers.Update(ctx, id, &supplier.Patch{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Londrina", got.City)

	stored, err := f.suppliers.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Londrina", stored.City)
	assert.Equal(t, "Casa do Construtor", stored.Name)
}

func TestUpdate_InvalidPatchRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	id, err := f.suppliers.Create(ctx, validSupplier())
	require.NoError(t, err)

	state := "Paraná"
	_, err = f.suppliers.Update(ctx, id, &supplier.Patch{State: &state})

	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestDelete_CascadesContacts(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	id, err := f.suppliers.Create(ctx, validSupplier())
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err := f.contacts.Create(ctx, contact.NewContact("Ana", "ana@x.com", "(41) 99999-0000", id))
		require.NoError(t, err)
	}

	require.NoError(t, f.suppliers.Delete(ctx, id))

	left, err := f.contacts.FindBySupplier(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, left)
	_, err = f.suppliers.GetByID(ctx, id)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDelete_MissingIDStillCleansDependents(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	_, err := f.contacts.Create(ctx, contact.NewContact("Ana", "ana@x.com", "(41) 99999-0000", "gone"))
	require.NoError(t, err)

	require.NoError(t, f.suppliers.Delete(ctx, "gone"))

	left, _ := f.contacts.FindBySupplier(ctx, "gone")
	assert.Empty(t, left)
}

func TestDelete_CascadeFailureKeepsSupplier(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	id, err := f.suppliers.Create(ctx, validSupplier())
	require.NoError(t, err)
	_, err = f.contacts.Create(ctx, contact.NewContact("Ana", "ana@x.com", "(41) 99999-0000", id))
	require.NoError(t, err)
	f.store.FailOn(memory.OpDelete, contact.Collection, errors.New("unavailable"))

	err = f.suppliers.Delete(ctx, id)

	assert.True(t, apperror.IsCode(err, apperror.CodeCascadeAborted))
	got, err := f.suppliers.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
}

func TestHookRegistry_StopsAtFirstError(t *testing.T) {
	hooks := domain.NewHookRegistry[*supplier.Supplier]()
	var ran []string
	hooks.OnBeforeCreate(func(context.Context, *supplier.Supplier) error {
		ran = append(ran, "first")
		return errors.New("stop")
	})
	hooks.OnBeforeCreate(func(context.Context, *supplier.Supplier) error {
		ran = append(ran, "second")
		return nil
	})

	err := hooks.Run(context.Background(), domain.BeforeCreate, &supplier.Supplier{})

	assert.EqualError(t, err, "stop")
	assert.Equal(t, []string{"first"}, ran)
}

func TestUpdate_ImmutableFieldRefusedForAnyPatchType(t *testing.T) {
	ctx := context.Background()
	store := memory.NewInstrumented(memory.New())
	repo := document_repo.NewSupplierRepo(store)
	svc := domain.NewEntityService(domain.EntityServiceConfig[*supplier.Supplier]{
		Repo:            repo,
		NewFn:           func() *supplier.Supplier { return &supplier.Supplier{} },
		EntityName:      "supplier",
		ImmutableFields: []string{"document"},
	})
	id, err := svc.Create(ctx, validSupplier())
	require.NoError(t, err)
	store.Reset()

	doc := "98765432000110"
	patches := []any{
		&supplier.Patch{TaxDocument: &doc},
		map[string]any{"document": doc, "city": "Londrina"},
	}
	for _, patch := range patches {
		_, err := svc.Update(ctx, id, patch)
		assert.True(t, apperror.IsCode(err, apperror.CodeImmutableField))
	}
	assert.Zero(t, store.Writes(supplier.Collection))

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "12.345.678/0001-99", got.TaxDocument)
	assert.Equal(t, "Curitiba", got.City)
}

func TestUpdate_BeforePatchSeesStoredEntity(t *testing.T) {
	ctx := context.Background()
	repo := document_repo.NewSupplierRepo(memory.New())
	svc := domain.NewEntityService(domain.EntityServiceConfig[*supplier.Supplier]{
		Repo:       repo,
		NewFn:      func() *supplier.Supplier { return &supplier.Supplier{} },
		EntityName: "supplier",
	})
	var seen, merged string
	svc.Hooks().OnBeforePatch(func(_ context.Context, s *supplier.Supplier) error {
		seen = s.City
		return nil
	})
	svc.Hooks().OnBeforeUpdate(func(_ context.Context, s *supplier.Supplier) error {
		merged = s.City
		return nil
	})
	id, err := svc.Create(ctx, validSupplier())
	require.NoError(t, err)

	_, err = svc.Update(ctx, id, map[string]any{"city": "Londrina"})

	require.NoError(t, err)
	assert.Equal(t, "Curitiba", seen)
	assert.Equal(t, "Londrina", merged)
}
