package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement/internal/core/docstore"
)

func TestStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	id, err := s.Create(ctx, "products", docstore.Document{"name": "Cimento", "active": true, "qty": 3})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := s.Get(ctx, "products", id)
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID())
	assert.Equal(t, int64(3), doc["qty"])

	require.NoError(t, s.UpdatePartial(ctx, "products", id, docstore.Document{"active": false}))
	doc, _ = s.Get(ctx, "products", id)
	assert.Equal(t, false, doc["active"])
	assert.Equal(t, "Cimento", doc["name"])

	require.NoError(t, s.Delete(ctx, "products", id))
	_, err = s.Get(ctx, "products", id)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestStore_DeleteMissingIsNotAnError(t *testing.T) {
	assert.NoError(t, New().Delete(context.Background(), "products", "nope"))
}

func TestStore_UpdateMissing(t *testing.T) {
	err := New().UpdatePartial(context.Background(), "products", "nope", docstore.Document{"a": 1})
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestStore_Queries(t *testing.T) {
	ctx := context.Background()
	s := New()

	a, _ := s.Create(ctx, "quotations", docstore.Document{"purchaseRequestId": "pr-1"})
	_, _ = s.Create(ctx, "quotations", docstore.Document{"purchaseRequestId": "pr-1"})
	c, _ := s.Create(ctx, "quotations", docstore.Document{"purchaseRequestId": "pr-2"})
	_, _ = s.Create(ctx, "quotations", docstore.Document{"other": "pr-1"})

	n, err := s.CountEqual(ctx, "quotations", "purchaseRequestId", "pr-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	docs, err := s.QueryIn(ctx, "quotations", "purchaseRequestId", []any{"pr-1", "pr-2"})
	require.NoError(t, err)
	assert.Len(t, docs, 3)

	many, err := s.GetMany(ctx, "quotations", []string{a, "missing", c, a})
	require.NoError(t, err)
	assert.Len(t, many, 2)
}

func TestInstrumented_CountsAndFaults(t *testing.T) {
	ctx := context.Background()
	s := NewInstrumented(New())
	boom := errors.New("unavailable")

	_, _ = s.Create(ctx, "contacts", docstore.Document{"a": 1})
	_, _ = s.GetAll(ctx, "contacts")
	s.FailOn(OpDelete, "contacts", boom)

	assert.ErrorIs(t, s.Delete(ctx, "contacts", "x"), boom)
	assert.Equal(t, 1, s.Calls(OpCreate, "contacts"))
	assert.Equal(t, 1, s.Reads("contacts"))
	assert.Equal(t, 2, s.Writes("contacts"))

	s.Reset()
	assert.NoError(t, s.Delete(ctx, "contacts", "x"))
}
