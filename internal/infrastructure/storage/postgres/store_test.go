package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"procurement/internal/core/docstore"
)

// setupStore starts PostgreSQL in a container. Set PROCUREMENT_INTEGRATION=1 to run.
func setupStore(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("PROCUREMENT_INTEGRATION") != "1" {
		t.Skip("set PROCUREMENT_INTEGRATION=1 to run PostgreSQL integration tests")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())
	pool, err := NewPool(ctx, DefaultPoolConfig(dsn))
	require.NoError(t, err)

	store := NewStore(pool)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.EnsureSchema(ctx))
	return store
}

func TestStore_Integration(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	a, err := store.Create(ctx, "quotations", docstore.Document{"purchaseRequestId": "pr-1", "price": "10.50", "qty": int64(3)})
	require.NoError(t, err)
	b, err := store.Create(ctx, "quotations", docstore.Document{"purchaseRequestId": "pr-1", "price": "9"})
	require.NoError(t, err)
	_, err = store.Create(ctx, "quotations", docstore.Document{"purchaseRequestId": "pr-2"})
	require.NoError(t, err)
	_, err = store.Create(ctx, "contacts", docstore.Document{"purchaseRequestId": "pr-1"})
	require.NoError(t, err)

	t.Run("get", func(t *testing.T) {
		doc, err := store.Get(ctx, "quotations", a)
		require.NoError(t, err)
		assert.Equal(t, a, doc.ID())
		assert.True(t, docstore.Equal(int64(3), doc["qty"]))

		_, err = store.Get(ctx, "quotations", "missing")
		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("get many skips missing", func(t *testing.T) {
		docs, err := store.GetMany(ctx, "quotations", []string{a, "missing", b})
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("queries are scoped to the collection", func(t *testing.T) {
		n, err := store.CountEqual(ctx, "quotations", "purchaseRequestId", "pr-1")
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		docs, err := store.QueryIn(ctx, "quotations", "purchaseRequestId", []any{"pr-1", "pr-2"})
		require.NoError(t, err)
		assert.Len(t, docs, 3)

		byID, err := store.QueryEqual(ctx, "quotations", docstore.IDField, b)
		require.NoError(t, err)
		require.Len(t, byID, 1)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		require.NoError(t, store.UpdatePartial(ctx, "quotations", a, docstore.Document{"price": "11"}))
		doc, err := store.Get(ctx, "quotations", a)
		require.NoError(t, err)
		assert.Equal(t, "11", doc["price"])
		assert.Equal(t, "pr-1", doc["purchaseRequestId"])

		err = store.UpdatePartial(ctx, "quotations", "missing", docstore.Document{"price": "1"})
		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "quotations", b))
		require.NoError(t, store.Delete(ctx, "quotations", b))
		n, err := store.CountEqual(ctx, "quotations", "purchaseRequestId", "pr-1")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("import", func(t *testing.T) {
		ids, err := store.Import(ctx, "products", []docstore.Document{{"name": "A"}, {"name": "B"}})
		require.NoError(t, err)
		require.Len(t, ids, 2)
		docs, err := store.GetAll(ctx, "products")
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})
}
