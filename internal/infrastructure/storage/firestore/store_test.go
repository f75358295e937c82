package firestore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement/internal/core/docstore"
)

// newEmulatorStore connects to the emulator named by FIRESTORE_EMULATOR_HOST.
// Each test gets its own collection prefix.
func newEmulatorStore(t *testing.T) (*Store, string) {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	s, err := New(context.Background(), Config{ProjectID: "procurement-test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, fmt.Sprintf("t%d-", time.Now().UnixNano())
}

func TestStore_Emulator(t *testing.T) {
	s, prefix := newEmulatorStore(t)
	ctx := context.Background()
	quotes := prefix + "quotations"

	a, err := s.Create(ctx, quotes, docstore.Document{"purchaseRequestId": "pr-1", "qty": 3})
	require.NoError(t, err)
	b, err := s.Create(ctx, quotes, docstore.Document{"purchaseRequestId": "pr-1"})
	require.NoError(t, err)
	_, err = s.Create(ctx, quotes, docstore.Document{"purchaseRequestId": "pr-2"})
	require.NoError(t, err)

	doc, err := s.Get(ctx, quotes, a)
	require.NoError(t, err)
	assert.Equal(t, int64(3), doc["qty"])

	_, err = s.Get(ctx, quotes, "missing")
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	many, err := s.GetMany(ctx, quotes, []string{a, "missing", b})
	require.NoError(t, err)
	assert.Len(t, many, 2)

	n, err := s.CountEqual(ctx, quotes, "purchaseRequestId", "pr-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	values := make([]any, 0, 40)
	for i := 0; i < 39; i++ {
		values = append(values, fmt.Sprintf("pr-x%d", i))
	}
	values = append(values, "pr-2")
	in, err := s.QueryIn(ctx, quotes, "purchaseRequestId", values)
	require.NoError(t, err)
	assert.Len(t, in, 1)

	require.NoError(t, s.UpdatePartial(ctx, quotes, a, docstore.Document{"qty": 4}))
	doc, err = s.Get(ctx, quotes, a)
	require.NoError(t, err)
	assert.Equal(t, int64(4), doc["qty"])
	assert.Equal(t, "pr-1", doc["purchaseRequestId"])

	assert.ErrorIs(t, s.UpdatePartial(ctx, quotes, "missing", docstore.Document{"qty": 1}), docstore.ErrNotFound)

	require.NoError(t, s.Delete(ctx, quotes, b))
	all, err := s.GetAll(ctx, quotes)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
