package audit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "procurement/internal/core/context"
	"procurement/internal/domain"
	"procurement/internal/infrastructure/storage/memory"
)

func newRecorder(t *testing.T, store *memory.Instrumented) *Recorder {
	t.Helper()
	r, err := NewRecorder(store)
	require.NoError(t, err)
	t.Cleanup(r.Close)

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return r
}

func TestRecord_HistoryInOrder(t *testing.T) {
	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{Email: "ana@x.com"})
	r := newRecorder(t, memory.NewInstrumented(memory.New()))

	r.Record(ctx, "supplier", "s-1", domain.AuditCreate, map[string]any{"name": "Casa"})
	r.Record(ctx, "supplier", "s-1", domain.AuditUpdate, map[string]any{"city": map[string]any{"old": "A", "new": "B"}})
	r.Record(ctx, "contact", "s-1", domain.AuditCreate, nil)
	r.Record(ctx, "supplier", "s-1", domain.AuditDelete, nil)

	entries, err := r.History(ctx, "supplier", "s-1")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, domain.AuditCreate, entries[0].Action)
	assert.Equal(t, domain.AuditUpdate, entries[1].Action)
	assert.Equal(t, domain.AuditDelete, entries[2].Action)
	assert.Equal(t, "ana@x.com", entries[0].Actor)
	assert.NotEmpty(t, entries[0].ID)

	var created map[string]any
	require.NoError(t, entries[0].DecodeChanges(&created))
	assert.Equal(t, "Casa", created["name"])
	assert.Empty(t, entries[2].Changes)
}

func TestRecord_CompressesLargePayloads(t *testing.T) {
	ctx := context.Background()
	store := memory.NewInstrumented(memory.New())
	r := newRecorder(t, store)

	big := strings.Repeat("observação ", 1000)
	r.Record(ctx, "quotation", "q-1", domain.AuditCreate, map[string]any{"observations": big})

	docs, err := store.GetAll(ctx, Collection)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, string(CompressionZstd), docs[0]["compression"])
	assert.Less(t, len(docs[0]["changes"].(string)), len(big))

	entries, err := r.History(ctx, "quotation", "q-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, CompressionNone, entries[0].Compression)

	var changes map[string]string
	require.NoError(t, entries[0].DecodeChanges(&changes))
	assert.Equal(t, big, changes["observations"])
}

func TestRecord_StoreFailureIsSwallowed(t *testing.T) {
	store := memory.NewInstrumented(memory.New())
	store.FailOn(memory.OpCreate, Collection, errors.New("unavailable"))
	r := newRecorder(t, store)

	assert.NotPanics(t, func() {
		r.Record(context.Background(), "supplier", "s-1", domain.AuditCreate, nil)
	})
	assert.Equal(t, 1, store.Calls(memory.OpCreate, Collection))
}
