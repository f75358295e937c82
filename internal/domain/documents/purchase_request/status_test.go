package purchase_request

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement/internal/domain/documents/quotation"
)

func TestStatusForCount(t *testing.T) {
	tests := []struct {
		count int
		want  Status
	}{
		{0, StatusOpen},
		{1, StatusQuoting},
		{2, StatusQuoting},
		{3, StatusQuoted},
		{4, StatusQuoted},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusForCount(tt.count), "count=%d", tt.count)
	}
}

func TestStatus_Label(t *testing.T) {
	assert.Equal(t, "Aberta", StatusOpen.Label())
	assert.Equal(t, "Em cotação", StatusQuoting.Label())
	assert.Equal(t, "Cotada", StatusQuoted.Label())
	assert.Equal(t, "custom", Status("custom").Label())
}

type fakeQuotations struct {
	byRequest map[string]int
	batches   int
	err       error
}

func (f *fakeQuotations) CountByPurchaseRequest(_ context.Context, id string) (int, error) {
	return f.byRequest[id], f.err
}

func (f *fakeQuotations) FindByPurchaseRequests(_ context.Context, ids []string) ([]*quotation.Quotation, error) {
	f.batches++
	if f.err != nil {
		return nil, f.err
	}
	var out []*quotation.Quotation
	for _, id := range ids {
		for i := 0; i < f.byRequest[id]; i++ {
			out = append(out, &quotation.Quotation{PurchaseRequestID: id})
		}
	}
	return out, nil
}

func TestStatusEngine_WithStatuses_SingleBatch(t *testing.T) {
	fq := &fakeQuotations{byRequest: map[string]int{"a": 0, "b": 2, "c": 3}}
	engine := NewStatusEngine(fq)

	prs := []*PurchaseRequest{{}, {}, {}}
	prs[0].ID, prs[1].ID, prs[2].ID = "a", "b", "c"

	out, err := engine.WithStatuses(context.Background(), prs)
	require.NoError(t, err)

	assert.Equal(t, 1, fq.batches)
	assert.Equal(t, StatusOpen, out[0].Status)
	assert.Equal(t, StatusQuoting, out[1].Status)
	assert.Equal(t, StatusQuoted, out[2].Status)

	// inputs are not mutated
	assert.Empty(t, prs[1].Status)
}

func TestStatusEngine_WithStatus_PropagatesError(t *testing.T) {
	boom := errors.New("unavailable")
	engine := NewStatusEngine(&fakeQuotations{err: boom})

	pr := &PurchaseRequest{}
	pr.ID = "a"

	_, err := engine.WithStatus(context.Background(), pr)
	assert.ErrorIs(t, err, boom)
}

func TestStatusEngine_Empty(t *testing.T) {
	fq := &fakeQuotations{}
	out, err := NewStatusEngine(fq).WithStatuses(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Zero(t, fq.batches)
}
