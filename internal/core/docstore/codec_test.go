package docstore

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockBase struct {
	ID string `doc:"-"`
}

type mockItem struct {
	MockBase
	Name     string          `doc:"name"`
	Active   bool            `doc:"active"`
	Unit     unit            `doc:"unit"`
	Quantity int             `doc:"quantity"`
	Price    decimal.Decimal `doc:"price"`
	Note     string          `doc:"note,omitempty"`
	Related  *mockItem       `doc:"-"`
}

type mockPatch struct {
	Name     *string `doc:"name"`
	Active   *bool   `doc:"active"`
	Quantity *int    `doc:"quantity"`
}

func TestKeys(t *testing.T) {
	keys := Keys[mockItem]()

	assert.ElementsMatch(t, []string{"name", "active", "unit", "quantity", "price", "note"}, keys)
}

func TestEncode_SkipsTransientAndID(t *testing.T) {
	item := &mockItem{
		MockBase: MockBase{ID: "abc"},
		Name:     "Cimento",
		Active:   true,
		Unit:     "KG",
		Quantity: 4,
		Price:    decimal.RequireFromString("10.25"),
		Related:  &mockItem{Name: "other"},
	}

	doc := Encode(item)

	assert.Equal(t, Document{
		"name":     "Cimento",
		"active":   true,
		"unit":     "KG",
		"quantity": int64(4),
		"price":    "10.25",
	}, doc)
}

func TestEncodePatch_DropsUnset(t *testing.T) {
	name := "Novo"
	active := false

	doc := EncodePatch(&mockPatch{Name: &name, Active: &active})
	assert.Equal(t, Document{"name": "Novo", "active": false}, doc)

	assert.Empty(t, EncodePatch(&mockPatch{}))
	assert.Empty(t, EncodePatch(nil))
	assert.Equal(t, Document{"name": "x"}, EncodePatch(map[string]any{"name": "x", "active": nil, IDField: "id-1"}))
}

func TestDecode_ToleratesNumericDrift(t *testing.T) {
	doc := Document{
		IDField:    "abc",
		"name":     "Areia",
		"active":   true,
		"unit":     "M³",
		"quantity": float64(12),
		"price":    "99.90",
	}

	var item mockItem
	require.NoError(t, Decode(doc, &item))

	assert.Equal(t, "", item.ID)
	assert.Equal(t, "Areia", item.Name)
	assert.Equal(t, unit("M³"), item.Unit)
	assert.Equal(t, 12, item.Quantity)
	assert.True(t, decimal.RequireFromString("99.9").Equal(item.Price))
	assert.Nil(t, item.Related)
}

func TestDecode_PriceFromNumber(t *testing.T) {
	var item mockItem
	require.NoError(t, Decode(Document{"price": float64(7.5)}, &item))

	assert.True(t, decimal.NewFromFloat(7.5).Equal(item.Price))
}
