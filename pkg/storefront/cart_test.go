package storefront_test

import (
	"testing"

	"lyyn/pkg/storefront"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(id, size string, qty int, price int64) storefront.CartLine {
	return storefront.CartLine{
		LineKey:  storefront.LineKey{ProductID: id, Size: size, Color: "Standard"},
		Name:     "Item " + id,
		Price:    price,
		Quantity: qty,
	}
}

func reduce(s storefront.CartState, actions ...storefront.Action) storefront.CartState {
	for _, a := range actions {
		s = storefront.CartReducer(s, a)
	}
	return s
}

func TestCartReducer_AddLineMergesAndCaps(t *testing.T) {
	s := reduce(storefront.CartState{},
		storefront.AddLine{Line: line("P1", "M", 4, 999)},
		storefront.AddLine{Line: line("P1", "M", 3, 999)},
	)
	require.Len(t, s.Lines, 1)
	assert.Equal(t, 7, s.Lines[0].Quantity)

	s = reduce(s, storefront.AddLine{Line: line("P1", "M", 9, 999)})
	assert.Equal(t, storefront.MaxLineQuantity, s.Lines[0].Quantity)

	custom := line("P1", "M", 1, 999)
	custom.CustomText = "ASHA"
	s = reduce(s, storefront.AddLine{Line: custom})
	assert.Len(t, s.Lines, 2, "custom text is part of the line identity")

	s = reduce(storefront.CartState{}, storefront.AddLine{Line: line("P2", "L", 0, 100)})
	assert.Equal(t, 1, s.Lines[0].Quantity)
}

func TestCartReducer_SetQuantity(t *testing.T) {
	s := reduce(storefront.CartState{}, storefront.AddLine{Line: line("P1", "M", 2, 999)})
	key := s.Lines[0].LineKey

	assert.Equal(t, 5, reduce(s, storefront.SetQuantity{Key: key, Quantity: 5}).Lines[0].Quantity)
	assert.Equal(t, 10, reduce(s, storefront.SetQuantity{Key: key, Quantity: 25}).Lines[0].Quantity)
	assert.Equal(t, 2, reduce(s, storefront.SetQuantity{Key: key, Quantity: 0}).Lines[0].Quantity)
	assert.Equal(t, 2, reduce(s, storefront.SetQuantity{Key: key, Quantity: -3}).Lines[0].Quantity)
}

func TestCartReducer_ClampQuantityOnlyLowers(t *testing.T) {
	s := reduce(storefront.CartState{}, storefront.AddLine{Line: line("P1", "M", 3, 999)})
	key := s.Lines[0].LineKey

	assert.Equal(t, 1, reduce(s, storefront.ClampQuantity{Key: key, Max: 1}).Lines[0].Quantity)
	assert.Equal(t, 3, reduce(s, storefront.ClampQuantity{Key: key, Max: 8}).Lines[0].Quantity)
	assert.Equal(t, 3, reduce(s, storefront.ClampQuantity{Key: key, Max: 0}).Lines[0].Quantity)
}

func TestCartReducer_ChangeLineSize(t *testing.T) {
	s := reduce(storefront.CartState{},
		storefront.AddLine{Line: line("P1", "M", 3, 999)},
		storefront.AddLine{Line: line("P2", "S", 1, 500)},
	)
	before := s.Totals().ItemCount
	oldKey := s.Lines[0].LineKey

	s = reduce(s, storefront.ChangeLineSize{Key: oldKey, Size: "L"})
	require.Len(t, s.Lines, 2)
	_, found := s.Find(oldKey)
	assert.False(t, found, "old key is gone")
	moved, found := s.Find(storefront.LineKey{ProductID: "P1", Size: "L", Color: "Standard"})
	require.True(t, found)
	assert.Equal(t, 3, moved.Quantity)
	assert.Equal(t, "P1", s.Lines[0].ProductID, "line keeps its position")
	assert.Equal(t, before, s.Totals().ItemCount)

	same := reduce(s, storefront.ChangeLineSize{Key: moved.LineKey, Size: "L"})
	assert.Equal(t, s, same)
}

func TestCartReducer_ChangeLineSizeMergesIntoExistingLine(t *testing.T) {
	s := reduce(storefront.CartState{},
		storefront.AddLine{Line: line("P1", "M", 7, 999)},
		storefront.AddLine{Line: line("P1", "L", 6, 999)},
	)
	s = reduce(s, storefront.ChangeLineSize{Key: s.Lines[0].LineKey, Size: "L"})
	require.Len(t, s.Lines, 1)
	assert.Equal(t, "L", s.Lines[0].Size)
	assert.Equal(t, storefront.MaxLineQuantity, s.Lines[0].Quantity)
}

func TestCartReducer_RemoveClearReplace(t *testing.T) {
	s := reduce(storefront.CartState{},
		storefront.AddLine{Line: line("P1", "M", 1, 999)},
		storefront.AddLine{Line: line("P2", "S", 1, 500)},
	)
	removed := reduce(s, storefront.RemoveLine{Key: s.Lines[0].LineKey})
	require.Len(t, removed.Lines, 1)
	assert.Equal(t, "P2", removed.Lines[0].ProductID)
	assert.Len(t, s.Lines, 2, "earlier state is not modified")

	assert.Empty(t, reduce(s, storefront.ClearCart{}).Lines)

	replaced := reduce(storefront.CartState{}, storefront.ReplaceLines{Lines: []storefront.CartLine{
		line("P1", "M", 8, 999), line("P1", "M", 8, 999), line("P3", "S", 2, 10),
	}})
	require.Len(t, replaced.Lines, 2)
	assert.Equal(t, 10, replaced.Lines[0].Quantity)
}

func TestCartTotals(t *testing.T) {
	s := reduce(storefront.CartState{},
		storefront.AddLine{Line: line("P1", "M", 2, 999)},
		storefront.AddLine{Line: line("P2", "S", 1, 1499)},
	)
	totals := s.Totals()
	assert.Equal(t, int64(3497), totals.Subtotal)
	assert.Equal(t, int64(4896), totals.OriginalTotal) // round(3497 * 1.4) = round(4895.8)
	assert.Equal(t, int64(1399), totals.Savings)
	assert.Equal(t, 3, totals.ItemCount)
	assert.Equal(t, 2, totals.LineCount)

	assert.Equal(t, int64(1998), s.Lines[0].LineTotal())
	assert.Equal(t, int64(2798), s.Lines[0].LineOriginal()) // round(999 * 1.4) = 1399

	for delta := -1; delta <= 5; delta++ {
		next := reduce(s, storefront.SetQuantity{Key: s.Lines[0].LineKey, Quantity: 2 + delta})
		assert.Equal(t, 999*int64(delta), next.Totals().Subtotal-totals.Subtotal)
	}

	assert.Equal(t, storefront.Totals{}, storefront.CartState{}.Totals())
}
