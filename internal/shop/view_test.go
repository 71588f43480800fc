// AngelaMos | 2026
// view_test.go

package shop

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/storefront-api/internal/product"
)

func TestProductView(t *testing.T) {
	v := NewProductView(product.ProductResponse{
		Price:           decimal.RequireFromString("49.99"),
		DiscountPercent: 20,
		Stock:           4,
	})

	assert.True(t, v.HasDiscount())
	assert.Equal(t, "20% OFF", v.DiscountLabel())
	assert.Equal(t, "49.99", v.OriginalPrice())
	assert.Equal(t, "39.99", v.FinalPrice())

	lo, hi := v.QuantityBounds()
	assert.Equal(t, 1, lo)
	assert.Equal(t, 4, hi)
	assert.Equal(t, 1, v.ClampQuantity(-3))
	assert.Equal(t, 4, v.ClampQuantity(12))
}

func TestProductViewWithoutDiscountOrStock(t *testing.T) {
	v := NewProductView(product.ProductResponse{Price: decimal.NewFromInt(5)})

	assert.False(t, v.HasDiscount())
	assert.Empty(t, v.DiscountLabel())
	assert.Equal(t, "5.00", v.FinalPrice())
	assert.False(t, v.InStock())

	lo, hi := v.QuantityBounds()
	assert.Zero(t, lo)
	assert.Zero(t, hi)
}

func TestWishlistToggle(t *testing.T) {
	store := NewMemoryStorage()
	w, err := NewWishlist(store)
	require.NoError(t, err)

	added, err := w.Toggle("p1")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = w.Toggle("p2")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = w.Toggle("p1")
	require.NoError(t, err)
	assert.False(t, added)
	assert.False(t, w.Contains("p1"))

	restored, err := NewWishlist(store)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, restored.IDs())
	assert.Equal(t, 1, restored.Len())
}

func TestFileStorageRejectsBadKeys(t *testing.T) {
	store, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Save("../escape", 1))

	var v map[string]int
	found, err := store.Load("missing", &v)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Save("prefs", map[string]int{"a": 1}))
	found, err = store.Load("prefs", &v)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, v["a"])
}
