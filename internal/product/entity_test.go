// AngelaMos | 2026
// entity_test.go

package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFinalPrice(t *testing.T) {
	tests := []struct {
		price    string
		discount int
		want     string
	}{
		{price: "100", discount: 0, want: "100"},
		{price: "100", discount: 20, want: "80"},
		{price: "19.99", discount: 15, want: "16.99"},
		{price: "10", discount: 100, want: "0"},
		{price: "0.10", discount: 33, want: "0.07"},
	}

	for _, tt := range tests {
		t.Run(tt.price+"-"+decimal.NewFromInt(int64(tt.discount)).String(), func(t *testing.T) {
			p := Product{Price: decimal.RequireFromString(tt.price), DiscountPercent: tt.discount}
			assert.True(t, decimal.RequireFromString(tt.want).Equal(p.FinalPrice()),
				"got %s", p.FinalPrice())
		})
	}
}

func TestListFilterNormalize(t *testing.T) {
	neg := decimal.NewFromInt(-5)

	f := ListFilter{
		Keyword:  "  mug ",
		Category: "all",
		MinPrice: &neg,
		Sort:     "bogus",
		Page:     0,
		PageSize: 1000,
	}
	f.Normalize()

	assert.Equal(t, "mug", f.Keyword)
	assert.Empty(t, f.Category)
	assert.Nil(t, f.MinPrice)
	assert.Equal(t, SortNewest, f.Sort)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 100, f.PageSize)
	assert.Equal(t, 0, f.Offset())
}

func TestToProductResponseNeverNilImages(t *testing.T) {
	resp := ToProductResponse(&Product{Price: decimal.NewFromInt(5)})
	assert.NotNil(t, resp.Images)
	assert.True(t, resp.FinalPrice.Equal(decimal.NewFromInt(5)))
}
