// AngelaMos | 2026
// view.go

package shop

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/storefront-api/internal/product"
)

var hundred = decimal.NewFromInt(100)

// DiscountedPrice is price × (100 − percent) / 100 rounded to cents.
func DiscountedPrice(price decimal.Decimal, percent int) decimal.Decimal {
	if percent <= 0 {
		return price.Round(2)
	}
	if percent > 100 {
		percent = 100
	}
	return price.
		Mul(decimal.NewFromInt(int64(100 - percent))).
		Div(hundred).
		Round(2)
}

// ProductView holds the display values for a product detail page.
type ProductView struct {
	Product product.ProductResponse
}

func NewProductView(p product.ProductResponse) ProductView {
	return ProductView{Product: p}
}

func (v ProductView) HasDiscount() bool {
	return v.Product.DiscountPercent > 0
}

// DiscountLabel reads like "20% OFF", or is empty without a discount.
func (v ProductView) DiscountLabel() string {
	if !v.HasDiscount() {
		return ""
	}
	return fmt.Sprintf("%d%% OFF", v.Product.DiscountPercent)
}

func (v ProductView) OriginalPrice() string {
	return v.Product.Price.StringFixed(2)
}

func (v ProductView) FinalPrice() string {
	return DiscountedPrice(v.Product.Price, v.Product.DiscountPercent).StringFixed(2)
}

func (v ProductView) InStock() bool {
	return v.Product.Stock > 0
}

// QuantityBounds is the selectable range [1, stock]. Both are 0 when the
// product is sold out.
func (v ProductView) QuantityBounds() (int, int) {
	if !v.InStock() {
		return 0, 0
	}
	return 1, v.Product.Stock
}

func (v ProductView) ClampQuantity(q int) int {
	return clampQuantity(q, v.Product.Stock)
}

// clampQuantity bounds q to [1, stock]; stock <= 0 means unknown and only the
// lower bound applies.
func clampQuantity(q, stock int) int {
	if q < 1 {
		q = 1
	}
	if stock > 0 && q > stock {
		q = stock
	}
	return q
}
