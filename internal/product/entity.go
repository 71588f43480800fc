// AngelaMos | 2026
// entity.go

package product

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID              string          `db:"id"`
	Title           string          `db:"title"`
	Slug            string          `db:"slug"`
	Description     string          `db:"description"`
	Price           decimal.Decimal `db:"price"`
	DiscountPercent int             `db:"discount_percent"`
	Category        string          `db:"category"`
	Stock           int             `db:"stock"`
	Images          pq.StringArray  `db:"images"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

var hundred = decimal.NewFromInt(100)

// FinalPrice is price × (100 − discount) / 100, rounded to cents.
func (p *Product) FinalPrice() decimal.Decimal {
	factor := hundred.Sub(decimal.NewFromInt(int64(p.DiscountPercent)))
	return p.Price.Mul(factor).Div(hundred).Round(2)
}

func (p *Product) InStock() bool {
	return p.Stock > 0
}

const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// CategoryAll disables the category filter.
const CategoryAll = "All"
