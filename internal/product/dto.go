// AngelaMos | 2026
// dto.go

package product

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/storefront-api/internal/core"
)

type CreateProductRequest struct {
	Title           string          `json:"title"            validate:"required,min=1,max=200"`
	Description     string          `json:"description"      validate:"max=5000"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent int             `json:"discount_percent" validate:"gte=0,lte=100"`
	Category        string          `json:"category"         validate:"required,min=1,max=100"`
	Stock           int             `json:"stock"            validate:"gte=0"`
}

type UpdateProductRequest struct {
	Title           *string          `json:"title,omitempty"            validate:"omitempty,min=1,max=200"`
	Description     *string          `json:"description,omitempty"      validate:"omitempty,max=5000"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	DiscountPercent *int             `json:"discount_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	Category        *string          `json:"category,omitempty"         validate:"omitempty,min=1,max=100"`
	Stock           *int             `json:"stock,omitempty"            validate:"omitempty,gte=0"`
}

type ProductResponse struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Slug            string          `json:"slug"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent int             `json:"discount_percent"`
	FinalPrice      decimal.Decimal `json:"final_price"`
	Category        string          `json:"category"`
	Stock           int             `json:"stock"`
	Images          []string        `json:"images"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ListFilter narrows the catalog listing. Nil price bounds mean [0, ∞).
type ListFilter struct {
	Keyword  string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
	Page     int
	PageSize int
}

func (f *ListFilter) Normalize() {
	f.Page, f.PageSize = core.NormalizePage(f.Page, f.PageSize)
	f.Keyword = strings.TrimSpace(f.Keyword)
	f.Category = strings.TrimSpace(f.Category)
	if strings.EqualFold(f.Category, CategoryAll) {
		f.Category = ""
	}

	if f.MinPrice != nil && f.MinPrice.IsNegative() {
		f.MinPrice = nil
	}

	switch f.Sort {
	case SortPriceAsc, SortPriceDesc:
	default:
		f.Sort = SortNewest
	}
}

func (f *ListFilter) Offset() int {
	return core.PageOffset(f.Page, f.PageSize)
}

func ToProductResponse(p *Product) ProductResponse {
	images := []string(p.Images)
	if images == nil {
		images = []string{}
	}

	return ProductResponse{
		ID:              p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		Description:     p.Description,
		Price:           p.Price,
		DiscountPercent: p.DiscountPercent,
		FinalPrice:      p.FinalPrice(),
		Category:        p.Category,
		Stock:           p.Stock,
		Images:          images,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func ToProductResponseList(products []Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, ToProductResponse(&p))
	}
	return responses
}
