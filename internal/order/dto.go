// AngelaMos | 2026
// dto.go

package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/storefront-api/internal/core"
)

type CreateOrderRequest struct {
	Items           []ItemRequest `json:"items"            validate:"dive"`
	ShippingAddress Address       `json:"shipping_address" validate:"required"`
}

type ItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Title     string          `json:"title"      validate:"max=200"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ItemResponse struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type OrderResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	User            *UserSummary    `json:"user,omitempty"`
	Items           []ItemResponse  `json:"items"`
	Total           decimal.Decimal `json:"total"`
	Status          string          `json:"status"`
	ShippingAddress Address         `json:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type ListParams struct {
	Page     int
	PageSize int
	Status   string
}

func (p *ListParams) Normalize() {
	p.Page, p.PageSize = core.NormalizePage(p.Page, p.PageSize)
}

func (p *ListParams) Offset() int {
	return core.PageOffset(p.Page, p.PageSize)
}

func ToOrderResponse(o *Order) OrderResponse {
	items := make([]ItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ItemResponse{
			ProductID: it.ProductID,
			Title:     it.Title,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Subtotal:  it.Subtotal(),
		})
	}

	return OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		Items:           items,
		Total:           o.Total,
		Status:          o.Status,
		ShippingAddress: o.ShippingAddress,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func ToOrderResponseList(orders []Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToOrderResponse(&orders[i]))
	}
	return out
}

func ToOrderWithUserResponseList(orders []OrderWithUser) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		resp := ToOrderResponse(&orders[i].Order)
		resp.User = &UserSummary{
			ID:    orders[i].UserID,
			Name:  orders[i].UserName,
			Email: orders[i].UserEmail,
		}
		out = append(out, resp)
	}
	return out
}
