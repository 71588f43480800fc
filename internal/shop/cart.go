// AngelaMos | 2026
// cart.go

package shop

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/storefront-api/internal/order"
	"github.com/carterperez-dev/storefront-api/internal/product"
)

const cartKey = "cart"

var (
	ErrOutOfStock = errors.New("product is out of stock")
	ErrNotInCart  = errors.New("product is not in the cart")
	ErrEmptyCart  = errors.New("cart is empty")
)

type CartItem struct {
	ProductID       string          `json:"product_id"`
	Title           string          `json:"title"`
	Image           string          `json:"image,omitempty"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent int             `json:"discount_percent"`
	Stock           int             `json:"stock"`
	Quantity        int             `json:"quantity"`
}

// UnitPrice is the discounted price charged per unit.
func (i CartItem) UnitPrice() decimal.Decimal {
	return DiscountedPrice(i.Price, i.DiscountPercent)
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type cartState struct {
	Items []CartItem `json:"items"`
}

// OrderPlacer submits an order on the customer's behalf.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req order.CreateOrderRequest) (*order.OrderResponse, error)
}

// Cart is a customer's basket. Every change is written to its Storage
// before it becomes visible. Safe for concurrent use.
type Cart struct {
	mu    sync.Mutex
	items []CartItem
	store Storage
}

// NewCart restores the cart saved in store, if any.
func NewCart(store Storage) (*Cart, error) {
	var state cartState
	if _, err := store.Load(cartKey, &state); err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return &Cart{items: state.Items, store: store}, nil
}

// Add puts qty units of p in the cart. A product already present has its
// quantity increased. The result is clamped to [1, stock].
func (c *Cart) Add(p product.ProductResponse, qty int) error {
	if p.Stock <= 0 {
		return ErrOutOfStock
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	items := slices.Clone(c.items)
	idx := slices.IndexFunc(items, func(it CartItem) bool { return it.ProductID == p.ID })

	if idx >= 0 {
		it := &items[idx]
		it.Price = p.Price
		it.DiscountPercent = p.DiscountPercent
		it.Stock = p.Stock
		it.Quantity = clampQuantity(it.Quantity+max(qty, 1), p.Stock)
	} else {
		var image string
		if len(p.Images) > 0 {
			image = p.Images[0]
		}
		items = append(items, CartItem{
			ProductID:       p.ID,
			Title:           p.Title,
			Image:           image,
			Price:           p.Price,
			DiscountPercent: p.DiscountPercent,
			Stock:           p.Stock,
			Quantity:        clampQuantity(qty, p.Stock),
		})
	}

	return c.commit(items)
}

// SetQuantity replaces an item's quantity, clamped to [1, stock].
func (c *Cart) SetQuantity(productID string, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := slices.Clone(c.items)
	idx := slices.IndexFunc(items, func(it CartItem) bool { return it.ProductID == productID })
	if idx < 0 {
		return ErrNotInCart
	}

	items[idx].Quantity = clampQuantity(qty, items[idx].Stock)
	return c.commit(items)
}

func (c *Cart) Remove(productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := slices.DeleteFunc(slices.Clone(c.items), func(it CartItem) bool {
		return it.ProductID == productID
	})
	if len(items) == len(c.items) {
		return ErrNotInCart
	}

	return c.commit(items)
}

func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commit(nil)
}

func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Count is the number of units across all items.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Checkout places one order for the whole cart. Once the order has been
// accepted the ordered units are taken out of the cart; anything added while
// the order was in flight stays.
func (c *Cart) Checkout(
	ctx context.Context,
	api OrderPlacer,
	address order.Address,
) (*order.OrderResponse, error) {
	items := c.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	req := order.CreateOrderRequest{
		Items:           make([]order.ItemRequest, 0, len(items)),
		ShippingAddress: address,
	}
	for _, it := range items {
		req.Items = append(req.Items, order.ItemRequest{
			ProductID: it.ProductID,
			Title:     it.Title,
			Quantity:  it.Quantity,
			Price:     it.UnitPrice(),
		})
	}

	placed, err := api.CreateOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}

	if err := c.removeOrdered(items); err != nil {
		return placed, fmt.Errorf("checkout: order %s placed but cart not cleared: %w", placed.ID, err)
	}

	return placed, nil
}

// removeOrdered subtracts the ordered quantities, dropping lines that reach
// zero.
func (c *Cart) removeOrdered(ordered []CartItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	qty := make(map[string]int, len(ordered))
	for _, it := range ordered {
		qty[it.ProductID] += it.Quantity
	}

	items := make([]CartItem, 0, len(c.items))
	for _, it := range c.items {
		it.Quantity -= qty[it.ProductID]
		if it.Quantity > 0 {
			items = append(items, it)
		}
	}

	return c.commit(items)
}

func (c *Cart) commit(items []CartItem) error {
	if err := c.store.Save(cartKey, cartState{Items: items}); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	c.items = items
	return nil
}
