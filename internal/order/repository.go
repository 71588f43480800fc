// AngelaMos | 2026
// repository.go

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/storefront-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListAll(ctx context.Context, params ListParams) ([]OrderWithUser, int, error)
	UpdateStatus(ctx context.Context, id, status string) (*Order, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `id, user_id, total, status, shipping_address, created_at, updated_at`

// Create writes the order and its items in one transaction.
func (r *repository) Create(ctx context.Context, o *Order) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO orders (id, user_id, total, status, shipping_address)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at, updated_at`

		err := tx.GetContext(ctx, o, query,
			o.ID,
			o.UserID,
			o.Total,
			o.Status,
			o.ShippingAddress,
		)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		itemQuery := `
			INSERT INTO order_items (order_id, product_id, title, quantity, price)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`

		for i := range o.Items {
			it := &o.Items[i]
			it.OrderID = o.ID
			if err := tx.GetContext(ctx, &it.ID, itemQuery,
				it.OrderID,
				it.ProductID,
				it.Title,
				it.Quantity,
				it.Price,
			); err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
		}

		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var o Order
	err := r.db.GetContext(ctx, &o, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get order: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	orders := []Order{o}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return &orders[0], nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`

	var orders []Order
	if err := r.db.SelectContext(ctx, &orders, query, userID); err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *repository) ListAll(
	ctx context.Context,
	params ListParams,
) ([]OrderWithUser, int, error) {
	where := ""
	args := []any{}
	if params.Status != "" {
		where = "WHERE o.status = $1"
		args = append(args, params.Status)
	}

	countQuery := `SELECT COUNT(*) FROM orders o ` + where

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT o.id, o.user_id, o.total, o.status, o.shipping_address,
		       o.created_at, o.updated_at,
		       u.name AS user_name, u.email AS user_email
		FROM orders o
		JOIN users u ON u.id = o.user_id
		%s
		ORDER BY o.created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)

	args = append(args, params.PageSize, params.Offset())

	var rows []OrderWithUser
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	orders := make([]Order, len(rows))
	for i := range rows {
		orders[i] = rows[i].Order
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, 0, err
	}
	for i := range rows {
		rows[i].Items = orders[i].Items
	}

	return rows, total, nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	id, status string,
) (*Order, error) {
	query := `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + orderColumns

	var o Order
	err := r.db.GetContext(ctx, &o, query, id, status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update order status: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	orders := []Order{o}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return &orders[0], nil
}

// attachItems loads the items of every order in one query.
func (r *repository) attachItems(ctx context.Context, orders []Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = i
		orders[i].Items = []Item{}
	}

	query, args, err := sqlx.In(`
		SELECT id, order_id, product_id, title, quantity, price
		FROM order_items
		WHERE order_id IN (?)
		ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("build order items query: %w", err)
	}

	var items []Item
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("list order items: %w", err)
	}

	for _, it := range items {
		if i, ok := index[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}

	return nil
}
