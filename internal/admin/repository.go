// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/storefront-api/internal/core"
	"github.com/carterperez-dev/storefront-api/internal/custom"
	"github.com/carterperez-dev/storefront-api/internal/order"
)

type Totals struct {
	Users              int             `db:"users"`
	Products           int             `db:"products"`
	OutOfStock         int             `db:"out_of_stock"`
	Orders             int             `db:"orders"`
	Revenue            decimal.Decimal `db:"revenue"`
	OpenCustomRequests int             `db:"open_custom_requests"`
}

type StatusCount struct {
	Status string `db:"status"`
	Total  int    `db:"total"`
}

type Repository interface {
	Totals(ctx context.Context) (*Totals, error)
	OrdersByStatus(ctx context.Context) ([]StatusCount, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Totals(ctx context.Context) (*Totals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE deleted_at IS NULL) AS users,
			(SELECT COUNT(*) FROM products) AS products,
			(SELECT COUNT(*) FROM products WHERE stock = 0) AS out_of_stock,
			(SELECT COUNT(*) FROM orders) AS orders,
			(SELECT COALESCE(SUM(total), 0) FROM orders) AS revenue,
			(SELECT COUNT(*) FROM custom_requests WHERE status = $1) AS open_custom_requests`

	var t Totals
	if err := r.db.GetContext(ctx, &t, query, custom.StatusSubmitted); err != nil {
		return nil, fmt.Errorf("dashboard totals: %w", err)
	}

	return &t, nil
}

// OrdersByStatus reports every order status, including those with no orders.
func (r *repository) OrdersByStatus(ctx context.Context) ([]StatusCount, error) {
	query := `SELECT status, COUNT(*) AS total FROM orders GROUP BY status`

	var rows []StatusCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("orders by status: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}

	out := make([]StatusCount, 0, len(order.Statuses))
	for _, s := range order.Statuses {
		out = append(out, StatusCount{Status: s, Total: counts[s]})
	}
	return out, nil
}
