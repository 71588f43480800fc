// AngelaMos | 2026
// repository.go

package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/storefront-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]Product, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const productColumns = `id, title, slug, description, price, discount_percent,
		       category, stock, images, created_at, updated_at`

func (r *repository) Create(ctx context.Context, p *Product) error {
	query := `
		INSERT INTO products (id, title, slug, description, price,
		                      discount_percent, category, stock, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, p, query,
		p.ID,
		p.Title,
		p.Slug,
		p.Description,
		p.Price,
		p.DiscountPercent,
		p.Category,
		p.Stock,
		p.Images,
	)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var p Product
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &p, nil
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	query := `
		UPDATE products
		SET title = $2, slug = $3, description = $4, price = $5,
		    discount_percent = $6, category = $7, stock = $8, images = $9,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &p.UpdatedAt, query,
		p.ID,
		p.Title,
		p.Slug,
		p.Description,
		p.Price,
		p.DiscountPercent,
		p.Category,
		p.Stock,
		p.Images,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update product: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete product: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	filter ListFilter,
) ([]Product, int, error) {
	filter.Normalize()

	whereClause, args := buildFilter(filter)
	argIdx := len(args) + 1

	countQuery := "SELECT COUNT(*) FROM products" + whereClause
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		productColumns, whereClause, orderBy(filter.Sort), argIdx, argIdx+1)

	args = append(args, filter.PageSize, filter.Offset())

	products := []Product{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

func buildFilter(f ListFilter) (string, []any) {
	var conditions []string
	var args []any

	next := func() int { return len(args) + 1 }

	if f.Keyword != "" {
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", next()))
		args = append(args, "%"+core.EscapeLike(f.Keyword)+"%")
	}

	if f.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", next()))
		args = append(args, f.Category)
	}

	if f.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price >= $%d", next()))
		args = append(args, *f.MinPrice)
	}

	if f.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price <= $%d", next()))
		args = append(args, *f.MaxPrice)
	}

	if len(conditions) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

func orderBy(sort string) string {
	switch sort {
	case SortPriceAsc:
		return "price ASC, created_at DESC"
	case SortPriceDesc:
		return "price DESC, created_at DESC"
	default:
		return "created_at DESC"
	}
}
