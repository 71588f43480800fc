// AngelaMos | 2026
// repository.go

package custom

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/storefront-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id string) (*Request, error)
	ListByUser(ctx context.Context, userID string) ([]Request, error)
	ListAll(ctx context.Context, params ListParams) ([]RequestWithUser, int, error)
	Update(ctx context.Context, req *Request) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const requestColumns = `id, user_id, description, image_url, budget, status,
		       admin_comments, created_at, updated_at`

func (r *repository) Create(ctx context.Context, req *Request) error {
	query := `
		INSERT INTO custom_requests (id, user_id, description, image_url, budget, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, req, query,
		req.ID,
		req.UserID,
		req.Description,
		req.ImageURL,
		req.Budget,
		req.Status,
	)
	if err != nil {
		return fmt.Errorf("create custom request: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Request, error) {
	query := `SELECT ` + requestColumns + ` FROM custom_requests WHERE id = $1`

	var req Request
	err := r.db.GetContext(ctx, &req, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get custom request: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get custom request: %w", err)
	}

	return &req, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Request, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM custom_requests
		WHERE user_id = $1
		ORDER BY created_at DESC`

	reqs := []Request{}
	if err := r.db.SelectContext(ctx, &reqs, query, userID); err != nil {
		return nil, fmt.Errorf("list user custom requests: %w", err)
	}

	return reqs, nil
}

func (r *repository) ListAll(
	ctx context.Context,
	params ListParams,
) ([]RequestWithUser, int, error) {
	where := ""
	args := []any{}
	if params.Status != "" {
		where = "WHERE c.status = $1"
		args = append(args, params.Status)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM custom_requests c ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count custom requests: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT c.id, c.user_id, c.description, c.image_url, c.budget, c.status,
		       c.admin_comments, c.created_at, c.updated_at,
		       u.name AS user_name, u.email AS user_email
		FROM custom_requests c
		JOIN users u ON u.id = c.user_id
		%s
		ORDER BY c.created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)

	args = append(args, params.PageSize, params.Offset())

	reqs := []RequestWithUser{}
	if err := r.db.SelectContext(ctx, &reqs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list custom requests: %w", err)
	}

	return reqs, total, nil
}

func (r *repository) Update(ctx context.Context, req *Request) error {
	query := `
		UPDATE custom_requests
		SET status = $2, admin_comments = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &req.UpdatedAt, query,
		req.ID,
		req.Status,
		req.AdminComments,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update custom request: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update custom request: %w", err)
	}

	return nil
}
