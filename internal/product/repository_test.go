// AngelaMos | 2026
// repository_test.go

package product

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/storefront-api/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	return NewRepository(sqlx.NewDb(mockDB, "sqlmock")), mock
}

var columns = []string{
	"id", "title", "slug", "description", "price", "discount_percent",
	"category", "stock", "images", "created_at", "updated_at",
}

func TestBuildFilter(t *testing.T) {
	min := decimal.NewFromInt(10)
	max := decimal.NewFromInt(50)

	where, args := buildFilter(ListFilter{
		Keyword:  "50%",
		Category: "Mugs",
		MinPrice: &min,
		MaxPrice: &max,
	})

	assert.Equal(t,
		" WHERE title ILIKE $1 AND category = $2 AND price >= $3 AND price <= $4",
		where)
	assert.Equal(t, []any{`%50\%%`, "Mugs", min, max}, args)

	where, args = buildFilter(ListFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, "price ASC, created_at DESC", orderBy(SortPriceAsc))
	assert.Equal(t, "price DESC, created_at DESC", orderBy(SortPriceDesc))
	assert.Equal(t, "created_at DESC", orderBy(SortNewest))
}

func TestRepositoryListScansRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("Mugs").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM products WHERE category = (.+) ORDER BY price ASC").
		WithArgs("Mugs", 20, 0).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			"p1", "Blue Mug", "blue-mug", "", "12.50", 20,
			"Mugs", 3, "{/uploads/images/a.jpg,/uploads/images/b.jpg}", now, now,
		))

	products, total, err := repo.List(context.Background(), ListFilter{
		Category: "Mugs",
		Sort:     SortPriceAsc,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, products, 1)

	p := products[0]
	assert.True(t, decimal.RequireFromString("12.50").Equal(p.Price))
	assert.Equal(t, []string{"/uploads/images/a.jpg", "/uploads/images/b.jpg"}, []string(p.Images))
	assert.True(t, decimal.RequireFromString("10").Equal(p.FinalPrice()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id").
		WithArgs("p1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "p1")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryDeleteNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM products").
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "p1"), core.ErrNotFound)
}
