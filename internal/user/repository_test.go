// AngelaMos | 2026
// repository_test.go

package user

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
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

var userColumns = []string{
	"id", "name", "email", "password_hash", "role", "address", "phone",
	"created_at", "updated_at", "deleted_at",
}

func TestRepositoryCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("u1", "Ada", "ada@example.com", "hash", RoleUser, "", "").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	u := &User{ID: "u1", Name: "Ada", Email: "ada@example.com", PasswordHash: "hash", Role: RoleUser}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, now, u.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreateDuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &User{ID: "u1", Email: "ada@example.com"})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryGetByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
			"u1", "Ada", "ada@example.com", "hash", RoleAdmin, "1 Loom Lane", "555",
			now, now, nil,
		))

	u, err := repo.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.True(t, u.IsAdmin())
	assert.Equal(t, "1 Loom Lane", u.Address)
	assert.False(t, u.IsDeleted())
}

func TestRepositoryListOmitsPasswordHash(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("%ada%", RoleUser).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`SELECT id, name, email, role, address, phone`).
		WithArgs("%ada%", RoleUser, 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "role", "address", "phone",
			"created_at", "updated_at", "deleted_at",
		}).AddRow("u1", "Ada", "ada@example.com", RoleUser, "", "", now, now, nil))

	users, total, err := repo.List(context.Background(), ListUsersParams{
		Search: "ada",
		Role:   RoleUser,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, users, 1)
	assert.Empty(t, users[0].PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryListEscapesWildcards(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(`%50\%\_off%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT id, name").
		WithArgs(`%50\%\_off%`, 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := repo.List(context.Background(), ListUsersParams{Search: "50%_off"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositorySoftDeleteNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE users").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDelete(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryMonthlySignups(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT EXTRACT").
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{"year", "month", "total"}).
			AddRow(2026, 9, 4).
			AddRow(2026, 10, 7))

	stats, err := repo.MonthlySignups(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, []MonthlySignups{
		{Year: 2026, Month: 9, Total: 4},
		{Year: 2026, Month: 10, Total: 7},
	}, stats)
}
