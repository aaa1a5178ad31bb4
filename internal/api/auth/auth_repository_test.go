package auth

import (
	"context"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-weather-tracker/internal/api"
)

func testTime() time.Time {
	return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
}

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PostgresAuthRepo) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPostgresAuthRepo(mock, slog.Default())
}

func TestCreateUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		wantID := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
			WithArgs("alice", "hashed-password", pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(wantID))

		gotID, err := repo.CreateUser(context.Background(), "alice", "hashed-password")

		assert.NoError(t, err)
		assert.Equal(t, wantID, gotID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		mock, repo := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
			WithArgs("alice", "hashed-password", pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

		_, err := repo.CreateUser(context.Background(), "alice", "hashed-password")

		assert.Error(t, err)
		assert.ErrorIs(t, err, api.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetUserByUsername(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		userID := uuid.New()

		rows := pgxmock.NewRows([]string{"id", "username", "password_hash", "created_at", "updated_at"}).
			AddRow(userID, "alice", "hashed-password", testTime(), testTime())
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, password_hash`)).
			WithArgs("alice").
			WillReturnRows(rows)

		user, err := repo.GetUserByUsername(context.Background(), "alice")

		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "hashed-password", user.PasswordHash)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock, repo := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, password_hash`)).
			WithArgs("nobody").
			WillReturnError(pgx.ErrNoRows)

		user, err := repo.GetUserByUsername(context.Background(), "nobody")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, api.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
