package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FACorreiaa/go-weather-tracker/internal/api"
	"github.com/FACorreiaa/go-weather-tracker/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateUsername(ctx context.Context, userID uuid.UUID, newUsername string) error
	ListUsers(ctx context.Context) ([]types.User, error)
}

type RepositoryImpl struct {
	pgpool api.PGXPool
	logger *slog.Logger
}

func NewRepository(pgpool api.PGXPool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		pgpool: pgpool,
		logger: logger,
	}
}

func (r *RepositoryImpl) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	var user types.User
	err := r.pgpool.QueryRow(ctx,
		`SELECT id, username, created_at, updated_at FROM users WHERE id = $1`,
		userID).Scan(&user.ID, &user.Username, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, api.ErrNotFound)
		}
		return nil, fmt.Errorf("get user by id: query failed: %w", err)
	}
	return &user, nil
}

// UpdateUsername renames the user. The unique constraint on username is
// enforced here the same way it is at registration, a collision maps to
// api.ErrConflict.
func (r *RepositoryImpl) UpdateUsername(ctx context.Context, userID uuid.UUID, newUsername string) error {
	tag, err := r.pgpool.Exec(ctx,
		`UPDATE users SET username = $1, updated_at = $2 WHERE id = $3`,
		newUsername, time.Now(), userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("username %q taken: %w", newUsername, api.ErrConflict)
		}
		return fmt.Errorf("update username: db update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, api.ErrNotFound)
	}
	return nil
}

// ListUsers returns all accounts. Password hashes are never selected.
func (r *RepositoryImpl) ListUsers(ctx context.Context) ([]types.User, error) {
	rows, err := r.pgpool.Query(ctx,
		`SELECT id, username, created_at, updated_at FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list users: query failed: %w", err)
	}
	defer rows.Close()

	var users []types.User
	for rows.Next() {
		var u types.User
		if err := rows.Scan(&u.ID, &u.Username, &u.CreatedAt, &u.UpdatedAt); err != nil {
			r.logger.WarnContext(ctx, "Failed to scan user row", slog.Any("error", err))
			continue
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: error iterating rows: %w", err)
	}

	return users, nil
}
