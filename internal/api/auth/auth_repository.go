package auth

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

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo is the persistence boundary for user credentials.
type AuthRepo interface {
	CreateUser(ctx context.Context, username, passwordHash string) (uuid.UUID, error)
	GetUserByUsername(ctx context.Context, username string) (*types.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error)
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool api.PGXPool
}

func NewPostgresAuthRepo(pgpool api.PGXPool, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

// CreateUser inserts a new user. A username collision maps to api.ErrConflict,
// which is the sole uniqueness guarantee for the users table.
func (r *PostgresAuthRepo) CreateUser(ctx context.Context, username, passwordHash string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, created_at, updated_at)
         VALUES ($1, $2, $3, $3)
         RETURNING id`,
		username, passwordHash, time.Now()).Scan(&userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uuid.Nil, fmt.Errorf("username %q taken: %w", username, api.ErrConflict)
		}
		return uuid.Nil, fmt.Errorf("create user: db insert failed: %w", err)
	}
	return userID, nil
}

func (r *PostgresAuthRepo) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	var user types.User
	err := r.pgpool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at, updated_at
         FROM users WHERE username = $1`,
		username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, api.ErrNotFound)
		}
		return nil, fmt.Errorf("get user by username: query failed: %w", err)
	}
	return &user, nil
}

func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	var user types.User
	err := r.pgpool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at, updated_at
         FROM users WHERE id = $1`,
		userID).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, api.ErrNotFound)
		}
		return nil, fmt.Errorf("get user by id: query failed: %w", err)
	}
	return &user, nil
}
