package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-weather-tracker/app/observability/metrics"
	"github.com/FACorreiaa/go-weather-tracker/internal/api"
	"github.com/FACorreiaa/go-weather-tracker/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository persists per-user search history. Every read and delete is
// filtered by the owning user id, that filter is the only cross-user
// isolation mechanism in the system.
type Repository interface {
	Record(ctx context.Context, userID uuid.UUID, location string, payload json.RawMessage, searchedAt time.Time) (uuid.UUID, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]types.SearchHistoryEntry, error)
	DeleteForUser(ctx context.Context, entryID, userID uuid.UUID) error
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

func (r *RepositoryImpl) Record(ctx context.Context, userID uuid.UUID, location string, payload json.RawMessage, searchedAt time.Time) (uuid.UUID, error) {
	ctx, span := otel.Tracer("HistoryRepository").Start(ctx, "Record", trace.WithAttributes(
		attribute.String("user_id", userID.String()),
		attribute.String("location", location),
	))
	defer span.End()

	start := time.Now()
	var entryID uuid.UUID
	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO search_history (user_id, location, weather_data, searched_at)
         VALUES ($1, $2, $3, $4)
         RETURNING id`,
		userID, location, payload, searchedAt).Scan(&entryID)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database insert failed")
		return uuid.Nil, fmt.Errorf("record search: db insert failed: %w", err)
	}

	span.SetStatus(codes.Ok, "Search recorded")
	return entryID, nil
}

// ListForUser returns the caller's entries, newest search first.
func (r *RepositoryImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]types.SearchHistoryEntry, error) {
	ctx, span := otel.Tracer("HistoryRepository").Start(ctx, "ListForUser", trace.WithAttributes(
		attribute.String("user_id", userID.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "ListForUser"))

	start := time.Now()
	rows, err := r.pgpool.Query(ctx,
		`SELECT id, user_id, location, weather_data, searched_at
         FROM search_history
         WHERE user_id = $1
         ORDER BY searched_at DESC`,
		userID)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		l.ErrorContext(ctx, "Failed to query search history", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}
	defer rows.Close()

	var entries []types.SearchHistoryEntry
	for rows.Next() {
		var entry types.SearchHistoryEntry
		err := rows.Scan(&entry.ID, &entry.UserID, &entry.Location, &entry.WeatherData, &entry.SearchedAt)
		if err != nil {
			l.WarnContext(ctx, "Failed to scan history row", slog.Any("error", err))
			continue
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		l.ErrorContext(ctx, "Error iterating history rows", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}

	span.SetAttributes(attribute.Int("results.entries", len(entries)))
	span.SetStatus(codes.Ok, "Search history retrieved")
	return entries, nil
}

// DeleteForUser removes one entry. The id and user id are matched in a single
// statement, deleting zero rows is api.ErrNotFound, never silent success.
func (r *RepositoryImpl) DeleteForUser(ctx context.Context, entryID, userID uuid.UUID) error {
	ctx, span := otel.Tracer("HistoryRepository").Start(ctx, "DeleteForUser", trace.WithAttributes(
		attribute.String("entry_id", entryID.String()),
		attribute.String("user_id", userID.String()),
	))
	defer span.End()

	start := time.Now()
	tag, err := r.pgpool.Exec(ctx,
		`DELETE FROM search_history WHERE id = $1 AND user_id = $2`,
		entryID, userID)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database delete failed")
		return fmt.Errorf("delete search entry: db delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Entry not found")
		return fmt.Errorf("entry %s for user %s: %w", entryID, userID, api.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Search entry deleted")
	return nil
}
