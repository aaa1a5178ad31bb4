package history

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-weather-tracker/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Record(ctx context.Context, userID uuid.UUID, location string, payload json.RawMessage, searchedAt time.Time) (uuid.UUID, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]types.SearchHistoryEntry, error)
	DeleteForUser(ctx context.Context, entryID, userID uuid.UUID) error
}

type ServiceImpl struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *ServiceImpl) Record(ctx context.Context, userID uuid.UUID, location string, payload json.RawMessage, searchedAt time.Time) (uuid.UUID, error) {
	return s.repo.Record(ctx, userID, location, payload, searchedAt)
}

func (s *ServiceImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]types.SearchHistoryEntry, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *ServiceImpl) DeleteForUser(ctx context.Context, entryID, userID uuid.UUID) error {
	err := s.repo.DeleteForUser(ctx, entryID, userID)
	if err == nil {
		s.logger.InfoContext(ctx, "Search entry deleted",
			slog.String("entry_id", entryID.String()),
			slog.String("user_id", userID.String()))
	}
	return err
}
