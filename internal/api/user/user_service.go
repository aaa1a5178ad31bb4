package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-weather-tracker/internal/api"
	"github.com/FACorreiaa/go-weather-tracker/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateUsername(ctx context.Context, userID uuid.UUID, newUsername string) error
	ListUsers(ctx context.Context) ([]types.User, error)
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

func (s *ServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *ServiceImpl) UpdateUsername(ctx context.Context, userID uuid.UUID, newUsername string) error {
	newUsername = strings.TrimSpace(newUsername)
	if newUsername == "" {
		return fmt.Errorf("username must not be empty: %w", api.ErrConflict)
	}

	if err := s.repo.UpdateUsername(ctx, userID, newUsername); err != nil {
		return fmt.Errorf("update username: %w", err)
	}

	s.logger.InfoContext(ctx, "Username updated", slog.String("user_id", userID.String()))
	return nil
}

func (s *ServiceImpl) ListUsers(ctx context.Context) ([]types.User, error) {
	return s.repo.ListUsers(ctx)
}
