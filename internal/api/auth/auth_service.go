package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-weather-tracker/config"
	"github.com/FACorreiaa/go-weather-tracker/internal/api"
	"github.com/FACorreiaa/go-weather-tracker/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService owns credential hashing and session token issuance.
type AuthService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)
}

type AuthServiceImpl struct {
	repo   AuthRepo
	cfg    *config.Config
	logger *slog.Logger
}

func NewAuthService(repo AuthRepo, cfg *config.Config, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

// Register hashes the password and stores the new user. The plaintext password
// never leaves this method and is never logged.
func (s *AuthServiceImpl) Register(ctx context.Context, username, password string) error {
	l := s.logger.With(slog.String("method", "Register"))

	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username must not be empty: %w", api.ErrConflict)
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters: %w", api.ErrConflict)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.repo.CreateUser(ctx, username, string(hashedPassword))
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	l.InfoContext(ctx, "User registered", slog.String("user_id", userID.String()))
	return nil
}

// Login validates credentials and returns a signed access token. Unknown
// username and wrong password are indistinguishable to the caller so usernames
// cannot be enumerated.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, error) {
	l := s.logger.With(slog.String("method", "Login"))

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			l.WarnContext(ctx, "Login attempt for unknown username")
			return "", api.ErrUnauthenticated
		}
		return "", fmt.Errorf("login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		l.WarnContext(ctx, "Login attempt with wrong password", slog.String("user_id", user.ID.String()))
		return "", api.ErrUnauthenticated
	}

	token, err := generateAccessToken(user, s.cfg.JWT)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	l.InfoContext(ctx, "User logged in", slog.String("user_id", user.ID.String()))
	return token, nil
}

// generateAccessToken signs a stateless token carrying the user identity and
// an absolute expiry. There is no server-side revocation.
func generateAccessToken(user *types.User, jwtCfg config.JWTConfig) (string, error) {
	if jwtCfg.SecretKey == "" {
		return "", errors.New("JWT secret key is not configured")
	}

	now := time.Now()
	claims := &types.Claims{
		UserID:   user.ID.String(),
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    jwtCfg.Issuer,
			Audience:  jwt.ClaimStrings{jwtCfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtCfg.AccessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtCfg.SecretKey))
}
