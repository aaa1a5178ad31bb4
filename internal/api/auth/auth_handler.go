package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-weather-tracker/app/observability/metrics"
	"github.com/FACorreiaa/go-weather-tracker/internal/api"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	authService AuthService
	logger      *slog.Logger
}

func NewHandler(authService AuthService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		authService: authService,
		logger:      logger,
	}
}

// Register creates a new user account
// @Summary Register a new user
// @Description Creates a user with a unique username and a bcrypt-hashed password
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} api.Response
// @Failure 400 {object} api.Response
// @Router /register [post]
func (h *HandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Register")
	defer span.End()

	l := h.logger.With(slog.String("method", "Register"))
	metrics.Get().RegisterRequestsTotal.Add(ctx, 1)

	var req RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid register payload", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.Register(ctx, req.Username, req.Password); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Registration failed")
		if errors.Is(err, api.ErrConflict) {
			l.WarnContext(ctx, "Registration rejected", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusBadRequest, "Username already exists")
			return
		}
		l.ErrorContext(ctx, "Registration failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to register user")
		return
	}

	span.SetStatus(codes.Ok, "User registered")
	api.WriteJSONResponse(w, r, http.StatusCreated, api.Response{
		Success: true,
		Message: "User registered successfully!",
	})
}

// Login authenticates a user and issues a session token
// @Summary Log a user in
// @Description Verifies credentials and returns a signed, time-limited JWT
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} LoginResponse
// @Failure 400 {object} api.Response
// @Router /login [post]
func (h *HandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Login")
	defer span.End()

	l := h.logger.With(slog.String("method", "Login"))
	metrics.Get().LoginRequestsTotal.Add(ctx, 1)

	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid login payload", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, api.ErrUnauthenticated) {
			// Same message for unknown username and wrong password, so
			// usernames cannot be probed through this endpoint.
			metrics.Get().LoginFailuresTotal.Add(ctx, 1)
			span.SetStatus(codes.Error, "Invalid credentials")
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid username or password")
			return
		}
		l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
		span.SetStatus(codes.Error, "Login failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to log in")
		return
	}

	span.SetStatus(codes.Ok, "Login successful")
	api.WriteJSONResponse(w, r, http.StatusOK, LoginResponse{
		Token:   token,
		Message: "Login successful",
	})
}
