package user

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-weather-tracker/internal/api"
	"github.com/FACorreiaa/go-weather-tracker/internal/api/auth"
	"github.com/FACorreiaa/go-weather-tracker/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetProfile(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
	ListUsers(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

// UpdateProfileRequest represents the expected JSON body for a profile update.
type UpdateProfileRequest struct {
	Username string `json:"username" binding:"required" example:"newname"` // New username. Must be unique.
}

// ListUsersResponse wraps the administrative user listing.
type ListUsersResponse struct {
	Users []types.User `json:"users"`
}

// callerID resolves the authenticated user id placed in context by the auth middleware.
func callerID(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
	userIDStr, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		l.ErrorContext(r.Context(), "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		l.ErrorContext(r.Context(), "Invalid user ID format", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID")
		return uuid.Nil, false
	}
	return userID, true
}

// GetProfile returns the caller's own account, without the password hash
// @Summary Get own profile
// @Tags user
// @Produce json
// @Success 200 {object} types.User
// @Failure 404 {object} api.Response
// @Router /profile [get]
func (h *HandlerImpl) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("UserHandler").Start(r.Context(), "GetProfile")
	defer span.End()

	l := h.logger.With(slog.String("method", "GetProfile"))

	userID, ok := callerID(w, r.WithContext(ctx), l)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(ctx, userID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			return
		}
		l.ErrorContext(ctx, "Failed to load profile", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	span.SetStatus(codes.Ok, "Profile retrieved")
	api.WriteJSONResponse(w, r, http.StatusOK, profile)
}

// UpdateProfile changes the caller's username
// @Summary Update own profile
// @Tags user
// @Accept json
// @Produce json
// @Success 200 {object} api.Response
// @Failure 409 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /profile [put]
func (h *HandlerImpl) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("UserHandler").Start(r.Context(), "UpdateProfile")
	defer span.End()

	l := h.logger.With(slog.String("method", "UpdateProfile"))

	userID, ok := callerID(w, r.WithContext(ctx), l)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid profile payload", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.UpdateUsername(ctx, userID, req.Username); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Profile update failed")
		if errors.Is(err, api.ErrConflict) {
			api.ErrorResponse(w, r, http.StatusConflict, "Username already taken")
			return
		}
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			return
		}
		l.ErrorContext(ctx, "Failed to update profile", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	span.SetStatus(codes.Ok, "Profile updated")
	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Message: "Profile updated successfully!",
	})
}

// ListUsers returns every registered account. Requires authentication, the
// password hash is never part of the payload.
// @Summary List users
// @Tags user
// @Produce json
// @Success 200 {object} ListUsersResponse
// @Failure 500 {object} api.Response
// @Router /users [get]
func (h *HandlerImpl) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("UserHandler").Start(r.Context(), "ListUsers")
	defer span.End()

	l := h.logger.With(slog.String("method", "ListUsers"))

	users, err := h.service.ListUsers(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list users")
		l.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	if users == nil {
		users = []types.User{}
	}

	span.SetStatus(codes.Ok, "Users listed")
	api.WriteJSONResponse(w, r, http.StatusOK, ListUsersResponse{Users: users})
}
