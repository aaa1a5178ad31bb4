package weather

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-weather-tracker/internal/api"
	"github.com/FACorreiaa/go-weather-tracker/internal/api/auth"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Lookup(w http.ResponseWriter, r *http.Request)
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

// Lookup fetches weather for a location and stores the search in history
// @Summary Look up weather for a location
// @Tags weather
// @Accept json
// @Produce json
// @Success 200 {object} LookupResponse
// @Failure 400 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /weather [post]
func (h *HandlerImpl) Lookup(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("WeatherHandler").Start(r.Context(), "Lookup")
	defer span.End()

	l := h.logger.With(slog.String("method", "Lookup"))

	userIDStr, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "User ID not found in context")
		span.SetStatus(codes.Error, "User not authenticated")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		l.ErrorContext(ctx, "Invalid user ID format", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req LookupRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid lookup payload", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Location) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Location is required")
		return
	}

	span.SetAttributes(
		attribute.String("user_id", userID.String()),
		attribute.String("location", req.Location),
	)

	payload, err := h.service.LookupAndRecord(ctx, userID, req.Location)
	if err != nil {
		span.RecordError(err)
		var upErr *UpstreamError
		if errors.As(err, &upErr) {
			span.SetStatus(codes.Error, "Provider rejected lookup")
			api.ErrorResponse(w, r, http.StatusBadRequest, upErr.Message)
			return
		}
		if errors.Is(err, api.ErrUpstream) {
			span.SetStatus(codes.Error, "Provider unreachable")
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Error fetching weather data")
			return
		}
		l.ErrorContext(ctx, "Weather lookup failed", slog.Any("error", err))
		span.SetStatus(codes.Error, "Weather lookup failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to store search history")
		return
	}

	span.SetStatus(codes.Ok, "Weather lookup succeeded")
	api.WriteJSONResponse(w, r, http.StatusOK, LookupResponse{
		Weather: payload,
		Message: "Search saved to history",
	})
}
