package history

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-weather-tracker/internal/api"
	"github.com/FACorreiaa/go-weather-tracker/internal/api/auth"
	"github.com/FACorreiaa/go-weather-tracker/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	ListHistory(w http.ResponseWriter, r *http.Request)
	DeleteEntry(w http.ResponseWriter, r *http.Request)
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

// ListHistoryResponse wraps the caller's search history.
type ListHistoryResponse struct {
	History []types.SearchHistoryEntry `json:"history"`
}

// ListHistory returns the caller's search history, newest first
// @Summary List own search history
// @Tags history
// @Produce json
// @Success 200 {object} ListHistoryResponse
// @Failure 500 {object} api.Response
// @Router /history [get]
func (h *HandlerImpl) ListHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("HistoryHandler").Start(r.Context(), "ListHistory")
	defer span.End()

	l := h.logger.With(slog.String("method", "ListHistory"))

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

	span.SetAttributes(attribute.String("user_id", userID.String()))

	entries, err := h.service.ListForUser(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to retrieve search history", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to retrieve search history")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve search history")
		return
	}
	if entries == nil {
		entries = []types.SearchHistoryEntry{}
	}

	span.SetAttributes(attribute.Int("response.entries", len(entries)))
	span.SetStatus(codes.Ok, "Search history retrieved")
	api.WriteJSONResponse(w, r, http.StatusOK, ListHistoryResponse{History: entries})
}

// DeleteEntry removes one of the caller's history entries
// @Summary Delete a search history entry
// @Tags history
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} api.Response
// @Failure 400 {object} api.Response
// @Router /history/{id} [delete]
func (h *HandlerImpl) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("HistoryHandler").Start(r.Context(), "DeleteEntry")
	defer span.End()

	l := h.logger.With(slog.String("method", "DeleteEntry"))

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

	entryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		l.WarnContext(ctx, "Invalid entry ID", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid entry ID")
		return
	}

	span.SetAttributes(
		attribute.String("user_id", userID.String()),
		attribute.String("entry_id", entryID.String()),
	)

	if err := h.service.DeleteForUser(ctx, entryID, userID); err != nil {
		span.RecordError(err)
		if errors.Is(err, api.ErrNotFound) {
			// An entry owned by somebody else looks exactly like a missing
			// entry, nothing about other users' data is disclosed.
			span.SetStatus(codes.Error, "Entry not found")
			api.ErrorResponse(w, r, http.StatusBadRequest, "Failed to delete or entry not found")
			return
		}
		l.ErrorContext(ctx, "Failed to delete search entry", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to delete search entry")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete search entry")
		return
	}

	span.SetStatus(codes.Ok, "Search entry deleted")
	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Message: "Search entry deleted",
	})
}
