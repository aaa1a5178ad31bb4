package history

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-weather-tracker/internal/api"
	"github.com/FACorreiaa/go-weather-tracker/internal/api/auth"
	"github.com/FACorreiaa/go-weather-tracker/internal/types"
)

// MockHistoryService is a mock implementation of the Service interface
type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) Record(ctx context.Context, userID uuid.UUID, location string, payload json.RawMessage, searchedAt time.Time) (uuid.UUID, error) {
	args := m.Called(ctx, userID, location, payload, searchedAt)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockHistoryService) ListForUser(ctx context.Context, userID uuid.UUID) ([]types.SearchHistoryEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.SearchHistoryEntry), args.Error(1)
}

func (m *MockHistoryService) DeleteForUser(ctx context.Context, entryID, userID uuid.UUID) error {
	args := m.Called(ctx, entryID, userID)
	return args.Error(0)
}

func authedRequest(method, target string, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID.String())
	return req.WithContext(ctx)
}

func TestListHistory(t *testing.T) {
	t.Run("ReturnsOwnEntries", func(t *testing.T) {
		mockSvc := new(MockHistoryService)
		handler := NewHandler(mockSvc, slog.Default())
		userID := uuid.New()

		entries := []types.SearchHistoryEntry{
			{ID: uuid.New(), UserID: userID, Location: "Lisbon", WeatherData: json.RawMessage(`{"cod":200}`), SearchedAt: time.Now()},
		}
		mockSvc.On("ListForUser", mock.Anything, userID).Return(entries, nil).Once()

		rr := httptest.NewRecorder()
		handler.ListHistory(rr, authedRequest(http.MethodGet, "/history", userID))

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp ListHistoryResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.Len(t, resp.History, 1)
		assert.Equal(t, "Lisbon", resp.History[0].Location)
		mockSvc.AssertExpectations(t)
	})

	t.Run("EmptyHistoryIsAnEmptyList", func(t *testing.T) {
		mockSvc := new(MockHistoryService)
		handler := NewHandler(mockSvc, slog.Default())
		userID := uuid.New()

		mockSvc.On("ListForUser", mock.Anything, userID).Return(nil, nil).Once()

		rr := httptest.NewRecorder()
		handler.ListHistory(rr, authedRequest(http.MethodGet, "/history", userID))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"history":[]}`, rr.Body.String())
		mockSvc.AssertExpectations(t)
	})

	t.Run("MissingUser", func(t *testing.T) {
		mockSvc := new(MockHistoryService)
		handler := NewHandler(mockSvc, slog.Default())

		rr := httptest.NewRecorder()
		handler.ListHistory(rr, httptest.NewRequest(http.MethodGet, "/history", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		mockSvc.AssertNotCalled(t, "ListForUser", mock.Anything, mock.Anything)
	})
}

func TestDeleteEntry(t *testing.T) {
	withEntryID := func(req *http.Request, id string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	t.Run("Success", func(t *testing.T) {
		mockSvc := new(MockHistoryService)
		handler := NewHandler(mockSvc, slog.Default())
		userID := uuid.New()
		entryID := uuid.New()

		mockSvc.On("DeleteForUser", mock.Anything, entryID, userID).Return(nil).Once()

		rr := httptest.NewRecorder()
		req := withEntryID(authedRequest(http.MethodDelete, "/history/"+entryID.String(), userID), entryID.String())
		handler.DeleteEntry(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Search entry deleted")
		mockSvc.AssertExpectations(t)
	})

	t.Run("OtherUsersEntryLooksMissing", func(t *testing.T) {
		mockSvc := new(MockHistoryService)
		handler := NewHandler(mockSvc, slog.Default())
		userID := uuid.New()
		entryID := uuid.New()

		mockSvc.On("DeleteForUser", mock.Anything, entryID, userID).Return(api.ErrNotFound).Once()

		rr := httptest.NewRecorder()
		req := withEntryID(authedRequest(http.MethodDelete, "/history/"+entryID.String(), userID), entryID.String())
		handler.DeleteEntry(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Failed to delete or entry not found")
		mockSvc.AssertExpectations(t)
	})

	t.Run("InvalidEntryID", func(t *testing.T) {
		mockSvc := new(MockHistoryService)
		handler := NewHandler(mockSvc, slog.Default())
		userID := uuid.New()

		rr := httptest.NewRecorder()
		req := withEntryID(authedRequest(http.MethodDelete, "/history/not-a-uuid", userID), "not-a-uuid")
		handler.DeleteEntry(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid entry ID")
		mockSvc.AssertNotCalled(t, "DeleteForUser", mock.Anything, mock.Anything, mock.Anything)
	})
}
