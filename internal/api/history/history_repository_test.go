package history

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-weather-tracker/app/observability/metrics"
	"github.com/FACorreiaa/go-weather-tracker/internal/api"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *RepositoryImpl) {
	t.Helper()
	metrics.InitAppMetrics()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewRepository(mock, slog.Default())
}

func TestRecord(t *testing.T) {
	mock, repo := newMockRepo(t)
	userID := uuid.New()
	wantID := uuid.New()
	payload := json.RawMessage(`{"cod":200,"name":"London"}`)
	searchedAt := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO search_history`)).
		WithArgs(userID, "London", payload, searchedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(wantID))

	gotID, err := repo.Record(context.Background(), userID, "London", payload, searchedAt)

	assert.NoError(t, err)
	assert.Equal(t, wantID, gotID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListForUser(t *testing.T) {
	t.Run("ScopedToUser", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		userID := uuid.New()
		now := time.Now()

		rows := pgxmock.NewRows([]string{"id", "user_id", "location", "weather_data", "searched_at"}).
			AddRow(uuid.New(), userID, "Lisbon", json.RawMessage(`{"cod":200}`), now).
			AddRow(uuid.New(), userID, "London", json.RawMessage(`{"cod":200}`), now.Add(-time.Hour))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM search_history`)).
			WithArgs(userID).
			WillReturnRows(rows)

		entries, err := repo.ListForUser(context.Background(), userID)

		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "Lisbon", entries[0].Location)
		assert.Equal(t, "London", entries[1].Location)
		for _, e := range entries {
			assert.Equal(t, userID, e.UserID)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		userID := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta(`FROM search_history`)).
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "location", "weather_data", "searched_at"}))

		entries, err := repo.ListForUser(context.Background(), userID)

		assert.NoError(t, err)
		assert.Empty(t, entries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteForUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		entryID := uuid.New()
		userID := uuid.New()

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM search_history WHERE id = $1 AND user_id = $2`)).
			WithArgs(entryID, userID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		err := repo.DeleteForUser(context.Background(), entryID, userID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NoMatchingRow", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		entryID := uuid.New()
		userID := uuid.New()

		// Same outcome whether the entry never existed or belongs to another user.
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM search_history WHERE id = $1 AND user_id = $2`)).
			WithArgs(entryID, userID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.DeleteForUser(context.Background(), entryID, userID)

		assert.Error(t, err)
		assert.ErrorIs(t, err, api.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
