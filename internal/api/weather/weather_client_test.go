package weather

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-weather-tracker/config"
	"github.com/FACorreiaa/go-weather-tracker/internal/api"
)

func newTestClient(t *testing.T, provider http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(provider)
	t.Cleanup(srv.Close)
	return NewHTTPClient(config.WeatherConfig{
		BaseURL:        srv.URL,
		APIKey:         "test-api-key",
		RequestTimeout: 2 * time.Second,
	}, slog.Default())
}

func TestCurrentWeather(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		payload := `{"cod":200,"name":"London","main":{"temp":285.5}}`
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/data/2.5/weather", r.URL.Path)
			assert.Equal(t, "London", r.URL.Query().Get("q"))
			assert.Equal(t, "test-api-key", r.URL.Query().Get("appid"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(payload))
		})

		got, err := client.CurrentWeather(context.Background(), "London")

		require.NoError(t, err)
		assert.JSONEq(t, payload, string(got))
	})

	t.Run("UnknownCity", func(t *testing.T) {
		// The provider reports errors with cod as a quoted string.
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
		})

		got, err := client.CurrentWeather(context.Background(), "Nowhereville")

		assert.Nil(t, got)
		var upErr *UpstreamError
		require.ErrorAs(t, err, &upErr)
		assert.Equal(t, 404, upErr.StatusCode)
		assert.Equal(t, "city not found", upErr.Message)
		assert.ErrorIs(t, err, api.ErrUpstream)
	})

	t.Run("InvalidAPIKey", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
		})

		_, err := client.CurrentWeather(context.Background(), "London")

		var upErr *UpstreamError
		require.ErrorAs(t, err, &upErr)
		assert.Equal(t, 401, upErr.StatusCode)
	})

	t.Run("NotJSON", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>bad gateway</html>"))
		})

		_, err := client.CurrentWeather(context.Background(), "London")

		assert.ErrorIs(t, err, api.ErrUpstream)
	})

	t.Run("ProviderUnreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()
		client := NewHTTPClient(config.WeatherConfig{
			BaseURL:        srv.URL,
			APIKey:         "test-api-key",
			RequestTimeout: time.Second,
		}, slog.Default())

		_, err := client.CurrentWeather(context.Background(), "London")

		assert.ErrorIs(t, err, api.ErrUpstream)
	})

	t.Run("ContextCancelled", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
		})

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := client.CurrentWeather(ctx, "London")

		require.Error(t, err)
		assert.True(t, errors.Is(err, api.ErrUpstream) || errors.Is(err, context.DeadlineExceeded))
	})
}

func TestProviderStatusCode(t *testing.T) {
	tests := []struct {
		name string
		cod  string
		want int
	}{
		{"NumericSuccess", `200`, 200},
		{"QuotedError", `"404"`, 404},
		{"NumericError", `401`, 401},
		{"Garbage", `"no"`, 0},
		{"Missing", ``, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := providerStatus{Cod: []byte(tt.cod)}
			assert.Equal(t, tt.want, s.statusCode())
		})
	}
}
