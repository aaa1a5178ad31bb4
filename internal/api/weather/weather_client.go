package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-weather-tracker/config"
	"github.com/FACorreiaa/go-weather-tracker/internal/api"
)

var _ Client = (*HTTPClient)(nil)

// Client fetches current weather data from the external provider.
type Client interface {
	CurrentWeather(ctx context.Context, location string) (json.RawMessage, error)
}

// HTTPClient talks to an OpenWeatherMap-style HTTP API. Every request is
// bounded by the configured timeout and by the caller's context.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPClient(cfg config.WeatherConfig, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger,
	}
}

// CurrentWeather returns the provider payload verbatim. A payload whose cod
// field is anything but 200 becomes an *UpstreamError carrying the provider's
// message.
func (c *HTTPClient) CurrentWeather(ctx context.Context, location string) (json.RawMessage, error) {
	ctx, span := otel.Tracer("WeatherClient").Start(ctx, "CurrentWeather", trace.WithAttributes(
		attribute.String("location", location),
	))
	defer span.End()

	l := c.logger.With(slog.String("method", "CurrentWeather"))

	query := url.Values{}
	query.Set("q", location)
	query.Set("appid", c.apiKey)
	requestURL := fmt.Sprintf("%s/data/2.5/weather?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		l.ErrorContext(ctx, "Weather provider request failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Provider request failed")
		return nil, fmt.Errorf("%w: request failed: %v", api.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: failed to read response: %v", api.ErrUpstream, err)
	}

	var status providerStatus
	if err := json.Unmarshal(body, &status); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: failed to decode response: %v", api.ErrUpstream, err)
	}

	if statusCode := status.statusCode(); statusCode != http.StatusOK {
		if statusCode == 0 {
			statusCode = resp.StatusCode
		}
		l.WarnContext(ctx, "Weather provider rejected lookup",
			slog.String("location", location),
			slog.Int("provider_status", statusCode),
			slog.String("provider_message", status.Message))
		span.SetStatus(codes.Error, "Provider rejected lookup")
		return nil, &UpstreamError{StatusCode: statusCode, Message: status.Message}
	}

	span.SetStatus(codes.Ok, "Weather retrieved")
	return body, nil
}
