package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-weather-tracker/app/observability/metrics"
	"github.com/FACorreiaa/go-weather-tracker/internal/api/history"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	LookupAndRecord(ctx context.Context, userID uuid.UUID, location string) (json.RawMessage, error)
}

// ServiceImpl fetches weather for a location and records the search in the
// caller's history. Provider payloads are cached per location so repeated
// lookups inside the TTL don't hit the upstream again.
type ServiceImpl struct {
	client         Client
	historyService history.Service
	cache          *cache.Cache
	logger         *slog.Logger
}

func NewService(client Client, historyService history.Service, cacheTTL time.Duration, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		client:         client,
		historyService: historyService,
		cache:          cache.New(cacheTTL, 2*cacheTTL),
		logger:         logger,
	}
}

func (s *ServiceImpl) LookupAndRecord(ctx context.Context, userID uuid.UUID, location string) (json.RawMessage, error) {
	ctx, span := otel.Tracer("WeatherService").Start(ctx, "LookupAndRecord", trace.WithAttributes(
		attribute.String("user_id", userID.String()),
		attribute.String("location", location),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "LookupAndRecord"))
	metrics.Get().WeatherLookupsTotal.Add(ctx, 1)

	cacheKey := strings.ToLower(strings.TrimSpace(location))
	span.SetAttributes(attribute.String("cache.key", cacheKey))

	var payload json.RawMessage
	if cached, found := s.cache.Get(cacheKey); found {
		payload = cached.(json.RawMessage)
		metrics.Get().WeatherCacheHitsTotal.Add(ctx, 1)
		span.SetAttributes(attribute.Bool("cache.hit", true))
	} else {
		fetched, err := s.client.CurrentWeather(ctx, location)
		if err != nil {
			metrics.Get().UpstreamErrorsTotal.Add(ctx, 1)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Provider lookup failed")
			return nil, err
		}
		payload = fetched
		s.cache.Set(cacheKey, payload, cache.DefaultExpiration)
	}

	// The search is part of the contract, a lookup that cannot be recorded
	// is reported as a failure even though the provider answered.
	entryID, err := s.historyService.Record(ctx, userID, location, payload, time.Now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to store search history")
		return nil, fmt.Errorf("failed to store search history: %w", err)
	}

	l.InfoContext(ctx, "Weather lookup recorded",
		slog.String("user_id", userID.String()),
		slog.String("location", location),
		slog.String("entry_id", entryID.String()))

	span.SetStatus(codes.Ok, "Weather lookup recorded")
	return payload, nil
}
