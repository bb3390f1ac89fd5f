package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"crypto-dashboard/internal/domain"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// HistoryProvider fetches price history from the remote price source.
type HistoryProvider interface {
	FetchHistory(ctx context.Context, asset domain.Asset, rng domain.Range) (*domain.PriceHistory, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// PriceService fronts the price provider with a short-lived Redis cache so
// dashboards watching the same asset and range share one upstream fetch.
type PriceService struct {
	tracer   trace.Tracer
	provider HistoryProvider
	redis    RedisClient
	ttl      time.Duration
	logger   *log.Logger
}

// NewPriceService creates a PriceService. A nil redis client or a zero ttl
// disables caching.
func NewPriceService(
	tracer trace.Tracer,
	provider HistoryProvider,
	redisClient RedisClient,
	ttl time.Duration,
	logger *log.Logger,
) *PriceService {
	return &PriceService{
		tracer:   tracer,
		provider: provider,
		redis:    redisClient,
		ttl:      ttl,
		logger:   logger,
	}
}

func (s *PriceService) cacheEnabled() bool {
	return s.redis != nil && s.ttl > 0
}

// FetchHistory returns the cached history for asset and rng, fetching and
// caching it on a miss. Cache errors are logged and fall through to the
// provider.
func (s *PriceService) FetchHistory(ctx context.Context, asset domain.Asset, rng domain.Range) (*domain.PriceHistory, error) {
	ctx, span := s.tracer.Start(ctx, "price-service.fetch-history")
	defer span.End()

	if s.cacheEnabled() {
		cached, err := s.getHistoryCache(ctx, asset, rng)
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Warn("redis cache read error", "asset", asset, "range", rng, "err", err)
		}
		if cached != nil {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return cached, nil
		}
	}
	span.SetAttributes(attribute.Bool("cache_hit", false))

	history, err := s.provider.FetchHistory(ctx, asset, rng)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		if err := s.setHistoryCache(ctx, asset, rng, history); err != nil {
			s.logger.Warn("redis cache write error", "asset", asset, "range", rng, "err", err)
		}
	}
	return history, nil
}

type cachedPoint struct {
	Time  int64   `json:"t"`
	Price float64 `json:"p"`
}

type cachedHistory struct {
	History   []cachedPoint `json:"history"`
	Volume24h float64       `json:"volume_24h"`
}

func historyCacheKey(asset domain.Asset, rng domain.Range) string {
	return fmt.Sprintf("history:%s:%s", asset, rng)
}

func (s *PriceService) setHistoryCache(ctx context.Context, asset domain.Asset, rng domain.Range, h *domain.PriceHistory) error {
	c := cachedHistory{
		History:   make([]cachedPoint, len(h.History)),
		Volume24h: h.Volume24h,
	}
	for i, p := range h.History {
		c.History[i] = cachedPoint{Time: p.Time.UnixMilli(), Price: p.Price}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, historyCacheKey(asset, rng), data, s.ttl).Err()
}

func (s *PriceService) getHistoryCache(ctx context.Context, asset domain.Asset, rng domain.Range) (*domain.PriceHistory, error) {
	data, err := s.redis.Get(ctx, historyCacheKey(asset, rng)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var c cachedHistory
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	h := &domain.PriceHistory{
		History:   make([]domain.PricePoint, len(c.History)),
		Volume24h: c.Volume24h,
	}
	for i, p := range c.History {
		h.History[i] = domain.PricePoint{Time: time.UnixMilli(p.Time), Price: p.Price}
	}
	return h, nil
}
