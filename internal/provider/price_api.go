package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"crypto-dashboard/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrFetchFailure covers every way a price fetch can fail: transport errors,
// non-2xx statuses and bodies that do not decode.
var ErrFetchFailure = errors.New("price fetch failed")

// PriceAPIProvider fetches price history from the dashboard price API.
type PriceAPIProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewPriceAPIProvider creates a client for the API at baseURL. ratePerMinute
// caps outgoing requests across everything sharing the provider; zero or less
// disables the cap.
func NewPriceAPIProvider(tracer trace.Tracer, baseURL string, timeout time.Duration, ratePerMinute int) *PriceAPIProvider {
	return &PriceAPIProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		tracer:  tracer,
		limiter: NewPerMinuteLimiter(ratePerMinute),
	}
}

type pricePointJSON struct {
	Time  int64   `json:"time"`
	Price float64 `json:"price"`
}

type priceHistoryJSON struct {
	History   []pricePointJSON `json:"history"`
	Volume24h float64          `json:"volume_24h"`
}

// FetchHistory issues GET /api/price/{asset}?range={range}.
func (p *PriceAPIProvider) FetchHistory(ctx context.Context, asset domain.Asset, rng domain.Range) (*domain.PriceHistory, error) {
	ctx, span := p.tracer.Start(ctx, "price-api.fetch-history")
	defer span.End()
	span.SetAttributes(
		attribute.String("asset", string(asset)),
		attribute.String("range", string(rng)),
	)

	endpoint := fmt.Sprintf("%s/api/price/%s?%s",
		p.baseURL, url.PathEscape(string(asset)), url.Values{"range": {string(rng)}}.Encode())

	body, err := p.doRequest(ctx, endpoint)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var raw priceHistoryJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: parse history for %s/%s: %v", ErrFetchFailure, asset, rng, err)
	}

	history := &domain.PriceHistory{
		History:   make([]domain.PricePoint, 0, len(raw.History)),
		Volume24h: raw.Volume24h,
	}
	for _, pt := range raw.History {
		history.History = append(history.History, domain.PricePoint{
			Time:  time.UnixMilli(pt.Time),
			Price: pt.Price,
		})
	}
	span.SetAttributes(attribute.Int("points", len(history.History)))

	return history, nil
}

func (p *PriceAPIProvider) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: price API error %d: %s", ErrFetchFailure, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFetchFailure, err)
	}
	return body, nil
}
