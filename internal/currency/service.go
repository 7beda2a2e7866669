// Package currency maintains the single cached exchange-rate document.
package currency

import (
	"context"
	"log"
	"time"
)

const (
	// rateTTL is the validity window of a fetched rate set.
	rateTTL = 8 * time.Hour
	// fetchTimeout bounds a single upstream rate fetch.
	fetchTimeout = 10 * time.Second
)

// Rates は通貨コードからレートへの対応と、その鮮度情報。
type Rates struct {
	Values    map[string]float64
	FetchedAt time.Time
	ExpiresAt time.Time
}

// RateStore persists the well-known "latest" rates document.
type RateStore interface {
	Latest(ctx context.Context) (*Rates, error)
	Save(ctx context.Context, rates Rates) error
}

// RateFetcher retrieves fresh rates from the external exchange-rate API.
type RateFetcher interface {
	Fetch(ctx context.Context) (map[string]float64, error)
}

// Service implements the fetch-or-reuse contract over the cached document.
type Service struct {
	store   RateStore
	fetcher RateFetcher
	logger  *log.Logger
	now     func() time.Time
}

// NewService creates the rate cache service.
func NewService(store RateStore, fetcher RateFetcher, logger *log.Logger) *Service {
	return &Service{store: store, fetcher: fetcher, logger: logger, now: time.Now}
}

// CachedRates returns the stored rate mapping, or ok=false when no cache
// exists or the stored expiry is in the past. Storage errors are logged and
// reported as a cache miss, never propagated.
func (s *Service) CachedRates(ctx context.Context) (map[string]float64, bool) {
	stored, err := s.store.Latest(ctx)
	if err != nil {
		s.logf("レートキャッシュの読み取りに失敗: %v", err)
		return nil, false
	}
	if stored == nil || len(stored.Values) == 0 {
		return nil, false
	}
	if !s.now().Before(stored.ExpiresAt) {
		return nil, false
	}
	return stored.Values, true
}

// UpdateRates refreshes the cache. When a valid cache exists and force is
// false the call is a no-op returning true. Otherwise fresh rates are
// fetched with a fixed timeout; on success they are stored with a new
// 8-hour expiry, on failure false is returned and the stored cache is left
// untouched.
func (s *Service) UpdateRates(ctx context.Context, force bool) bool {
	if !force {
		if _, ok := s.CachedRates(ctx); ok {
			return true
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	values, err := s.fetcher.Fetch(fetchCtx)
	if err != nil {
		s.logf("為替レートの取得に失敗: %v", err)
		return false
	}
	if len(values) == 0 {
		s.logf("為替レート API が空のレート表を返しました")
		return false
	}

	now := s.now().UTC()
	rates := Rates{
		Values:    values,
		FetchedAt: now,
		ExpiresAt: now.Add(rateTTL),
	}
	if err := s.store.Save(ctx, rates); err != nil {
		s.logf("レートキャッシュの保存に失敗: %v", err)
		return false
	}

	s.logf("為替レートを更新しました (%d 通貨, 有効期限 %s)", len(values), rates.ExpiresAt.Format(time.RFC3339))
	return true
}

// Rates returns cached values when fresh, otherwise attempts a refresh and
// re-reads the cache. Used by the public rates endpoint.
func (s *Service) Rates(ctx context.Context) (map[string]float64, bool) {
	if values, ok := s.CachedRates(ctx); ok {
		return values, true
	}
	if !s.UpdateRates(ctx, false) {
		return nil, false
	}
	return s.CachedRates(ctx)
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
