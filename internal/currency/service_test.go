package currency

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStore struct {
	stored    *Rates
	latestErr error
	saveErr   error
	saves     int
}

func (f *fakeStore) Latest(ctx context.Context) (*Rates, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	return f.stored, nil
}

func (f *fakeStore) Save(ctx context.Context, rates Rates) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	copied := rates
	f.stored = &copied
	return nil
}

type fakeFetcher struct {
	values  map[string]float64
	err     error
	fetches int
}

func (f *fakeFetcher) Fetch(ctx context.Context) (map[string]float64, error) {
	f.fetches++
	return f.values, f.err
}

func newTestService(store *fakeStore, fetcher *fakeFetcher, now time.Time) *Service {
	svc := NewService(store, fetcher, nil)
	svc.now = func() time.Time { return now }
	return svc
}

func TestCachedRatesTTLBoundary(t *testing.T) {
	fetchedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{stored: &Rates{
		Values:    map[string]float64{"JPY": 155.2, "EUR": 0.92},
		FetchedAt: fetchedAt,
		ExpiresAt: fetchedAt.Add(rateTTL),
	}}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"seven hours fifty-nine minutes", fetchedAt.Add(7*time.Hour + 59*time.Minute), true},
		{"exactly at expiry", fetchedAt.Add(8 * time.Hour), false},
		{"eight hours one minute", fetchedAt.Add(8*time.Hour + 1*time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(store, &fakeFetcher{}, tt.now)
			values, ok := svc.CachedRates(context.Background())
			if ok != tt.want {
				t.Fatalf("CachedRates ok = %t, want %t", ok, tt.want)
			}
			if ok && values["JPY"] != 155.2 {
				t.Errorf("cached JPY = %v, want 155.2", values["JPY"])
			}
		})
	}
}

func TestUpdateRatesNoopWhenCacheValid(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{stored: &Rates{
		Values:    map[string]float64{"JPY": 155.2},
		FetchedAt: now.Add(-time.Hour),
		ExpiresAt: now.Add(7 * time.Hour),
	}}
	fetcher := &fakeFetcher{values: map[string]float64{"JPY": 150}}
	svc := newTestService(store, fetcher, now)

	if !svc.UpdateRates(context.Background(), false) {
		t.Fatal("UpdateRates = false with a valid cache")
	}
	if fetcher.fetches != 0 {
		t.Errorf("fetches = %d, want 0 (no-op)", fetcher.fetches)
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0 (no-op)", store.saves)
	}
}

func TestUpdateRatesForcedRefetches(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{stored: &Rates{
		Values:    map[string]float64{"JPY": 155.2},
		FetchedAt: now.Add(-time.Hour),
		ExpiresAt: now.Add(7 * time.Hour),
	}}
	fetcher := &fakeFetcher{values: map[string]float64{"JPY": 150}}
	svc := newTestService(store, fetcher, now)

	if !svc.UpdateRates(context.Background(), true) {
		t.Fatal("forced UpdateRates = false")
	}
	if fetcher.fetches != 1 {
		t.Errorf("fetches = %d, want 1", fetcher.fetches)
	}
	if store.stored.Values["JPY"] != 150 {
		t.Errorf("stored JPY = %v, want 150", store.stored.Values["JPY"])
	}
	if got := store.stored.ExpiresAt; !got.Equal(now.Add(rateTTL)) {
		t.Errorf("ExpiresAt = %v, want %v", got, now.Add(rateTTL))
	}
}

func TestUpdateRatesFetchFailureKeepsCache(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expired := &Rates{
		Values:    map[string]float64{"JPY": 155.2},
		FetchedAt: now.Add(-9 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}
	store := &fakeStore{stored: expired}
	fetcher := &fakeFetcher{err: errors.New("upstream down")}
	svc := newTestService(store, fetcher, now)

	if svc.UpdateRates(context.Background(), false) {
		t.Fatal("UpdateRates = true despite fetch failure")
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0 on failure", store.saves)
	}
	if store.stored != expired {
		t.Error("stored cache was replaced on failure")
	}
}

func TestUpdateRatesExpiredCacheRefetches(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{stored: &Rates{
		Values:    map[string]float64{"JPY": 155.2},
		FetchedAt: now.Add(-9 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}}
	fetcher := &fakeFetcher{values: map[string]float64{"JPY": 151.7, "USD": 1}}
	svc := newTestService(store, fetcher, now)

	if !svc.UpdateRates(context.Background(), false) {
		t.Fatal("UpdateRates = false for an expired cache")
	}
	if store.stored.Values["JPY"] != 151.7 {
		t.Errorf("stored JPY = %v, want 151.7", store.stored.Values["JPY"])
	}
}

func TestRatesRefreshesWhenExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{}
	fetcher := &fakeFetcher{values: map[string]float64{"JPY": 151.7}}
	svc := newTestService(store, fetcher, now)

	values, ok := svc.Rates(context.Background())
	if !ok {
		t.Fatal("Rates ok = false")
	}
	if values["JPY"] != 151.7 {
		t.Errorf("JPY = %v, want 151.7", values["JPY"])
	}
	if fetcher.fetches != 1 {
		t.Errorf("fetches = %d, want 1", fetcher.fetches)
	}
}
