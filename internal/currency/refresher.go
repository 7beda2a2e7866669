package currency

import (
	"context"
	"time"
)

// RunRefresher invokes UpdateRates immediately and then on every TTL tick
// until ctx is cancelled. Intended to run in its own goroutine from the
// composition root.
func (s *Service) RunRefresher(ctx context.Context) {
	s.UpdateRates(ctx, false)

	ticker := time.NewTicker(rateTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.UpdateRates(ctx, false)
		}
	}
}
