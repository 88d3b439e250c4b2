package quote

import (
	"context"
)

// ExpireSweep moves every sent quote whose expiry date has passed to
// expired and returns how many changed. The comparison is date-only and
// strict, so a quote expiring today survives until tomorrow. The write
// re-checks status, so a quote approved mid-sweep keeps its approval;
// re-running the sweep is a no-op. Invoked by an external scheduler.
func (s *Service) ExpireSweep(ctx context.Context) (int, error) {
	candidates, err := s.quotes.ListExpiring(ctx, s.clock.Now(), s.cfg.ExpireSweepBatchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, c := range candidates {
		changed, err := s.quotes.MarkExpired(ctx, c.ID)
		if err != nil {
			return expired, err
		}
		if changed {
			expired++
			s.log.InfoContext(ctx, "quote expired", "quote_id", c.ID, "account_id", c.AccountID)
		}
	}

	if expired > 0 || len(candidates) > 0 {
		s.log.InfoContext(ctx, "expiry sweep finished",
			"candidates", len(candidates), "expired", expired)
	}

	return expired, nil
}
