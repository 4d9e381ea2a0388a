package pokemon

import (
	"context"
	"sync"
	"time"

	"github.com/kapu/pokedex-translator-go/internal/constants"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// WarmUpReport summarizes a WarmUp run.
type WarmUpReport struct {
	Resolved int
	Failed   map[string]error
	Elapsed  time.Duration
}

// WarmUp resolves names on a bounded pool so their results are cached before traffic
// arrives. Individual failures are collected, never fatal.
func (s *Service) WarmUp(ctx context.Context, names []string, concurrency int) WarmUpReport {
	if concurrency <= 0 {
		concurrency = constants.WarmUpConfig.Concurrency
	}

	start := time.Now()
	report := WarmUpReport{Failed: make(map[string]error)}
	if len(names) == 0 {
		return report
	}

	var mu sync.Mutex
	p := pool.New().WithMaxGoroutines(concurrency)
	for _, name := range names {
		name := name
		p.Go(func() {
			_, err := s.Resolve(ctx, name)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed[name] = err
				return
			}
			report.Resolved++
		})
	}
	p.Wait()

	report.Elapsed = time.Since(start)
	s.logger.Info("Cache warm-up finished",
		zap.Int("requested", len(names)),
		zap.Int("resolved", report.Resolved),
		zap.Int("failed", len(report.Failed)),
		zap.Duration("elapsed", report.Elapsed),
	)
	for name, err := range report.Failed {
		s.logger.Warn("Warm-up failed for pokemon", zap.String("pokemon", name), zap.Error(err))
	}
	return report
}
