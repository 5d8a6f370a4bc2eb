package ratelimit

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter serializes calls to the catalog API so that at least
// 1/maxPerSecond elapses between admitted requests. It also watches
// quota usage reported by the API and logs a one-time warning when the
// configured threshold is crossed.
type Limiter struct {
	limiter *rate.Limiter
	logger  *zap.Logger

	// warnThreshold is the quota-used percentage (0-100) above which a
	// warning is emitted. Zero disables warnings.
	warnThreshold int
	warned        atomic.Bool
}

// New creates a Limiter admitting at most maxPerSecond requests.
// A burst of 1 keeps a single global sequence with a fixed minimum
// inter-request interval, matching the upstream API's throttle contract.
func New(maxPerSecond float64, warnThreshold int, logger *zap.Logger) *Limiter {
	if maxPerSecond <= 0 {
		maxPerSecond = 10
	}
	return &Limiter{
		limiter:       rate.NewLimiter(rate.Limit(maxPerSecond), 1),
		logger:        logger,
		warnThreshold: warnThreshold,
	}
}

// Wait blocks until the next request may be issued, or until ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
