package ratelimit

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Quota carries the request-quota state reported by the catalog API on
// every response.
type Quota struct {
	// Remaining is the number of requests left in the current window.
	Remaining int64
	// Limit is the total number of requests allowed in the window.
	Limit int64
	// Reset is the time until the window resets.
	Reset time.Duration
}

// PercentUsed returns how much of the quota has been consumed, 0-100.
func (q Quota) PercentUsed() float64 {
	if q.Limit <= 0 {
		return 0
	}
	return float64(q.Limit-q.Remaining) / float64(q.Limit) * 100
}

// QuotaFromHeader extracts quota values from the RapidAPI rate-limit
// response headers. The second return value is false when the headers
// are absent or unparseable.
func QuotaFromHeader(h http.Header) (Quota, bool) {
	remaining, err := strconv.ParseInt(h.Get("X-RateLimit-Requests-Remaining"), 10, 64)
	if err != nil {
		return Quota{}, false
	}
	limit, err := strconv.ParseInt(h.Get("X-RateLimit-Requests-Limit"), 10, 64)
	if err != nil {
		return Quota{}, false
	}
	resetSecs, err := strconv.ParseInt(h.Get("X-RateLimit-Requests-Reset"), 10, 64)
	if err != nil {
		return Quota{}, false
	}
	return Quota{
		Remaining: remaining,
		Limit:     limit,
		Reset:     time.Duration(resetSecs) * time.Second,
	}, true
}

// Observe checks the reported quota against the warning threshold and
// logs a single warning per process run when it is crossed.
func (l *Limiter) Observe(q Quota) {
	if l.warnThreshold <= 0 {
		return
	}

	used := q.PercentUsed()
	if used < float64(l.warnThreshold) {
		return
	}

	if l.warned.CompareAndSwap(false, true) {
		l.logger.Warn("API quota usage is high",
			zap.String("used", fmt.Sprintf("%.0f%%", used)),
			zap.Int64("remaining", q.Remaining),
			zap.Int64("limit", q.Limit),
			zap.String("resets_in", FormatReset(q.Reset)),
		)
	}
}

// FormatReset renders a reset duration using the coarsest non-zero unit:
// "3 hours", "12 minutes", or "45 seconds".
func FormatReset(d time.Duration) string {
	switch {
	case d >= time.Hour:
		return plural(int(d.Hours()), "hour")
	case d >= time.Minute:
		return plural(int(d.Minutes()), "minute")
	default:
		secs := int(d.Seconds())
		if secs < 0 {
			secs = 0
		}
		return plural(secs, "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
