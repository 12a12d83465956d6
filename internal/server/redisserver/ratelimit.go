package redisserver

import (
	"golang.org/x/time/rate"

	"github.com/yndnr/respkv/pkg/cmap"
)

// rateLimiter keeps one token bucket per client IP.
type rateLimiter struct {
	limiters *cmap.Map[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

func newRateLimiter(requestsPerSecond int) *rateLimiter {
	return &rateLimiter{
		limiters: cmap.New[string, *rate.Limiter](),
		limit:    rate.Limit(requestsPerSecond),
		burst:    requestsPerSecond,
	}
}

// allow checks if a request from the given IP should be allowed.
func (rl *rateLimiter) allow(ip string) bool {
	if rl.limit <= 0 {
		return true
	}

	l, ok := rl.limiters.Get(ip)
	if !ok {
		l, _ = rl.limiters.GetOrSet(ip, rate.NewLimiter(rl.limit, rl.burst))
	}
	return l.Allow()
}
