// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/cursus/internal/platform/apperr"
	"github.com/taibuivan/cursus/internal/platform/constants"
	"github.com/taibuivan/cursus/internal/platform/respond"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// buckets holds one token bucket per client IP.
type buckets struct {
	mu      sync.Mutex
	byIP    map[string]*bucket
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
}

// reserve takes one token, or reports how long until one is available.
func (set *buckets) reserve(ip string, now time.Time) (bool, time.Duration) {
	set.mu.Lock()
	defer set.mu.Unlock()

	entry, found := set.byIP[ip]
	if !found {
		entry = &bucket{limiter: rate.NewLimiter(set.limit, set.burst)}
		set.byIP[ip] = entry
	}
	entry.lastSeen = now

	reservation := entry.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, time.Second
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (set *buckets) sweep(now time.Time) {
	set.mu.Lock()
	defer set.mu.Unlock()

	for ip, entry := range set.byIP {
		if now.Sub(entry.lastSeen) > set.idleTTL {
			delete(set.byIP, ip)
		}
	}
}

// RateLimit throttles each client IP with a token bucket of requestsPerSecond
// and burst. Rejections are 429 with Retry-After. Idle buckets are swept until
// ctx is cancelled.
func RateLimit(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	set := &buckets{
		byIP:    make(map[string]*bucket),
		limit:   rate.Limit(requestsPerSecond),
		burst:   burst,
		idleTTL: constants.RateLimitClientTTL,
	}

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case now := <-ticker.C:
				set.sweep(now)
			case <-ctx.Done():
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if allowed, wait := set.reserve(RealIP(request), time.Now()); !allowed {
				respond.Error(writer, request, apperr.RateLimited(wait))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// LimitExceeded renders the rate-limit error for limiters built elsewhere,
// such as httprate on the credential routes.
func LimitExceeded(window time.Duration) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.RateLimited(window))
	}
}
