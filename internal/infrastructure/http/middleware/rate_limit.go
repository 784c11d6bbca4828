package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/rezkam/dolist/internal/infrastructure/http/response"
)

// Client limiter bookkeeping bounds.
const (
	maxTrackedClients = 1000
	clientLimiterTTL  = 5 * time.Minute
)

// RateLimit throttles requests per client IP with a token bucket.
// Idle clients are evicted after clientLimiterTTL.
type RateLimit struct {
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

// NewRateLimit allows requestsPerMin sustained requests per client with the given burst.
func NewRateLimit(requestsPerMin, burst int) *RateLimit {
	return &RateLimit{
		limiters: expirable.NewLRU[string, *rate.Limiter](maxTrackedClients, nil, clientLimiterTTL),
		rate:     rate.Limit(float64(requestsPerMin) / 60.0),
		burst:    max(burst, 1),
	}
}

// Limit is a Chi middleware rejecting requests over the client's budget with 429.
// It relies on middleware.RealIP having normalized RemoteAddr.
func (rl *RateLimit) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientKey(r)
		if !rl.allow(client) {
			slog.WarnContext(r.Context(), "rate limit exceeded",
				"client", client,
				"path", r.URL.Path)
			w.Header().Set("Retry-After", "1")
			response.TooManyRequests(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimit) allow(client string) bool {
	limiter, ok := rl.limiters.Get(client)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(client, limiter)
	}
	return limiter.Allow()
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
