package middleware

import (
	"net/http"
	"sync"
	"time"

	"homefix/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// idleLimiterTTL is how long an unused per-IP limiter is kept.
const idleLimiterTTL = 10 * time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterStore holds a map of IP addresses to their rate limiters.
type rateLimiterStore struct {
	limiters map[string]*ipLimiter
	mu       sync.Mutex
	every    rate.Limit
	burst    int
	lastGC   time.Time
}

func newRateLimiterStore(perMinute int) *rateLimiterStore {
	if perMinute <= 0 {
		perMinute = 20
	}
	burst := perMinute / 4
	if burst < 1 {
		burst = 1
	}
	return &rateLimiterStore{
		limiters: make(map[string]*ipLimiter),
		every:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		lastGC:   time.Now(),
	}
}

// getLimiter returns the rate limiter for a given IP, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(ip string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastGC) > idleLimiterTTL {
		for k, l := range s.limiters {
			if now.Sub(l.lastSeen) > idleLimiterTTL {
				delete(s.limiters, k)
			}
		}
		s.lastGC = now
	}

	l, exists := s.limiters[ip]
	if !exists {
		l = &ipLimiter{limiter: rate.NewLimiter(s.every, s.burst)}
		s.limiters[ip] = l
	}
	l.lastSeen = now
	return l.limiter
}

// RateLimitMiddleware limits requests per IP address to perMinute, with a
// burst of a quarter of that. Each call creates an independent limiter set.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	store := newRateLimiterStore(perMinute)
	return func(c *gin.Context) {
		ip := getClientIP(c)
		if !store.getLimiter(ip, time.Now()).Allow() {
			zap.L().Warn("Rate limit exceeded", zap.String("ip", ip), zap.String("path", c.Request.URL.Path))
			if store, ok := lookupSession(c); ok && c.Request.Method == http.MethodPost && !wantsJSON(c) {
				store.SetFlash(c.Request.Context(), "error", "Too many attempts. Try again in a minute.")
				c.Redirect(http.StatusSeeOther, c.Request.URL.Path)
				c.Abort()
				return
			}
			utils.JSONError(c, http.StatusTooManyRequests, "Rate limit exceeded. Try again later.", ip)
			c.Abort()
			return
		}
		c.Next()
	}
}
