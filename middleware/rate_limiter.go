package middleware

import (
	"net/http"
	"sync"
	"time"

	"parkwise/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// rateLimiterStore holds one limiter per client key.
type rateLimiterStore struct {
	limiters  map[string]*rate.Limiter
	perMinute int
	mu        sync.Mutex
}

func newRateLimiterStore(perMinute int) *rateLimiterStore {
	if perMinute <= 0 {
		perMinute = 200
	}
	return &rateLimiterStore{limiters: make(map[string]*rate.Limiter), perMinute: perMinute}
}

// getLimiter returns the limiter for key, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[key]
	if !exists {
		// perMinute requests per minute, all of which may arrive as a burst.
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMinute)), s.perMinute)
		s.limiters[key] = limiter
	}
	return limiter
}

// RateLimitMiddleware limits requests per client IP, or per lot for gate scanners.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	store := newRateLimiterStore(perMinute)
	return func(c *gin.Context) {
		key := limiterKey(c)
		if !store.getLimiter(key).Allow() {
			utils.GetLogger().Warn("Rate limit exceeded", zap.String("client", key))
			utils.JSONErrorCode(c, http.StatusTooManyRequests, "rateLimited", "Rate limit exceeded. Try again later.", "")
			return
		}
		c.Next()
	}
}
