package utils

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// LoggerMiddleware logs request details
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		// Process request
		c.Next()

		logger := RequestLogger(c)
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("ip", c.ClientIP()).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")

		if query != "" {
			logger.Debug().Str("query", query).Msg("query parameters")
		}
	}
}

// CORSMiddleware handles CORS
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Idempotency-Key, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// IPRateLimiter hands out one token bucket per client IP. Buckets idle for
// longer than IdleTTL are dropped on the next sweep.
type IPRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*ipLimiter
	rate      rate.Limit
	burst     int
	IdleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewIPRateLimiter(perSecond float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		limiters: make(map[string]*ipLimiter),
		rate:     rate.Limit(perSecond),
		burst:    burst,
		IdleTTL:  10 * time.Minute,
		now:      time.Now,
	}
}

// Allow reports whether ip may make another request now.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	now := l.now()
	if now.Sub(l.lastSweep) >= l.IdleTTL {
		l.sweep(now)
	}
	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()
	return entry.limiter.AllowN(now, 1)
}

// sweep drops buckets not used within IdleTTL. Caller holds mu.
func (l *IPRateLimiter) sweep(now time.Time) {
	for ip, entry := range l.limiters {
		if now.Sub(entry.lastSeen) >= l.IdleTTL {
			delete(l.limiters, ip)
		}
	}
	l.lastSweep = now
}

// Len is the number of tracked clients.
func (l *IPRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// RateLimitMiddleware rejects clients that exceed the limiter with 429.
func RateLimitMiddleware(l *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			RequestLogger(c).Warn().Str("ip", c.ClientIP()).Msg("rate limited")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}

// RecoveryMiddleware recovers from panics
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				LogErrorWithStack(fmt.Errorf("%v", err), debug.Stack())
				if WantsJSON(c) {
					c.AbortWithStatusJSON(500, gin.H{"error": ErrInternalServer})
					return
				}
				RenderError(c, http.StatusInternalServerError, DefaultErrorMessage)
				c.Abort()
			}
		}()
		c.Next()
	}
}

// RequestIDMiddleware keeps the caller's X-Request-ID or mints one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader("X-Request-ID"))
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// SecurityHeadersMiddleware adds security headers
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// MethodOverride rewrites POST requests carrying a _method form field (or
// X-HTTP-Method-Override header) into PUT, PATCH or DELETE before routing.
// It has to wrap the engine because gin picks the route before any
// middleware runs.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			m := r.Header.Get("X-HTTP-Method-Override")
			if m == "" && !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
				m = r.URL.Query().Get("_method")
				if m == "" {
					m = r.PostFormValue("_method")
				}
			}
			switch m = strings.ToUpper(m); m {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}

// WantsJSON is true for API style requests.
func WantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json") ||
		strings.HasPrefix(c.ContentType(), "application/json")
}
