package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/imrishuroy/go-wardrobe-api/internal/metrics"
)

// CORS allows the comma separated origins, or any origin for "*".
func CORS(allowedOrigins string) gin.HandlerFunc {
	origins := strings.Split(allowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		for _, allowed := range origins {
			if allowed == "*" {
				c.Header("Access-Control-Allow-Origin", "*")
				break
			}
			if origin != "" && origin == allowed {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				break
			}
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// SecurityHeaders sets the usual hardening headers for a JSON API.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("X-DNS-Prefetch-Control", "off")
		c.Header("Strict-Transport-Security", "max-age=15552000; includeSubDomains")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Next()
	}
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per client IP.
type RateLimiter struct {
	rps     rate.Limit
	burst   int
	idle    time.Duration
	nowFunc func() time.Time

	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
}

// NewRateLimiter allows rps requests per second per IP with bursts of burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		idle:    10 * time.Minute,
		nowFunc: time.Now,
		clients: make(map[string]*client),
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.nowFunc()
	cl, ok := rl.clients[ip]
	if !ok {
		cl = &client{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[ip] = cl
	}
	cl.lastSeen = now

	// at most one sweep per idle period
	if now.Sub(rl.lastSweep) > rl.idle {
		for k, other := range rl.clients {
			if now.Sub(other.lastSeen) > rl.idle {
				delete(rl.clients, k)
			}
		}
		rl.lastSweep = now
	}
	return cl.limiter.AllowN(now, 1)
}

// Handler returns the gin middleware.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":     "rate_limited",
				"message":   "Too many requests, please slow down.",
				"path":      c.Request.URL.Path,
				"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
			})
			return
		}
		c.Next()
	}
}

// Metrics reports every finished request to rec.
func Metrics(rec metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		rec.ObserveRequest(c.Request.Context(), metrics.Request{
			Route:   route,
			Method:  c.Request.Method,
			Status:  c.Writer.Status(),
			Latency: time.Since(start),
		})
	}
}

// RequestLogger logs one line per request, skipping the health probe.
func RequestLogger() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: formatRequest,
		SkipPaths: []string{"/health"},
	})
}

func formatRequest(p gin.LogFormatterParams) string {
	line := fmt.Sprintf("[HTTP] %s | %3d | %13v | %15s | %-7s %s",
		p.TimeStamp.UTC().Format(time.RFC3339),
		p.StatusCode,
		p.Latency,
		p.ClientIP,
		p.Method,
		p.Path,
	)
	if p.ErrorMessage != "" {
		line += " | " + strings.TrimSpace(p.ErrorMessage)
	}
	return line + "\n"
}
