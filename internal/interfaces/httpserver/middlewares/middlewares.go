package middlewares

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CORSConfig holds CORS configuration options.
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// DefaultCORSConfig returns a permissive CORS configuration.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "Authorization", "X-Request-ID", "X-Requested-With"},
		ExposeHeaders: []string{"X-Request-ID", "Content-Length"},
		MaxAge:        12 * time.Hour,
	}
}

// CORS allows requests from origin. An empty origin or "*" allows any.
func CORS(origin string) gin.HandlerFunc {
	cfg := DefaultCORSConfig()
	if origin = strings.TrimSpace(origin); origin != "" {
		cfg.AllowOrigins = []string{origin}
	}
	return CORSWithConfig(cfg)
}

// CORSWithConfig creates CORS middleware with custom configuration.
func CORSWithConfig(cfg CORSConfig) gin.HandlerFunc {
	allowOrigins := "*"
	if len(cfg.AllowOrigins) > 0 && cfg.AllowOrigins[0] != "*" {
		allowOrigins = cfg.AllowOrigins[0]
	}

	allowMethods := "GET, POST, OPTIONS"
	if len(cfg.AllowMethods) > 0 {
		allowMethods = strings.Join(cfg.AllowMethods, ", ")
	}

	allowHeaders := "Content-Type, Authorization, X-Request-ID"
	if len(cfg.AllowHeaders) > 0 {
		allowHeaders = strings.Join(cfg.AllowHeaders, ", ")
	}

	exposeHeaders := "X-Request-ID"
	if len(cfg.ExposeHeaders) > 0 {
		exposeHeaders = strings.Join(cfg.ExposeHeaders, ", ")
	}

	maxAge := "43200"
	if cfg.MaxAge > 0 {
		maxAge = strconv.Itoa(int(cfg.MaxAge.Seconds()))
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" || allowOrigins != "*" {
			origin = allowOrigins
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", allowMethods)
		h.Set("Access-Control-Allow-Headers", allowHeaders)
		h.Set("Access-Control-Expose-Headers", exposeHeaders)
		h.Set("Access-Control-Max-Age", maxAge)
		if cfg.AllowCredentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequestLoggerWithLogger logs every completed request. Client errors are
// logged at warn, server errors at error and health checks at debug.
func RequestLoggerWithLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			event = log.Error()
		case status >= http.StatusBadRequest:
			event = log.Warn()
		case untracked[c.FullPath()]:
			event = log.Debug()
		default:
			event = log.Info()
		}
		if last := c.Errors.Last(); last != nil {
			event = event.Err(last.Err)
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", c.FullPath()).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("request_id", GetRequestID(c)).
			Msg("request completed")
	}
}
