package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/janhq/amo-server/internal/utils/platformerrors"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"

	maxRequestIDLength = 128
)

// RequestID tags the request with the caller's X-Request-ID, or a fresh UUID
// when the header is missing or oversized. The ID is echoed in the response
// and attached to the request context for error bodies.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(platformerrors.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// GetRequestID returns the ID set by RequestID, or "" outside it.
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
