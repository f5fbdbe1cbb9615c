// Package middleware holds gin middleware shared across the HTTP demo
// surface, independent of any one handler.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the gin context key under which RequestID stores the
// correlation id for the current request.
const RequestIDKey = "request_id"

// RequestID accepts the client's X-Request-ID header if it is between 1 and
// 64 bytes long, otherwise mints a UUID. Either way it echoes the id back on
// the response header and stashes it in the gin context for accessLog and
// any handler that wants it in an error response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if n := len(requestID); n < 1 || n > 64 {
			requestID = uuid.New().String()
		}

		c.Header("X-Request-ID", requestID)
		c.Set(RequestIDKey, requestID)
		c.Next()
	}
}

// GetRequestID returns the current request's id, or "" if RequestID never ran.
func GetRequestID(c *gin.Context) string {
	v, ok := c.Get(RequestIDKey)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}
