package middleware

import (
	"bytes"

	"github.com/gin-gonic/gin"
	"github.com/qmenu/selforder-api/internal/infrastructure/cache"
)

// IdempotencyKeyHeader is the HTTP header for idempotency keys
const IdempotencyKeyHeader = "Idempotency-Key"

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a session resubmits the same
// key. A kiosk's submit button is the main caller; a double tap must not
// create two orders.
func Idempotency(store *cache.RedisIdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != "POST" && c.Request.Method != "PUT" && c.Request.Method != "PATCH" {
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}

		sessionID := c.GetString("session_id")
		if sessionID == "" {
			c.Next()
			return
		}

		existing, err := store.Get(c.Request.Context(), sessionID, idempotencyKey)
		if err == nil && existing != nil {
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.Code, "application/json", []byte(existing.Body))
			c.Abort()
			return
		}

		// Capture the response
		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// Only replay successful responses
		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
			_ = store.Set(c.Request.Context(), sessionID, idempotencyKey, &cache.CachedResponse{
				Code: c.Writer.Status(),
				Body: blw.body.String(),
			})
		}
	}
}

// IdempotencyRequired rejects mutating requests that carry no idempotency key
func IdempotencyRequired(store *cache.RedisIdempotencyStore) gin.HandlerFunc {
	replay := Idempotency(store)
	return func(c *gin.Context) {
		if c.Request.Method == "POST" && c.GetHeader(IdempotencyKeyHeader) == "" {
			c.JSON(400, gin.H{
				"success": false,
				"message": "Idempotency-Key header is required for this request",
			})
			c.Abort()
			return
		}
		replay(c)
	}
}
