package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campusiq-api/pkg/middleware/requestid"
)

const (
	responseMetaKey  = "response_meta"
	processingTimeMs = "processingTimeMs"
)

// WithResponseMeta initialises response metadata storage on the request context.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseMetaKey, map[string]interface{}{})
		c.Next()
	}
}

// ExtractMeta returns the metadata map stored on the context with the request
// id and the elapsed time since start.
func ExtractMeta(c *gin.Context, start time.Time) map[string]interface{} {
	meta := ensureMeta(c)
	if id := requestid.Value(c); id != "" {
		meta["requestId"] = id
	}
	meta[processingTimeMs] = time.Since(start).Milliseconds()
	return meta
}

// SetMeta records one metadata entry for the current response.
func SetMeta(c *gin.Context, key string, value interface{}) {
	ensureMeta(c)[key] = value
}

func ensureMeta(c *gin.Context) map[string]interface{} {
	if meta, exists := c.Get(responseMetaKey); exists {
		if typed, ok := meta.(map[string]interface{}); ok {
			return typed
		}
	}
	newMeta := make(map[string]interface{})
	c.Set(responseMetaKey, newMeta)
	return newMeta
}
