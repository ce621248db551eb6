package sse

import "github.com/gin-gonic/gin"

// SSEHeadersMiddleware sets the CORS headers EventSource clients need on
// cross-origin streams.
func SSEHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Cache-Control")
		c.Next()
	}
}
