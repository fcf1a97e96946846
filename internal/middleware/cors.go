package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS answers preflight requests and exposes the request ID to the
// browser. The dashboard is served from a separate origin, so every
// verb the API accepts must be listed here.
func CORS() gin.HandlerFunc {
	allowMethods := "GET, POST, PUT, DELETE, OPTIONS"
	allowHeaders := "Authorization, Content-Type, X-Request-ID"

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", allowMethods)
		h.Set("Access-Control-Allow-Headers", allowHeaders)
		h.Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
