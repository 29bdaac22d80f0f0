package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger 请求日志中间件
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		latency := time.Since(start)
		if len(c.Errors) > 0 {
			log.Printf("[HTTP] %s %s %s %d %v errors=%s",
				c.Request.Method, path, c.ClientIP(), c.Writer.Status(), latency,
				c.Errors.ByType(gin.ErrorTypePrivate).String(),
			)
			return
		}
		log.Printf("[HTTP] %s %s %s %d %v",
			c.Request.Method, path, c.ClientIP(), c.Writer.Status(), latency,
		)
	}
}
