package middleware

import "github.com/gin-gonic/gin"

// 海报来自任意外部地址，img-src 放开
const contentSecurityPolicy = "default-src 'self'; img-src * data:; style-src 'self'; script-src 'none'; form-action 'self'; frame-ancestors 'none'"

// Security 安全响应头
func Security() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "same-origin")
		h.Set("Content-Security-Policy", contentSecurityPolicy)
		c.Next()
	}
}
