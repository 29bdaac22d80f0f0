package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/user/movieticket/internal/utils"
)

// 客户端空闲超过该时间后其令牌桶被清理
const limiterIdleTimeout = 3 * time.Minute

// RateLimit 按客户端 IP 限流
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	var mu sync.Mutex
	visitors := utils.NewCache(limiterIdleTimeout)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		var limiter *rate.Limiter
		if v, ok := visitors.Get(ip); ok {
			limiter = v.(*rate.Limiter)
		} else {
			limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
		// 每次访问都刷新过期时间
		visitors.SetDefault(ip, limiter)
		allowed := limiter.Allow()
		mu.Unlock()

		if !allowed {
			c.Header("Retry-After", "1")
			utils.TooManyRequests(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
