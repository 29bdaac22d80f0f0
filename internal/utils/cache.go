package utils

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// NewCache 创建带默认过期时间的缓存，清理间隔为过期时间的两倍
func NewCache(ttl time.Duration) *cache.Cache {
	if ttl <= 0 {
		return cache.New(cache.NoExpiration, 0)
	}
	return cache.New(ttl, 2*ttl)
}
