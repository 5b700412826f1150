package middleware

import (
	"time"

	"signalbridge/internal/consts"
	"signalbridge/pkg/response"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/time/rate"
)

// 按调用方key维护令牌桶，LRU兜住key数量，冷key自动淘汰
type keyedLimiter struct {
	cache *lru.Cache
	limit rate.Limit
	burst int
}

func newKeyedLimiter(perMinute int) *keyedLimiter {
	cache, _ := lru.New(2048)
	return &keyedLimiter{
		cache: cache,
		limit: rate.Every(time.Minute / time.Duration(perMinute)),
		burst: perMinute,
	}
}

func (k *keyedLimiter) allow(key string) bool {
	if v, ok := k.cache.Get(key); ok {
		return v.(*rate.Limiter).Allow()
	}
	limiter := rate.NewLimiter(k.limit, k.burst)
	k.cache.Add(key, limiter)
	return limiter.Allow()
}

// RateLimitByIP webhook入口按来源IP限流，perMinute<=0时不限
func RateLimitByIP(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := newKeyedLimiter(perMinute)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			response.TooManyRequests(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimitByApiKey EA轮询按账户key限流，防止失控的EA刷接口
func RateLimitByApiKey(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := newKeyedLimiter(perMinute)
	return func(c *gin.Context) {
		key := c.GetHeader(consts.ApiKeyHeader)
		if key == "" {
			key = c.Query(consts.ApiKeyQuery)
		}
		if key == "" {
			key = c.ClientIP()
		}
		if !limiter.allow(key) {
			response.TooManyRequests(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
