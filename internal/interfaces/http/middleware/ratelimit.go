package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"site-gen-ai-api/internal/interfaces/http/dto"
	"site-gen-ai-api/pkg/errors"
	"site-gen-ai-api/pkg/logger"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// Limit 窗口内允许的请求数
	Limit int
	// Window 滑动窗口长度
	Window time.Duration
	// Endpoint 限流 Key 中的接口名
	Endpoint string
}

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// KeyFunc 根据客户端标识与接口名构建限流 Key
type KeyFunc func(clientID, endpoint string) string

// RateLimit 按客户端 IP 限流，limiter 为 nil 时不限流
func RateLimit(cfg RateLimitConfig, limiter RateLimiter, keyFn KeyFunc) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	if cfg.Limit <= 0 {
		cfg.Limit = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "default"
	}

	return func(c *gin.Context) {
		key := keyFn(c.ClientIP(), cfg.Endpoint)

		allowed, err := limiter.Allow(c.Request.Context(), key, cfg.Limit, cfg.Window)
		if err != nil {
			// 限流器故障时放行
			logger.Warn(c.Request.Context(), "rate limiter unavailable", "error", err.Error())
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
			c.Abort()
			dto.Error(c, http.StatusTooManyRequests, errors.ErrTooManyRequests.Message)
			return
		}

		c.Next()
	}
}
