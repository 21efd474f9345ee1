package middleware

import (
	"net/http"

	"github.com/chatagent/chatagent-go/internal/config"
	"github.com/chatagent/chatagent-go/internal/model"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitMessage 触发限流时返回的文本
const RateLimitMessage = "Too many requests, please slow down."

// NewRateLimiter 根据配置创建全局限流器，未启用时返回 nil
func NewRateLimiter(cfg config.RateLimitConfig) *rate.Limiter {
	if cfg.RPS <= 0 || cfg.Burst <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)
}

// RateLimit 限流中间件，limiter 为 nil 时不限流
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.ErrorResponse(RateLimitMessage))
			return
		}
		c.Next()
	}
}
