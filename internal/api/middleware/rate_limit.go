package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"employee-tracker/pkg/metrics"
	"employee-tracker/pkg/response"
)

// WindowLimiter 分布式滑动窗口限流（Redis 实现）
type WindowLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 登录/注册接口限流中间件
// limit: 窗口内允许的最大请求数
// window: 滑动窗口时长
// rdb 为 nil 或 Redis 出错时降级为进程内按 IP 的令牌桶
func RateLimit(rdb WindowLimiter, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	local := newIPLimiter(limit, window)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		backend := "memory"
		allowed := false

		if rdb != nil {
			key := fmt.Sprintf("rate_limit:%s:%s", ip, c.FullPath())
			ok, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
			if err == nil {
				backend, allowed = "redis", ok
			} else {
				logger.Warn("Redis 限流失败，降级为本地限流", zap.Error(err))
				allowed = local.allow(ip)
			}
		} else {
			allowed = local.allow(ip)
		}

		if !allowed {
			metrics.RateLimitedTotal.WithLabelValues(c.FullPath(), backend).Inc()
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			response.Error(c, http.StatusTooManyRequests, 10004, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}

		c.Next()
	}
}

// ── 进程内限流 ──

// ipLimiter 每个 IP 一个令牌桶：容量 limit，每 window/limit 补充一个
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipEntry
	every    rate.Limit
	burst    int
	ttl      time.Duration
	lastGC   time.Time
}

type ipEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(limit int, window time.Duration) *ipLimiter {
	if limit <= 0 {
		limit = 1
	}
	return &ipLimiter{
		limiters: make(map[string]*ipEntry),
		every:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
		ttl:      window * 2,
		lastGC:   time.Now(),
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	// 顺带清理长时间未出现的 IP
	if now.Sub(l.lastGC) > l.ttl {
		for k, e := range l.limiters {
			if now.Sub(e.lastSeen) > l.ttl {
				delete(l.limiters, k)
			}
		}
		l.lastGC = now
	}

	e, ok := l.limiters[ip]
	if !ok {
		e = &ipEntry{limiter: rate.NewLimiter(l.every, l.burst)}
		l.limiters[ip] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}
