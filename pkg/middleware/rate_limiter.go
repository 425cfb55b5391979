package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimiterConfig 限流配置
//
// Rate: "100-M"、"1000-H" 这类 ulule/limiter 速率表达式。
// SkipPaths: 前缀匹配，匹配到的路径不限流。
// Store 采用内存，可通过 SetRateLimiterStore 注入外部存储（如 Redis）。
type RateLimiterConfig struct {
	Rate        string   `json:"rate"`
	SkipPaths   []string `json:"skip_paths"`
	AddHeaders  bool     `json:"add_headers"`
	DenyStatus  int      `json:"deny_status"` // 默认 429
	DenyMessage string   `json:"deny_message"`
}

var (
	rlMu     sync.RWMutex
	rlConfig = RateLimiterConfig{
		Rate:       "100-M",
		SkipPaths:  []string{"/health", "/metrics"},
		AddHeaders: true,
	}
	rlStore limiter.Store = memory.NewStore()

	rlAllowed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_limiter_allowed_total",
		Help: "Requests allowed by the rate limiter",
	}, []string{"path"})
	rlDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_limiter_denied_total",
		Help: "Requests denied by the rate limiter",
	}, []string{"path"})
)

// SetRateLimiterConfig 热更新限流配置
func SetRateLimiterConfig(cfg RateLimiterConfig) {
	rlMu.Lock()
	defer rlMu.Unlock()
	if cfg.Rate != "" {
		rlConfig.Rate = cfg.Rate
	}
	if cfg.SkipPaths != nil {
		rlConfig.SkipPaths = cfg.SkipPaths
	}
	rlConfig.AddHeaders = cfg.AddHeaders
	rlConfig.DenyStatus = cfg.DenyStatus
	rlConfig.DenyMessage = cfg.DenyMessage
}

// SetRateLimiterStore 注入外部限流存储
func SetRateLimiterStore(store limiter.Store) {
	rlMu.Lock()
	defer rlMu.Unlock()
	rlStore = store
}

func currentConfig() (RateLimiterConfig, limiter.Store) {
	rlMu.RLock()
	defer rlMu.RUnlock()
	return rlConfig, rlStore
}

// RateLimiter 按客户端 IP 限流
func RateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg, store := currentConfig()

		for _, p := range cfg.SkipPaths {
			if strings.HasPrefix(c.Request.URL.Path, p) {
				c.Next()
				return
			}
		}

		rate, err := limiter.NewRateFromFormatted(cfg.Rate)
		if err != nil {
			c.Next()
			return
		}

		lim := limiter.New(store, rate)
		lctx, err := lim.Get(c.Request.Context(), c.ClientIP())
		if err != nil {
			c.Next()
			return
		}

		if cfg.AddHeaders {
			c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
			c.Header("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
			c.Header("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))
		}

		if lctx.Reached {
			rlDenied.WithLabelValues(c.FullPath()).Inc()
			status := cfg.DenyStatus
			if status == 0 {
				status = http.StatusTooManyRequests
			}
			msg := cfg.DenyMessage
			if msg == "" {
				msg = "too many requests"
			}
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}

		rlAllowed.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
