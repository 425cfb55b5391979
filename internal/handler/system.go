package handlers

import (
	"net/http"
	"time"

	"EchoBoard/pkg/metrics"
	"EchoBoard/pkg/middleware"
	"EchoBoard/pkg/response"

	"github.com/gin-gonic/gin"
)

// 服务横幅
func (h *Handlers) handleBanner(c *gin.Context) {
	message := "soundboard API is running"
	if h.translator != nil {
		message = h.translator.T(c.GetString("lang"), "banner.message", nil)
	}
	c.JSON(http.StatusOK, gin.H{
		"service": "echoboard",
		"message": message,
	})
}

// UpdateRateLimiterConfig 更新限流配置
func (h *Handlers) UpdateRateLimiterConfig(c *gin.Context) {
	var config middleware.RateLimiterConfig
	if err := c.ShouldBindJSON(&config); err != nil {
		response.Fail(c, "invalid request", nil)
		return
	}

	// 更新限流配置
	middleware.SetRateLimiterConfig(config)
	response.Success(c, "rate limiter config updated", nil)
}

// SystemStats 系统资源快照
func (h *Handlers) SystemStats(c *gin.Context) {
	response.Success(c, "ok", metrics.CollectSystemStats())
}

// HealthCheck 健康检查接口
func (h *Handlers) HealthCheck(c *gin.Context) {
	// 检查数据库连接
	sqlDB, err := h.db.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database connection failed"})
		return
	}
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database ping failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"uptime":    time.Since(h.startedAt).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
