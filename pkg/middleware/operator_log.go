package middleware

import (
	"net"
	"time"

	"EchoBoard/internal/models"
	"EchoBoard/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/mssola/user_agent"
	"github.com/oschwald/geoip2-golang"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var geoDB *geoip2.Reader

// InitGeoIP 打开 GeoIP 数据库，路径为空时跳过
func InitGeoIP(path string) {
	if path == "" {
		return
	}
	db, err := geoip2.Open(path)
	if err != nil {
		logger.Warn("failed to open geoip database", zap.String("path", path), zap.Error(err))
		return
	}
	geoDB = db
}

// OperationLogMiddleware 每个请求写一条访问审计记录
func OperationLogMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		ua := user_agent.New(c.GetHeader("User-Agent"))
		browser, version := ua.Browser()

		entry := &models.OperationLog{
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Status:    c.Writer.Status(),
			IPAddress: c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
			Browser:   browser + " " + version,
			OS:        ua.OS(),
			Device:    ua.Platform(),
			Location:  getGeoLocation(c.ClientIP()),
			LatencyMs: time.Since(start).Milliseconds(),
		}
		if err := models.CreateOperationLog(db, entry); err != nil {
			logger.Warn("failed to write operation log", zap.Error(err))
		}
	}
}

// getGeoLocation 根据 IP 查询国家，库未加载或查询失败时返回空
func getGeoLocation(ip string) string {
	if geoDB == nil {
		return ""
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}
	country, err := geoDB.Country(parsed)
	if err != nil || country == nil {
		return ""
	}
	return country.Country.IsoCode
}
