package models

import (
	"time"

	"gorm.io/gorm"
)

// 每个请求一行的访问审计记录
type OperationLog struct {
	ID        uint   `gorm:"primaryKey"`
	Method    string `gorm:"size:16"`
	Path      string `gorm:"size:512"`
	Status    int
	IPAddress string `gorm:"size:64"`
	UserAgent string `gorm:"size:512"`
	Browser   string `gorm:"size:128"`
	OS        string `gorm:"size:128"`
	Device    string `gorm:"size:128"`
	Location  string `gorm:"size:128"` // GeoIP 国家，可空
	LatencyMs int64
	CreatedAt time.Time
}

// CreateOperationLog 写入一条访问审计记录
func CreateOperationLog(db *gorm.DB, entry *OperationLog) error {
	return db.Create(entry).Error
}
