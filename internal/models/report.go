package models

import (
	"time"

	"gorm.io/gorm"
)

type Report struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Comment   string    `json:"comment" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// ReportPage 分页结果
type ReportPage struct {
	Items      []Report `json:"items"`
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalPages int      `json:"totalPages"`
}

// CreateReport 保存一条举报
func CreateReport(db *gorm.DB, comment string) (*Report, error) {
	report := &Report{Comment: comment}
	if err := db.Create(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

// ListReports 分页列出举报，最新的排在前面
func ListReports(db *gorm.DB, page, limit int) (*ReportPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int64
	if err := db.Model(&Report{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var items []Report
	if err := db.Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ReportPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}
