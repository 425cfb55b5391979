package models

import (
	"time"

	"gorm.io/gorm"
)

type History struct {
	ID             string    `json:"id" gorm:"primaryKey;size:64"` // 客户端生成的标识
	Title          string    `json:"title" gorm:"size:255"`
	Message        string    `json:"message" gorm:"type:text"`
	IsSpeechToText bool      `json:"isSpeechToText"` // true = 语音转文字，false = 文字转语音
	Email          string    `json:"email" gorm:"size:255;index"`
	CreatedAt      time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// HistoryEntry 对外返回的形态：时间戳在外层，内容折叠进 details
type HistoryEntry struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Details   HistoryDetails `json:"details"`
}

type HistoryDetails struct {
	Title          string `json:"title"`
	Message        string `json:"message"`
	IsSpeechToText bool   `json:"isSpeechToText"`
	Email          string `json:"email"`
}

// Entry 把一行记录转成对外形态
func (h *History) Entry() HistoryEntry {
	return HistoryEntry{
		ID:        h.ID,
		Timestamp: h.CreatedAt,
		Details: HistoryDetails{
			Title:          h.Title,
			Message:        h.Message,
			IsSpeechToText: h.IsSpeechToText,
			Email:          h.Email,
		},
	}
}

// CreateHistory 插入一条使用记录
func CreateHistory(db *gorm.DB, h *History) error {
	return db.Create(h).Error
}

// GetAllHistory 列出所有使用记录，最新的排在前面
func GetAllHistory(db *gorm.DB) ([]History, error) {
	var rows []History
	if err := db.Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetHistory 按 ID 获取单条使用记录
func GetHistory(db *gorm.DB, id string) (*History, error) {
	var h History
	if err := db.First(&h, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

// DeleteHistory 按 ID 删除使用记录
func DeleteHistory(db *gorm.DB, id string) error {
	return db.Delete(&History{}, "id = ?", id).Error
}
