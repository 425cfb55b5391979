package models

import (
	"time"

	"gorm.io/gorm"
)

type Soundboard struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	Title          string    `json:"title" gorm:"size:255"`          // 用户起的短标签
	Text           string    `json:"text" gorm:"type:text"`          // 被合成的原始文本
	AudioURL       string    `json:"audioUrl" gorm:"size:1024"`      // 存储后的公开地址
	FileName       string    `json:"fileName" gorm:"size:255"`       // 对象键，独立于 URL 保存
	CreatedByEmail string    `json:"createdByEmail" gorm:"size:255;index"` // 归属者，列表查询的唯一分区键
	CreatedAt      time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// CreateSoundboard 插入一条新的音频记录
func CreateSoundboard(db *gorm.DB, sb *Soundboard) error {
	return db.Create(sb).Error
}

// GetSoundboard 按 ID 获取单条记录
func GetSoundboard(db *gorm.DB, id string) (*Soundboard, error) {
	var sb Soundboard
	if err := db.First(&sb, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sb, nil
}

// GetSoundboardsByEmail 按归属者列出记录，最新的排在前面
func GetSoundboardsByEmail(db *gorm.DB, email string) ([]Soundboard, error) {
	var boards []Soundboard
	if err := db.Where("created_by_email = ?", email).
		Order("created_at desc").
		Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

// DeleteSoundboard 按 ID 删除记录
func DeleteSoundboard(db *gorm.DB, id string) error {
	return db.Delete(&Soundboard{}, "id = ?", id).Error
}
