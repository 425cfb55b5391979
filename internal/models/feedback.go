package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	FeedbackRatingMin = 1
	FeedbackRatingMax = 4
)

type Feedback struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Comment   string    `json:"comment" gorm:"type:text"`
	Rating    int       `json:"rating"` // 取值范围 [1,4]
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// CreateFeedback 保存一条评价
func CreateFeedback(db *gorm.DB, comment string, rating int) (*Feedback, error) {
	fb := &Feedback{Comment: comment, Rating: rating}
	if err := db.Create(fb).Error; err != nil {
		return nil, err
	}
	return fb, nil
}
