package models

import (
	"time"

	"gorm.io/gorm"
)

type Profile struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"size:255"`
	Email          string    `json:"email" gorm:"size:255;uniqueIndex"`
	ProfilePicture string    `json:"profilePicture" gorm:"size:1024"` // 头像的公开地址，可空
	CreatedAt      time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// CreateProfile 创建用户资料，邮箱重复时返回错误
func CreateProfile(db *gorm.DB, name, email string) (*Profile, error) {
	profile := &Profile{Name: name, Email: email}
	if err := db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfileByEmail 按邮箱获取用户资料
func GetProfileByEmail(db *gorm.DB, email string) (*Profile, error) {
	var profile Profile
	if err := db.First(&profile, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// ExistsProfileEmail 检查邮箱是否已注册
func ExistsProfileEmail(db *gorm.DB, email string) (bool, error) {
	var count int64
	if err := db.Model(&Profile{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateProfile 更新名称与头像地址（头像为空时保留原值）
func UpdateProfile(db *gorm.DB, email, name, pictureURL string) (*Profile, error) {
	profile, err := GetProfileByEmail(db, email)
	if err != nil {
		return nil, err
	}
	profile.Name = name
	if pictureURL != "" {
		profile.ProfilePicture = pictureURL
	}
	if err := db.Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}
