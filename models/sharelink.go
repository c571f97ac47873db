package models

import "time"

// BoardShareLink 看板分享链接模型，token即查找键
type BoardShareLink struct {
	Token      string     `gorm:"type:varchar(64);primaryKey" json:"token"`
	BoardID    string     `gorm:"type:varchar(50);index" json:"boardId"`
	Role       string     `gorm:"type:varchar(20)" json:"role"`
	CreatorID  string     `gorm:"type:varchar(50)" json:"creatorId"`
	ExpiresAt  *time.Time `json:"expiresAt"`
	UsageLimit *int       `json:"usageLimit"`
	UsageCount int        `gorm:"default:0" json:"usageCount"`
	// 创建时显式置true，不用列默认值，避免写入false被默认值吞掉
	IsActive bool `json:"isActive"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Joinable 预检：链接当前是否可用于加入（最终判定以原子更新为准）
func (l *BoardShareLink) Joinable(now time.Time) bool {
	if !l.IsActive {
		return false
	}
	if l.ExpiresAt != nil && now.After(*l.ExpiresAt) {
		return false
	}
	if l.UsageLimit != nil && l.UsageCount >= *l.UsageLimit {
		return false
	}
	return true
}
