package models

import "time"

// Board 看板（工作区）模型
type Board struct {
	ID        string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(100)" json:"title"`
	CreatorID string    `gorm:"type:varchar(50);index" json:"creatorId"`
	CreatedAt time.Time `json:"createdAt"`
}
