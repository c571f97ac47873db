package models

import "time"

// Activity 看板操作日志，尽力写入，失败不影响主流程
type Activity struct {
	ID         string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	BoardID    string    `gorm:"type:varchar(50);index" json:"boardId"`
	UserID     string    `gorm:"type:varchar(50)" json:"userId"`
	Username   string    `gorm:"type:varchar(100)" json:"username"`
	Action     string    `gorm:"type:varchar(50)" json:"action"`
	TargetType string    `gorm:"type:varchar(30)" json:"targetType"`
	TargetID   string    `gorm:"type:varchar(50)" json:"targetId"`
	Detail     string    `gorm:"type:text" json:"detail"`
	CreatedAt  time.Time `json:"createdAt"`
}
