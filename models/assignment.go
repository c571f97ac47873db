package models

import "time"

// TaskAssignment 任务指派模型，(taskId, userId)唯一，独立于任务编辑
type TaskAssignment struct {
	ID         string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	TaskID     string    `gorm:"type:varchar(50);uniqueIndex:idx_task_user" json:"taskId"`
	UserID     string    `gorm:"type:varchar(50);uniqueIndex:idx_task_user" json:"userId"`
	Username   string    `gorm:"type:varchar(100)" json:"username"`
	Avatar     string    `gorm:"type:varchar(255)" json:"avatar"`
	AssignedBy string    `gorm:"type:varchar(50)" json:"assignedBy"`
	AssignedAt time.Time `json:"assignedAt"`
}
