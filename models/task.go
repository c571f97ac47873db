package models

import (
	"time"
)

// TaskPriority 任务优先级
type TaskPriority string

const (
	PriorityLow      TaskPriority = "low"
	PriorityStandard TaskPriority = "standard"
	PriorityHigh     TaskPriority = "high"
	PriorityUrgent   TaskPriority = "urgent"
)

// ValidPriority 校验优先级取值
func ValidPriority(p string) bool {
	switch TaskPriority(p) {
	case PriorityLow, PriorityStandard, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// TaskStatus 任务派生状态，只计算不落库
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusComplete   TaskStatus = "complete"
	StatusIncomplete TaskStatus = "incomplete"
	StatusLate       TaskStatus = "late"
)

// Task 任务模型
type Task struct {
	ID          string  `gorm:"type:varchar(50);primary_key" json:"id"`
	UserID      string  `gorm:"type:varchar(50);index" json:"user_id"`
	BoardID     *string `gorm:"type:varchar(50);index" json:"boardId"`
	Title       string  `gorm:"type:varchar(200)" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Priority    string  `gorm:"type:varchar(20);default:standard" json:"priority"`
	// 标签集合，JSON数组序列化存储
	Tags string `gorm:"type:text" json:"tags"`
	// 截止日期 YYYY-MM-DD，截止时间 HH:MM，dueDate为空时dueTime必须为空
	DueDate     *string    `gorm:"type:varchar(10)" json:"dueDate"`
	DueTime     *string    `gorm:"type:varchar(5)" json:"dueTime"`
	IsCompleted bool       `json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt"`
	// 提醒标记，修改截止日期后重置
	ReminderSent24hr      bool      `gorm:"default:false" json:"reminderSent24hr"`
	EmailReminderSent24hr bool      `gorm:"default:false" json:"emailReminderSent24hr"`
	CreatedAt             time.Time `json:"createdAt"`
	LastModified          time.Time `json:"lastModified"`
}

// ParseDueDate 严格解析 YYYY-MM-DD（拒绝不存在的日期）
func ParseDueDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseDueTime 严格解析 HH:MM
func ParseDueTime(s string) (hour, minute int, ok bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}
