package models

import (
	"encoding/json"
	"time"
)

// TaskResponse 任务响应结构体，status与deadline每次读取重新计算
type TaskResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	BoardID     *string    `json:"boardId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Tags        []string   `json:"tags"`
	DueDate     *string    `json:"dueDate"`
	DueTime     *string    `json:"dueTime"`
	IsCompleted bool       `json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt"`
	Status      TaskStatus `json:"status"`
	Deadline    *time.Time `json:"deadline"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// DecodeTags 反序列化任务标签，坏数据按空集处理
func (t *Task) DecodeTags() []string {
	if t.Tags == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(t.Tags), &tags); err != nil {
		return []string{}
	}
	return tags
}

// EncodeTags 序列化任务标签
func EncodeTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return ""
	}
	return string(b)
}

// BoardResponse 看板响应结构体
type BoardResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatorID string    `json:"creatorId"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// InvitationResponse 邀请响应结构体，status为读取时计算的有效状态
type InvitationResponse struct {
	ID           string    `json:"id"`
	BoardID      string    `json:"boardId"`
	InvitedEmail string    `json:"invitedEmail"`
	InviterID    string    `json:"inviterId"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// KanbanColumn 看板分组列
type KanbanColumn struct {
	Key   string         `json:"key"`
	Tasks []TaskResponse `json:"tasks"`
}

// BatchDeleteResponse 批量删除结果
type BatchDeleteResponse struct {
	Deleted int      `json:"deleted"`
	Skipped int      `json:"skipped"`
	Missing []string `json:"missing,omitempty"`
}

// ParsedTask 自然语言解析出的任务草稿
type ParsedTask struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	DueDate     *string  `json:"dueDate"`
	DueTime     *string  `json:"dueTime"`
	Tags        []string `json:"tags"`
}
