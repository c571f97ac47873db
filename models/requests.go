package models

import (
	"fmt"
	"strings"
)

// FieldError 带字段信息的校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CreateTaskRequest 创建任务请求结构体
type CreateTaskRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Tags        []string `json:"tags"`
	BoardID     *string  `json:"boardId"`
	DueDate     *string  `json:"dueDate"`
	DueTime     *string  `json:"dueTime"`
}

func (r *CreateTaskRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return &FieldError{Field: "title", Message: "标题不能为空"}
	}
	if len(r.Title) > 200 {
		return &FieldError{Field: "title", Message: "标题长度不能超过200"}
	}
	if r.Priority == "" {
		r.Priority = string(PriorityStandard)
	}
	if !ValidPriority(r.Priority) {
		return &FieldError{Field: "priority", Message: "无效的优先级"}
	}
	return validateDue(r.DueDate, r.DueTime)
}

// UpdateTaskRequest 更新任务请求结构体，指针字段缺省表示不修改
type UpdateTaskRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Priority    *string   `json:"priority"`
	Tags        *[]string `json:"tags"`
	DueDate     *string   `json:"dueDate"`
	DueTime     *string   `json:"dueTime"`
	// ClearDue 为true时清空截止日期和时间
	ClearDue bool `json:"clearDue"`
}

func (r *UpdateTaskRequest) Validate() error {
	if r.Title != nil {
		if strings.TrimSpace(*r.Title) == "" {
			return &FieldError{Field: "title", Message: "标题不能为空"}
		}
		if len(*r.Title) > 200 {
			return &FieldError{Field: "title", Message: "标题长度不能超过200"}
		}
	}
	if r.Priority != nil && !ValidPriority(*r.Priority) {
		return &FieldError{Field: "priority", Message: "无效的优先级"}
	}
	if r.DueDate != nil || r.DueTime != nil {
		return validateDue(r.DueDate, r.DueTime)
	}
	return nil
}

// validateDue 校验截止日期/时间格式，dueDate为空时dueTime必须为空
func validateDue(dueDate, dueTime *string) error {
	if dueDate == nil {
		if dueTime != nil {
			return &FieldError{Field: "dueTime", Message: "未设置截止日期时不能设置截止时间"}
		}
		return nil
	}
	if _, ok := ParseDueDate(*dueDate); !ok {
		return &FieldError{Field: "dueDate", Message: "日期格式必须为YYYY-MM-DD"}
	}
	if dueTime != nil {
		if _, _, ok := ParseDueTime(*dueTime); !ok {
			return &FieldError{Field: "dueTime", Message: "时间格式必须为HH:MM"}
		}
	}
	return nil
}

// CreateBoardRequest 创建看板请求结构体
type CreateBoardRequest struct {
	Title string `json:"title" binding:"required"`
}

func (r *CreateBoardRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return &FieldError{Field: "title", Message: "标题不能为空"}
	}
	if len(r.Title) > 100 {
		return &FieldError{Field: "title", Message: "标题长度不能超过100"}
	}
	return nil
}

// InviteMemberRequest 创建邀请请求结构体
type InviteMemberRequest struct {
	Email string `json:"email" binding:"required"`
	Role  string `json:"role" binding:"required"`
}

func (r *InviteMemberRequest) Validate() error {
	if !strings.Contains(r.Email, "@") {
		return &FieldError{Field: "email", Message: "无效的邮箱地址"}
	}
	if !AssignableRole(r.Role) {
		return &FieldError{Field: "role", Message: "角色必须为admin/editor/viewer"}
	}
	return nil
}

// UpdateRoleRequest 修改成员角色请求结构体
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (r *UpdateRoleRequest) Validate() error {
	if !AssignableRole(r.Role) {
		return &FieldError{Field: "role", Message: "角色必须为admin/editor/viewer"}
	}
	return nil
}

// CreateShareLinkRequest 创建分享链接请求结构体
type CreateShareLinkRequest struct {
	Role           string `json:"role" binding:"required"`
	ExpiresInHours *int   `json:"expiresInHours"`
	UsageLimit     *int   `json:"usageLimit"`
}

func (r *CreateShareLinkRequest) Validate() error {
	if !AssignableRole(r.Role) {
		return &FieldError{Field: "role", Message: "角色必须为admin/editor/viewer"}
	}
	if r.ExpiresInHours != nil && *r.ExpiresInHours <= 0 {
		return &FieldError{Field: "expiresInHours", Message: "有效期必须为正数"}
	}
	if r.UsageLimit != nil && *r.UsageLimit <= 0 {
		return &FieldError{Field: "usageLimit", Message: "使用次数上限必须为正数"}
	}
	return nil
}

// BatchDeleteTasksRequest 批量删除任务请求结构体
type BatchDeleteTasksRequest struct {
	TaskIDs []string `json:"taskIds" binding:"required"`
}

// AssignTaskRequest 指派任务请求结构体
type AssignTaskRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// ParseTaskRequest 自然语言解析任务请求结构体
type ParseTaskRequest struct {
	Text string `json:"text" binding:"required"`
}

// UpdateReminderRequest 修改提醒提前量请求结构体
type UpdateReminderRequest struct {
	ReminderHours int `json:"reminderHours"`
}

func (r *UpdateReminderRequest) Validate() error {
	if r.ReminderHours < 0 || r.ReminderHours > 168 {
		return &FieldError{Field: "reminderHours", Message: "提醒提前量必须在0到168小时之间"}
	}
	return nil
}
