package services

import (
	"time"

	"PlanBoardGo/models"
)

// ScheduleEngine 截止时间与状态计算引擎
// 目标时区偏移通过构造函数注入，不使用包级常量
type ScheduleEngine struct {
	offsetHours int
	location    *time.Location
}

// NewScheduleEngine 创建引擎，offsetHours为目标时区相对UTC的偏移（东为正）
func NewScheduleEngine(offsetHours int) *ScheduleEngine {
	return &ScheduleEngine{
		offsetHours: offsetHours,
		location:    time.FixedZone("", offsetHours*3600),
	}
}

// ComputeDeadline 由存储的日期/时间字符串计算精确截止时刻（UTC）
// dueDate非法或缺失返回nil表示无截止时间，绝不报错
// dueTime缺失或非法时按当天结束(23:59:59.999)处理，整天宽限而非瞬时
func (e *ScheduleEngine) ComputeDeadline(dueDate, dueTime *string) *time.Time {
	if dueDate == nil {
		return nil
	}
	d, ok := models.ParseDueDate(*dueDate)
	if !ok {
		return nil
	}

	hour, minute, sec, nsec := 23, 59, 59, int(999*time.Millisecond)
	if dueTime != nil {
		if h, m, ok := models.ParseDueTime(*dueTime); ok {
			hour, minute, sec, nsec = h, m, 0, 0
		}
	}

	deadline := time.Date(d.Year(), d.Month(), d.Day(), hour, minute, sec, nsec, e.location).UTC()
	return &deadline
}

// ComputeStatus 计算派生状态，幂等且无隐藏状态
// 已完成：完成时间晚于截止时刻为late，否则为complete（completedAt缺失按complete处理）
// 未完成：当前时刻晚于截止时刻为incomplete，否则为pending；无截止时刻永远pending
func (e *ScheduleEngine) ComputeStatus(isCompleted bool, completedAt, deadline *time.Time, now time.Time) models.TaskStatus {
	if isCompleted {
		if completedAt != nil && deadline != nil && completedAt.After(*deadline) {
			return models.StatusLate
		}
		return models.StatusComplete
	}
	if deadline != nil && now.After(*deadline) {
		return models.StatusIncomplete
	}
	return models.StatusPending
}

// StatusOf 对任务记录计算状态和截止时刻
func (e *ScheduleEngine) StatusOf(t *models.Task, now time.Time) (models.TaskStatus, *time.Time) {
	deadline := e.ComputeDeadline(t.DueDate, t.DueTime)
	return e.ComputeStatus(t.IsCompleted, t.CompletedAt, deadline, now), deadline
}

// OffsetHours 返回配置的时区偏移
func (e *ScheduleEngine) OffsetHours() int {
	return e.offsetHours
}
