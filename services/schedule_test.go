package services

import (
	"testing"
	"time"

	"PlanBoardGo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestComputeDeadline(t *testing.T) {
	engine := NewScheduleEngine(8)

	tests := []struct {
		name    string
		dueDate *string
		dueTime *string
		want    *time.Time
	}{
		{
			name:    "日期加时间",
			dueDate: strPtr("2024-03-15"),
			dueTime: strPtr("15:00"),
			want:    timePtr(time.Date(2024, 3, 15, 7, 0, 0, 0, time.UTC)),
		},
		{
			name:    "只有日期按当天结束",
			dueDate: strPtr("2024-03-15"),
			dueTime: nil,
			want:    timePtr(time.Date(2024, 3, 15, 15, 59, 59, int(999*time.Millisecond), time.UTC)),
		},
		{
			name:    "零点截止",
			dueDate: strPtr("2024-03-15"),
			dueTime: strPtr("00:00"),
			want:    timePtr(time.Date(2024, 3, 14, 16, 0, 0, 0, time.UTC)),
		},
		{
			name:    "闰日",
			dueDate: strPtr("2024-02-29"),
			dueTime: strPtr("12:00"),
			want:    timePtr(time.Date(2024, 2, 29, 4, 0, 0, 0, time.UTC)),
		},
		{
			name:    "非闰年的2月29日非法",
			dueDate: strPtr("2023-02-29"),
			dueTime: strPtr("12:00"),
			want:    nil,
		},
		{
			name:    "日期缺失",
			dueDate: nil,
			dueTime: strPtr("12:00"),
			want:    nil,
		},
		{
			name:    "日期格式非法",
			dueDate: strPtr("15/03/2024"),
			dueTime: nil,
			want:    nil,
		},
		{
			name:    "时间非法降级为当天结束",
			dueDate: strPtr("2024-03-15"),
			dueTime: strPtr("25:99"),
			want:    timePtr(time.Date(2024, 3, 15, 15, 59, 59, int(999*time.Millisecond), time.UTC)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.ComputeDeadline(tt.dueDate, tt.dueTime)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "want %v, got %v", tt.want, got)
		})
	}
}

// 只有日期的截止时刻是23:59:59.999，和显式"23:59"不等，是边界不是冗余
func TestComputeDeadlineEndOfDayVsExplicit2359(t *testing.T) {
	engine := NewScheduleEngine(8)

	endOfDay := engine.ComputeDeadline(strPtr("2024-03-15"), nil)
	explicit := engine.ComputeDeadline(strPtr("2024-03-15"), strPtr("23:59"))

	require.NotNil(t, endOfDay)
	require.NotNil(t, explicit)
	assert.False(t, endOfDay.Equal(*explicit))
	assert.True(t, endOfDay.After(*explicit))
}

// 日期靠后截止更晚，同日期时间靠后截止更晚
func TestComputeDeadlineMonotonic(t *testing.T) {
	engine := NewScheduleEngine(8)

	d1 := engine.ComputeDeadline(strPtr("2024-03-15"), strPtr("10:00"))
	d2 := engine.ComputeDeadline(strPtr("2024-03-15"), strPtr("10:01"))
	d3 := engine.ComputeDeadline(strPtr("2024-03-16"), strPtr("00:00"))
	d4 := engine.ComputeDeadline(strPtr("2024-03-16"), nil)

	require.NotNil(t, d1)
	require.NotNil(t, d2)
	require.NotNil(t, d3)
	require.NotNil(t, d4)
	assert.True(t, d2.After(*d1))
	assert.True(t, d3.After(*d2))
	assert.True(t, d4.After(*d3))
}

func TestComputeDeadlineOffsetInjectable(t *testing.T) {
	utc := NewScheduleEngine(0)
	east8 := NewScheduleEngine(8)

	d0 := utc.ComputeDeadline(strPtr("2024-03-15"), strPtr("15:00"))
	d8 := east8.ComputeDeadline(strPtr("2024-03-15"), strPtr("15:00"))

	require.NotNil(t, d0)
	require.NotNil(t, d8)
	assert.Equal(t, 8*time.Hour, d0.Sub(*d8))
}

func TestComputeStatus(t *testing.T) {
	engine := NewScheduleEngine(8)
	deadline := time.Date(2024, 3, 15, 7, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		isCompleted bool
		completedAt *time.Time
		deadline    *time.Time
		now         time.Time
		want        models.TaskStatus
	}{
		{
			name:        "未完成未到期",
			isCompleted: false,
			deadline:    &deadline,
			now:         time.Date(2024, 3, 15, 6, 0, 0, 0, time.UTC),
			want:        models.StatusPending,
		},
		{
			name:        "未完成已过期",
			isCompleted: false,
			deadline:    &deadline,
			now:         time.Date(2024, 3, 15, 8, 1, 0, 0, time.UTC),
			want:        models.StatusIncomplete,
		},
		{
			name:        "截止前完成",
			isCompleted: true,
			completedAt: timePtr(time.Date(2024, 3, 15, 6, 0, 0, 0, time.UTC)),
			deadline:    &deadline,
			now:         time.Date(2024, 3, 15, 8, 1, 0, 0, time.UTC),
			want:        models.StatusComplete,
		},
		{
			name:        "截止后完成",
			isCompleted: true,
			completedAt: timePtr(time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)),
			deadline:    &deadline,
			now:         time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
			want:        models.StatusLate,
		},
		{
			name:        "无截止日期已完成永远是complete",
			isCompleted: true,
			completedAt: timePtr(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)),
			deadline:    nil,
			now:         time.Date(2024, 3, 21, 0, 0, 0, 0, time.UTC),
			want:        models.StatusComplete,
		},
		{
			name:        "已完成但completedAt缺失按complete处理",
			isCompleted: true,
			completedAt: nil,
			deadline:    &deadline,
			now:         time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC),
			want:        models.StatusComplete,
		},
		{
			name:        "无截止日期未完成永远是pending",
			isCompleted: false,
			deadline:    nil,
			now:         time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
			want:        models.StatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.ComputeStatus(tt.isCompleted, tt.completedAt, tt.deadline, tt.now)
			assert.Equal(t, tt.want, got)

			// 相同输入重复计算结果一致
			again := engine.ComputeStatus(tt.isCompleted, tt.completedAt, tt.deadline, tt.now)
			assert.Equal(t, got, again)
		})
	}
}

// 东八区 2024-03-15 15:00 截止，对应的UTC时刻是07:00Z
func TestStatusOfScenario(t *testing.T) {
	engine := NewScheduleEngine(8)

	task := models.Task{
		DueDate: strPtr("2024-03-15"),
		DueTime: strPtr("15:00"),
	}

	now := time.Date(2024, 3, 15, 8, 1, 0, 0, time.UTC)
	status, deadline := engine.StatusOf(&task, now)
	require.NotNil(t, deadline)
	assert.True(t, deadline.Equal(time.Date(2024, 3, 15, 7, 0, 0, 0, time.UTC)))
	assert.Equal(t, models.StatusIncomplete, status)

	task.IsCompleted = true
	task.CompletedAt = timePtr(time.Date(2024, 3, 15, 6, 0, 0, 0, time.UTC))
	status, _ = engine.StatusOf(&task, now)
	assert.Equal(t, models.StatusComplete, status)

	task.CompletedAt = timePtr(time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC))
	status, _ = engine.StatusOf(&task, now)
	assert.Equal(t, models.StatusLate, status)
}
