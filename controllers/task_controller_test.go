package controllers

import (
	"testing"
	"time"

	"PlanBoardGo/models"
	"PlanBoardGo/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func strPtr(s string) *string { return &s }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	// 内存库每个连接各自独立，收紧到单连接保证访问落在同一个库
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Board{}, &models.BoardMember{}, &models.Task{}))
	return db
}

func TestGroupTasks(t *testing.T) {
	tc := NewTaskController(services.NewScheduleEngine(8), nil)

	// 目标时区当前时刻 2024-03-15 20:00
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	done := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tasks := []models.Task{
		{ID: "overdue", DueDate: strPtr("2024-03-14")},
		{ID: "today", DueDate: strPtr("2024-03-15"), DueTime: strPtr("23:00")},
		{ID: "tomorrow", DueDate: strPtr("2024-03-16")},
		{ID: "upcoming", DueDate: strPtr("2024-03-20")},
		{ID: "noDate"},
		{ID: "done", DueDate: strPtr("2024-03-14"), IsCompleted: true, CompletedAt: &done},
	}

	columns := tc.GroupTasks(tasks, now)
	require.Len(t, columns, 6)

	byKey := make(map[string][]models.TaskResponse)
	for _, col := range columns {
		byKey[col.Key] = col.Tasks
	}

	for _, key := range []string{"overdue", "today", "tomorrow", "upcoming", "noDate", "done"} {
		require.Len(t, byKey[key], 1, "key=%s", key)
		assert.Equal(t, key, byKey[key][0].ID)
	}

	// 已过期未完成的任务状态是incomplete，已完成但超期的是late
	assert.Equal(t, models.StatusIncomplete, byKey["overdue"][0].Status)
	assert.Equal(t, models.StatusLate, byKey["done"][0].Status)
	assert.Equal(t, models.StatusPending, byKey["today"][0].Status)
}

// 截止日期不变、只改截止时刻也算due变化，提醒标记必须重置
func TestApplyUpdateDueChange(t *testing.T) {
	tc := NewTaskController(services.NewScheduleEngine(8), nil)

	newTask := func() models.Task {
		return models.Task{
			ID:                    "t1",
			Title:                 "任务",
			DueDate:               strPtr("2024-03-16"),
			DueTime:               strPtr("10:00"),
			ReminderSent24hr:      true,
			EmailReminderSent24hr: true,
		}
	}

	// 同日期换时刻
	task := newTask()
	changed := tc.ApplyUpdate(&task, &models.UpdateTaskRequest{
		DueDate: strPtr("2024-03-16"),
		DueTime: strPtr("18:00"),
	})
	assert.True(t, changed)
	assert.False(t, task.ReminderSent24hr)
	assert.False(t, task.EmailReminderSent24hr)
	assert.Equal(t, "18:00", *task.DueTime)

	// 同日期去掉时刻（改为整日截止）
	task = newTask()
	changed = tc.ApplyUpdate(&task, &models.UpdateTaskRequest{
		DueDate: strPtr("2024-03-16"),
	})
	assert.True(t, changed)
	assert.Nil(t, task.DueTime)
	assert.False(t, task.EmailReminderSent24hr)

	// 换日期
	task = newTask()
	changed = tc.ApplyUpdate(&task, &models.UpdateTaskRequest{
		DueDate: strPtr("2024-03-17"),
		DueTime: strPtr("10:00"),
	})
	assert.True(t, changed)
	assert.False(t, task.EmailReminderSent24hr)

	// 清空截止日期
	task = newTask()
	changed = tc.ApplyUpdate(&task, &models.UpdateTaskRequest{ClearDue: true})
	assert.True(t, changed)
	assert.Nil(t, task.DueDate)
	assert.Nil(t, task.DueTime)
	assert.False(t, task.EmailReminderSent24hr)

	// 原样重发不算变化，标记保留
	task = newTask()
	changed = tc.ApplyUpdate(&task, &models.UpdateTaskRequest{
		DueDate: strPtr("2024-03-16"),
		DueTime: strPtr("10:00"),
	})
	assert.False(t, changed)
	assert.True(t, task.ReminderSent24hr)
	assert.True(t, task.EmailReminderSent24hr)

	// 只改标题不碰due
	task = newTask()
	changed = tc.ApplyUpdate(&task, &models.UpdateTaskRequest{Title: strPtr("新标题")})
	assert.False(t, changed)
	assert.Equal(t, "新标题", task.Title)
	assert.True(t, task.EmailReminderSent24hr)
}

// 批量删除逐个检查权限：无权限的跳过，不中断整批
func TestPartitionDeletable(t *testing.T) {
	db := newTestDB(t)
	boardID := "board-1"
	require.NoError(t, db.Create(&models.Board{ID: boardID, Title: "看板", CreatorID: "user-owner", CreatedAt: time.Now()}).Error)
	require.NoError(t, db.Create(&[]models.BoardMember{
		{ID: "m1", BoardID: boardID, UserID: "user-admin", Role: string(models.RoleAdmin), JoinedAt: time.Now()},
		{ID: "m2", BoardID: boardID, UserID: "user-viewer", Role: string(models.RoleViewer), JoinedAt: time.Now()},
	}).Error)

	tc := NewTaskController(services.NewScheduleEngine(8), services.NewPermissionService(db))

	tasks := []models.Task{
		{ID: "own", UserID: "user-viewer", BoardID: &boardID},
		{ID: "others-1", UserID: "user-admin", BoardID: &boardID},
		{ID: "others-2", UserID: "user-owner", BoardID: &boardID},
	}

	// viewer只能删自己的任务
	deletable, skipped := tc.PartitionDeletable(tasks, "user-viewer")
	require.Len(t, deletable, 1)
	assert.Equal(t, "own", deletable[0].ID)
	assert.Len(t, skipped, 2)

	// admin有看板删除权限，全部可删
	deletable, skipped = tc.PartitionDeletable(tasks, "user-admin")
	assert.Len(t, deletable, 3)
	assert.Empty(t, skipped)
}
