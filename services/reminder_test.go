package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"PlanBoardGo/config"
	"PlanBoardGo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWindowHours(t *testing.T) {
	svc := NewReminderService(nil, NewScheduleEngine(8), nil, 24)

	assert.Equal(t, 24, svc.WindowHours(&models.User{}))
	assert.Equal(t, 1, svc.WindowHours(&models.User{ReminderHours: 1}))
	assert.Equal(t, 72, svc.WindowHours(&models.User{ReminderHours: 72}))
}

// 日期粒度粗筛后必须按精确截止时刻过滤：
// 明天00:05截止、提前量1小时的任务不该提前一整天提醒
func TestEligibleTasksPreciseWindow(t *testing.T) {
	svc := NewReminderService(nil, NewScheduleEngine(8), nil, 24)

	// 目标时区当前时刻 2024-03-15 20:00（UTC 12:00）
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	dueTomorrowEarly := models.Task{
		ID:      "t1",
		Title:   "明天凌晨截止",
		DueDate: strPtr("2024-03-16"),
		DueTime: strPtr("00:05"),
	}

	// 提前量1小时：20:00还不到23:05的窗口
	eligible := svc.EligibleTasks([]models.Task{dueTomorrowEarly}, 1, now)
	assert.Empty(t, eligible)

	// 提前量24小时：已进入窗口
	eligible = svc.EligibleTasks([]models.Task{dueTomorrowEarly}, 24, now)
	assert.Len(t, eligible, 1)
}

func TestEligibleTasks(t *testing.T) {
	svc := NewReminderService(nil, NewScheduleEngine(8), nil, 24)
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tasks := []models.Task{
		{ID: "due-soon", DueDate: strPtr("2024-03-16"), DueTime: strPtr("10:00")},
		{ID: "due-later", DueDate: strPtr("2024-03-20"), DueTime: strPtr("10:00")},
		{ID: "overdue", DueDate: strPtr("2024-03-14")},
		{ID: "no-deadline"},
		{ID: "bad-date", DueDate: strPtr("not-a-date")},
	}

	eligible := svc.EligibleTasks(tasks, 24, now)
	ids := make([]string, len(eligible))
	for i, t := range eligible {
		ids[i] = t.ID
	}
	// 窗口内的和已过期的入选，无截止时刻的和太远的跳过
	assert.ElementsMatch(t, []string{"due-soon", "overdue"}, ids)
}

type stubMailer struct {
	failures int
	sent     int
}

func (m *stubMailer) Send(toEmail, subject, plainText, htmlContent string) error {
	if m.failures > 0 {
		m.failures--
		return errors.New("邮件网关不可用")
	}
	m.sent++
	return nil
}

type mapDeduper struct {
	claimed map[string]bool
}

func newMapDeduper() *mapDeduper {
	return &mapDeduper{claimed: map[string]bool{}}
}

func (d *mapDeduper) Claim(_ context.Context, key string) bool {
	if d.claimed[key] {
		return false
	}
	d.claimed[key] = true
	return true
}

func (d *mapDeduper) Release(_ context.Context, key string) {
	delete(d.claimed, key)
}

// 单次发送失败不能吞掉该用户当天后续轮次的提醒：
// 去重标记要归还、提醒标记不落库，下一轮重试能发出去
func TestRemindUserSendFailureRetries(t *testing.T) {
	config.Logger = zap.NewNop().Sugar()
	db := newTestDB(t)

	mailer := &stubMailer{failures: 1}
	dedupe := newMapDeduper()
	svc := NewReminderService(db, NewScheduleEngine(8), mailer, 24)
	svc.dedupe = dedupe

	// 目标时区当前时刻 2024-03-15 20:00
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	user := models.User{ID: "user-1", Email: "u1@example.com", CreatedAt: now}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.Task{
		ID:           "t1",
		UserID:       "user-1",
		Title:        "快到期",
		DueDate:      strPtr("2024-03-16"),
		DueTime:      strPtr("10:00"),
		CreatedAt:    now,
		LastModified: now,
	}).Error)

	// 第一轮：发送失败，错误上抛，标记不落库，去重标记被归还
	err := svc.remindUser(context.Background(), &user, now)
	require.Error(t, err)
	assert.Equal(t, 0, mailer.sent)
	assert.Empty(t, dedupe.claimed)

	var stored models.Task
	require.NoError(t, db.Where("id = ?", "t1").First(&stored).Error)
	assert.False(t, stored.EmailReminderSent24hr)

	// 下一轮：重试成功并落库
	require.NoError(t, svc.remindUser(context.Background(), &user, now.Add(time.Hour)))
	assert.Equal(t, 1, mailer.sent)
	require.NoError(t, db.Where("id = ?", "t1").First(&stored).Error)
	assert.True(t, stored.EmailReminderSent24hr)

	// 再下一轮：又有新任务到期，但当天已发过，去重跳过
	require.NoError(t, db.Create(&models.Task{
		ID:           "t2",
		UserID:       "user-1",
		Title:        "又一个",
		DueDate:      strPtr("2024-03-16"),
		CreatedAt:    now,
		LastModified: now,
	}).Error)
	require.NoError(t, svc.remindUser(context.Background(), &user, now.Add(2*time.Hour)))
	assert.Equal(t, 1, mailer.sent)
}
