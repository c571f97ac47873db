package services

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"PlanBoardGo/config"
	"PlanBoardGo/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ReminderService 到期提醒任务
// 存储查询按整天粗筛（due_date字符串区间），再按精确截止时刻二次过滤，
// 避免日期粒度查询把提前量只有几小时的任务提前一整天发出去
type ReminderService struct {
	db           *gorm.DB
	engine       *ScheduleEngine
	mailer       Mailer
	defaultHours int
	dedupe       reminderDeduper
	cron         *cron.Cron
	wg           sync.WaitGroup
}

func NewReminderService(db *gorm.DB, engine *ScheduleEngine, mailer Mailer, defaultHours int) *ReminderService {
	return &ReminderService{
		db:           db,
		engine:       engine,
		mailer:       mailer,
		defaultHours: defaultHours,
		dedupe:       redisDeduper{},
	}
}

// reminderDeduper 每用户每天最多发一封的去重标记
// 发送失败必须Release，否则一次瞬时失败会压制该用户当天的所有后续提醒
type reminderDeduper interface {
	Claim(ctx context.Context, key string) bool
	Release(ctx context.Context, key string)
}

type redisDeduper struct{}

func (redisDeduper) Claim(ctx context.Context, key string) bool {
	if config.RedisClient == nil {
		return true
	}
	set, err := config.RedisClient.SetNX(ctx, key, 1, 24*time.Hour).Result()
	if err != nil {
		config.Logger.Warnw("提醒去重标记失败", "error", err, "key", key)
		return true
	}
	return set
}

func (redisDeduper) Release(ctx context.Context, key string) {
	if config.RedisClient == nil {
		return
	}
	if err := config.RedisClient.Del(ctx, key).Err(); err != nil {
		config.Logger.Warnw("清除提醒去重标记失败", "error", err, "key", key)
	}
}

// Start 按cron表达式定时执行提醒扫描
func (s *ReminderService) Start(spec string) error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(spec, func() {
		s.wg.Add(1)
		defer s.wg.Done()
		if err := s.RunOnce(context.Background(), time.Now()); err != nil {
			config.Logger.Errorw("提醒扫描失败", "error", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	config.Logger.Infow("提醒任务已启动", "cron", spec)
	return nil
}

// Stop 停止定时器并等待进行中的扫描结束
func (s *ReminderService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	s.wg.Wait()
}

// RunOnce 执行一轮提醒扫描，单个用户失败只跳过该用户
func (s *ReminderService) RunOnce(ctx context.Context, now time.Time) error {
	var users []models.User
	if err := s.db.WithContext(ctx).Where("email <> ''").Find(&users).Error; err != nil {
		return fmt.Errorf("查询用户失败: %w", err)
	}

	for _, user := range users {
		if err := s.remindUser(ctx, &user, now); err != nil {
			config.Logger.Errorw("用户提醒失败", "error", err, "uid", user.ID)
		}
	}
	return nil
}

// WindowHours 用户的提醒提前量，未设置时使用默认值
func (s *ReminderService) WindowHours(user *models.User) int {
	if user.ReminderHours > 0 {
		return user.ReminderHours
	}
	return s.defaultHours
}

func (s *ReminderService) remindUser(ctx context.Context, user *models.User, now time.Time) error {
	window := s.WindowHours(user)

	// 粗筛：目标时区的今天到窗口覆盖的最后一天，日期字符串可按字典序比较
	local := now.UTC().Add(time.Duration(s.engine.OffsetHours()) * time.Hour)
	days := (window + 23) / 24
	startDate := local.Format("2006-01-02")
	endDate := local.AddDate(0, 0, days).Format("2006-01-02")

	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_completed = ? AND email_reminder_sent24hr = ?", user.ID, false, false).
		Where("due_date IS NOT NULL AND due_date >= ? AND due_date <= ?", startDate, endDate).
		Find(&tasks).Error
	if err != nil {
		return fmt.Errorf("查询待提醒任务失败: %w", err)
	}

	eligible := s.EligibleTasks(tasks, window, now)
	if len(eligible) == 0 {
		return nil
	}

	// 每用户每天最多发一封
	key := fmt.Sprintf("reminder:%s:%s", user.ID, startDate)
	if !s.dedupe.Claim(ctx, key) {
		return nil
	}

	if err := s.mailer.Send(user.Email, "任务到期提醒", s.renderPlain(eligible), s.renderHTML(eligible)); err != nil {
		// 发送失败要归还去重标记，让后续轮次可以重试
		s.dedupe.Release(ctx, key)
		return fmt.Errorf("发送提醒邮件失败: %w", err)
	}

	ids := make([]string, len(eligible))
	for i, t := range eligible {
		ids[i] = t.ID
	}
	if err := s.db.WithContext(ctx).Model(&models.Task{}).
		Where("id IN ?", ids).
		Update("email_reminder_sent24hr", true).Error; err != nil {
		return fmt.Errorf("更新提醒标记失败: %w", err)
	}

	config.Logger.Infow("提醒邮件已发送", "uid", user.ID, "tasks", len(eligible))
	return nil
}

// EligibleTasks 精确过滤：当前时刻已进入"截止时刻减提前量"的窗口才提醒
func (s *ReminderService) EligibleTasks(tasks []models.Task, windowHours int, now time.Time) []models.Task {
	var eligible []models.Task
	for _, t := range tasks {
		deadline := s.engine.ComputeDeadline(t.DueDate, t.DueTime)
		if deadline == nil {
			continue
		}
		if !now.Before(deadline.Add(-time.Duration(windowHours) * time.Hour)) {
			eligible = append(eligible, t)
		}
	}
	return eligible
}

func (s *ReminderService) renderPlain(tasks []models.Task) string {
	var sb strings.Builder
	sb.WriteString("以下任务即将到期：\n\n")
	for _, t := range tasks {
		sb.WriteString("- " + t.Title)
		if t.DueDate != nil {
			sb.WriteString(" (截止 " + *t.DueDate)
			if t.DueTime != nil {
				sb.WriteString(" " + *t.DueTime)
			}
			sb.WriteString(")")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (s *ReminderService) renderHTML(tasks []models.Task) string {
	var sb strings.Builder
	sb.WriteString("<h3>以下任务即将到期</h3><ul>")
	for _, t := range tasks {
		sb.WriteString("<li>" + html.EscapeString(t.Title))
		if t.DueDate != nil {
			sb.WriteString(" <small>截止 " + *t.DueDate)
			if t.DueTime != nil {
				sb.WriteString(" " + *t.DueTime)
			}
			sb.WriteString("</small>")
		}
		sb.WriteString("</li>")
	}
	sb.WriteString("</ul>")
	return sb.String()
}
