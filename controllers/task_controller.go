package controllers

import (
	"errors"
	"net/http"
	"time"

	"PlanBoardGo/config"
	"PlanBoardGo/models"
	"PlanBoardGo/services"
	"PlanBoardGo/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TaskController struct {
	engine *services.ScheduleEngine
	perms  *services.PermissionService
}

func NewTaskController(engine *services.ScheduleEngine, perms *services.PermissionService) *TaskController {
	return &TaskController{engine: engine, perms: perms}
}

// taskResponse 构造任务响应，状态每次读取重新计算
func (tc *TaskController) taskResponse(t *models.Task, now time.Time) models.TaskResponse {
	status, deadline := tc.engine.StatusOf(t, now)
	return models.TaskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		BoardID:     t.BoardID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Tags:        t.DecodeTags(),
		DueDate:     t.DueDate,
		DueTime:     t.DueTime,
		IsCompleted: t.IsCompleted,
		CompletedAt: t.CompletedAt,
		Status:      status,
		Deadline:    deadline,
		CreatedAt:   t.CreatedAt,
	}
}

// CreateTask 创建任务
// 看板内建任务只要求成员身份（view），创建者即任务归属者
func (tc *TaskController) CreateTask(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求"})
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	if req.BoardID != nil {
		if !tc.perms.CanPerformAction(*req.BoardID, uid, services.CapView) {
			respondError(c, services.ErrForbidden)
			return
		}
	}

	now := time.Now()
	task := models.Task{
		ID:           utils.GenerateID(),
		UserID:       uid,
		BoardID:      req.BoardID,
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		Tags:         models.EncodeTags(req.Tags),
		DueDate:      req.DueDate,
		DueTime:      req.DueTime,
		CreatedAt:    now,
		LastModified: now,
	}
	if task.DueDate == nil {
		task.DueTime = nil
	}

	if err := config.DB.Create(&task).Error; err != nil {
		config.Logger.Errorw("创建任务失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建任务失败"})
		return
	}

	logActivity(task.BoardID, uid, "create", "task", task.ID, task.Title)
	c.JSON(http.StatusOK, tc.taskResponse(&task, now))
}

// ListTasks 列出任务，带boardId时返回看板任务，否则返回自己的任务
func (tc *TaskController) ListTasks(c *gin.Context) {
	uid := c.GetString("uid")
	boardID := c.Query("boardId")

	var tasks []models.Task
	var err error
	if boardID != "" {
		if !tc.perms.CanPerformAction(boardID, uid, services.CapView) {
			respondError(c, services.ErrForbidden)
			return
		}
		err = config.DB.Where("board_id = ?", boardID).Find(&tasks).Error
	} else {
		err = config.DB.Where("user_id = ?", uid).Find(&tasks).Error
	}
	if err != nil {
		config.Logger.Errorw("查询任务失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询任务失败"})
		return
	}

	now := time.Now()
	responses := make([]models.TaskResponse, len(tasks))
	for i := range tasks {
		responses[i] = tc.taskResponse(&tasks[i], now)
	}
	c.JSON(http.StatusOK, gin.H{"tasks": responses})
}

// GetKanban 看板视图，任务按截止日期分组
func (tc *TaskController) GetKanban(c *gin.Context) {
	uid := c.GetString("uid")
	boardID := c.Query("boardId")

	var tasks []models.Task
	var err error
	if boardID != "" {
		if !tc.perms.CanPerformAction(boardID, uid, services.CapView) {
			respondError(c, services.ErrForbidden)
			return
		}
		err = config.DB.Where("board_id = ?", boardID).Find(&tasks).Error
	} else {
		err = config.DB.Where("user_id = ?", uid).Find(&tasks).Error
	}
	if err != nil {
		config.Logger.Errorw("查询任务失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询任务失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"columns": tc.GroupTasks(tasks, time.Now())})
}

// 看板分组列顺序固定
var kanbanKeys = []string{"overdue", "today", "tomorrow", "upcoming", "noDate", "done"}

// GroupTasks 按截止日期分组：已完成归done，无截止日期归noDate，
// 其余按目标时区的日历日落到overdue/today/tomorrow/upcoming
func (tc *TaskController) GroupTasks(tasks []models.Task, now time.Time) []models.KanbanColumn {
	grouped := make(map[string][]models.TaskResponse)
	offset := time.Duration(tc.engine.OffsetHours()) * time.Hour
	today := now.UTC().Add(offset).Format("2006-01-02")
	tomorrow := now.UTC().Add(offset).AddDate(0, 0, 1).Format("2006-01-02")

	for i := range tasks {
		resp := tc.taskResponse(&tasks[i], now)
		key := "noDate"
		switch {
		case resp.IsCompleted:
			key = "done"
		case resp.DueDate == nil || resp.Deadline == nil:
			key = "noDate"
		case *resp.DueDate < today:
			key = "overdue"
		case *resp.DueDate == today:
			key = "today"
		case *resp.DueDate == tomorrow:
			key = "tomorrow"
		default:
			key = "upcoming"
		}
		grouped[key] = append(grouped[key], resp)
	}

	columns := make([]models.KanbanColumn, 0, len(kanbanKeys))
	for _, key := range kanbanKeys {
		tasks := grouped[key]
		if tasks == nil {
			tasks = []models.TaskResponse{}
		}
		columns = append(columns, models.KanbanColumn{Key: key, Tasks: tasks})
	}
	return columns
}

// GetTask 获取单个任务
func (tc *TaskController) GetTask(c *gin.Context) {
	uid := c.GetString("uid")

	var task models.Task
	if err := config.DB.Where("id = ?", c.Param("id")).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, services.ErrNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询任务失败"})
		return
	}

	if !tc.perms.CanTouchTask(&task, uid, services.CapView) {
		respondError(c, services.ErrForbidden)
		return
	}

	c.JSON(http.StatusOK, tc.taskResponse(&task, time.Now()))
}

// UpdateTask 更新任务，修改截止日期会重置提醒标记
func (tc *TaskController) UpdateTask(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求"})
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	var task models.Task
	if err := config.DB.Where("id = ?", c.Param("id")).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, services.ErrNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询任务失败"})
		return
	}

	if !tc.perms.CanTouchTask(&task, uid, services.CapEdit) {
		respondError(c, services.ErrForbidden)
		return
	}

	tc.ApplyUpdate(&task, &req)
	task.LastModified = time.Now()

	if err := config.DB.Save(&task).Error; err != nil {
		config.Logger.Errorw("更新任务失败", "error", err, "taskId", task.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "更新任务失败"})
		return
	}

	logActivity(task.BoardID, uid, "update", "task", task.ID, task.Title)
	c.JSON(http.StatusOK, tc.taskResponse(&task, time.Now()))
}

// ApplyUpdate 把更新请求合并进任务
// 截止日期或截止时刻任一变化都会重置提醒标记，提醒引擎会重新评估
func (tc *TaskController) ApplyUpdate(task *models.Task, req *models.UpdateTaskRequest) (dueChanged bool) {
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Tags != nil {
		task.Tags = models.EncodeTags(*req.Tags)
	}
	if req.ClearDue {
		if task.DueDate != nil || task.DueTime != nil {
			dueChanged = true
		}
		task.DueDate = nil
		task.DueTime = nil
	} else if req.DueDate != nil {
		if !strPtrEqual(task.DueDate, req.DueDate) || !strPtrEqual(task.DueTime, req.DueTime) {
			dueChanged = true
		}
		task.DueDate = req.DueDate
		task.DueTime = req.DueTime
	}
	if task.DueDate == nil {
		task.DueTime = nil
	}
	if dueChanged {
		task.ReminderSent24hr = false
		task.EmailReminderSent24hr = false
	}
	return dueChanged
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ToggleComplete 切换完成状态，completedAt与isCompleted同生共灭
func (tc *TaskController) ToggleComplete(c *gin.Context) {
	uid := c.GetString("uid")

	var task models.Task
	if err := config.DB.Where("id = ?", c.Param("id")).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, services.ErrNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询任务失败"})
		return
	}

	if !tc.perms.CanTouchTask(&task, uid, services.CapEdit) {
		respondError(c, services.ErrForbidden)
		return
	}

	now := time.Now()
	task.IsCompleted = !task.IsCompleted
	if task.IsCompleted {
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}
	task.LastModified = now

	if err := config.DB.Save(&task).Error; err != nil {
		config.Logger.Errorw("更新任务失败", "error", err, "taskId", task.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "更新任务失败"})
		return
	}

	logActivity(task.BoardID, uid, "toggle", "task", task.ID, task.Title)
	c.JSON(http.StatusOK, tc.taskResponse(&task, now))
}

// DeleteTask 删除任务及其指派记录
func (tc *TaskController) DeleteTask(c *gin.Context) {
	uid := c.GetString("uid")

	var task models.Task
	if err := config.DB.Where("id = ?", c.Param("id")).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, services.ErrNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询任务失败"})
		return
	}

	if !tc.perms.CanTouchTask(&task, uid, services.CapDelete) {
		respondError(c, services.ErrForbidden)
		return
	}

	if err := config.DB.Delete(&task).Error; err != nil {
		config.Logger.Errorw("删除任务失败", "error", err, "taskId", task.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除任务失败"})
		return
	}
	if err := config.DB.Where("task_id = ?", task.ID).Delete(&models.TaskAssignment{}).Error; err != nil {
		config.Logger.Warnw("清理任务指派记录失败", "error", err, "taskId", task.ID)
	}

	logActivity(task.BoardID, uid, "delete", "task", task.ID, task.Title)
	c.JSON(http.StatusOK, gin.H{"message": "任务已删除"})
}

// BatchDeleteTasks 批量删除
// 逐个检查权限，无权限的静默跳过不中断整批，返回删除与跳过数量
func (tc *TaskController) BatchDeleteTasks(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.BatchDeleteTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求"})
		return
	}

	var tasks []models.Task
	if err := config.DB.Where("id IN ?", req.TaskIDs).Find(&tasks).Error; err != nil {
		config.Logger.Errorw("查询任务失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询任务失败"})
		return
	}

	found := make(map[string]bool, len(tasks))
	for i := range tasks {
		found[tasks[i].ID] = true
	}
	var missing []string
	for _, id := range req.TaskIDs {
		if !found[id] {
			missing = append(missing, id)
		}
	}

	deletable, skipped := tc.PartitionDeletable(tasks, uid)

	if len(deletable) > 0 {
		ids := make([]string, len(deletable))
		for i := range deletable {
			ids[i] = deletable[i].ID
		}
		if err := config.DB.Where("id IN ?", ids).Delete(&models.Task{}).Error; err != nil {
			config.Logger.Errorw("批量删除失败", "error", err, "uid", uid)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "批量删除失败"})
			return
		}
		if err := config.DB.Where("task_id IN ?", ids).Delete(&models.TaskAssignment{}).Error; err != nil {
			config.Logger.Warnw("清理任务指派记录失败", "error", err, "uid", uid)
		}
	}

	c.JSON(http.StatusOK, models.BatchDeleteResponse{
		Deleted: len(deletable),
		Skipped: len(skipped),
		Missing: missing,
	})
}

// PartitionDeletable 按删除权限划分任务
func (tc *TaskController) PartitionDeletable(tasks []models.Task, uid string) (deletable, skipped []models.Task) {
	for i := range tasks {
		if tc.perms.CanTouchTask(&tasks[i], uid, services.CapDelete) {
			deletable = append(deletable, tasks[i])
		} else {
			skipped = append(skipped, tasks[i])
		}
	}
	return deletable, skipped
}
