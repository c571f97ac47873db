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

type AssignmentController struct {
	perms *services.PermissionService
}

func NewAssignmentController(perms *services.PermissionService) *AssignmentController {
	return &AssignmentController{perms: perms}
}

func (ac *AssignmentController) loadTask(c *gin.Context) (*models.Task, bool) {
	var task models.Task
	if err := config.DB.Where("id = ?", c.Param("id")).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, services.ErrNotFound)
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询任务失败"})
		return nil, false
	}
	return &task, true
}

// AssignTask 指派任务给看板成员，需要assign权限
func (ac *AssignmentController) AssignTask(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求"})
		return
	}

	task, ok := ac.loadTask(c)
	if !ok {
		return
	}
	if task.BoardID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "个人任务不支持指派"})
		return
	}
	if !ac.perms.CanPerformAction(*task.BoardID, uid, services.CapAssign) {
		respondError(c, services.ErrForbidden)
		return
	}

	// 被指派人必须是看板成员
	assigneeRole, err := ac.perms.GetUserRole(*task.BoardID, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if assigneeRole == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "被指派人不是看板成员", "field": "userId"})
		return
	}

	var existing models.TaskAssignment
	err = config.DB.Where("task_id = ? AND user_id = ?", task.ID, req.UserID).First(&existing).Error
	if err == nil {
		respondError(c, services.ErrConflict)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询指派记录失败"})
		return
	}

	var assignee models.User
	if err := config.DB.Where("id = ?", req.UserID).First(&assignee).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取用户信息失败"})
		return
	}

	assignment := models.TaskAssignment{
		ID:         utils.GenerateID(),
		TaskID:     task.ID,
		UserID:     req.UserID,
		Username:   assignee.Username,
		Avatar:     assignee.Avatar,
		AssignedBy: uid,
		AssignedAt: time.Now(),
	}
	if err := config.DB.Create(&assignment).Error; err != nil {
		config.Logger.Errorw("创建指派记录失败", "error", err, "taskId", task.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "指派失败"})
		return
	}

	logActivity(task.BoardID, uid, "assign", "task", task.ID, req.UserID)
	c.JSON(http.StatusOK, assignment)
}

// UnassignTask 移除指派
func (ac *AssignmentController) UnassignTask(c *gin.Context) {
	uid := c.GetString("uid")
	targetUserID := c.Param("userId")

	task, ok := ac.loadTask(c)
	if !ok {
		return
	}
	if task.BoardID == nil || !ac.perms.CanPerformAction(*task.BoardID, uid, services.CapAssign) {
		respondError(c, services.ErrForbidden)
		return
	}

	result := config.DB.Where("task_id = ? AND user_id = ?", task.ID, targetUserID).
		Delete(&models.TaskAssignment{})
	if result.Error != nil {
		config.Logger.Errorw("移除指派失败", "error", result.Error, "taskId", task.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "移除指派失败"})
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, services.ErrNotFound)
		return
	}

	logActivity(task.BoardID, uid, "unassign", "task", task.ID, targetUserID)
	c.JSON(http.StatusOK, gin.H{"message": "指派已移除"})
}

// ListAssignees 列出任务的指派记录
func (ac *AssignmentController) ListAssignees(c *gin.Context) {
	uid := c.GetString("uid")

	task, ok := ac.loadTask(c)
	if !ok {
		return
	}
	if !ac.perms.CanTouchTask(task, uid, services.CapView) {
		respondError(c, services.ErrForbidden)
		return
	}

	var assignments []models.TaskAssignment
	if err := config.DB.Where("task_id = ?", task.ID).Find(&assignments).Error; err != nil {
		config.Logger.Errorw("查询指派记录失败", "error", err, "taskId", task.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询指派记录失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignments": assignments})
}
