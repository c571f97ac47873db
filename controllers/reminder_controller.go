package controllers

import (
	"net/http"
	"time"

	"PlanBoardGo/services"

	"github.com/gin-gonic/gin"
)

type ReminderController struct {
	reminder *services.ReminderService
}

func NewReminderController(reminder *services.ReminderService) *ReminderController {
	return &ReminderController{reminder: reminder}
}

// RunReminders 手动触发一轮提醒扫描，仅限内部调用
func (rc *ReminderController) RunReminders(c *gin.Context) {
	if err := rc.reminder.RunOnce(c.Request.Context(), time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "提醒扫描失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "提醒扫描完成"})
}
