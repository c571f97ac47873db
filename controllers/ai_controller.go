package controllers

import (
	"net/http"
	"time"

	"PlanBoardGo/config"
	"PlanBoardGo/models"
	"PlanBoardGo/services"

	"github.com/gin-gonic/gin"
)

type AIController struct {
	ai *services.AIService
}

func NewAIController(ai *services.AIService) *AIController {
	return &AIController{ai: ai}
}

// ParseTask 自然语言解析任务草稿，结果由客户端确认后再创建
func (ac *AIController) ParseTask(c *gin.Context) {
	var req models.ParseTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求"})
		return
	}

	parsed, err := ac.ai.ParseTask(c.Request.Context(), req.Text, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "任务解析失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": parsed})
}

// SuggestSchedule 为当前用户的未完成任务生成排期建议
func (ac *AIController) SuggestSchedule(c *gin.Context) {
	uid := c.GetString("uid")

	var tasks []models.Task
	if err := config.DB.Where("user_id = ? AND is_completed = ?", uid, false).
		Limit(50).Find(&tasks).Error; err != nil {
		config.Logger.Errorw("查询任务失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询任务失败"})
		return
	}
	if len(tasks) == 0 {
		c.JSON(http.StatusOK, gin.H{"suggestion": "当前没有未完成的任务"})
		return
	}

	suggestion, err := ac.ai.SuggestSchedule(c.Request.Context(), tasks, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "生成排期建议失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestion": suggestion})
}
