package controllers

import (
	"net/http"

	"PlanBoardGo/config"
	"PlanBoardGo/models"

	"github.com/gin-gonic/gin"
)

type UserController struct{}

func (uc *UserController) GetUser(c *gin.Context) {
	uid := c.GetString("uid")

	var user models.User
	if err := config.DB.Where("id = ?", uid).First(&user).Error; err != nil {
		config.Logger.Errorw("获取用户信息失败", "error", err, "uid", uid)
		c.JSON(http.StatusNotFound, gin.H{"error": "用户未找到"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":            user.ID,
			"username":      user.Username,
			"email":         user.Email,
			"avatar":        user.Avatar,
			"reminderHours": user.ReminderHours,
		},
	})
}

// UpdateReminderPreference 修改提醒提前量（小时），0表示使用默认值
func (uc *UserController) UpdateReminderPreference(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.UpdateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求"})
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	if err := config.DB.Model(&models.User{}).Where("id = ?", uid).
		Update("reminder_hours", req.ReminderHours).Error; err != nil {
		config.Logger.Errorw("更新提醒设置失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "更新提醒设置失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminderHours": req.ReminderHours})
}
