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
)

// respondError 按错误分类映射HTTP状态码
// 校验400、权限403、不存在404、冲突409，其余一律500
func respondError(c *gin.Context, err error) {
	var fieldErr *models.FieldError
	switch {
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": fieldErr.Message, "field": fieldErr.Field})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		config.Logger.Errorw("内部错误", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
	}
}

// logActivity 尽力写入看板操作日志，失败只记日志不影响主流程
func logActivity(boardID *string, userID, action, targetType, targetID, detail string) {
	if boardID == nil {
		return
	}

	var user models.User
	username := ""
	if err := config.DB.Where("id = ?", userID).First(&user).Error; err == nil {
		username = user.GetDisplayName()
	}

	activity := models.Activity{
		ID:         utils.GenerateID(),
		BoardID:    *boardID,
		UserID:     userID,
		Username:   username,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Detail:     detail,
		CreatedAt:  time.Now(),
	}
	if err := config.DB.Create(&activity).Error; err != nil {
		config.Logger.Warnw("写入操作日志失败", "error", err, "boardId", *boardID, "action", action)
	}
}
