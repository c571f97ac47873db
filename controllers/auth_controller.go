package controllers

import (
	"net/http"
	"time"

	"PlanBoardGo/config"
	"PlanBoardGo/models"
	"PlanBoardGo/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct{}

// CreateTestUser 创建测试用户并返回令牌，仅限非生产环境
func (ac *AuthController) CreateTestUser(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求"})
		return
	}

	now := time.Now()
	user := models.User{
		ID:         utils.GenerateID(),
		Username:   req.Username,
		Email:      req.Email,
		CreatedAt:  now,
		LastLogin:  &now,
		Provider:   "test",
		IsTestUser: true,
	}

	if err := config.DB.Create(&user).Error; err != nil {
		config.Logger.Errorw("创建测试用户失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建测试用户失败"})
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		config.Logger.Errorw("生成令牌失败", "error", err, "uid", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "生成令牌失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}
