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

type ShareLinkController struct {
	perms *services.PermissionService
}

func NewShareLinkController(perms *services.PermissionService) *ShareLinkController {
	return &ShareLinkController{perms: perms}
}

// CreateShareLink 创建分享链接，需要成员管理权限
func (sc *ShareLinkController) CreateShareLink(c *gin.Context) {
	uid := c.GetString("uid")
	boardID := c.Param("id")

	var req models.CreateShareLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求"})
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	if !sc.perms.CanPerformAction(boardID, uid, services.CapManageMembers) {
		respondError(c, services.ErrForbidden)
		return
	}

	now := time.Now()
	link := models.BoardShareLink{
		Token:      utils.GenerateShareToken(),
		BoardID:    boardID,
		Role:       req.Role,
		CreatorID:  uid,
		UsageLimit: req.UsageLimit,
		IsActive:   true,
		CreatedAt:  now,
	}
	if req.ExpiresInHours != nil {
		expiresAt := now.Add(time.Duration(*req.ExpiresInHours) * time.Hour)
		link.ExpiresAt = &expiresAt
	}

	if err := config.DB.Create(&link).Error; err != nil {
		config.Logger.Errorw("创建分享链接失败", "error", err, "boardId", boardID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建分享链接失败"})
		return
	}

	logActivity(&boardID, uid, "createShareLink", "shareLink", link.Token, req.Role)
	c.JSON(http.StatusOK, link)
}

// ListShareLinks 列出看板分享链接
func (sc *ShareLinkController) ListShareLinks(c *gin.Context) {
	uid := c.GetString("uid")
	boardID := c.Param("id")

	if !sc.perms.CanPerformAction(boardID, uid, services.CapManageMembers) {
		respondError(c, services.ErrForbidden)
		return
	}

	var links []models.BoardShareLink
	if err := config.DB.Where("board_id = ?", boardID).Find(&links).Error; err != nil {
		config.Logger.Errorw("查询分享链接失败", "error", err, "boardId", boardID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询分享链接失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"links": links})
}

// DeactivateShareLink 停用分享链接，单向操作，没有重新启用入口
func (sc *ShareLinkController) DeactivateShareLink(c *gin.Context) {
	uid := c.GetString("uid")
	boardID := c.Param("id")

	var link models.BoardShareLink
	if err := config.DB.Where("token = ? AND board_id = ?", c.Param("token"), boardID).
		First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, services.ErrNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询分享链接失败"})
		return
	}

	if !sc.perms.CanPerformAction(boardID, uid, services.CapManageMembers) {
		respondError(c, services.ErrForbidden)
		return
	}

	if err := config.DB.Model(&link).Update("is_active", false).Error; err != nil {
		config.Logger.Errorw("停用分享链接失败", "error", err, "token", link.Token)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "停用分享链接失败"})
		return
	}

	logActivity(&boardID, uid, "deactivateShareLink", "shareLink", link.Token, "")
	c.JSON(http.StatusOK, gin.H{"message": "分享链接已停用"})
}

// JoinByShareLink 通过分享链接加入看板
// 用量计数在存储层原子递增，先抢占名额再写成员记录，
// 并发加入时最多只有限额数量的请求能抢到
func (sc *ShareLinkController) JoinByShareLink(c *gin.Context) {
	uid := c.GetString("uid")
	token := c.Param("token")

	var link models.BoardShareLink
	if err := config.DB.Where("token = ?", token).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, services.ErrNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询分享链接失败"})
		return
	}

	// 已是成员直接返回，不占用名额
	existingRole, err := sc.perms.GetUserRole(link.BoardID, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	if existingRole != "" {
		c.JSON(http.StatusOK, gin.H{"message": "已是看板成员", "boardId": link.BoardID})
		return
	}

	var user models.User
	if err := config.DB.Where("id = ?", uid).First(&user).Error; err != nil {
		config.Logger.Errorw("获取用户信息失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取用户信息失败"})
		return
	}

	now := time.Now()
	claimed, err := services.ClaimShareLinkUse(config.DB, token, now)
	if err != nil {
		config.Logger.Errorw("占用分享名额失败", "error", err, "token", token)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "加入看板失败"})
		return
	}
	if !claimed {
		switch {
		case !link.IsActive:
			c.JSON(http.StatusConflict, gin.H{"error": "分享链接已停用", "reason": "inactive"})
		case link.ExpiresAt != nil && now.After(*link.ExpiresAt):
			c.JSON(http.StatusConflict, gin.H{"error": "分享链接已过期", "reason": "expired"})
		default:
			c.JSON(http.StatusConflict, gin.H{"error": "分享链接使用次数已达上限", "reason": "limitExceeded"})
		}
		return
	}

	member := models.BoardMember{
		ID:        utils.GenerateID(),
		BoardID:   link.BoardID,
		UserID:    uid,
		Username:  user.Username,
		Email:     user.Email,
		Avatar:    user.Avatar,
		Role:      link.Role,
		JoinedAt:  now,
		InvitedBy: link.CreatorID,
	}
	if err := config.DB.Create(&member).Error; err != nil {
		config.Logger.Errorw("写入成员记录失败", "error", err, "token", token, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "加入看板失败"})
		return
	}

	logActivity(&link.BoardID, uid, "joinByLink", "member", uid, "")
	c.JSON(http.StatusOK, gin.H{"message": "已加入看板", "boardId": link.BoardID, "role": link.Role})
}
