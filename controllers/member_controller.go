package controllers

import (
	"net/http"

	"PlanBoardGo/config"
	"PlanBoardGo/models"
	"PlanBoardGo/services"

	"github.com/gin-gonic/gin"
)

type MemberController struct {
	perms *services.PermissionService
}

func NewMemberController(perms *services.PermissionService) *MemberController {
	return &MemberController{perms: perms}
}

// ListMembers 列出看板成员
func (mc *MemberController) ListMembers(c *gin.Context) {
	uid := c.GetString("uid")
	boardID := c.Param("id")

	if !mc.perms.CanPerformAction(boardID, uid, services.CapView) {
		respondError(c, services.ErrForbidden)
		return
	}

	var members []models.BoardMember
	if err := config.DB.Where("board_id = ?", boardID).Find(&members).Error; err != nil {
		config.Logger.Errorw("查询成员失败", "error", err, "boardId", boardID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询成员失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// UpdateMemberRole 修改成员角色
// owner不能被授予也不能被降级，守卫在权限模型里统一执行
func (mc *MemberController) UpdateMemberRole(c *gin.Context) {
	uid := c.GetString("uid")
	boardID := c.Param("id")
	targetUserID := c.Param("userId")

	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求"})
		return
	}

	if err := mc.perms.ValidateRoleChange(boardID, uid, targetUserID, req.Role); err != nil {
		respondError(c, err)
		return
	}

	// 守卫已确认目标是显式成员，角色未变化时受影响行数为0也算成功
	if err := config.DB.Model(&models.BoardMember{}).
		Where("board_id = ? AND user_id = ?", boardID, targetUserID).
		Update("role", req.Role).Error; err != nil {
		config.Logger.Errorw("修改角色失败", "error", err, "boardId", boardID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "修改角色失败"})
		return
	}

	logActivity(&boardID, uid, "updateRole", "member", targetUserID, req.Role)
	c.JSON(http.StatusOK, gin.H{"message": "角色已更新"})
}

// RemoveMember 移除成员
// 非owner成员可以自行退出，不需要成员管理权限；owner不可移除
func (mc *MemberController) RemoveMember(c *gin.Context) {
	uid := c.GetString("uid")
	boardID := c.Param("id")
	targetUserID := c.Param("userId")

	if err := mc.perms.ValidateRemoval(boardID, uid, targetUserID); err != nil {
		respondError(c, err)
		return
	}

	if err := config.DB.Where("board_id = ? AND user_id = ?", boardID, targetUserID).
		Delete(&models.BoardMember{}).Error; err != nil {
		config.Logger.Errorw("移除成员失败", "error", err, "boardId", boardID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "移除成员失败"})
		return
	}

	logActivity(&boardID, uid, "removeMember", "member", targetUserID, "")
	c.JSON(http.StatusOK, gin.H{"message": "成员已移除"})
}
