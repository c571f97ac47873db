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

type InvitationController struct {
	perms           *services.PermissionService
	inviteValidDays int
}

func NewInvitationController(perms *services.PermissionService, inviteValidDays int) *InvitationController {
	return &InvitationController{perms: perms, inviteValidDays: inviteValidDays}
}

func invitationResponse(inv *models.BoardInvitation, now time.Time) models.InvitationResponse {
	return models.InvitationResponse{
		ID:           inv.ID,
		BoardID:      inv.BoardID,
		InvitedEmail: inv.InvitedEmail,
		InviterID:    inv.InviterID,
		Role:         inv.Role,
		Status:       inv.EffectiveStatus(now),
		CreatedAt:    inv.CreatedAt,
		ExpiresAt:    inv.ExpiresAt,
	}
}

// CreateInvitation 创建邀请，需要成员管理权限，角色不允许owner
func (ic *InvitationController) CreateInvitation(c *gin.Context) {
	uid := c.GetString("uid")
	boardID := c.Param("id")

	var req models.InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求"})
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	if !ic.perms.CanPerformAction(boardID, uid, services.CapManageMembers) {
		respondError(c, services.ErrForbidden)
		return
	}

	// 被邀请人已注册时顺带解析用户ID
	var invitedUserID *string
	var invitedUser models.User
	if err := config.DB.Where("email = ?", req.Email).First(&invitedUser).Error; err == nil {
		invitedUserID = &invitedUser.ID
	}

	now := time.Now()
	invitation := models.BoardInvitation{
		ID:            utils.GenerateID(),
		BoardID:       boardID,
		InvitedEmail:  req.Email,
		InvitedUserID: invitedUserID,
		InviterID:     uid,
		Role:          req.Role,
		Status:        models.InviteStatusPending,
		CreatedAt:     now,
		ExpiresAt:     now.AddDate(0, 0, ic.inviteValidDays),
	}

	if err := config.DB.Create(&invitation).Error; err != nil {
		config.Logger.Errorw("创建邀请失败", "error", err, "boardId", boardID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建邀请失败"})
		return
	}

	logActivity(&boardID, uid, "invite", "invitation", invitation.ID, req.Email)
	c.JSON(http.StatusOK, invitationResponse(&invitation, now))
}

// ListBoardInvitations 列出看板邀请，状态读取时计算
func (ic *InvitationController) ListBoardInvitations(c *gin.Context) {
	uid := c.GetString("uid")
	boardID := c.Param("id")

	if !ic.perms.CanPerformAction(boardID, uid, services.CapManageMembers) {
		respondError(c, services.ErrForbidden)
		return
	}

	var invitations []models.BoardInvitation
	if err := config.DB.Where("board_id = ?", boardID).Find(&invitations).Error; err != nil {
		config.Logger.Errorw("查询邀请失败", "error", err, "boardId", boardID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询邀请失败"})
		return
	}

	now := time.Now()
	responses := make([]models.InvitationResponse, len(invitations))
	for i := range invitations {
		responses[i] = invitationResponse(&invitations[i], now)
	}
	c.JSON(http.StatusOK, gin.H{"invitations": responses})
}

// ListMyInvitations 列出发给自己的邀请
func (ic *InvitationController) ListMyInvitations(c *gin.Context) {
	uid := c.GetString("uid")

	var user models.User
	if err := config.DB.Where("id = ?", uid).First(&user).Error; err != nil {
		config.Logger.Errorw("获取用户信息失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取用户信息失败"})
		return
	}

	var invitations []models.BoardInvitation
	if err := config.DB.Where("invited_email = ? OR invited_user_id = ?", user.Email, uid).
		Find(&invitations).Error; err != nil {
		config.Logger.Errorw("查询邀请失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询邀请失败"})
		return
	}

	now := time.Now()
	responses := make([]models.InvitationResponse, len(invitations))
	for i := range invitations {
		responses[i] = invitationResponse(&invitations[i], now)
	}
	c.JSON(http.StatusOK, gin.H{"invitations": responses})
}

// loadInvitationForInvitee 加载邀请并校验当前用户是被邀请人
func (ic *InvitationController) loadInvitationForInvitee(c *gin.Context, uid string) (*models.BoardInvitation, *models.User, bool) {
	var user models.User
	if err := config.DB.Where("id = ?", uid).First(&user).Error; err != nil {
		config.Logger.Errorw("获取用户信息失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取用户信息失败"})
		return nil, nil, false
	}

	var invitation models.BoardInvitation
	if err := config.DB.Where("id = ?", c.Param("inviteId")).First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, services.ErrNotFound)
			return nil, nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询邀请失败"})
		return nil, nil, false
	}

	invitee := invitation.InvitedEmail == user.Email ||
		(invitation.InvitedUserID != nil && *invitation.InvitedUserID == uid)
	if !invitee {
		respondError(c, services.ErrForbidden)
		return nil, nil, false
	}
	return &invitation, &user, true
}

// AcceptInvitation 接受邀请
// pending才能接受，过期按expired处理返回冲突；接受后写入成员记录
func (ic *InvitationController) AcceptInvitation(c *gin.Context) {
	uid := c.GetString("uid")

	invitation, user, ok := ic.loadInvitationForInvitee(c, uid)
	if !ok {
		return
	}

	now := time.Now()
	if invitation.EffectiveStatus(now) != models.InviteStatusPending {
		respondError(c, services.ErrConflict)
		return
	}

	var board models.Board
	if err := config.DB.Where("id = ?", invitation.BoardID).First(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, services.ErrNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询看板失败"})
		return
	}

	// 已是成员则只更新邀请状态
	existingRole, err := ic.perms.GetUserRole(invitation.BoardID, uid)
	if err != nil {
		respondError(c, err)
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if existingRole == "" {
			member := models.BoardMember{
				ID:        utils.GenerateID(),
				BoardID:   invitation.BoardID,
				UserID:    uid,
				Username:  user.Username,
				Email:     user.Email,
				Avatar:    user.Avatar,
				Role:      invitation.Role,
				JoinedAt:  now,
				InvitedBy: invitation.InviterID,
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		}
		return tx.Model(invitation).
			Updates(map[string]interface{}{"status": models.InviteStatusAccepted, "invited_user_id": uid}).Error
	})
	if err != nil {
		config.Logger.Errorw("接受邀请失败", "error", err, "inviteId", invitation.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "接受邀请失败"})
		return
	}

	logActivity(&invitation.BoardID, uid, "acceptInvite", "invitation", invitation.ID, "")
	c.JSON(http.StatusOK, gin.H{"message": "已加入看板", "boardId": invitation.BoardID})
}

// DeclineInvitation 拒绝邀请，pending才能拒绝
func (ic *InvitationController) DeclineInvitation(c *gin.Context) {
	uid := c.GetString("uid")

	invitation, _, ok := ic.loadInvitationForInvitee(c, uid)
	if !ok {
		return
	}

	if invitation.EffectiveStatus(time.Now()) != models.InviteStatusPending {
		respondError(c, services.ErrConflict)
		return
	}

	if err := config.DB.Model(invitation).Update("status", models.InviteStatusDeclined).Error; err != nil {
		config.Logger.Errorw("拒绝邀请失败", "error", err, "inviteId", invitation.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "拒绝邀请失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "已拒绝邀请"})
}

// CancelInvitation 管理者撤销pending状态的邀请，记录直接删除
func (ic *InvitationController) CancelInvitation(c *gin.Context) {
	uid := c.GetString("uid")
	boardID := c.Param("id")

	if !ic.perms.CanPerformAction(boardID, uid, services.CapManageMembers) {
		respondError(c, services.ErrForbidden)
		return
	}

	var invitation models.BoardInvitation
	if err := config.DB.Where("id = ? AND board_id = ?", c.Param("inviteId"), boardID).
		First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, services.ErrNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询邀请失败"})
		return
	}

	if invitation.EffectiveStatus(time.Now()) != models.InviteStatusPending {
		respondError(c, services.ErrConflict)
		return
	}

	if err := config.DB.Delete(&invitation).Error; err != nil {
		config.Logger.Errorw("撤销邀请失败", "error", err, "inviteId", invitation.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "撤销邀请失败"})
		return
	}

	logActivity(&boardID, uid, "cancelInvite", "invitation", invitation.ID, "")
	c.JSON(http.StatusOK, gin.H{"message": "邀请已撤销"})
}
