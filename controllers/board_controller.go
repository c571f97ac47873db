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

type BoardController struct {
	perms *services.PermissionService
}

func NewBoardController(perms *services.PermissionService) *BoardController {
	return &BoardController{perms: perms}
}

// CreateBoard 创建看板，同一事务内写入owner成员记录
// 新看板都有显式owner记录，"创建者即owner"的回退分支只服务历史数据
func (bc *BoardController) CreateBoard(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求"})
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	var user models.User
	if err := config.DB.Where("id = ?", uid).First(&user).Error; err != nil {
		config.Logger.Errorw("获取用户信息失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取用户信息失败"})
		return
	}

	now := time.Now()
	board := models.Board{
		ID:        utils.GenerateID(),
		Title:     req.Title,
		CreatorID: uid,
		CreatedAt: now,
	}
	ownerMember := models.BoardMember{
		ID:        utils.GenerateID(),
		BoardID:   board.ID,
		UserID:    uid,
		Username:  user.Username,
		Email:     user.Email,
		Avatar:    user.Avatar,
		Role:      string(models.RoleOwner),
		JoinedAt:  now,
		InvitedBy: uid,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&board).Error; err != nil {
			return err
		}
		return tx.Create(&ownerMember).Error
	})
	if err != nil {
		config.Logger.Errorw("创建看板失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建看板失败"})
		return
	}

	c.JSON(http.StatusOK, models.BoardResponse{
		ID:        board.ID,
		Title:     board.Title,
		CreatorID: board.CreatorID,
		Role:      string(models.RoleOwner),
		CreatedAt: board.CreatedAt,
	})
}

// ListBoards 列出自己参与的看板（成员记录并上创建者回退）
func (bc *BoardController) ListBoards(c *gin.Context) {
	uid := c.GetString("uid")

	var members []models.BoardMember
	if err := config.DB.Where("user_id = ?", uid).Find(&members).Error; err != nil {
		config.Logger.Errorw("查询成员记录失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询看板失败"})
		return
	}

	roleByBoard := make(map[string]string, len(members))
	boardIDs := make([]string, 0, len(members))
	for _, m := range members {
		roleByBoard[m.BoardID] = m.Role
		boardIDs = append(boardIDs, m.BoardID)
	}

	var boards []models.Board
	query := config.DB.Where("creator_id = ?", uid)
	if len(boardIDs) > 0 {
		query = config.DB.Where("creator_id = ? OR id IN ?", uid, boardIDs)
	}
	if err := query.Find(&boards).Error; err != nil {
		config.Logger.Errorw("查询看板失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询看板失败"})
		return
	}

	responses := make([]models.BoardResponse, len(boards))
	for i, b := range boards {
		role := roleByBoard[b.ID]
		if role == "" && b.CreatorID == uid {
			role = string(models.RoleOwner)
		}
		responses[i] = models.BoardResponse{
			ID:        b.ID,
			Title:     b.Title,
			CreatorID: b.CreatorID,
			Role:      role,
			CreatedAt: b.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, gin.H{"boards": responses})
}

// GetBoard 获取看板信息
func (bc *BoardController) GetBoard(c *gin.Context) {
	uid := c.GetString("uid")
	boardID := c.Param("id")

	role, err := bc.perms.GetUserRole(boardID, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	if role == "" || !services.HasCapability(role, services.CapView) {
		respondError(c, services.ErrForbidden)
		return
	}

	var board models.Board
	if err := config.DB.Where("id = ?", boardID).First(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, services.ErrNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询看板失败"})
		return
	}

	c.JSON(http.StatusOK, models.BoardResponse{
		ID:        board.ID,
		Title:     board.Title,
		CreatorID: board.CreatorID,
		Role:      string(role),
		CreatedAt: board.CreatedAt,
	})
}

// UpdateBoard 重命名看板
func (bc *BoardController) UpdateBoard(c *gin.Context) {
	uid := c.GetString("uid")
	boardID := c.Param("id")

	var req models.CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求"})
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	if !bc.perms.CanPerformAction(boardID, uid, services.CapEdit) {
		respondError(c, services.ErrForbidden)
		return
	}

	// 权限检查已确认看板存在，标题未变化时受影响行数为0也算成功
	if err := config.DB.Model(&models.Board{}).Where("id = ?", boardID).
		Update("title", req.Title).Error; err != nil {
		config.Logger.Errorw("更新看板失败", "error", err, "boardId", boardID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "更新看板失败"})
		return
	}

	logActivity(&boardID, uid, "rename", "board", boardID, req.Title)
	c.JSON(http.StatusOK, gin.H{"message": "看板已更新"})
}

// DeleteBoard 删除看板及其任务、成员、邀请、分享链接
// 仅owner可删（deleteWorkspace权限）
func (bc *BoardController) DeleteBoard(c *gin.Context) {
	uid := c.GetString("uid")
	boardID := c.Param("id")

	role, err := bc.perms.GetUserRole(boardID, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	if !services.HasCapability(role, services.CapDeleteWorkspace) {
		respondError(c, services.ErrForbidden)
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var taskIDs []string
		if err := tx.Model(&models.Task{}).Where("board_id = ?", boardID).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskAssignment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("board_id = ?", boardID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", boardID).Delete(&models.BoardMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", boardID).Delete(&models.BoardInvitation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", boardID).Delete(&models.BoardShareLink{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", boardID).Delete(&models.Activity{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", boardID).Delete(&models.Board{}).Error
	})
	if err != nil {
		config.Logger.Errorw("删除看板失败", "error", err, "boardId", boardID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除看板失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "看板已删除"})
}
