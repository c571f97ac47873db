package services

import (
	"errors"
	"fmt"

	"PlanBoardGo/models"

	"gorm.io/gorm"
)

// Capability 看板内的单项权限，彼此独立检查
type Capability string

const (
	CapView            Capability = "view"
	CapEdit            Capability = "edit"
	CapDelete          Capability = "delete"
	CapManageMembers   Capability = "manageMembers"
	CapDeleteWorkspace Capability = "deleteWorkspace"
	CapAssign          Capability = "assign"
)

// 角色到权限集合的映射表，角色不是线性层级
var rolePermissions = map[models.BoardRole]map[Capability]bool{
	models.RoleOwner: {
		CapView: true, CapEdit: true, CapDelete: true,
		CapManageMembers: true, CapDeleteWorkspace: true, CapAssign: true,
	},
	models.RoleAdmin: {
		CapView: true, CapEdit: true, CapDelete: true,
		CapManageMembers: true, CapAssign: true,
	},
	models.RoleEditor: {
		CapView: true, CapEdit: true,
	},
	models.RoleViewer: {
		CapView: true,
	},
}

// HasCapability 查询权限表，未知角色或未知权限一律拒绝
func HasCapability(role models.BoardRole, cap Capability) bool {
	caps, ok := rolePermissions[role]
	if !ok {
		return false
	}
	return caps[cap]
}

// PermissionService 协作权限模型
// 权限检查与后续写入是两次独立的存储往返，两者之间角色可能被撤销，
// 该竞态窗口是已知并接受的，最坏情况是多放行一次编辑
type PermissionService struct {
	db *gorm.DB
}

func NewPermissionService(db *gorm.DB) *PermissionService {
	return &PermissionService{db: db}
}

// GetUserRole 查询用户在看板中的角色，无角色返回空串
// 先查显式成员记录，查不到时回退到"创建者即owner"的兼容分支
// （成员系统上线前创建的看板没有成员记录）
func (s *PermissionService) GetUserRole(boardID, userID string) (models.BoardRole, error) {
	var member models.BoardMember
	err := s.db.Where("board_id = ? AND user_id = ?", boardID, userID).First(&member).Error
	if err == nil {
		return models.BoardRole(member.Role), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var board models.Board
	err = s.db.Where("id = ?", boardID).First(&board).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: 看板 %s", ErrNotFound, boardID)
		}
		return "", err
	}
	if board.CreatorID == userID {
		return models.RoleOwner, nil
	}
	return "", nil
}

// CanPerformAction 判定(看板,用户,权限)三元组是否放行
// 任何歧义（无角色、未知权限、存储错误）一律拒绝，绝不失败放行
func (s *PermissionService) CanPerformAction(boardID, userID string, cap Capability) bool {
	role, err := s.GetUserRole(boardID, userID)
	if err != nil || role == "" {
		return false
	}
	return HasCapability(role, cap)
}

// CanTouchTask 任务级权限判定
// 任务归属者是独立于看板成员身份的授权路径（历史遗留的个人任务支持），
// 对自己的任务始终拥有查看/编辑/删除权
func (s *PermissionService) CanTouchTask(task *models.Task, userID string, cap Capability) bool {
	if task.UserID == userID {
		switch cap {
		case CapView, CapEdit, CapDelete:
			return true
		}
	}
	if task.BoardID == nil {
		return false
	}
	return s.CanPerformAction(*task.BoardID, userID, cap)
}

// ValidateRoleChange 修改成员角色的守卫
// owner角色不能通过角色修改授予，owner成员不能被降级
func (s *PermissionService) ValidateRoleChange(boardID, actorID, targetUserID, newRole string) error {
	if !models.AssignableRole(newRole) {
		return fmt.Errorf("%w: owner角色不能通过角色修改授予", ErrValidation)
	}
	if !s.CanPerformAction(boardID, actorID, CapManageMembers) {
		return fmt.Errorf("%w: 需要成员管理权限", ErrForbidden)
	}
	targetRole, err := s.GetUserRole(boardID, targetUserID)
	if err != nil {
		return err
	}
	if targetRole == "" {
		return fmt.Errorf("%w: 目标用户不是看板成员", ErrNotFound)
	}
	if targetRole == models.RoleOwner {
		return fmt.Errorf("%w: owner角色不可变更", ErrForbidden)
	}
	return nil
}

// ValidateRemoval 移除成员的守卫
// owner不可被移除；非owner成员可以随时移除自己，不需要成员管理权限
func (s *PermissionService) ValidateRemoval(boardID, actorID, targetUserID string) error {
	targetRole, err := s.GetUserRole(boardID, targetUserID)
	if err != nil {
		return err
	}
	if targetRole == "" {
		return fmt.Errorf("%w: 目标用户不是看板成员", ErrNotFound)
	}
	if targetRole == models.RoleOwner {
		return fmt.Errorf("%w: owner不能退出或被移除", ErrForbidden)
	}
	if actorID == targetUserID {
		return nil
	}
	if !s.CanPerformAction(boardID, actorID, CapManageMembers) {
		return fmt.Errorf("%w: 需要成员管理权限", ErrForbidden)
	}
	return nil
}
