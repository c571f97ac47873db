package models

import "time"

// BoardRole 看板成员角色
type BoardRole string

const (
	RoleOwner  BoardRole = "owner"
	RoleAdmin  BoardRole = "admin"
	RoleEditor BoardRole = "editor"
	RoleViewer BoardRole = "viewer"
)

// ValidRole 校验角色取值
func ValidRole(r string) bool {
	switch BoardRole(r) {
	case RoleOwner, RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// AssignableRole 可通过成员管理分配的角色，owner不允许
func AssignableRole(r string) bool {
	switch BoardRole(r) {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// BoardMember 看板成员模型，(boardId, userId)唯一
// 用户展示字段为冗余副本，仅在加入时写入，后续不回填
type BoardMember struct {
	ID        string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	BoardID   string    `gorm:"type:varchar(50);uniqueIndex:idx_board_user" json:"boardId"`
	UserID    string    `gorm:"type:varchar(50);uniqueIndex:idx_board_user" json:"userId"`
	Username  string    `gorm:"type:varchar(100)" json:"username"`
	Email     string    `gorm:"type:varchar(100)" json:"email"`
	Avatar    string    `gorm:"type:varchar(255)" json:"avatar"`
	Role      string    `gorm:"type:varchar(20)" json:"role"`
	JoinedAt  time.Time `json:"joinedAt"`
	InvitedBy string    `gorm:"type:varchar(50)" json:"invitedBy"`
}
