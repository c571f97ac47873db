package models

import "time"

// 邀请状态
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusDeclined = "declined"
	InviteStatusExpired  = "expired"
)

// BoardInvitation 看板邀请模型
type BoardInvitation struct {
	ID            string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	BoardID       string    `gorm:"type:varchar(50);index" json:"boardId"`
	InvitedEmail  string    `gorm:"type:varchar(100);index" json:"invitedEmail"`
	InvitedUserID *string   `gorm:"type:varchar(50)" json:"invitedUserId"`
	InviterID     string    `gorm:"type:varchar(50)" json:"inviterId"`
	Role          string    `gorm:"type:varchar(20)" json:"role"`
	Status        string    `gorm:"type:varchar(20);default:pending" json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// EffectiveStatus 读取时计算有效状态：pending过了有效期按expired处理，不回写
func (i *BoardInvitation) EffectiveStatus(now time.Time) string {
	if i.Status == InviteStatusPending && now.After(i.ExpiresAt) {
		return InviteStatusExpired
	}
	return i.Status
}
