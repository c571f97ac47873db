package services

import (
	"time"

	"PlanBoardGo/models"

	"gorm.io/gorm"
)

// ClaimShareLinkUse 原子占用一个分享链接名额
// 用量递增必须在存储层完成而不是读改写，否则并发加入会多放行
// 停用、过期、用完任一条件不满足则不占用，返回false
func ClaimShareLinkUse(db *gorm.DB, token string, now time.Time) (bool, error) {
	result := db.Model(&models.BoardShareLink{}).
		Where("token = ? AND is_active = ?", token, true).
		Where("usage_limit IS NULL OR usage_count < usage_limit").
		Where("expires_at IS NULL OR expires_at > ?", now).
		Update("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
