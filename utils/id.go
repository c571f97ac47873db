package utils

import (
	"PlanBoardGo/config"
	"github.com/google/uuid"
)

func GenerateID() string {
	id := uuid.New().String()
	config.Logger.Debugw("生成新ID", "id", id)
	return id
}

// GenerateShareToken 生成分享链接token，去掉连字符便于放进URL
func GenerateShareToken() string {
	a := uuid.New().String()
	b := uuid.New().String()
	return stripDash(a) + stripDash(b)[:16]
}

func stripDash(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '-' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
