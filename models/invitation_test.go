package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// pending过了有效期按expired处理，不依赖后台清扫
func TestInvitationEffectiveStatus(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	pending := BoardInvitation{Status: InviteStatusPending, ExpiresAt: now.Add(time.Hour)}
	assert.Equal(t, InviteStatusPending, pending.EffectiveStatus(now))

	stale := BoardInvitation{Status: InviteStatusPending, ExpiresAt: now.Add(-time.Minute)}
	assert.Equal(t, InviteStatusExpired, stale.EffectiveStatus(now))

	// 已接受/已拒绝的状态不受有效期影响
	accepted := BoardInvitation{Status: InviteStatusAccepted, ExpiresAt: now.Add(-time.Hour)}
	assert.Equal(t, InviteStatusAccepted, accepted.EffectiveStatus(now))

	declined := BoardInvitation{Status: InviteStatusDeclined, ExpiresAt: now.Add(-time.Hour)}
	assert.Equal(t, InviteStatusDeclined, declined.EffectiveStatus(now))
}

func TestShareLinkJoinable(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	one := 1

	assert.True(t, (&BoardShareLink{IsActive: true}).Joinable(now))
	assert.False(t, (&BoardShareLink{IsActive: false}).Joinable(now))
	assert.False(t, (&BoardShareLink{IsActive: true, ExpiresAt: &past}).Joinable(now))
	assert.True(t, (&BoardShareLink{IsActive: true, ExpiresAt: &future}).Joinable(now))
	assert.False(t, (&BoardShareLink{IsActive: true, UsageLimit: &one, UsageCount: 1}).Joinable(now))
	assert.True(t, (&BoardShareLink{IsActive: true, UsageLimit: &one, UsageCount: 0}).Joinable(now))
}

func TestTaskTagsRoundTrip(t *testing.T) {
	task := Task{Tags: EncodeTags([]string{"工作", "紧急"})}
	assert.Equal(t, []string{"工作", "紧急"}, task.DecodeTags())

	// 空集和坏数据都按空集处理
	assert.Empty(t, (&Task{}).DecodeTags())
	assert.Empty(t, (&Task{Tags: "{bad json"}).DecodeTags())
}
