package services

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"PlanBoardGo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

// 限额1的链接，两次占用只有一次成功，计数恰好是1
func TestClaimShareLinkUseLimit(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	link := models.BoardShareLink{
		Token:      "tok-limit",
		BoardID:    "board-1",
		Role:       string(models.RoleEditor),
		CreatorID:  "user-owner",
		UsageLimit: intPtr(1),
		IsActive:   true,
		CreatedAt:  now,
	}
	require.NoError(t, db.Create(&link).Error)

	first, err := ClaimShareLinkUse(db, "tok-limit", now)
	require.NoError(t, err)
	second, err := ClaimShareLinkUse(db, "tok-limit", now)
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)

	var stored models.BoardShareLink
	require.NoError(t, db.Where("token = ?", "tok-limit").First(&stored).Error)
	assert.Equal(t, 1, stored.UsageCount)
	// 拒绝加入不会停用链接
	assert.True(t, stored.IsActive)
}

// 限额1的链接在并发占用下也只能成功一次，计数靠单条带守卫的UPDATE保证
func TestClaimShareLinkUseConcurrent(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	link := models.BoardShareLink{
		Token:      "tok-race",
		BoardID:    "board-1",
		Role:       string(models.RoleEditor),
		CreatorID:  "user-owner",
		UsageLimit: intPtr(1),
		IsActive:   true,
		CreatedAt:  now,
	}
	require.NoError(t, db.Create(&link).Error)

	var wg sync.WaitGroup
	var claims, failures int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := ClaimShareLinkUse(db, "tok-race", now)
			if err != nil {
				atomic.AddInt32(&failures, 1)
				return
			}
			if claimed {
				atomic.AddInt32(&claims, 1)
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, failures)
	assert.Equal(t, int32(1), claims)

	var stored models.BoardShareLink
	require.NoError(t, db.Where("token = ?", "tok-race").First(&stored).Error)
	assert.Equal(t, 1, stored.UsageCount)
}

func TestClaimShareLinkUseExpired(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()
	past := now.Add(-time.Hour)

	link := models.BoardShareLink{
		Token:     "tok-expired",
		BoardID:   "board-1",
		Role:      string(models.RoleViewer),
		CreatorID: "user-owner",
		ExpiresAt: &past,
		IsActive:  true,
		CreatedAt: now.Add(-2 * time.Hour),
	}
	require.NoError(t, db.Create(&link).Error)

	claimed, err := ClaimShareLinkUse(db, "tok-expired", now)
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestClaimShareLinkUseInactive(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	link := models.BoardShareLink{
		Token:     "tok-inactive",
		BoardID:   "board-1",
		Role:      string(models.RoleViewer),
		CreatorID: "user-owner",
		IsActive:  false,
		CreatedAt: now,
	}
	require.NoError(t, db.Create(&link).Error)

	claimed, err := ClaimShareLinkUse(db, "tok-inactive", now)
	require.NoError(t, err)
	assert.False(t, claimed)
}

// 无限额无过期的链接可以反复使用
func TestClaimShareLinkUseUnlimited(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	link := models.BoardShareLink{
		Token:     "tok-open",
		BoardID:   "board-1",
		Role:      string(models.RoleViewer),
		CreatorID: "user-owner",
		IsActive:  true,
		CreatedAt: now,
	}
	require.NoError(t, db.Create(&link).Error)

	for i := 0; i < 3; i++ {
		claimed, err := ClaimShareLinkUse(db, "tok-open", now)
		require.NoError(t, err)
		assert.True(t, claimed)
	}

	var stored models.BoardShareLink
	require.NoError(t, db.Where("token = ?", "tok-open").First(&stored).Error)
	assert.Equal(t, 3, stored.UsageCount)
}
