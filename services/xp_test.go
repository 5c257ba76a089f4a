package services

import (
	"testing"

	"hoodie-academy-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		totalXP int64
		level   int
	}{
		{0, 1},
		{999, 1},
		{1000, 2},
		{1050, 2},
		{2500, 3},
		{10000, 11},
		{-5, 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.level, LevelForXP(tc.totalXP), "total_xp=%d", tc.totalXP)
	}
}

func TestAwardLevelUp(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(db, nil)
	seedUser(t, db, "wallet-1", 950)

	result, err := svc.Award("wallet-1", 100, models.XPEventExam, "exam-final", "")
	require.NoError(t, err)

	assert.Equal(t, int64(1050), result.User.TotalXP)
	assert.Equal(t, 1, result.PreviousLevel)
	assert.Equal(t, 2, result.NewLevel)
	assert.True(t, result.LeveledUp)
	assert.False(t, result.AlreadyAwarded)
}

func TestAwardIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(db, nil)

	first, err := svc.Award("wallet-1", 500, models.XPEventBounty, "bounty-42", "")
	require.NoError(t, err)
	require.False(t, first.AlreadyAwarded)

	second, err := svc.Award("wallet-1", 500, models.XPEventBounty, "bounty-42", "")
	require.NoError(t, err)
	assert.True(t, second.AlreadyAwarded)
	assert.Equal(t, int64(0), second.XPAwarded)
	assert.Equal(t, int64(500), second.User.TotalXP)

	var events int64
	require.NoError(t, db.Model(&models.XPEvent{}).Count(&events).Error)
	assert.Equal(t, int64(1), events)

	// same reference under a different event type is a distinct credit
	third, err := svc.Award("wallet-1", 100, models.XPEventCourse, "bounty-42", "")
	require.NoError(t, err)
	assert.False(t, third.AlreadyAwarded)
	assert.Equal(t, int64(600), third.User.TotalXP)
}

func TestAwardCreatesUserOnFirstTouch(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(db, nil)

	result, err := svc.Award("fresh-wallet", 250, models.XPEventBounty, "bounty-1", "")
	require.NoError(t, err)
	assert.Equal(t, int64(250), result.User.TotalXP)

	var user models.User
	require.NoError(t, db.Where("wallet_address = ?", "fresh-wallet").First(&user).Error)
	assert.Equal(t, 1, user.Level)
}

func TestAwardValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(db, nil)

	_, err := svc.Award("", 100, models.XPEventExam, "x", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Award("wallet-1", 0, models.XPEventExam, "x", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Award("wallet-1", -10, models.XPEventExam, "x", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Award("wallet-1", 10, models.XPEventExam, "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAdminAdjustClampsAtZero(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(db, nil)
	seedUser(t, db, "wallet-1", 1200)

	result, err := svc.AdminAdjust("wallet-1", -5000, "correction", "admin-wallet")
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.User.TotalXP)
	assert.Equal(t, 1, result.User.Level)

	// repeated corrections are all recorded in the ledger
	_, err = svc.AdminAdjust("wallet-1", 300, "re-credit", "admin-wallet")
	require.NoError(t, err)
	var events int64
	require.NoError(t, db.Model(&models.XPEvent{}).
		Where("event_type = ?", models.XPEventAdmin).Count(&events).Error)
	assert.Equal(t, int64(2), events)
}

func TestDailyClaimOncePerDay(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(db, nil)

	result, err := svc.ClaimDaily("wallet-1")
	require.NoError(t, err)
	assert.Equal(t, int64(DailyClaimXP), result.User.TotalXP)

	_, err = svc.ClaimDaily("wallet-1")
	var claimed *AlreadyClaimedError
	require.ErrorAs(t, err, &claimed)
	assert.NotEmpty(t, claimed.ClaimDay)

	// another wallet is unaffected
	other, err := svc.ClaimDaily("wallet-2")
	require.NoError(t, err)
	assert.Equal(t, int64(DailyClaimXP), other.User.TotalXP)

	stats, err := svc.DailyClaimStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats["claims"])
	assert.Equal(t, int64(2*DailyClaimXP), stats["xp_total"])
}

func TestHistoryNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(db, nil)

	_, err := svc.Award("wallet-1", 100, models.XPEventBounty, "a", "")
	require.NoError(t, err)
	_, err = svc.Award("wallet-1", 200, models.XPEventBounty, "b", "")
	require.NoError(t, err)

	events, err := svc.History("wallet-1", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
}
