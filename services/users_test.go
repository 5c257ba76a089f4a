package services

import (
	"testing"

	"hoodie-academy-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureUserLazyCreate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.EnsureUser("wallet-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), user.TotalXP)
	assert.Equal(t, 1, user.Level)
	assert.Nil(t, user.Squad)

	// second touch returns the same row
	again, err := svc.EnsureUser("wallet-1")
	require.NoError(t, err)
	assert.Equal(t, user.CreatedAt.Unix(), again.CreatedAt.Unix())

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err = svc.EnsureUser("")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetUserNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	_, err := svc.GetUser("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetDisplayName(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.SetDisplayName("wallet-1", "DegenHoodie")
	require.NoError(t, err)
	assert.Equal(t, "DegenHoodie", user.DisplayName)

	_, err = svc.SetDisplayName("wallet-1", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestIsAdminAndBan(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	isAdmin, err := svc.IsAdmin("unknown")
	require.NoError(t, err)
	assert.False(t, isAdmin)

	user, err := svc.EnsureUser("wallet-1")
	require.NoError(t, err)
	user.IsAdmin = true
	require.NoError(t, db.Save(user).Error)

	isAdmin, err = svc.IsAdmin("wallet-1")
	require.NoError(t, err)
	assert.True(t, isAdmin)

	banned, err := svc.SetBanned("wallet-1", true)
	require.NoError(t, err)
	assert.True(t, banned.Banned)

	_, err = svc.SetBanned("ghost", true)
	assert.ErrorIs(t, err, ErrNotFound)
}
