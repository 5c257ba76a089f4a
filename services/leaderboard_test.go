package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardTopFromDB(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, nil)
	seedUser(t, db, "wallet-a", 3000)
	seedUser(t, db, "wallet-b", 5000)
	seedUser(t, db, "wallet-c", 1000)

	ranked, err := svc.Top(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "wallet-b", ranked[0].WalletAddress)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 6, ranked[0].Level)
	assert.Equal(t, "wallet-a", ranked[1].WalletAddress)
	assert.Equal(t, "wallet-c", ranked[2].WalletAddress)
	assert.Equal(t, 3, ranked[2].Rank)
}

func TestLeaderboardExcludesBanned(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, nil)
	seedUser(t, db, "wallet-a", 3000)
	cheater := seedUser(t, db, "wallet-b", 9000)
	cheater.Banned = true
	require.NoError(t, db.Save(cheater).Error)

	ranked, err := svc.Top(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "wallet-a", ranked[0].WalletAddress)
}

func TestRankOf(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, nil)
	seedUser(t, db, "wallet-a", 3000)
	seedUser(t, db, "wallet-b", 5000)
	seedUser(t, db, "wallet-c", 1000)

	rank, err := svc.RankOf(context.Background(), "wallet-a")
	require.NoError(t, err)
	assert.Equal(t, 2, rank)

	rank, err = svc.RankOf(context.Background(), "wallet-c")
	require.NoError(t, err)
	assert.Equal(t, 3, rank)

	_, err = svc.RankOf(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
