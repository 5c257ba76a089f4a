package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const leaderboardXPKey = "leaderboard:xp"

// SetLeaderboardScore writes a wallet's absolute XP total into the sorted set.
// Called after every XP write so ranks stay warm between rebuilds.
func (c *Client) SetLeaderboardScore(ctx context.Context, wallet string, totalXP int64) error {
	return c.ZAdd(ctx, leaderboardXPKey, redis.Z{
		Score:  float64(totalXP),
		Member: wallet,
	}).Err()
}

// RemoveFromLeaderboard drops a wallet (ban, reset).
func (c *Client) RemoveFromLeaderboard(ctx context.Context, wallet string) error {
	return c.ZRem(ctx, leaderboardXPKey, wallet).Err()
}

// TopWallets returns the top N wallets with scores, highest XP first.
func (c *Client) TopWallets(ctx context.Context, limit int64) ([]redis.Z, error) {
	entries, err := c.ZRevRangeWithScores(ctx, leaderboardXPKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	return entries, nil
}

// WalletRank returns the 1-based rank of a wallet; found=false if absent.
func (c *Client) WalletRank(ctx context.Context, wallet string) (int64, bool, error) {
	rank, err := c.ZRevRank(ctx, leaderboardXPKey, wallet).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get wallet rank: %w", err)
	}
	return rank + 1, true, nil
}

// LeaderboardSize returns the number of ranked wallets.
func (c *Client) LeaderboardSize(ctx context.Context) (int64, error) {
	return c.ZCard(ctx, leaderboardXPKey).Result()
}

// ReplaceLeaderboard atomically swaps in a full rebuild from Postgres.
func (c *Client) ReplaceLeaderboard(ctx context.Context, entries []redis.Z) error {
	pipe := c.TxPipeline()
	pipe.Del(ctx, leaderboardXPKey)
	if len(entries) > 0 {
		pipe.ZAdd(ctx, leaderboardXPKey, entries...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to rebuild leaderboard: %w", err)
	}
	return nil
}
