package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"hoodie-academy-service/cache"
	"hoodie-academy-service/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type LeaderboardService struct {
	DB    *gorm.DB
	Cache *cache.Client // optional; Postgres is the fallback when nil or cold
}

func NewLeaderboardService(db *gorm.DB, c *cache.Client) *LeaderboardService {
	return &LeaderboardService{DB: db, Cache: c}
}

// RankedUser is one leaderboard row.
type RankedUser struct {
	Rank          int    `json:"rank"`
	WalletAddress string `json:"wallet_address"`
	DisplayName   string `json:"display_name,omitempty"`
	Squad         string `json:"squad,omitempty"`
	TotalXP       int64  `json:"total_xp"`
	Level         int    `json:"level"`
}

// Top returns the top N wallets by total XP, banned wallets excluded. Ties
// rank by earlier profile creation. Served from the Redis sorted set when
// warm; straight from Postgres otherwise.
func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]RankedUser, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}

	if s.Cache != nil {
		if ranked, err := s.topFromCache(ctx, limit); err == nil && len(ranked) > 0 {
			return ranked, nil
		}
	}
	return s.topFromDB(limit)
}

func (s *LeaderboardService) topFromCache(ctx context.Context, limit int) ([]RankedUser, error) {
	entries, err := s.Cache.TopWallets(ctx, int64(limit))
	if err != nil || len(entries) == 0 {
		return nil, err
	}

	wallets := make([]string, len(entries))
	for i, e := range entries {
		wallets[i] = e.Member.(string)
	}
	var users []models.User
	if err := s.DB.Where("wallet_address IN ?", wallets).Find(&users).Error; err != nil {
		return nil, err
	}
	byWallet := make(map[string]models.User, len(users))
	for _, u := range users {
		byWallet[u.WalletAddress] = u
	}

	ranked := make([]RankedUser, 0, len(entries))
	for i, e := range entries {
		u, ok := byWallet[e.Member.(string)]
		if !ok || u.Banned {
			continue
		}
		ranked = append(ranked, RankedUser{
			Rank:          i + 1,
			WalletAddress: u.WalletAddress,
			DisplayName:   u.DisplayName,
			Squad:         derefStr(u.Squad),
			TotalXP:       u.TotalXP,
			Level:         u.Level,
		})
	}
	return ranked, nil
}

func (s *LeaderboardService) topFromDB(limit int) ([]RankedUser, error) {
	var users []models.User
	if err := s.DB.Where("banned = ?", false).
		Order("total_xp DESC, created_at ASC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	ranked := make([]RankedUser, len(users))
	for i, u := range users {
		ranked[i] = RankedUser{
			Rank:          i + 1,
			WalletAddress: u.WalletAddress,
			DisplayName:   u.DisplayName,
			Squad:         derefStr(u.Squad),
			TotalXP:       u.TotalXP,
			Level:         u.Level,
		}
	}
	return ranked, nil
}

// RankOf returns a wallet's 1-based rank.
func (s *LeaderboardService) RankOf(ctx context.Context, walletAddress string) (int, error) {
	if walletAddress == "" {
		return 0, validationf("wallet_address is required")
	}

	if s.Cache != nil {
		if rank, found, err := s.Cache.WalletRank(ctx, walletAddress); err == nil && found {
			return int(rank), nil
		}
	}

	var user models.User
	if err := s.DB.Where("wallet_address = ?", walletAddress).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, fmt.Errorf("%w: user %s", ErrNotFound, walletAddress)
		}
		return 0, err
	}
	var ahead int64
	if err := s.DB.Model(&models.User{}).
		Where("banned = ? AND (total_xp > ? OR (total_xp = ? AND created_at < ?))",
			false, user.TotalXP, user.TotalXP, user.CreatedAt).
		Count(&ahead).Error; err != nil {
		return 0, err
	}
	return int(ahead) + 1, nil
}

// RebuildCache replaces the Redis sorted set from Postgres. Run at boot and
// periodically by the leaderboard worker so write-through drift heals itself.
func (s *LeaderboardService) RebuildCache(ctx context.Context) error {
	if s.Cache == nil {
		return nil
	}
	var users []models.User
	if err := s.DB.Select("wallet_address", "total_xp").
		Where("banned = ?", false).
		Find(&users).Error; err != nil {
		return err
	}
	entries := make([]redis.Z, len(users))
	for i, u := range users {
		entries[i] = redis.Z{Score: float64(u.TotalXP), Member: u.WalletAddress}
	}
	start := time.Now()
	if err := s.Cache.ReplaceLeaderboard(ctx, entries); err != nil {
		return err
	}
	log.Printf("🏆 Leaderboard cache rebuilt: %d wallet(s) in %s", len(entries), time.Since(start))
	return nil
}
