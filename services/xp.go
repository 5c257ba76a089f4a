package services

import (
	"context"
	"log"
	"time"

	"hoodie-academy-service/cache"
	"hoodie-academy-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// XPPerLevel is the flat level bucket: level = floor(total_xp/1000)+1.
const XPPerLevel = 1000

// DailyClaimXP is the once-per-UTC-day stipend.
const DailyClaimXP = 50

// LevelForXP derives the level bucket for an XP total.
func LevelForXP(totalXP int64) int {
	if totalXP < 0 {
		totalXP = 0
	}
	return int(totalXP/XPPerLevel) + 1
}

type XPService struct {
	DB    *gorm.DB
	Cache *cache.Client // optional; nil disables the leaderboard write-through
}

func NewXPService(db *gorm.DB, c *cache.Client) *XPService {
	return &XPService{DB: db, Cache: c}
}

// AwardResult reports what a credit did to the profile.
type AwardResult struct {
	User           *models.User `json:"user"`
	XPAwarded      int64        `json:"xp_awarded"`
	PreviousLevel  int          `json:"previous_level"`
	NewLevel       int          `json:"new_level"`
	LeveledUp      bool         `json:"leveled_up"`
	AlreadyAwarded bool         `json:"already_awarded"`
}

// Award credits XP for a one-shot event. The ledger's unique index on
// (wallet, event_type, reference_id) is the duplicate guard: a replayed
// event returns AlreadyAwarded=true and credits nothing. Unknown wallets
// are created on first touch rather than erroring.
func (s *XPService) Award(walletAddress string, amount int64, eventType models.XPEventType, referenceID, note string) (*AwardResult, error) {
	if walletAddress == "" {
		return nil, validationf("wallet_address is required")
	}
	if amount <= 0 {
		return nil, validationf("xp amount must be positive, got %d", amount)
	}
	if referenceID == "" {
		return nil, validationf("reference_id is required")
	}

	var result *AwardResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		user, err := ensureUser(tx, walletAddress)
		if err != nil {
			return err
		}

		event := models.XPEvent{
			ID:            uuid.NewString(),
			WalletAddress: walletAddress,
			EventType:     eventType,
			ReferenceID:   referenceID,
			XPAmount:      amount,
			Note:          note,
		}
		// ON CONFLICT DO NOTHING on the ledger's unique index: zero rows
		// affected means this reference was already credited.
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&event)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			result = &AwardResult{
				User:           user,
				PreviousLevel:  user.Level,
				NewLevel:       user.Level,
				AlreadyAwarded: true,
			}
			return nil
		}

		// atomic increment at the data layer, then recompute the bucket
		if err := tx.Model(&models.User{}).
			Where("wallet_address = ?", walletAddress).
			Update("total_xp", gorm.Expr("total_xp + ?", amount)).Error; err != nil {
			return err
		}
		if err := tx.Where("wallet_address = ?", walletAddress).First(user).Error; err != nil {
			return err
		}

		prevLevel := user.Level
		user.Level = LevelForXP(user.TotalXP)
		if err := tx.Save(user).Error; err != nil {
			return err
		}

		result = &AwardResult{
			User:          user,
			XPAwarded:     amount,
			PreviousLevel: prevLevel,
			NewLevel:      user.Level,
			LeveledUp:     user.Level > prevLevel,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyAwarded {
		s.writeThroughLeaderboard(result.User)
		log.Printf("🎓 XP awarded: %s +%d (%s/%s) → total=%d lvl=%d",
			walletAddress, amount, eventType, referenceID, result.User.TotalXP, result.User.Level)
	}
	return result, nil
}

// AdminAdjust applies an explicit admin correction. Deltas may be negative;
// the total is clamped at zero. Each correction gets a fresh ledger reference
// so repeated corrections are all recorded.
func (s *XPService) AdminAdjust(walletAddress string, delta int64, reason, adminWallet string) (*AwardResult, error) {
	if walletAddress == "" {
		return nil, validationf("wallet_address is required")
	}
	if delta == 0 {
		return nil, validationf("delta must be non-zero")
	}

	var result *AwardResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		user, err := ensureUser(tx, walletAddress)
		if err != nil {
			return err
		}

		prevLevel := user.Level
		user.TotalXP += delta
		if user.TotalXP < 0 {
			user.TotalXP = 0
		}
		user.Level = LevelForXP(user.TotalXP)
		if err := tx.Save(user).Error; err != nil {
			return err
		}

		event := models.XPEvent{
			ID:            uuid.NewString(),
			WalletAddress: walletAddress,
			EventType:     models.XPEventAdmin,
			ReferenceID:   uuid.NewString(),
			XPAmount:      delta,
			Note:          "by " + adminWallet + ": " + reason,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		result = &AwardResult{
			User:          user,
			XPAwarded:     delta,
			PreviousLevel: prevLevel,
			NewLevel:      user.Level,
			LeveledUp:     user.Level > prevLevel,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.writeThroughLeaderboard(result.User)
	return result, nil
}

// ClaimDaily grants the daily stipend, at most once per UTC day. The unique
// (wallet, claim_day) index makes double claims impossible regardless of
// request interleaving.
func (s *XPService) ClaimDaily(walletAddress string) (*AwardResult, error) {
	if walletAddress == "" {
		return nil, validationf("wallet_address is required")
	}
	day := time.Now().UTC().Format("2006-01-02")

	claim := models.DailyClaim{
		ID:            uuid.NewString(),
		WalletAddress: walletAddress,
		ClaimDay:      day,
		XPAmount:      DailyClaimXP,
	}
	if err := s.DB.Create(&claim).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return nil, &AlreadyClaimedError{ClaimDay: day}
		}
		return nil, err
	}

	return s.Award(walletAddress, DailyClaimXP, models.XPEventDailyClaim, day, "daily claim")
}

// DailyClaimStats reports today's claim activity (admin dashboard widget).
func (s *XPService) DailyClaimStats() (map[string]interface{}, error) {
	day := time.Now().UTC().Format("2006-01-02")
	var count int64
	if err := s.DB.Model(&models.DailyClaim{}).Where("claim_day = ?", day).Count(&count).Error; err != nil {
		return nil, err
	}
	var totalXP int64
	row := s.DB.Model(&models.DailyClaim{}).Where("claim_day = ?", day).
		Select("COALESCE(SUM(xp_amount), 0)").Row()
	if err := row.Scan(&totalXP); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"day":         day,
		"claims":      count,
		"xp_total":    totalXP,
		"xp_per_user": int64(DailyClaimXP),
	}, nil
}

// History returns a wallet's ledger entries, newest first.
func (s *XPService) History(walletAddress string, limit int) ([]models.XPEvent, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var events []models.XPEvent
	err := s.DB.Where("wallet_address = ?", walletAddress).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (s *XPService) writeThroughLeaderboard(user *models.User) {
	if s.Cache == nil || user == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Cache.SetLeaderboardScore(ctx, user.WalletAddress, user.TotalXP); err != nil {
		log.Printf("⚠️  leaderboard write-through failed for %s: %v", user.WalletAddress, err)
	}
}
