package services

import (
	"fmt"
	"log"
	"math"
	"time"

	"hoodie-academy-service/models"

	"gorm.io/gorm"
)

// SquadLockDays is the re-selection lock window started by every selection
// and renewal.
const SquadLockDays = 30

type SquadService struct {
	DB *gorm.DB
}

func NewSquadService(db *gorm.DB) *SquadService {
	return &SquadService{DB: db}
}

// SeedSquads upserts the default roster at boot.
func (s *SquadService) SeedSquads() error {
	for _, sq := range models.DefaultSquads {
		var existing models.Squad
		err := s.DB.Where("id = ?", sq.ID).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := s.DB.Create(&sq).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ListSquads returns the selectable roster.
func (s *SquadService) ListSquads() ([]models.Squad, error) {
	var squads []models.Squad
	err := s.DB.Order("name ASC").Find(&squads).Error
	return squads, err
}

// RemainingLockDays is ceil((lock_end - now) / 24h), floored at 0.
func RemainingLockDays(lockEnd time.Time, now time.Time) int {
	if !now.Before(lockEnd) {
		return 0
	}
	return int(math.Ceil(lockEnd.Sub(now).Seconds() / 86400))
}

// Choose applies the squad selection rule for a wallet:
//   - first selection is always allowed and starts the 30-day lock
//     (squad_change_count = 1);
//   - renew=true for the wallet's current squad always succeeds and re-arms
//     the lock without touching squad_change_count;
//   - a different squad while the lock is running is rejected with a
//     SquadLockedError carrying remaining_days;
//   - otherwise the change goes through: new squad, fresh lock,
//     squad_change_count incremented.
func (s *SquadService) Choose(walletAddress, squadID string, renew bool) (*models.User, error) {
	if walletAddress == "" {
		return nil, validationf("wallet_address is required")
	}
	if squadID == "" {
		return nil, validationf("squad_id is required")
	}

	var squad models.Squad
	if err := s.DB.Where("id = ? OR name = ?", squadID, squadID).First(&squad).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: squad %q", ErrNotFound, squadID)
		}
		return nil, err
	}

	now := time.Now()
	var updated *models.User
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		user, err := ensureUser(tx, walletAddress)
		if err != nil {
			return err
		}

		switch {
		case user.SquadID == nil:
			// first selection
			applySquad(user, &squad, now)
			user.SquadChangeCount = 1

		case renew && *user.SquadID == squad.ID:
			// renewal of the same squad: always allowed, lock re-armed,
			// change count untouched
			lockEnd := now.AddDate(0, 0, SquadLockDays)
			user.SquadSelectedAt = &now
			user.SquadLockEndDate = &lockEnd

		case *user.SquadID != squad.ID &&
			user.SquadLockEndDate != nil && now.Before(*user.SquadLockEndDate):
			return &SquadLockedError{
				CurrentSquad:  derefStr(user.Squad),
				TargetSquad:   squad.Name,
				LockEndsAt:    *user.SquadLockEndDate,
				RemainingDays: RemainingLockDays(*user.SquadLockEndDate, now),
			}

		default:
			// lock expired, or re-selecting the current squad without the
			// renew flag: treated as a fresh selection
			applySquad(user, &squad, now)
			user.SquadChangeCount++
		}

		if err := tx.Save(user).Error; err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🛡️ Squad set: %s → %s (changes=%d, lock until %s)",
		walletAddress, squad.Name, updated.SquadChangeCount,
		updated.SquadLockEndDate.Format(time.RFC3339))
	return updated, nil
}

// RemoveSquad clears all squad fields for a wallet (admin reset).
func (s *SquadService) RemoveSquad(walletAddress string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("wallet_address = ?", walletAddress).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, walletAddress)
		}
		return nil, err
	}
	user.Squad = nil
	user.SquadID = nil
	user.SquadSelectedAt = nil
	user.SquadLockEndDate = nil
	if err := s.DB.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func applySquad(user *models.User, squad *models.Squad, now time.Time) {
	lockEnd := now.AddDate(0, 0, SquadLockDays)
	user.Squad = &squad.Name
	user.SquadID = &squad.ID
	user.SquadSelectedAt = &now
	user.SquadLockEndDate = &lockEnd
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
