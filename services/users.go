package services

import (
	"fmt"
	"time"

	"hoodie-academy-service/models"

	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// EnsureUser returns the profile for a wallet, creating it on first touch.
// Every entity in the system is keyed on wallet_address and created lazily.
func (s *UserService) EnsureUser(walletAddress string) (*models.User, error) {
	return ensureUser(s.DB, walletAddress)
}

func ensureUser(db *gorm.DB, walletAddress string) (*models.User, error) {
	if walletAddress == "" {
		return nil, validationf("wallet_address is required")
	}
	var user models.User
	err := db.Where("wallet_address = ?", walletAddress).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		user = models.User{
			WalletAddress: walletAddress,
			TotalXP:       0,
			Level:         1,
		}
		if err := db.Create(&user).Error; err != nil {
			if isDuplicateKeyErr(err) {
				// lost a create race, the row exists now
				if err := db.Where("wallet_address = ?", walletAddress).First(&user).Error; err != nil {
					return nil, err
				}
				return &user, nil
			}
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser fetches a profile without creating it.
func (s *UserService) GetUser(walletAddress string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("wallet_address = ?", walletAddress).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, walletAddress)
		}
		return nil, err
	}
	return &user, nil
}

// SetDisplayName updates the display name (lazy-creating the profile).
func (s *UserService) SetDisplayName(walletAddress, displayName string) (*models.User, error) {
	if displayName == "" {
		return nil, validationf("display_name is required")
	}
	user, err := s.EnsureUser(walletAddress)
	if err != nil {
		return nil, err
	}
	user.DisplayName = displayName
	if err := s.DB.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// SetBanned flips the ban flag. Banned wallets drop out of the leaderboard.
func (s *UserService) SetBanned(walletAddress string, banned bool) (*models.User, error) {
	user, err := s.GetUser(walletAddress)
	if err != nil {
		return nil, err
	}
	user.Banned = banned
	if err := s.DB.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// IsAdmin reports whether a wallet has admin rights. Unknown wallets are not
// admins; no row is created.
func (s *UserService) IsAdmin(walletAddress string) (bool, error) {
	var user models.User
	err := s.DB.Select("is_admin").Where("wallet_address = ?", walletAddress).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}

// TouchLastActive stamps last_active_at, best-effort.
func (s *UserService) TouchLastActive(walletAddress string) {
	now := time.Now()
	_ = s.DB.Model(&models.User{}).
		Where("wallet_address = ?", walletAddress).
		Update("last_active_at", now).Error
}
