package services

import (
	"log"

	"hoodie-academy-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityService appends best-effort audit rows. A failed insert is logged
// and swallowed so it can never fail the operation being recorded.
type ActivityService struct {
	DB *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{DB: db}
}

// Log writes one activity row, fire-and-forget.
func (s *ActivityService) Log(walletAddress, action string, metadata models.JSONMap) {
	entry := models.ActivityLog{
		ID:            uuid.NewString(),
		WalletAddress: walletAddress,
		Action:        action,
		Metadata:      metadata,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		log.Printf("⚠️  activity log insert failed (%s/%s): %v", walletAddress, action, err)
	}
}

// Recent returns the newest activity rows, optionally filtered by wallet.
func (s *ActivityService) Recent(walletAddress string, limit int) ([]models.ActivityLog, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	q := s.DB.Order("created_at DESC").Limit(limit)
	if walletAddress != "" {
		q = q.Where("wallet_address = ?", walletAddress)
	}
	var rows []models.ActivityLog
	err := q.Find(&rows).Error
	return rows, err
}
