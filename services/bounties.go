package services

import (
	"fmt"
	"log"
	"time"

	"hoodie-academy-service/cache"
	"hoodie-academy-service/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type BountyService struct {
	DB       *gorm.DB
	XP       *XPService
	Activity *ActivityService
}

func NewBountyService(db *gorm.DB, c *cache.Client) *BountyService {
	return &BountyService{
		DB:       db,
		XP:       NewXPService(db, c),
		Activity: NewActivityService(db),
	}
}

// ListBounties returns visible bounties; includeHidden is for admins.
func (s *BountyService) ListBounties(includeHidden bool) ([]models.Bounty, error) {
	q := s.DB.Order("created_at DESC")
	if !includeHidden {
		q = q.Where("hidden = ?", false)
	}
	var bounties []models.Bounty
	err := q.Find(&bounties).Error
	return bounties, err
}

// GetBounty fetches a bounty by id or slug.
func (s *BountyService) GetBounty(idOrSlug string) (*models.Bounty, error) {
	var bounty models.Bounty
	if err := s.DB.Where("id = ? OR slug = ?", idOrSlug, idOrSlug).First(&bounty).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: bounty %q", ErrNotFound, idOrSlug)
		}
		return nil, err
	}
	return &bounty, nil
}

// CreateBounty creates an admin-authored bounty; the slug is derived from
// the title. A publish_at in the future keeps the bounty hidden until the
// scheduler flips it.
func (s *BountyService) CreateBounty(b *models.Bounty) (*models.Bounty, error) {
	if b.Title == "" {
		return nil, validationf("title is required")
	}
	if b.XPReward < 0 {
		return nil, validationf("xp_reward must be >= 0")
	}
	b.ID = uuid.NewString()
	if b.Slug == "" {
		b.Slug = slug.Make(b.Title)
	}
	if b.Status == "" {
		b.Status = models.BountyActive
	}
	if b.PublishAt != nil && b.PublishAt.After(time.Now()) {
		b.Hidden = true
	}
	if err := s.DB.Create(b).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return nil, fmt.Errorf("%w: bounty slug %q already exists", ErrConflict, b.Slug)
		}
		return nil, err
	}
	return b, nil
}

// Submit records a wallet's entry for a bounty. The bounty must be active,
// visible, within its deadline, and open to the wallet's squad.
func (s *BountyService) Submit(walletAddress, bountyID, title, description, imageURL string) (*models.BountySubmission, error) {
	if walletAddress == "" {
		return nil, validationf("wallet_address is required")
	}
	if bountyID == "" {
		return nil, validationf("bounty_id is required")
	}

	bounty, err := s.GetBounty(bountyID)
	if err != nil {
		return nil, err
	}
	if bounty.Status != models.BountyActive || bounty.Hidden {
		return nil, fmt.Errorf("%w: bounty %q is not open for submissions", ErrNotFound, bountyID)
	}
	if bounty.Deadline != nil && time.Now().After(*bounty.Deadline) {
		return nil, fmt.Errorf("%w: bounty %q deadline has passed", ErrForbidden, bountyID)
	}

	user, err := ensureUser(s.DB, walletAddress)
	if err != nil {
		return nil, err
	}
	if bounty.SquadID != nil {
		if user.SquadID == nil || *user.SquadID != *bounty.SquadID {
			return nil, fmt.Errorf("%w: bounty %q is restricted to squad %s", ErrForbidden, bountyID, *bounty.SquadID)
		}
	}

	submission := models.BountySubmission{
		ID:            uuid.NewString(),
		WalletAddress: walletAddress,
		BountyID:      bounty.ID,
		Title:         title,
		Description:   description,
		ImageURL:      imageURL,
		Status:        models.SubmissionPending,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&submission).Error; err != nil {
			return err
		}
		return tx.Model(&models.Bounty{}).
			Where("id = ?", bounty.ID).
			Update("submissions", gorm.Expr("submissions + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🏹 Bounty submission: %s → %s (%s)", walletAddress, bounty.Slug, submission.ID)
	return &submission, nil
}

// Approve settles a pending submission: XP through the ledger (reference is
// the bounty id, so a wallet is paid once per bounty even on replay), then a
// best-effort activity log. Terminal; re-decisions conflict.
func (s *BountyService) Approve(submissionID, adminWallet string) (*models.BountySubmission, *AwardResult, error) {
	submission, bounty, err := s.loadPending(submissionID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	submission.Status = models.SubmissionApproved
	submission.ReviewedBy = &adminWallet
	submission.ReviewedAt = &now

	var award *AwardResult
	if bounty.XPReward > 0 {
		award, err = s.XP.Award(submission.WalletAddress, bounty.XPReward, models.XPEventBounty, bounty.ID,
			fmt.Sprintf("bounty %s", bounty.Slug))
		if err != nil {
			return nil, nil, err
		}
		if !award.AlreadyAwarded {
			submission.XPAwarded = bounty.XPReward
		}
	}
	if err := s.DB.Save(submission).Error; err != nil {
		return nil, nil, err
	}

	s.Activity.Log(submission.WalletAddress, "bounty_approved", models.JSONMap{
		"bounty_id":     bounty.ID,
		"submission_id": submission.ID,
		"xp":            submission.XPAwarded,
		"approved_by":   adminWallet,
	})
	return submission, award, nil
}

// Reject marks a pending submission rejected. No XP.
func (s *BountyService) Reject(submissionID, adminWallet, reason string) (*models.BountySubmission, error) {
	submission, bounty, err := s.loadPending(submissionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	submission.Status = models.SubmissionRejected
	submission.ReviewedBy = &adminWallet
	submission.ReviewedAt = &now
	if err := s.DB.Save(submission).Error; err != nil {
		return nil, err
	}

	s.Activity.Log(submission.WalletAddress, "bounty_rejected", models.JSONMap{
		"bounty_id":     bounty.ID,
		"submission_id": submission.ID,
		"reason":        reason,
		"rejected_by":   adminWallet,
	})
	return submission, nil
}

func (s *BountyService) loadPending(submissionID string) (*models.BountySubmission, *models.Bounty, error) {
	if submissionID == "" {
		return nil, nil, validationf("submission_id is required")
	}
	var submission models.BountySubmission
	if err := s.DB.Where("id = ?", submissionID).First(&submission).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, fmt.Errorf("%w: submission %q", ErrNotFound, submissionID)
		}
		return nil, nil, err
	}
	if submission.Status != models.SubmissionPending {
		return nil, nil, fmt.Errorf("%w: submission %q already %s", ErrConflict, submissionID, submission.Status)
	}
	bounty, err := s.GetBounty(submission.BountyID)
	if err != nil {
		return nil, nil, err
	}
	return &submission, bounty, nil
}

// SubmissionsForBounty lists entries for a bounty (admin review queue).
func (s *BountyService) SubmissionsForBounty(bountyID string, status models.SubmissionStatus) ([]models.BountySubmission, error) {
	q := s.DB.Where("bounty_id = ?", bountyID).Order("created_at ASC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rows []models.BountySubmission
	err := q.Find(&rows).Error
	return rows, err
}

// SubmissionsForWallet lists a wallet's bounty entries, newest first.
func (s *BountyService) SubmissionsForWallet(walletAddress string) ([]models.BountySubmission, error) {
	var rows []models.BountySubmission
	err := s.DB.Where("wallet_address = ?", walletAddress).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
