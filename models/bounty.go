package models

import "time"

// BountyStatus is the lifecycle of the bounty itself (not of submissions).
type BountyStatus string

const (
	BountyActive    BountyStatus = "active"
	BountyCompleted BountyStatus = "completed"
	BountyExpired   BountyStatus = "expired"
)

// SubmissionStatus is the admin review state machine: pending → approved|rejected.
// Both outcomes are terminal.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// Bounty is a task wallets can submit work against for XP (and optionally SOL).
type Bounty struct {
	ID        string  `gorm:"primaryKey;type:uuid" json:"id"`
	Slug      string  `gorm:"uniqueIndex;not null" json:"slug"`
	Title     string  `gorm:"not null" json:"title"`
	ShortDesc string  `gorm:"type:text" json:"short_desc,omitempty"`
	SquadID   *string `gorm:"type:varchar(64);index" json:"squad_id,omitempty"` // nil = open bounty

	XPReward int64   `gorm:"not null;default:0" json:"xp_reward"`
	SolPrize float64 `json:"sol_prize,omitempty"`

	Status      BountyStatus `gorm:"type:varchar(16);default:'active';index" json:"status"`
	Hidden      bool         `gorm:"default:false" json:"hidden"`
	Submissions int64        `gorm:"default:0" json:"submissions"`
	Deadline    *time.Time   `json:"deadline,omitempty"`
	PublishAt   *time.Time   `json:"publish_at,omitempty"` // scheduled publishing (Hidden until then)

	Timestamps
}

// BountySubmission is one wallet's entry for a bounty, reviewed by an admin.
type BountySubmission struct {
	ID            string `gorm:"primaryKey;type:uuid" json:"id"`
	WalletAddress string `gorm:"index;not null" json:"wallet_address"`
	BountyID      string `gorm:"index;not null" json:"bounty_id"`

	Title       string `json:"title,omitempty"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	ImageURL    string `gorm:"type:text" json:"image_url,omitempty"` // R2 upload

	Status     SubmissionStatus `gorm:"type:varchar(16);default:'pending';index" json:"status"`
	XPAwarded  int64            `gorm:"default:0" json:"xp_awarded"`
	ReviewedBy *string          `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time       `json:"reviewed_at,omitempty"`

	Timestamps
}
