package models

import "time"

// XPEventType tags the activity that earned the XP. Used for analytics and
// as part of the idempotency key, never for business logic.
type XPEventType string

const (
	XPEventExam       XPEventType = "exam"
	XPEventBounty     XPEventType = "bounty"
	XPEventCourse     XPEventType = "course"
	XPEventDailyClaim XPEventType = "daily_claim"
	XPEventAdmin      XPEventType = "admin"
)

// XPEvent is the award ledger. The composite unique index on
// (wallet_address, event_type, reference_id) is the single duplicate-award
// guard for every one-shot credit: replays hit the constraint and no-op.
type XPEvent struct {
	ID            string      `gorm:"primaryKey;type:uuid" json:"id"`
	WalletAddress string      `gorm:"uniqueIndex:idx_xp_event_ref;not null" json:"wallet_address"`
	EventType     XPEventType `gorm:"uniqueIndex:idx_xp_event_ref;type:varchar(32);not null" json:"event_type"`
	ReferenceID   string      `gorm:"uniqueIndex:idx_xp_event_ref;not null" json:"reference_id"`

	XPAmount int64  `gorm:"not null" json:"xp_amount"`
	Note     string `gorm:"type:text" json:"note,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// ActivityLog rows are best-effort: writes are fire-and-forget and a failed
// insert never fails the operation being logged.
type ActivityLog struct {
	ID            string  `gorm:"primaryKey;type:uuid" json:"id"`
	WalletAddress string  `gorm:"index;not null" json:"wallet_address"`
	Action        string  `gorm:"type:varchar(64);not null" json:"action"` // e.g., "exam_approved"
	Metadata      JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// DailyClaim grants the once-per-UTC-day XP stipend. ClaimDay is the
// YYYY-MM-DD bucket; the unique index makes double claims impossible.
type DailyClaim struct {
	ID            string `gorm:"primaryKey;type:uuid" json:"id"`
	WalletAddress string `gorm:"uniqueIndex:idx_daily_claim_day;not null" json:"wallet_address"`
	ClaimDay      string `gorm:"uniqueIndex:idx_daily_claim_day;type:varchar(10);not null" json:"claim_day"`
	XPAmount      int64  `gorm:"not null" json:"xp_amount"`

	ClaimedAt time.Time `json:"claimed_at" gorm:"autoCreateTime"`
}
