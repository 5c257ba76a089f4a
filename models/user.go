package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the wallet-keyed academy profile. Rows are created lazily on the
// first interaction from a wallet and never deleted.
type User struct {
	WalletAddress string `gorm:"primaryKey;type:varchar(64)" json:"wallet_address"`
	DisplayName   string `gorm:"type:varchar(64)" json:"display_name"`

	// Core progression
	TotalXP int64 `json:"total_xp" gorm:"default:0"`
	Level   int   `json:"level" gorm:"default:1"` // floor(total_xp/1000)+1

	// Squad membership (30-day re-selection lock)
	Squad            *string    `gorm:"type:varchar(64);index" json:"squad,omitempty"`
	SquadID          *string    `gorm:"type:varchar(64)" json:"squad_id,omitempty"`
	SquadSelectedAt  *time.Time `json:"squad_selected_at,omitempty"`
	SquadLockEndDate *time.Time `json:"squad_lock_end_date,omitempty"`
	SquadChangeCount int        `json:"squad_change_count" gorm:"default:0"`

	IsAdmin bool `json:"is_admin" gorm:"default:false"`
	Banned  bool `json:"banned" gorm:"default:false;index"`

	LastActiveAt *time.Time `json:"last_active_at,omitempty"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Squad: static cohort config, seeded at boot and selectable by users.
type Squad struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)" json:"id"` // e.g., "hoodie-creators"
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`      // e.g., "Creators"
	Emoji       string    `gorm:"size:10" json:"emoji"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// DefaultSquads is the seed roster (upserted at boot, admin can extend).
var DefaultSquads = []Squad{
	{ID: "hoodie-creators", Name: "Creators", Emoji: "🎨", Description: "Content and brand builders"},
	{ID: "hoodie-decoders", Name: "Decoders", Emoji: "🧠", Description: "Technical analysis crew"},
	{ID: "hoodie-speakers", Name: "Speakers", Emoji: "🎤", Description: "Community voice and spaces hosts"},
	{ID: "hoodie-raiders", Name: "Raiders", Emoji: "⚔️", Description: "Social raid squad"},
	{ID: "hoodie-rangers", Name: "Rangers", Emoji: "🦅", Description: "Scouts and multi-discipline generalists"},
}
