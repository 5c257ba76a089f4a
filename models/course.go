package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// LessonStatus is the per-lesson 3-state machine: locked → unlocked → completed.
type LessonStatus string

const (
	LessonLocked    LessonStatus = "locked"
	LessonUnlocked  LessonStatus = "unlocked"
	LessonCompleted LessonStatus = "completed"
)

// LessonEntry is one element of a course's ordered lesson_data list.
type LessonEntry struct {
	Index  int          `json:"index"`
	Status LessonStatus `json:"status"`
}

// LessonData is stored as a JSON column so single-lesson merges can be done
// in Go without losing sibling entries.
type LessonData []LessonEntry

func (d LessonData) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	b, err := json.Marshal(d)
	return string(b), err
}

func (d *LessonData) Scan(value interface{}) error {
	if value == nil {
		*d = LessonData{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("unsupported lesson_data column type %T", value)
	}
}

// Course is published academy content. Hidden courses stay out of listings;
// scheduled courses flip to published by the content scheduler.
type Course struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	Slug        string  `gorm:"uniqueIndex;not null" json:"slug"` // e.g., "nft-mastery"
	Title       string  `gorm:"not null" json:"title"`
	Emoji       string  `gorm:"size:10" json:"emoji"`
	Description string  `gorm:"type:text" json:"description,omitempty"`
	Badge       string  `json:"badge,omitempty"`
	SquadID     *string `gorm:"type:varchar(64);index" json:"squad_id,omitempty"` // nil = open to all squads
	Level       string  `gorm:"type:varchar(16);default:'beginner'" json:"level"` // beginner/intermediate/expert

	TotalLessons int        `gorm:"not null;default:0" json:"total_lessons"`
	IsPublished  bool       `gorm:"default:false;index" json:"is_published"`
	IsHidden     bool       `gorm:"default:false" json:"is_hidden"`
	PublishAt    *time.Time `json:"publish_at,omitempty"` // scheduled publishing

	Timestamps
}

// CourseProgress tracks a wallet's per-lesson status for one course.
// completion_percentage is always derived from lesson_data, never set directly.
type CourseProgress struct {
	ID            string `gorm:"primaryKey;type:uuid" json:"id"`
	WalletAddress string `gorm:"uniqueIndex:idx_progress_wallet_course;not null" json:"wallet_address"`
	CourseSlug    string `gorm:"uniqueIndex:idx_progress_wallet_course;not null" json:"course_slug"`

	LessonData           LessonData `gorm:"type:jsonb" json:"lesson_data"`
	CompletionPercentage int        `gorm:"default:0" json:"completion_percentage"` // round(100*completed/total)
	CompletedAt          *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// CourseCompletion is the idempotent "wallet finished course" record.
// The unique index is what makes exam-pass / approval replays safe.
type CourseCompletion struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	WalletAddress string    `gorm:"uniqueIndex:idx_completion_wallet_course;not null" json:"wallet_address"`
	CourseSlug    string    `gorm:"uniqueIndex:idx_completion_wallet_course;not null" json:"course_slug"`
	Source        string    `gorm:"type:varchar(32)" json:"source"` // "exam", "progress", "admin"
	CompletedAt   time.Time `json:"completed_at" gorm:"autoCreateTime"`
}
